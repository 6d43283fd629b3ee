package wordnet

import (
	"github.com/japaniel/ruwordnet/pkg/db"
	"github.com/pkg/errors"
)

// Relation kinds that are kept. Every other kind is dropped at parse time.
const (
	KindHypernym         = "hypernym"
	KindInstanceHypernym = "instance hypernym"
)

// IsHypernymKind reports whether a relation kind is one the loader keeps.
func IsHypernymKind(kind string) bool {
	return kind == KindHypernym || kind == KindInstanceHypernym
}

// ParseSynsets returns one synset per <synset> element of the file.
func ParseSynsets(path string) ([]db.Synset, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Synsets()
}

// ParseRelations returns the hypernym relations of the file.
func ParseRelations(path string) ([]db.Relation, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Relations()
}

// ParseSenseLemmas returns the senses nested in the file's synsets, with the
// sense text as lemma.
func ParseSenseLemmas(path string) ([]db.SenseLemma, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.SenseLemmas()
}

// ParseSenses returns one sense per <sense> element of the file.
func ParseSenses(path string) ([]db.Sense, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Senses()
}

// Synsets projects every <synset> element to (id, ruthes_name). Duplicate
// ids are passed through.
func (d *Document) Synsets() ([]db.Synset, error) {
	var out []db.Synset
	for _, el := range d.FindAll("synset") {
		id, err := requiredAttr(el, "id")
		if err != nil {
			return nil, err
		}
		name, err := requiredAttr(el, "ruthes_name")
		if err != nil {
			return nil, errors.Wrapf(err, "synset %s", id)
		}
		out = append(out, db.Synset{ID: id, Name: name})
	}
	return out, nil
}

// Relations projects every hypernym <relation> element to
// (parent_id, child_id).
func (d *Document) Relations() ([]db.Relation, error) {
	var out []db.Relation
	for _, el := range d.FindAll("relation") {
		kind, err := requiredAttr(el, "name")
		if err != nil {
			return nil, err
		}
		if !IsHypernymKind(kind) {
			continue
		}
		parent, err := requiredAttr(el, "parent_id")
		if err != nil {
			return nil, err
		}
		child, err := requiredAttr(el, "child_id")
		if err != nil {
			return nil, err
		}
		out = append(out, db.Relation{ParentID: parent, ChildID: child})
	}
	return out, nil
}

// SenseLemmas walks <synset> elements and their nested <sense> elements.
func (d *Document) SenseLemmas() ([]db.SenseLemma, error) {
	var out []db.SenseLemma
	for _, synset := range d.FindAll("synset") {
		synsetID, err := requiredAttr(synset, "id")
		if err != nil {
			return nil, err
		}
		for _, sense := range findAllIn(synset, "sense") {
			senseID, err := requiredAttr(sense, "id")
			if err != nil {
				return nil, errors.Wrapf(err, "synset %s", synsetID)
			}
			out = append(out, db.SenseLemma{
				SenseID:  senseID,
				SynsetID: synsetID,
				Lemma:    textOf(sense),
			})
		}
	}
	return out, nil
}

// Senses projects every <sense> element to (id, synset_id, name).
func (d *Document) Senses() ([]db.Sense, error) {
	var out []db.Sense
	for _, el := range d.FindAll("sense") {
		id, err := requiredAttr(el, "id")
		if err != nil {
			return nil, err
		}
		synsetID, err := requiredAttr(el, "synset_id")
		if err != nil {
			return nil, errors.Wrapf(err, "sense %s", id)
		}
		name, err := requiredAttr(el, "name")
		if err != nil {
			return nil, errors.Wrapf(err, "sense %s", id)
		}
		out = append(out, db.Sense{ID: id, SynsetID: synsetID, Name: name})
	}
	return out, nil
}
