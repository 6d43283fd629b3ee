package db

// Synset is a set of synonymous senses sharing one concept identifier.
type Synset struct {
	ID   string
	Name string
}

// Sense is a lexical entry as listed in a senses file.
type Sense struct {
	ID       string
	SynsetID string
	Name     string
}

// SenseLemma is a sense nested inside a synset element, carrying the
// element's text as its lemma.
type SenseLemma struct {
	SenseID  string
	SynsetID string
	Lemma    string
}

// Relation is a hypernym edge from a child synset to its parent.
type Relation struct {
	ParentID string
	ChildID  string
}

// Records holds everything parsed from one dump.
type Records struct {
	Synsets   []Synset
	Senses    []Sense
	Relations []Relation
	Lemmas    []SenseLemma
}

// Counts holds the number of rows per table.
type Counts struct {
	Synsets   int
	Senses    int
	Relations int
	Lemmas    int
}
