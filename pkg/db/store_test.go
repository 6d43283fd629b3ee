package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestStore(t *testing.T, opts Options) *Store {
	s, err := Open(":memory:", opts)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func sampleRecords() *Records {
	return &Records{
		Synsets: []Synset{
			{ID: "1", Name: "ЕДА"},
			{ID: "2", Name: "ХЛЕБ"},
			{ID: "3", Name: "БАТОН"},
		},
		Senses: []Sense{
			{ID: "1-1", SynsetID: "1", Name: "ЕДА"},
			{ID: "1-2", SynsetID: "1", Name: "ПИЩА"},
			{ID: "2-1", SynsetID: "2", Name: "ХЛЕБ"},
		},
		Relations: []Relation{
			{ParentID: "1", ChildID: "2"},
			{ParentID: "2", ChildID: "3"},
		},
		Lemmas: []SenseLemma{
			{SenseID: "1-1", SynsetID: "1", Lemma: "ЕДА"},
		},
	}
}

func TestIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, Options{})
	defer s.Close()

	empty, err := s.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("is empty: %v", err)
	}
	if !empty {
		t.Fatalf("expected fresh store to be empty")
	}

	if err := s.Import(ctx, sampleRecords()); err != nil {
		t.Fatalf("import: %v", err)
	}
	empty, err = s.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("is empty: %v", err)
	}
	if empty {
		t.Fatalf("expected store to be populated after import")
	}
}

func TestImportAndQuery(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, Options{BatchSize: 2})
	defer s.Close()

	if err := s.Import(ctx, sampleRecords()); err != nil {
		t.Fatalf("import: %v", err)
	}

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c != (Counts{Synsets: 3, Senses: 3, Relations: 2, Lemmas: 1}) {
		t.Fatalf("unexpected counts %+v", c)
	}

	syn, err := s.Synset(ctx, "1")
	if err != nil {
		t.Fatalf("synset: %v", err)
	}
	if syn.Name != "ЕДА" {
		t.Fatalf("expected ЕДА, got %s", syn.Name)
	}

	hyper, err := s.Hypernyms(ctx, "3")
	if err != nil {
		t.Fatalf("hypernyms: %v", err)
	}
	if len(hyper) != 1 || hyper[0].ID != "2" {
		t.Fatalf("expected hypernym 2, got %v", hyper)
	}

	hypo, err := s.Hyponyms(ctx, "1")
	if err != nil {
		t.Fatalf("hyponyms: %v", err)
	}
	if len(hypo) != 1 || hypo[0].ID != "2" {
		t.Fatalf("expected hyponym 2, got %v", hypo)
	}

	senses, err := s.Senses(ctx, "1")
	if err != nil {
		t.Fatalf("senses: %v", err)
	}
	if len(senses) != 2 {
		t.Fatalf("expected 2 senses, got %d", len(senses))
	}
}

func TestSynsetNotFound(t *testing.T) {
	s := setupTestStore(t, Options{})
	defer s.Close()

	_, err := s.Synset(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestImportRollsBackOnError checks that a failing row leaves no partial
// data behind, so the store still reports empty.
func TestImportRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, Options{BatchSize: 1})
	defer s.Close()

	recs := sampleRecords()
	recs.Synsets = append(recs.Synsets, Synset{ID: "1", Name: "ДУБЛЬ"})

	if err := s.Import(ctx, recs); err == nil {
		t.Fatalf("expected duplicate synset id to fail the import")
	}
	empty, err := s.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("is empty: %v", err)
	}
	if !empty {
		t.Fatalf("expected rollback to leave store empty")
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, Options{ForeignKeys: true})
	defer s.Close()

	recs := &Records{
		Synsets:   []Synset{{ID: "1", Name: "ЕДА"}},
		Relations: []Relation{{ParentID: "1", ChildID: "404"}},
	}
	if err := s.Import(ctx, recs); err == nil {
		t.Fatalf("expected dangling relation to be rejected")
	}
}

func TestForeignKeysOffAllowsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t, Options{})
	defer s.Close()

	recs := &Records{
		Synsets:   []Synset{{ID: "1", Name: "ЕДА"}},
		Relations: []Relation{{ParentID: "1", ChildID: "404"}},
	}
	if err := s.Import(ctx, recs); err != nil {
		t.Fatalf("import: %v", err)
	}
}

func TestOpenFileReopensPopulatedStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ruwordnet.db")

	s, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Import(ctx, sampleRecords()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	empty, err := s.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("is empty: %v", err)
	}
	if empty {
		t.Fatalf("expected reopened store to keep its rows")
	}
}
