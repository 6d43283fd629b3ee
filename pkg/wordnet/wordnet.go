// Package wordnet parses RuWordNet XML dumps and loads them into a store.
package wordnet

import (
	"context"
	"log/slog"

	"github.com/japaniel/ruwordnet/pkg/db"
	"github.com/pkg/errors"
)

// Store is the persistence the Wordnet needs. *db.Store implements it.
type Store interface {
	IsEmpty(ctx context.Context) (bool, error)
	Import(ctx context.Context, recs *db.Records) error
	Close() error
}

// Options configures how a dump is imported.
type Options struct {
	// WithLemmas also imports the text of senses nested in synsets.
	WithLemmas bool
	// Logger receives progress messages. nil means no logging.
	Logger *slog.Logger
}

// Wordnet is a store populated from a dump. It owns the store.
type Wordnet struct {
	store      Store
	withLemmas bool
	imported   bool
	logger     *slog.Logger
}

// New wraps store, importing the dump at dumpRoot when the store is empty.
// A store that already holds synsets is used as is. New does not close
// store on error; the caller still owns it until New succeeds.
func New(ctx context.Context, store Store, dumpRoot string, opts Options) (*Wordnet, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	wn := &Wordnet{
		store:      store,
		withLemmas: opts.WithLemmas,
		logger:     logger,
	}

	empty, err := store.IsEmpty(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not check store")
	}
	if !empty {
		logger.Debug("store already populated, skipping import")
		return wn, nil
	}

	logger.Info("inserting data to database", "dump", dumpRoot)
	recs, err := wn.readDump(dumpRoot)
	if err != nil {
		return nil, err
	}
	if err := store.Import(ctx, recs); err != nil {
		return nil, errors.Wrap(err, "could not import dump")
	}
	logger.Info("import complete",
		"synsets", len(recs.Synsets),
		"senses", len(recs.Senses),
		"relations", len(recs.Relations),
		"lemmas", len(recs.Lemmas))

	wn.imported = true
	return wn, nil
}

// Open opens the SQLite store at dbPath and wraps it with New. The store is
// closed again if anything fails.
func Open(ctx context.Context, dbPath, dumpRoot string, storeOpts db.Options, opts Options) (*Wordnet, error) {
	store, err := db.Open(dbPath, storeOpts)
	if err != nil {
		return nil, err
	}
	wn, err := New(ctx, store, dumpRoot, opts)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wn, nil
}

// WithLemmas reports whether sense lemmas are imported.
func (wn *Wordnet) WithLemmas() bool { return wn.withLemmas }

// Imported reports whether constructing wn performed an import.
func (wn *Wordnet) Imported() bool { return wn.imported }

// Store returns the underlying store.
func (wn *Wordnet) Store() Store { return wn.store }

// Close releases the store.
func (wn *Wordnet) Close() error { return wn.store.Close() }

// readDump parses every file of the dump at root.
func (wn *Wordnet) readDump(root string) (*db.Records, error) {
	files, err := FindFiles(root)
	if err != nil {
		return nil, err
	}

	recs := &db.Records{}
	for _, path := range files.Synsets {
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, err
		}
		synsets, err := doc.Synsets()
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse synsets in %s", path)
		}
		recs.Synsets = append(recs.Synsets, synsets...)

		if wn.withLemmas {
			lemmas, err := doc.SenseLemmas()
			if err != nil {
				return nil, errors.Wrapf(err, "could not parse sense lemmas in %s", path)
			}
			recs.Lemmas = append(recs.Lemmas, lemmas...)
		}
		wn.logger.Debug("parsed synsets", "file", path, "count", len(synsets))
	}
	if len(recs.Synsets) == 0 {
		return nil, errors.Wrapf(ErrNoSynsets, "dump %s", root)
	}

	for _, path := range files.Senses {
		senses, err := ParseSenses(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse senses in %s", path)
		}
		recs.Senses = append(recs.Senses, senses...)
		wn.logger.Debug("parsed senses", "file", path, "count", len(senses))
	}

	for _, path := range files.Relations {
		relations, err := ParseRelations(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse relations in %s", path)
		}
		recs.Relations = append(recs.Relations, relations...)
		wn.logger.Debug("parsed relations", "file", path, "count", len(relations))
	}

	return recs, nil
}
