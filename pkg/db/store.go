package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ErrNotFound is returned when a looked up row does not exist.
var ErrNotFound = errors.New("not found")

// Options configures how a Store is opened.
type Options struct {
	// ForeignKeys turns on SQLite foreign key enforcement, so senses and
	// relations must reference imported synsets.
	ForeignKeys bool
	// BatchSize is the number of rows per multi-row INSERT. Zero means
	// DefaultBatchSize.
	BatchSize int
}

// Store is a SQLite-backed wordnet store.
type Store struct {
	conn      *sql.DB
	batchSize int
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations. The returned Store must be closed by the caller.
func Open(path string, opts Options) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn(path, opts.ForeignKeys))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// A single connection keeps :memory: databases shared and serializes writes.
	conn.SetMaxOpenConns(1)

	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize database %s: %w", path, err)
	}
	return NewStore(conn, opts.BatchSize), nil
}

// NewStore wraps an already migrated connection.
func NewStore(conn *sql.DB, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{conn: conn, batchSize: batchSize}
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB { return s.conn }

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// IsEmpty reports whether the synsets table has no rows.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	var one int
	err := s.conn.QueryRowContext(ctx, `SELECT 1 FROM synsets LIMIT 1`).Scan(&one)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check synsets: %w", err)
	}
	return false, nil
}

// Import inserts all records in one transaction. On any error the
// transaction is rolled back and the store is left as it was.
func (s *Store) Import(ctx context.Context, recs *Records) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if err := InsertSynsets(ctx, tx, recs.Synsets, s.batchSize); err != nil {
		return err
	}
	if err := InsertSenses(ctx, tx, recs.Senses, s.batchSize); err != nil {
		return err
	}
	if err := InsertRelations(ctx, tx, recs.Relations, s.batchSize); err != nil {
		return err
	}
	if err := InsertSenseLemmas(ctx, tx, recs.Lemmas, s.batchSize); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// InsertSynsets bulk inserts synsets.
func InsertSynsets(ctx context.Context, db DBExecutor, synsets []Synset, batchSize int) error {
	bi := newBatchInserter(db, "synsets", []string{"id", "name"}, batchSize)
	for _, s := range synsets {
		if err := bi.Add(ctx, s.ID, s.Name); err != nil {
			return err
		}
	}
	return bi.Close(ctx)
}

// InsertSenses bulk inserts senses.
func InsertSenses(ctx context.Context, db DBExecutor, senses []Sense, batchSize int) error {
	bi := newBatchInserter(db, "senses", []string{"id", "synset_id", "name"}, batchSize)
	for _, s := range senses {
		if err := bi.Add(ctx, s.ID, s.SynsetID, s.Name); err != nil {
			return err
		}
	}
	return bi.Close(ctx)
}

// InsertRelations bulk inserts hypernym relations.
func InsertRelations(ctx context.Context, db DBExecutor, relations []Relation, batchSize int) error {
	bi := newBatchInserter(db, "relations", []string{"parent_id", "child_id"}, batchSize)
	for _, r := range relations {
		if err := bi.Add(ctx, r.ParentID, r.ChildID); err != nil {
			return err
		}
	}
	return bi.Close(ctx)
}

// InsertSenseLemmas bulk inserts lemmas of synset-nested senses.
func InsertSenseLemmas(ctx context.Context, db DBExecutor, lemmas []SenseLemma, batchSize int) error {
	bi := newBatchInserter(db, "sense_lemmas", []string{"sense_id", "synset_id", "lemma"}, batchSize)
	for _, l := range lemmas {
		if err := bi.Add(ctx, l.SenseID, l.SynsetID, l.Lemma); err != nil {
			return err
		}
	}
	return bi.Close(ctx)
}

// Counts returns the number of rows in each table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.conn.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM synsets),
		(SELECT COUNT(*) FROM senses),
		(SELECT COUNT(*) FROM relations),
		(SELECT COUNT(*) FROM sense_lemmas)`).Scan(&c.Synsets, &c.Senses, &c.Relations, &c.Lemmas)
	if err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return c, nil
}

// Synset returns the synset with the given id, or ErrNotFound.
func (s *Store) Synset(ctx context.Context, id string) (Synset, error) {
	var out Synset
	err := s.conn.QueryRowContext(ctx, `SELECT id, name FROM synsets WHERE id = ?`, id).Scan(&out.ID, &out.Name)
	if err == sql.ErrNoRows {
		return Synset{}, fmt.Errorf("synset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Synset{}, err
	}
	return out, nil
}

// Hypernyms returns the parents of the given synset.
func (s *Store) Hypernyms(ctx context.Context, id string) ([]Synset, error) {
	return querySynsets(ctx, s.conn, `SELECT s.id, s.name FROM relations r
		JOIN synsets s ON s.id = r.parent_id
		WHERE r.child_id = ? ORDER BY s.id`, id)
}

// Hyponyms returns the children of the given synset.
func (s *Store) Hyponyms(ctx context.Context, id string) ([]Synset, error) {
	return querySynsets(ctx, s.conn, `SELECT s.id, s.name FROM relations r
		JOIN synsets s ON s.id = r.child_id
		WHERE r.parent_id = ? ORDER BY s.id`, id)
}

// Senses returns the senses belonging to the given synset.
func (s *Store) Senses(ctx context.Context, synsetID string) ([]Sense, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, synset_id, name FROM senses WHERE synset_id = ? ORDER BY id`, synsetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Sense
	for rows.Next() {
		var sn Sense
		if err := rows.Scan(&sn.ID, &sn.SynsetID, &sn.Name); err != nil {
			return nil, err
		}
		out = append(out, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func querySynsets(ctx context.Context, db DBExecutor, query string, args ...interface{}) ([]Synset, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Synset
	for rows.Next() {
		var s Synset
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
