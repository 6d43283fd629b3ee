package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// sqliteMaxVariables is the default SQLITE_MAX_VARIABLE_NUMBER of older
// SQLite builds. A single flush never binds more than this.
const sqliteMaxVariables = 999

// DefaultBatchSize is the number of rows per multi-row INSERT.
const DefaultBatchSize = 500

// ErrBatchInserterClosed is returned by Add after Close.
var ErrBatchInserterClosed = errors.New("batch inserter closed")

// batchInserter buffers rows for one table and writes them as multi-row
// INSERT statements. It runs on the caller's goroutine; the executor is
// usually the import transaction.
type batchInserter struct {
	exec    DBExecutor
	table   string
	columns []string
	cap     int
	buf     [][]interface{}
	closed  bool
	written int
}

func newBatchInserter(exec DBExecutor, table string, columns []string, batchSize int) *batchInserter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if limit := sqliteMaxVariables / len(columns); batchSize > limit {
		batchSize = limit
	}
	return &batchInserter{
		exec:    exec,
		table:   table,
		columns: columns,
		cap:     batchSize,
		buf:     make([][]interface{}, 0, batchSize),
	}
}

// Add buffers one row, flushing when the buffer reaches the batch size.
func (bi *batchInserter) Add(ctx context.Context, values ...interface{}) error {
	if bi.closed {
		return ErrBatchInserterClosed
	}
	if len(values) != len(bi.columns) {
		return fmt.Errorf("%s: expected %d values, got %d", bi.table, len(bi.columns), len(values))
	}
	bi.buf = append(bi.buf, values)
	if len(bi.buf) >= bi.cap {
		return bi.flush(ctx)
	}
	return nil
}

func (bi *batchInserter) flush(ctx context.Context) error {
	if len(bi.buf) == 0 {
		return nil
	}
	batch := bi.buf
	bi.buf = make([][]interface{}, 0, bi.cap)

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(bi.columns)), ", ") + ")"
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", bi.table, strings.Join(bi.columns, ", "))
	args := make([]interface{}, 0, len(batch)*len(bi.columns))
	for i, row := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(placeholder)
		args = append(args, row...)
	}

	if _, err := bi.exec.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert batch of %d rows into %s: %w", len(batch), bi.table, err)
	}
	bi.written += len(batch)
	return nil
}

// Close flushes the remaining rows and stops accepting new ones.
func (bi *batchInserter) Close(ctx context.Context) error {
	if bi.closed {
		return ErrBatchInserterClosed
	}
	bi.closed = true
	return bi.flush(ctx)
}
