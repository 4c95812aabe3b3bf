package offsetpager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// ErrUnsupportedBackend is returned when a database handle matches none of the
// shapes NewExecutor knows how to adapt.
var ErrUnsupportedBackend = errors.New("unsupported backend")

// Row is a single result record keyed by column name.
type Row = map[string]any

// Statement is a literal SQL statement with "?" placeholders.
type Statement struct {
	SQL  string
	Args []any
}

// Result is the normalized output of an executed statement.
type Result struct {
	Rows []Row
}

// Executor runs statements against a backing store.
type Executor interface {
	Execute(ctx context.Context, stmt Statement) (*Result, error)
}

// NewExecutor adapts handle to Executor. Supported handles:
//   - Executor, returned as is;
//   - *gorm.DB, statements are run with Raw and scanned into maps;
//   - *sqlx.DB, placeholders are rebound to the driver bindvar;
//   - *sql.DB, wrapped into sqlx with placeholders passed through unchanged.
//
// Any other handle yields ErrUnsupportedBackend.
func NewExecutor(handle any) (Executor, error) {
	switch h := handle.(type) {
	case Executor:
		return h, nil
	case *gorm.DB:
		if h != nil {
			return &gormExecutor{db: h}, nil
		}
	case *sqlx.DB:
		if h != nil {
			return &sqlxExecutor{db: h}, nil
		}
	case *sql.DB:
		if h != nil {
			return &sqlxExecutor{db: sqlx.NewDb(h, "")}, nil
		}
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedBackend, handle)
}

type gormExecutor struct {
	db *gorm.DB
}

// Execute - implements Executor.
func (e *gormExecutor) Execute(ctx context.Context, stmt Statement) (*Result, error) {
	var rows []map[string]any

	err := e.db.WithContext(ctx).Raw(stmt.SQL, stmt.Args...).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return &Result{Rows: rows}, nil
}

type sqlxExecutor struct {
	db *sqlx.DB
}

// Execute - implements Executor.
func (e *sqlxExecutor) Execute(ctx context.Context, stmt Statement) (*Result, error) {
	rows, err := e.db.QueryxContext(ctx, e.db.Rebind(stmt.SQL), stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := &Result{Rows: make([]Row, 0)}
	for rows.Next() {
		row := make(Row)
		if err = rows.MapScan(row); err != nil {
			return nil, err
		}

		// Text protocol drivers hand out raw bytes for every column.
		for column, value := range row {
			if b, ok := value.([]byte); ok {
				row[column] = string(b)
			}
		}

		ret.Rows = append(ret.Rows, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ret, nil
}

var (
	_ Executor = (*gormExecutor)(nil)
	_ Executor = (*sqlxExecutor)(nil)
)
