package offsetpager

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrUnsupportedQuery is returned by Classify for values that are neither
// composable nor opaque queries.
var ErrUnsupportedQuery = errors.New("unsupported query")

// Kind describes how a query can be paginated.
type Kind int

const (
	// KindOpaque queries can only be embedded as a subquery.
	KindOpaque Kind = iota + 1
	// KindComposable queries accept ordering and windowing directly.
	KindComposable
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindComposable:
		return "composable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Window is the LIMIT/OFFSET restriction applied to the data query. Sort is
// nil when no explicit ordering was requested.
type Window struct {
	Limit  int
	Offset int
	Sort   *OrderBy
}

// Windowable is implemented by query values that can be ordered and windowed
// in place and executed without subquery wrapping.
type Windowable interface {
	// Subquery returns the rendered form of the query, used to count rows.
	Subquery() (Statement, error)
	// Fetch applies window to the query and executes it.
	Fetch(ctx context.Context, window Window) (*Result, error)
}

// SQLer is implemented by query builders able to render themselves into SQL,
// e.g. squirrel builders.
type SQLer interface {
	ToSQL() (string, []any, error)
}

// Query is a classified query value. Build it with Classify.
type Query struct {
	kind       Kind
	composable Windowable
	opaque     Statement
}

// Classify inspects query once and decides its pagination strategy:
//   - *gorm.DB and Windowable values are composable;
//   - Statement, *Statement, string and SQLer values are opaque.
func Classify(query any) (Query, error) {
	switch q := query.(type) {
	case *gorm.DB:
		if q == nil {
			break
		}
		return Query{kind: KindComposable, composable: &gormQuery{db: q}}, nil
	case Windowable:
		return Query{kind: KindComposable, composable: q}, nil
	case Statement:
		return newOpaqueQuery(q)
	case *Statement:
		if q == nil {
			break
		}
		return newOpaqueQuery(*q)
	case string:
		return newOpaqueQuery(Statement{SQL: q})
	case SQLer:
		sql, args, err := q.ToSQL()
		if err != nil {
			return Query{}, fmt.Errorf("cannot render query: %w", err)
		}
		return newOpaqueQuery(Statement{SQL: sql, Args: args})
	}

	return Query{}, fmt.Errorf("%w: %T", ErrUnsupportedQuery, query)
}

func newOpaqueQuery(stmt Statement) (Query, error) {
	stmt.SQL = strings.TrimRight(strings.TrimSpace(stmt.SQL), ";")
	if stmt.SQL == "" {
		return Query{}, fmt.Errorf("%w: empty statement", ErrUnsupportedQuery)
	}

	return Query{kind: KindOpaque, opaque: stmt}, nil
}

// Kind returns the classification decided by Classify.
func (q Query) Kind() Kind {
	return q.kind
}

// Subquery returns the statement embedded into the count query and, for
// opaque queries, into the data query.
func (q Query) Subquery() (Statement, error) {
	switch q.kind {
	case KindComposable:
		return q.composable.Subquery()
	case KindOpaque:
		return q.opaque, nil
	default:
		return Statement{}, fmt.Errorf("%w: query is not classified", ErrUnsupportedQuery)
	}
}

type gormQuery struct {
	db *gorm.DB
}

// Subquery - implements Windowable. Renders the query in dry run mode, keeping
// the dialect placeholders and their values.
func (q *gormQuery) Subquery() (Statement, error) {
	tx := q.db.Session(&gorm.Session{DryRun: true}).Find(&[]map[string]any{})
	if tx.Error != nil {
		return Statement{}, tx.Error
	}

	return Statement{
		SQL:  tx.Statement.SQL.String(),
		Args: tx.Statement.Vars,
	}, nil
}

// Fetch - implements Windowable.
func (q *gormQuery) Fetch(ctx context.Context, window Window) (*Result, error) {
	tx := q.db.WithContext(ctx)
	if window.Sort != nil {
		tx = window.Sort.Apply(tx)
	}

	var rows []map[string]any
	err := tx.Limit(window.Limit).Offset(window.Offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &Result{Rows: rows}, nil
}

var _ Windowable = (*gormQuery)(nil)
