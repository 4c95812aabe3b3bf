package offsetpager

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSortColumn replaces sort columns that are missing from the
	// allow-list.
	DefaultSortColumn = "id"
	// DefaultCountColumn is counted unless overridden in New.
	DefaultCountColumn = "*"
)

// Options is an immutable snapshot of the paginator configuration consumed by
// a single Paginate call.
type Options struct {
	Page           int
	PerPage        int
	Sort           *OrderBy
	AllowedColumns []string
	CountColumn    string
}

// Offset returns the zero-based offset of the first row of the page.
func (o Options) Offset() int {
	return Offset(o.Page, o.PerPage)
}

func (o Options) window() Window {
	return Window{
		Limit:  o.PerPage,
		Offset: o.Offset(),
		Sort:   o.Sort,
	}
}

func (o Options) validate() error {
	if o.CountColumn != DefaultCountColumn {
		if err := validateColumnName(o.CountColumn); err != nil {
			return fmt.Errorf("invalid count column: %w", err)
		}
	}

	if o.Sort != nil {
		if err := o.Sort.validate(); err != nil {
			return err
		}
	}

	return nil
}

// Paginator computes length-aware pages of a query. Configure it with the
// With* methods and call Paginate. A Paginator is meant for a single owner;
// Paginate works on a snapshot of the configuration.
type Paginator[T any] struct {
	executor    Executor
	query       Query
	countColumn string

	page       int
	perPage    int
	maxPerPage int
	sort       *OrderBy
	allowed    []string
	mapper     func(Row) (T, error)
	logger     zerolog.Logger
}

// New builds a Paginator over query executed through handle. See NewExecutor
// for the supported handles and Classify for the supported queries. The first
// non-empty countColumn replaces DefaultCountColumn.
//
// The handle is checked first: an unsupported one yields ErrUnsupportedBackend
// before anything else is inspected.
func New(handle any, query any, countColumn ...string) (*Paginator[Row], error) {
	executor, err := NewExecutor(handle)
	if err != nil {
		return nil, err
	}

	classified, err := Classify(query)
	if err != nil {
		return nil, err
	}

	column, _ := lo.Find(countColumn, func(c string) bool { return strings.TrimSpace(c) != "" })

	return &Paginator[Row]{
		executor:    executor,
		query:       classified,
		countColumn: lo.Ternary(column == "", DefaultCountColumn, strings.TrimSpace(column)),
		page:        DefaultPage,
		perPage:     DefaultPerPage,
		logger:      zerolog.Nop(),
	}, nil
}

// Map installs a row transform and changes the element type of the produced
// pages. The rest of the configuration is carried over.
func Map[T any, U any](p *Paginator[T], fn func(Row) (U, error)) *Paginator[U] {
	if p == nil {
		p = new(Paginator[T])
	}

	return &Paginator[U]{
		executor:    p.executor,
		query:       p.query,
		countColumn: p.countColumn,
		page:        p.page,
		perPage:     p.perPage,
		maxPerPage:  p.maxPerPage,
		sort:        p.sort,
		allowed:     slices.Clone(p.allowed),
		mapper:      fn,
		logger:      p.logger,
	}
}

// WithPage sets the 1-based page number. Non-positive values are replaced by
// DefaultPage.
func (p *Paginator[T]) WithPage(page int) *Paginator[T] {
	if p == nil {
		p = new(Paginator[T])
	}

	p.page = NormalizePage(page)

	return p
}

// WithPerPage sets the page size. Values below MinPerPage are replaced by
// MinPerPage, values above the WithMaxPerPage cap are replaced by the cap.
func (p *Paginator[T]) WithPerPage(perPage int) *Paginator[T] {
	if p == nil {
		p = new(Paginator[T])
	}

	p.perPage = NormalizePerPageMax(perPage, p.maxPerPage)

	return p
}

// WithMaxPerPage caps the page size. NoMaxPerPage removes the cap.
func (p *Paginator[T]) WithMaxPerPage(maxPerPage int) *Paginator[T] {
	if p == nil {
		p = new(Paginator[T])
	}

	p.maxPerPage = max(maxPerPage, NoMaxPerPage)
	p.perPage = NormalizePerPageMax(p.perPage, p.maxPerPage)

	return p
}

// WithOrderBy sets the sort column and direction, DirectionASC by default.
// The direction is parsed as with ParseDirection.
//
// IMPORTANT:
// When an allow-list is configured and column is not on it, DefaultSortColumn
// is used instead. No error is reported.
func (p *Paginator[T]) WithOrderBy(column string, direction ...Direction) *Paginator[T] {
	if p == nil {
		p = new(Paginator[T])
	}

	dir := DirectionASC
	if len(direction) > 0 {
		dir = ParseDirection(string(direction[0]))
	}

	p.sort = &OrderBy{Column: p.allowedColumn(column), Direction: dir}

	return p
}

// WithAllowedColumns replaces the list of sortable columns. An empty list
// lifts the restriction. A sort set earlier is checked against the new list.
func (p *Paginator[T]) WithAllowedColumns(columns ...string) *Paginator[T] {
	if p == nil {
		p = new(Paginator[T])
	}

	p.allowed = slices.Clone(columns)
	if p.sort != nil {
		p.sort = &OrderBy{Column: p.allowedColumn(p.sort.Column), Direction: p.sort.Direction}
	}

	return p
}

// allowedColumn returns column, or DefaultSortColumn when the allow-list is
// set and does not contain column.
func (p *Paginator[T]) allowedColumn(column string) string {
	if len(p.allowed) == 0 || lo.Contains(p.allowed, column) {
		return column
	}

	p.logger.Debug().
		Str("column", column).
		Str("closest", closestColumn(column, p.allowed)).
		Str("substitute", DefaultSortColumn).
		Msg("sort column is not allowed")

	return DefaultSortColumn
}

// WithLogger sets the logger used to trace pagination.
func (p *Paginator[T]) WithLogger(logger zerolog.Logger) *Paginator[T] {
	if p == nil {
		p = new(Paginator[T])
	}

	p.logger = logger.With().Str("component", "offsetpager").Logger()

	return p
}

// Options returns a snapshot of the current configuration.
func (p *Paginator[T]) Options() Options {
	if p == nil {
		return Options{Page: DefaultPage, PerPage: DefaultPerPage, CountColumn: DefaultCountColumn}
	}

	var sort *OrderBy
	if p.sort != nil {
		s := *p.sort
		sort = &s
	}

	return Options{
		Page:           NormalizePage(p.page),
		PerPage:        NormalizePerPageMax(p.perPage, p.maxPerPage),
		Sort:           sort,
		AllowedColumns: slices.Clone(p.allowed),
		CountColumn:    lo.Ternary(p.countColumn == "", DefaultCountColumn, p.countColumn),
	}
}

// GetQueryKind returns the classification of the paginated query.
func (p *Paginator[T]) GetQueryKind() Kind {
	if p == nil {
		return 0
	}

	return p.query.Kind()
}

// Paginate fetches the configured page. When perPage is given it is applied
// as with WithPerPage before the page is fetched.
//
// The count and data queries are issued concurrently. Errors returned by the
// backend are passed through unchanged.
func (p *Paginator[T]) Paginate(ctx context.Context, perPage ...int) (*PaginationResult[T], error) {
	if p == nil || p.executor == nil {
		return nil, fmt.Errorf("cannot paginate: paginator is not initialized")
	}

	if len(perPage) > 0 {
		p.WithPerPage(perPage[0])
	}

	opts := p.Options()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	return paginate(ctx, p.executor, p.query, opts, p.mapper, p.logger)
}

func paginate[T any](
	ctx context.Context,
	executor Executor,
	query Query,
	opts Options,
	mapper func(Row) (T, error),
	logger zerolog.Logger,
) (*PaginationResult[T], error) {
	subquery, err := query.Subquery()
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Stringer("strategy", query.Kind()).
		Int("page", opts.Page).
		Int("perPage", opts.PerPage).
		Int("offset", opts.Offset()).
		Msg("paginating")

	var (
		g          errgroup.Group
		countRes   *Result
		dataRes    *Result
		countQuery = countStatement(subquery, opts.CountColumn)
	)

	g.Go(func() error {
		var err error
		countRes, err = executor.Execute(ctx, countQuery)
		return err
	})

	g.Go(func() error {
		var err error
		if query.Kind() == KindComposable {
			dataRes, err = query.composable.Fetch(ctx, opts.window())
		} else {
			dataRes, err = executor.Execute(ctx, windowStatement(subquery, opts))
		}
		return err
	})

	if err = g.Wait(); err != nil {
		logger.Debug().Err(err).Msg("pagination query failed")
		return nil, err
	}

	data, err := mapRows(dataRes, mapper)
	if err != nil {
		return nil, err
	}

	total := extractTotal(countRes)
	logger.Debug().Int64("total", total).Int("rows", len(data)).Msg("page fetched")

	return newPaginationResult(data, total, opts.PerPage, opts.Page), nil
}

// countStatement wraps subquery into "SELECT COUNT(<column>) AS aggregate".
func countStatement(subquery Statement, column string) Statement {
	return Statement{
		SQL:  fmt.Sprintf("SELECT COUNT(%s) AS %s FROM (%s) AS sub", column, countAlias, subquery.SQL),
		Args: slices.Clone(subquery.Args),
	}
}

// windowStatement wraps subquery into a windowed select. ORDER BY is emitted
// only for an explicit sort.
func windowStatement(subquery Statement, opts Options) Statement {
	var b strings.Builder

	b.WriteString("SELECT * FROM (")
	b.WriteString(subquery.SQL)
	b.WriteString(") AS sub")

	if opts.Sort != nil {
		b.WriteString(" ORDER BY ")
		b.WriteString(opts.Sort.ToSQL())
	}

	fmt.Fprintf(&b, " LIMIT %d OFFSET %d", opts.PerPage, opts.Offset())

	return Statement{
		SQL:  b.String(),
		Args: slices.Clone(subquery.Args),
	}
}

func mapRows[T any](res *Result, mapper func(Row) (T, error)) ([]T, error) {
	var rows []Row
	if res != nil {
		rows = res.Rows
	}

	ret := make([]T, 0, len(rows))
	for i, row := range rows {
		if mapper != nil {
			item, err := mapper(row)
			if err != nil {
				return nil, fmt.Errorf("cannot map row %d: %w", i, err)
			}

			ret = append(ret, item)
			continue
		}

		item, ok := any(row).(T)
		if !ok {
			return nil, fmt.Errorf("cannot cast row to %T without a mapper", lo.Empty[T]())
		}

		ret = append(ret, item)
	}

	return ret, nil
}
