// Package offsetpager provides length-aware LIMIT/OFFSET pagination over GORM
// queries, sqlx clients and plain SQL statements.
//
// Overview
//
// offsetpager computes one page of rows together with the metadata a client
// needs to render a pager: total number of rows, last page and the 1-based
// indices of the first and last returned row.
//
// Key concepts
//   - Executor: runs a Statement against a backend and returns string-keyed
//     rows. NewExecutor adapts *gorm.DB, *sqlx.DB and *sql.DB handles.
//   - Query: a classified query value. Composable queries (*gorm.DB or any
//     Windowable) are windowed in place, opaque ones (Statement, string,
//     SQLer) are wrapped as a subquery.
//   - Paginator: fluent configuration of page, page size, sort and row
//     mapping. Paginate runs the count and data queries concurrently.
//   - PaginateResult: slices an already fetched result set in memory.
//
// Usage:
//
//	p, err := offsetpager.New(db, db.Model(&User{}).Where("active"))
//	if err != nil {
//		return err
//	}
//
//	page, err := p.WithPage(2).WithOrderBy("created_at", offsetpager.DirectionDESC).Paginate(ctx, 20)
package offsetpager
