package offsetpager

import (
	"context"
	"strings"
	"sync"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Count and data queries run concurrently, so every mock matches expectations
// out of order.
func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}
	mock.MatchExpectationsInOrder(false)

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewGORMLogger(zerolog.Nop())})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db, mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}
	mock.MatchExpectationsInOrder(false)

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewGORMLogger(zerolog.Nop())})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db, mock, nil
}

func newSQLXMock() (*sqlx.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}
	mock.MatchExpectationsInOrder(false)

	return sqlx.NewDb(mockDB, "sqlmock"), mock, nil
}

// recordingExecutor captures every executed statement and answers count
// statements with total and everything else with rows.
type recordingExecutor struct {
	mu         sync.Mutex
	statements []Statement

	total any
	rows  []Row
	err   error
}

func (e *recordingExecutor) Execute(_ context.Context, stmt Statement) (*Result, error) {
	e.mu.Lock()
	e.statements = append(e.statements, stmt)
	e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}

	if isCountStatement(stmt) {
		if e.total == nil {
			return &Result{}, nil
		}
		return &Result{Rows: []Row{{countAlias: e.total}}}, nil
	}

	return &Result{Rows: e.rows}, nil
}

func (e *recordingExecutor) dataStatement() (Statement, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, stmt := range e.statements {
		if !isCountStatement(stmt) {
			return stmt, true
		}
	}

	return Statement{}, false
}

func (e *recordingExecutor) countStatement() (Statement, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, stmt := range e.statements {
		if isCountStatement(stmt) {
			return stmt, true
		}
	}

	return Statement{}, false
}

func isCountStatement(stmt Statement) bool {
	return strings.HasPrefix(stmt.SQL, "SELECT COUNT(")
}

func makeRows(from, to int) []Row {
	rows := make([]Row, 0, to-from+1)
	for id := from; id <= to; id++ {
		rows = append(rows, Row{"id": int64(id)})
	}

	return rows
}
