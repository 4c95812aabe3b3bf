package offsetpager

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// ParseDirection parses "asc" or "desc" in any case. Anything else falls back
// to DirectionASC.
func ParseDirection(s string) Direction {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))

	return lo.Ternary(d.Valid(), d, DirectionASC)
}

// OrderBy is a single "<column> <direction>" sort clause.
type OrderBy struct {
	Column    string
	Direction Direction
}

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func validateColumnName(column string) error {
	if column == "" {
		return fmt.Errorf("empty column name")
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(column)) {
		return fmt.Errorf("column name contains forbidden symbols '%s'", column)
	}

	return nil
}

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	return validateColumnName(o.Column)
}

// ToSQL converts OrderBy to "<column> <direction>" suitable for embedding
// into an ORDER BY clause.
//
// Example: for {"created_at", "DESC"} returns "created_at DESC".
func (o OrderBy) ToSQL() string {
	return fmt.Sprintf("%s %s", o.Column, o.Direction)
}

// Apply applies the ordering to a gorm query.
func (o OrderBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.ToSQL())
}

// closestColumn returns the member of dataSet nearest to input by edit
// distance, or an empty string for an empty dataSet.
func closestColumn(input string, dataSet []string) string {
	minDist := math.MaxInt
	closest := ""

	for _, column := range dataSet {
		dist := levenshtein([]rune(column), []rune(input))
		if dist < minDist {
			minDist = dist
			closest = column
		}
	}

	return closest
}
