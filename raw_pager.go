package offsetpager

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var _validate = validator.New()

// RawPager is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawPager `json:",inline"`
//	}
type RawPager struct {
	// Page - requested 1-based page, at most 1000000. Non-positive values select
	// the first page.
	Page int `json:"page" form:"page" validate:"lte=1000000"`
	// PerPage - requested page size, at most 1000. Non-positive values are
	// clamped to MinPerPage.
	PerPage int `json:"perPage" form:"perPage" validate:"lte=1000"`
	// Sort - optional sort column, subject to the paginator allow-list.
	Sort string `json:"sort,omitempty" form:"sort" validate:"omitempty,max=128"`
	// Direction - "asc" or "desc", ascending when empty.
	Direction string `json:"direction,omitempty" form:"direction" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// Validate checks the payload fields that cannot be silently corrected.
func (r RawPager) Validate() error {
	if err := _validate.Struct(r); err != nil {
		return fmt.Errorf("invalid pager: %w", err)
	}

	return nil
}

// Decode validates raw and applies it to the paginator. Page and PerPage are
// normalized as with WithPage and WithPerPage; Sort is applied only when set.
func (p *Paginator[T]) Decode(raw RawPager) (*Paginator[T], error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	p = p.WithPage(raw.Page).WithPerPage(raw.PerPage)
	if raw.Sort != "" {
		p = p.WithOrderBy(raw.Sort, ParseDirection(raw.Direction))
	}

	return p, nil
}
