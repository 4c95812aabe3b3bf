package offsetpager

// PaginationResult is a generic length-aware page of elements.
type PaginationResult[T any] struct {
	// Data page elements in query order.
	Data []T `json:"data"`
	// Total number of elements in the whole dataset.
	Total int64 `json:"total"`
	// PerPage effective page size.
	PerPage int `json:"perPage"`
	// CurrentPage effective 1-based page number.
	CurrentPage int `json:"currentPage"`
	// LastPage is ceil(Total / PerPage), 0 for an empty dataset.
	LastPage int `json:"lastPage"`
	// From 1-based index of the first element of Data within the dataset.
	From int `json:"from"`
	// To 1-based index of the last element of Data within the dataset.
	To int `json:"to"`
}

// RawResult is an already materialized result set with its declared total.
type RawResult[T any] struct {
	Rows  []T
	Total int64
}

// LastPage returns ceil(total / perPage). Non-positive totals yield 0.
func LastPage(total int64, perPage int) int {
	perPage = NormalizePerPage(perPage)
	if total <= 0 {
		return 0
	}

	return int((total-1)/int64(perPage) + 1)
}

func newPaginationResult[T any](data []T, total int64, perPage, page int) *PaginationResult[T] {
	offset := Offset(page, perPage)

	return &PaginationResult[T]{
		Data:        data,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    LastPage(total, perPage),
		From:        addSat(offset, 1),
		To:          addSat(offset, len(data)),
	}
}

// PaginateResult slices an in-memory result set into the requested page.
//
// IMPORTANT:
// Total, LastPage and To are bound by the declared raw.Total, not by the
// length of raw.Rows. Rows themselves are returned as sliced.
func PaginateResult[T any](raw RawResult[T], perPage, page int) PaginationResult[T] {
	perPage = NormalizePerPage(perPage)
	page = NormalizePage(page)
	offset := Offset(page, perPage)

	data := make([]T, 0)
	if offset < len(raw.Rows) {
		end := offset + min(perPage, len(raw.Rows)-offset)
		data = append(data, raw.Rows[offset:end]...)
	}

	ret := newPaginationResult(data, raw.Total, perPage, page)
	ret.To = int(min(int64(ret.To), max(raw.Total, 0)))

	return *ret
}
