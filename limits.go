package offsetpager

import "math"

const (
	DefaultPage    = 1
	MinPerPage     = 1
	DefaultPerPage = 10
	// NoMaxPerPage disables the upper bound on the page size.
	NoMaxPerPage = 0
)

// IsNormalizedPage returns the page clamped to DefaultPage and whether it was
// already valid.
func IsNormalizedPage(page int) (int, bool) {
	if page < DefaultPage {
		return DefaultPage, false
	}

	return page, true
}

func NormalizePage(page int) int {
	ret, _ := IsNormalizedPage(page)
	return ret
}

// IsNormalizedPerPageMax clamps perPage to [MinPerPage, maxPerPage] and reports
// whether it was already within bounds. maxPerPage == NoMaxPerPage disables the
// upper bound.
func IsNormalizedPerPageMax(perPage int, maxPerPage int) (int, bool) {
	if perPage < MinPerPage {
		return MinPerPage, false
	} else if maxPerPage > NoMaxPerPage && perPage > maxPerPage {
		return maxPerPage, false
	}

	return perPage, true
}

func NormalizePerPageMax(perPage int, maxPerPage int) int {
	ret, _ := IsNormalizedPerPageMax(perPage, maxPerPage)
	return ret
}

func NormalizePerPage(perPage int) int {
	return NormalizePerPageMax(perPage, NoMaxPerPage)
}

// Offset returns the zero-based offset of the first row on page. Offsets that
// do not fit into int saturate at math.MaxInt.
func Offset(page, perPage int) int {
	page, perPage = NormalizePage(page), NormalizePerPage(perPage)
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}

	return (page - 1) * perPage
}

// addSat returns a+b for non-negative operands, saturating at math.MaxInt.
func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}

	return a + b
}
