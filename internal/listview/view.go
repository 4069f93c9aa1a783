// Package listview derives the visible page of a record collection from a
// search query, an optional sort and a page spec.
package listview

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidPageSpec is returned when a page size or page number is not positive.
var ErrInvalidPageSpec = errors.New("invalid page spec")

// Record is one business entity as a field/value mapping.
type Record map[string]any

// Direction is the sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortSpec names the field to sort on. A nil *SortSpec keeps input order.
type SortSpec struct {
	Field     string
	Direction Direction
}

// PageSpec selects one page; Number is 1-based.
type PageSpec struct {
	Size   int
	Number int
}

// Validate checks that both size and number are positive.
func (p PageSpec) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w: page size %d", ErrInvalidPageSpec, p.Size)
	}
	if p.Number <= 0 {
		return fmt.Errorf("%w: page number %d", ErrInvalidPageSpec, p.Number)
	}
	return nil
}

// View is the result of Compute.
type View struct {
	Rows         []Record
	TotalMatched int
	PageCount    int
}

// Compute filters records by search, sorts them and returns the requested page.
// The input slice is never modified. A page number past the last page yields
// no rows; clamping is left to the caller.
func Compute(records []Record, search string, sort *SortSpec, page PageSpec) (View, error) {
	if err := page.Validate(); err != nil {
		return View{}, err
	}

	matched := Filter(records, search)
	if sort != nil {
		slices.SortStableFunc(matched, comparator(*sort))
	}

	total := len(matched)
	pageCount := max(1, (total+page.Size-1)/page.Size)

	rows := []Record{}
	if page.Number <= pageCount {
		start := (page.Number - 1) * page.Size
		end := min(start+page.Size, total)
		if start < end {
			rows = append(rows, matched[start:end]...)
		}
	}

	return View{Rows: rows, TotalMatched: total, PageCount: pageCount}, nil
}

// Filter returns a new slice holding the records that match search, in input order.
func Filter(records []Record, search string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if Matches(r, search) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether any scalar field of r contains search, ignoring case.
// Nested maps and slices are never inspected.
func Matches(r Record, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, v := range r {
		s, ok := Stringify(v)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func comparator(spec SortSpec) func(a, b Record) int {
	return func(a, b Record) int {
		c := compareValues(a[spec.Field], b[spec.Field])
		if spec.Direction == Desc {
			return -c
		}
		return c
	}
}

// compareValues compares numerically when both values are numbers and by
// their string form otherwise. Missing, nil and non-scalar values sort as "".
func compareValues(a, b any) int {
	na, aNum := Number(a)
	nb, bNum := Number(b)
	if aNum && bNum {
		return cmp.Compare(na, nb)
	}
	sa, _ := Stringify(a)
	sb, _ := Stringify(b)
	return strings.Compare(sa, sb)
}
