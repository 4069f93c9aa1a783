package listview

// State is the UI state of one list page: query text, sort and page.
// It is a value; every action returns a new State and leaves the receiver
// untouched.
type State struct {
	Query string
	Sort  *SortSpec
	Page  PageSpec
}

// NewState returns the state of a freshly opened page.
func NewState(pageSize int) State {
	return State{Page: PageSpec{Size: pageSize, Number: 1}}
}

// WithQuery sets the search text and returns to the first page.
func (s State) WithQuery(q string) State {
	s.Query = q
	s.Page.Number = 1
	return s
}

// ToggleSort behaves like clicking a column header: a new field sorts
// ascending, the current field flips direction.
func (s State) ToggleSort(field string) State {
	next := SortSpec{Field: field, Direction: Asc}
	if s.Sort != nil && s.Sort.Field == field && s.Sort.Direction == Asc {
		next.Direction = Desc
	}
	s.Sort = &next
	return s
}

// ClearSort restores input order.
func (s State) ClearSort() State {
	s.Sort = nil
	return s
}

// WithPage jumps to page n. Validity is checked by Apply.
func (s State) WithPage(n int) State {
	s.Page.Number = n
	return s
}

// WithPageSize changes the page size and returns to the first page.
func (s State) WithPageSize(size int) State {
	s.Page = PageSpec{Size: size, Number: 1}
	return s
}

// NextPage advances one page unless already on pageCount.
func (s State) NextPage(pageCount int) State {
	if s.Page.Number < pageCount {
		s.Page.Number++
	}
	return s
}

// PrevPage goes back one page, stopping at the first.
func (s State) PrevPage() State {
	if s.Page.Number > 1 {
		s.Page.Number--
	}
	return s
}

// Clamp pulls the page number back into [1, pageCount]. Callers use it after
// the collection shrinks, e.g. following a delete.
func (s State) Clamp(pageCount int) State {
	if pageCount < 1 {
		pageCount = 1
	}
	s.Page.Number = min(max(s.Page.Number, 1), pageCount)
	return s
}

// Apply computes the view of records under this state.
func (s State) Apply(records []Record) (View, error) {
	return Compute(records, s.Query, s.Sort, s.Page)
}

// SortLabel describes the active sort for status lines.
func (s State) SortLabel() string {
	if s.Sort == nil {
		return "unsorted"
	}
	arrow := "↑"
	if s.Sort.Direction == Desc {
		arrow = "↓"
	}
	return s.Sort.Field + " " + arrow
}
