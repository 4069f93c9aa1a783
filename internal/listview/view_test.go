package listview_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dhruv-4604/inventory-cli/internal/listview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []listview.Record {
	out := make([]listview.Record, n)
	for i := range out {
		out[i] = listview.Record{"id": fmt.Sprintf("IT-%03d", i), "qty": float64(n - i)}
	}
	return out
}

func ids(rows []listview.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprint(r["id"])
	}
	return out
}

func TestCompute_IdentityForEmptySearchAndSort(t *testing.T) {
	records := items(25)

	v, err := listview.Compute(records, "", nil, listview.PageSpec{Size: 10, Number: 1})
	require.NoError(t, err)

	assert.Equal(t, records[:10], v.Rows)
	assert.Equal(t, 25, v.TotalMatched)
	assert.Equal(t, 3, v.PageCount)
}

func TestCompute_EmptyRecords(t *testing.T) {
	sorts := []*listview.SortSpec{nil, {Field: "name", Direction: listview.Desc}}
	for _, s := range sorts {
		for _, page := range []listview.PageSpec{{Size: 10, Number: 1}, {Size: 3, Number: 7}} {
			v, err := listview.Compute(nil, "anything", s, page)
			require.NoError(t, err)
			assert.NotNil(t, v.Rows)
			assert.Empty(t, v.Rows)
			assert.Equal(t, 0, v.TotalMatched)
			assert.Equal(t, 1, v.PageCount)
		}
	}
}

func TestCompute_InvalidPageSpec(t *testing.T) {
	cases := []listview.PageSpec{
		{Size: 0, Number: 1},
		{Size: -5, Number: 1},
		{Size: 10, Number: 0},
		{Size: 10, Number: -1},
	}
	for _, page := range cases {
		_, err := listview.Compute(items(3), "", nil, page)
		assert.ErrorIs(t, err, listview.ErrInvalidPageSpec, "page %+v", page)
	}

	_, err := listview.Compute(nil, "", nil, listview.PageSpec{Size: 0, Number: 1})
	assert.ErrorIs(t, err, listview.ErrInvalidPageSpec)
}

func TestCompute_SearchIsCaseInsensitiveOverScalars(t *testing.T) {
	records := []listview.Record{
		{"name": "Steel Bolt", "sku": "SB-1"},
		{"name": "Copper wire", "sku": "CW-2"},
		{"name": "Washer", "rate": 12.5},
		{"name": "Nut", "active": true},
		{"name": "Gasket", "note": nil},
	}

	cases := []struct {
		search string
		want   []string
	}{
		{"bolt", []string{"Steel Bolt"}},
		{"BOLT", []string{"Steel Bolt"}},
		{"cw-", []string{"Copper wire"}},
		{"12.5", []string{"Washer"}},
		{"true", []string{"Nut"}},
		{"null", nil},
		{"e", []string{"Steel Bolt", "Copper wire", "Washer", "Nut", "Gasket"}},
	}
	for _, tc := range cases {
		v, err := listview.Compute(records, tc.search, nil, listview.PageSpec{Size: 50, Number: 1})
		require.NoError(t, err)
		var got []string
		for _, r := range v.Rows {
			got = append(got, r["name"].(string))
		}
		assert.Equal(t, tc.want, got, "search %q", tc.search)
		assert.Equal(t, len(tc.want), v.TotalMatched)
	}
}

func TestCompute_SearchIgnoresNestedValues(t *testing.T) {
	records := []listview.Record{
		{"number": "SO-1", "items": []any{map[string]any{"item": "Hammer"}}},
		{"number": "SO-2", "customer": map[string]any{"name": "Hammer Co"}},
		{"number": "SO-3", "customer": "Hammer Co"},
	}

	v, err := listview.Compute(records, "hammer", nil, listview.PageSpec{Size: 10, Number: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"SO-3"}, numbers(v.Rows))
}

func numbers(rows []listview.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r["number"].(string)
	}
	return out
}

func TestCompute_SearchPartitionsRecords(t *testing.T) {
	records := []listview.Record{
		{"id": "a", "name": "Alpha", "qty": 10.0},
		{"id": "b", "name": "Beta", "qty": 110.0},
		{"id": "c", "name": "Gamma", "qty": 3.0},
		{"id": "d", "name": "delta", "tags": []string{"alpha"}},
	}
	for _, search := range []string{"a", "alpha", "10", "ALP", "zzz"} {
		v, err := listview.Compute(records, search, nil, listview.PageSpec{Size: 100, Number: 1})
		require.NoError(t, err)

		in := map[string]bool{}
		for _, r := range v.Rows {
			assert.True(t, listview.Matches(r, search))
			in[r["id"].(string)] = true
		}
		for _, r := range records {
			if !in[r["id"].(string)] {
				assert.False(t, listview.Matches(r, search), "record %v search %q", r["id"], search)
			}
		}
	}
}

func TestCompute_SortNumericAndString(t *testing.T) {
	records := []listview.Record{
		{"id": "a", "qty": 10.0, "name": "pear"},
		{"id": "b", "qty": 9.0, "name": "Apple"},
		{"id": "c", "qty": 100.0, "name": "banana"},
	}
	page := listview.PageSpec{Size: 10, Number: 1}

	v, err := listview.Compute(records, "", &listview.SortSpec{Field: "qty", Direction: listview.Asc}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(v.Rows))

	v, err = listview.Compute(records, "", &listview.SortSpec{Field: "qty", Direction: listview.Desc}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(v.Rows))

	v, err = listview.Compute(records, "", &listview.SortSpec{Field: "name", Direction: listview.Asc}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(v.Rows))
}

func TestCompute_SortMixedTypesFallsBackToStrings(t *testing.T) {
	records := []listview.Record{
		{"id": "a", "ref": 9.0},
		{"id": "b", "ref": "10"},
	}

	v, err := listview.Compute(records, "", &listview.SortSpec{Field: "ref", Direction: listview.Asc}, listview.PageSpec{Size: 10, Number: 1})
	require.NoError(t, err)
	// "10" < "9" once either side is not a number.
	assert.Equal(t, []string{"b", "a"}, ids(v.Rows))

	records = []listview.Record{
		{"id": "a", "ref": json.Number("10")},
		{"id": "b", "ref": 9.0},
	}
	v, err = listview.Compute(records, "", &listview.SortSpec{Field: "ref", Direction: listview.Asc}, listview.PageSpec{Size: 10, Number: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(v.Rows))
}

func TestCompute_SortIsStableInBothDirections(t *testing.T) {
	records := []listview.Record{
		{"id": "1", "status": "open"},
		{"id": "2", "status": "closed"},
		{"id": "3", "status": "open"},
		{"id": "4", "status": "closed"},
		{"id": "5", "status": "open"},
	}
	page := listview.PageSpec{Size: 10, Number: 1}

	v, err := listview.Compute(records, "", &listview.SortSpec{Field: "status", Direction: listview.Asc}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "1", "3", "5"}, ids(v.Rows))

	v, err = listview.Compute(records, "", &listview.SortSpec{Field: "status", Direction: listview.Desc}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "5", "2", "4"}, ids(v.Rows))
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	records := items(5)
	before := ids(records)

	_, err := listview.Compute(records, "", &listview.SortSpec{Field: "qty", Direction: listview.Asc}, listview.PageSpec{Size: 2, Number: 1})
	require.NoError(t, err)
	assert.Equal(t, before, ids(records))
}

func TestCompute_PagesCoverAllMatches(t *testing.T) {
	records := items(23)
	sort := &listview.SortSpec{Field: "qty", Direction: listview.Asc}

	first, err := listview.Compute(records, "IT-00", sort, listview.PageSpec{Size: 4, Number: 1})
	require.NoError(t, err)
	require.Equal(t, 10, first.TotalMatched)
	require.Equal(t, 3, first.PageCount)

	var seen []string
	for n := 1; n <= first.PageCount; n++ {
		v, err := listview.Compute(records, "IT-00", sort, listview.PageSpec{Size: 4, Number: n})
		require.NoError(t, err)
		seen = append(seen, ids(v.Rows)...)
	}
	assert.Len(t, seen, first.TotalMatched)
	assert.ElementsMatch(t, ids(listview.Filter(records, "IT-00")), seen)
}

func TestCompute_PagePastEndIsEmpty(t *testing.T) {
	v, err := listview.Compute(items(5), "", nil, listview.PageSpec{Size: 2, Number: 4})
	require.NoError(t, err)
	assert.Empty(t, v.Rows)
	assert.Equal(t, 3, v.PageCount)
	assert.Equal(t, 5, v.TotalMatched)
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{"abc", "abc", true},
		{50.0, "50", true},
		{0.1, "0.1", true},
		{int64(-7), "-7", true},
		{uint8(4), "4", true},
		{false, "false", true},
		{json.Number("1e3"), "1e3", true},
		{nil, "", false},
		{[]any{"x"}, "", false},
		{map[string]any{"a": 1}, "", false},
	}
	for _, tc := range cases {
		got, ok := listview.Stringify(tc.in)
		assert.Equal(t, tc.ok, ok, "%#v", tc.in)
		assert.Equal(t, tc.want, got, "%#v", tc.in)
	}
}
