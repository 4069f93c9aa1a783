package listview_test

import (
	"testing"

	"github.com/dhruv-4604/inventory-cli/internal/listview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_ToggleSortCyclesDirection(t *testing.T) {
	s := listview.NewState(10)
	assert.Nil(t, s.Sort)

	s = s.ToggleSort("name")
	require.NotNil(t, s.Sort)
	assert.Equal(t, listview.SortSpec{Field: "name", Direction: listview.Asc}, *s.Sort)

	s = s.ToggleSort("name")
	assert.Equal(t, listview.Desc, s.Sort.Direction)

	s = s.ToggleSort("name")
	assert.Equal(t, listview.Asc, s.Sort.Direction)

	s = s.ToggleSort("rate")
	assert.Equal(t, listview.SortSpec{Field: "rate", Direction: listview.Asc}, *s.Sort)

	assert.Nil(t, s.ClearSort().Sort)
}

func TestState_ActionsDoNotAliasPreviousValue(t *testing.T) {
	base := listview.NewState(10).ToggleSort("name")
	flipped := base.ToggleSort("name")

	assert.Equal(t, listview.Asc, base.Sort.Direction)
	assert.Equal(t, listview.Desc, flipped.Sort.Direction)
}

func TestState_QueryResetsPage(t *testing.T) {
	s := listview.NewState(5).WithPage(4).WithQuery("bolt")
	assert.Equal(t, "bolt", s.Query)
	assert.Equal(t, 1, s.Page.Number)

	s = s.WithPage(3).WithPageSize(20)
	assert.Equal(t, listview.PageSpec{Size: 20, Number: 1}, s.Page)
}

func TestState_PagingStaysInRange(t *testing.T) {
	s := listview.NewState(5)
	s = s.PrevPage()
	assert.Equal(t, 1, s.Page.Number)

	s = s.NextPage(2).NextPage(2).NextPage(2)
	assert.Equal(t, 2, s.Page.Number)

	assert.Equal(t, 3, s.WithPage(9).Clamp(3).Page.Number)
	assert.Equal(t, 1, s.WithPage(-2).Clamp(3).Page.Number)
	assert.Equal(t, 1, s.WithPage(4).Clamp(0).Page.Number)
}

func TestState_Apply(t *testing.T) {
	records := []listview.Record{
		{"name": "Bolt", "rate": 2.0},
		{"name": "Nut", "rate": 1.0},
		{"name": "Bracket", "rate": 7.5},
	}

	v, err := listview.NewState(1).WithQuery("b").ToggleSort("rate").ToggleSort("rate").Apply(records)
	require.NoError(t, err)
	assert.Equal(t, 2, v.TotalMatched)
	assert.Equal(t, 2, v.PageCount)
	assert.Equal(t, "Bracket", v.Rows[0]["name"])

	_, err = listview.NewState(0).Apply(records)
	assert.ErrorIs(t, err, listview.ErrInvalidPageSpec)
}

func TestState_SortLabel(t *testing.T) {
	s := listview.NewState(10)
	assert.Equal(t, "unsorted", s.SortLabel())
	assert.Equal(t, "rate ↑", s.ToggleSort("rate").SortLabel())
	assert.Equal(t, "rate ↓", s.ToggleSort("rate").ToggleSort("rate").SortLabel())
}
