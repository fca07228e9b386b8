package memo

import (
	"testing"

	"memorizer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows(n int, flagged ...int) []domain.MemoRow {
	flags := map[int]bool{}
	for _, id := range flagged {
		flags[id] = true
	}

	rows := make([]domain.MemoRow, n)
	for i := range rows {
		rows[i] = domain.MemoRow{ID: i, MemoFileID: "f", Flag: flags[i]}
	}
	return rows
}

func TestPagination_Init(t *testing.T) {
	p := NewPagination(10, 5)
	p.Init(25, testRows(25))

	assert.Equal(t, []bool{true, true, true}, p.Pages)
	assert.True(t, p.CheckAll)
	assert.Equal(t, 1, p.From)
	assert.Equal(t, 25, p.To)
	assert.Len(t, p.SelectedRowsIndexes(), 25)
}

func TestPagination_InitEmpty(t *testing.T) {
	p := NewPagination(10, 5)
	p.Init(0, nil)

	assert.Equal(t, []bool{true}, p.Pages)
	assert.Equal(t, 1, p.From)
	assert.Equal(t, 1, p.To)
}

func TestPagination_TogglePage(t *testing.T) {
	p := NewPagination(10, 5)
	p.Init(25, testRows(25))

	require.NoError(t, p.TogglePage(0))
	assert.False(t, p.CheckAll)
	assert.Equal(t, 11, p.From)
	assert.Equal(t, 25, p.To)

	require.NoError(t, p.TogglePage(2))
	assert.Equal(t, 11, p.From)
	assert.Equal(t, 20, p.To)
	assert.Equal(t, []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, p.SelectedRowsIndexes())

	assert.ErrorIs(t, p.TogglePage(3), domain.ErrRowOutOfRange)
}

func TestPagination_TogglePageKeepsRangeWhenNothingChecked(t *testing.T) {
	p := NewPagination(10, 5)
	p.Init(15, testRows(15))

	require.NoError(t, p.TogglePage(0))
	require.NoError(t, p.TogglePage(1))

	assert.Equal(t, 11, p.From)
	assert.Equal(t, 15, p.To)
	assert.Empty(t, p.SelectedRowsIndexes())
}

func TestPagination_CheckAllPages(t *testing.T) {
	p := NewPagination(10, 5)
	p.Init(25, testRows(25))

	p.CheckAllPages(false)
	assert.Equal(t, []bool{false, false, false}, p.Pages)
	assert.False(t, p.CheckAll)

	p.CheckAllPages(true)
	assert.True(t, p.CheckAll)
	assert.Equal(t, 1, p.From)
	assert.Equal(t, 25, p.To)
}

func TestPagination_SetWithFlag(t *testing.T) {
	p := NewPagination(10, 5)
	rows := testRows(30, 3, 25)
	p.Init(30, rows)

	p.SetWithFlag(true, rows)
	assert.Equal(t, []bool{true, false, true}, p.Pages)
	assert.Equal(t, 1, p.From)
	assert.Equal(t, 30, p.To)

	p.SetWithFlag(false, rows)
	assert.False(t, p.WithFlag)
	assert.Equal(t, []bool{true, false, true}, p.Pages)
}

func TestPagination_SetWithFlagOnLastIDOfPage(t *testing.T) {
	p := NewPagination(10, 5)
	rows := testRows(20, 9)
	p.Init(20, rows)

	p.SetWithFlag(true, rows)
	assert.Equal(t, []bool{false, false}, p.Pages)
}

func TestPagination_SetFromTo(t *testing.T) {
	p := NewPagination(10, 5)
	p.Init(25, testRows(25))

	require.NoError(t, p.SetFrom(5))
	require.NoError(t, p.SetTo(12))
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9, 10, 11}, p.SelectedRowsIndexes())

	assert.ErrorIs(t, p.SetFrom(0), domain.ErrRowOutOfRange)
	assert.ErrorIs(t, p.SetFrom(13), domain.ErrRowOutOfRange)
	assert.ErrorIs(t, p.SetTo(26), domain.ErrRowOutOfRange)
	assert.ErrorIs(t, p.SetTo(4), domain.ErrRowOutOfRange)
}

func TestPagination_AddUpAndDeductRows(t *testing.T) {
	p := NewPagination(10, 5)
	p.Init(25, testRows(25))

	p.AddUpRows()
	assert.Equal(t, 6, p.From)

	p.DeductRows()
	assert.Equal(t, 20, p.To)

	for i := 0; i < 5; i++ {
		p.DeductRows()
	}
	assert.Equal(t, 6, p.To)

	p.AddUpRows()
	assert.Equal(t, 6, p.From)
}
