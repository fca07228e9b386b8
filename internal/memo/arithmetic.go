// Package memo holds the study logic of the bot: page and row index
// arithmetic, the pagination form and the card session.
package memo

import "memorizer/internal/domain"

// Boundary is the first and last row index covered by a page selection
type Boundary struct {
	FirstRowIndex int
	LastRowIndex  int
}

// BoundaryRowsIndexes returns the first row index of the first page and the
// last row index of the last page, clamped to the last row of the file.
// pages must be non-empty and sorted ascending.
func BoundaryRowsIndexes(pages []int, rowsTotalCount, rowsPerPage int) Boundary {
	firstPage := pages[0]
	lastPage := pages[len(pages)-1]

	lastTotalRowIndex := rowsTotalCount - 1
	if lastTotalRowIndex < 0 {
		lastTotalRowIndex = 0
	}

	firstRowIndex := firstPage * rowsPerPage
	lastRowIndex := (lastPage+1)*rowsPerPage - 1
	if lastRowIndex > lastTotalRowIndex {
		lastRowIndex = lastTotalRowIndex
	}

	return Boundary{FirstRowIndex: firstRowIndex, LastRowIndex: lastRowIndex}
}

// SelectedRowsIndexes returns row indexes of every page, clipped to
// [fromRowIndex, toRowIndex], in page order
func SelectedRowsIndexes(pages []int, fromRowIndex, toRowIndex, rowsPerPage int) []int {
	indexes := []int{}

	for _, page := range pages {
		first := page * rowsPerPage
		if fromRowIndex > first {
			first = fromRowIndex
		}

		last := (page+1)*rowsPerPage - 1
		if last > toRowIndex {
			last = toRowIndex
		}

		for i := first; i <= last; i++ {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

// SelectedPages converts page checkboxes into the list of checked page numbers
func SelectedPages(checked []bool) []int {
	pages := []int{}
	for i, v := range checked {
		if v {
			pages = append(pages, i)
		}
	}
	return pages
}

// PagesWithRows returns the pages holding at least one of memoRowIDs.
// The upper bound is exclusive of the last id of a page: PagesWithRows([0 1], [9], 10)
// does not report page 0. Callers rely on this behaviour, keep it.
func PagesWithRows(pages []int, memoRowIDs []int, rowsPerPage int) []int {
	out := []int{}
	if len(pages) == 0 || len(memoRowIDs) == 0 {
		return out
	}

	for _, page := range pages {
		lower := page * rowsPerPage
		upper := page*rowsPerPage + rowsPerPage - 1
		for _, id := range memoRowIDs {
			if id >= lower && id < upper {
				out = append(out, page)
				break
			}
		}
	}

	return out
}

// PagesCount returns the number of pages needed for rowsTotalCount rows, at least one
func PagesCount(rowsTotalCount, rowsPerPage int) int {
	if rowsTotalCount < rowsPerPage {
		return 1
	}
	return (rowsTotalCount + rowsPerPage - 1) / rowsPerPage
}

// RandomMemoRow draws ids between the first and the last row until one of
// them exists. rows must be sorted by id. Returns nil for no rows.
func RandomMemoRow(rows []domain.MemoRow, rnd RandomNumber) *domain.MemoRow {
	if len(rows) == 0 {
		return nil
	}

	byID := make(map[int]int, len(rows))
	for i, r := range rows {
		byID[r.ID] = i
	}

	minID := rows[0].ID
	maxID := rows[len(rows)-1].ID

	for {
		id := rnd.Between(minID, maxID)
		if i, ok := byID[id]; ok {
			row := rows[i]
			return &row
		}
	}
}
