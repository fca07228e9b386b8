package memo

import (
	"fmt"

	"memorizer/internal/domain"
)

// Pagination is the page and row range selection of a memo file.
// From and To are one-based row numbers.
type Pagination struct {
	RowsPerPage    int
	DeductionStep  int
	RowsTotalCount int

	Pages    []bool
	CheckAll bool
	WithFlag bool
	From     int
	To       int

	// limits of From and To for the currently checked pages
	MinRow int
	MaxRow int
}

// NewPagination creates an empty pagination
func NewPagination(rowsPerPage, deductionStep int) *Pagination {
	return &Pagination{
		RowsPerPage:   rowsPerPage,
		DeductionStep: deductionStep,
		From:          1,
		To:            1,
		MinRow:        1,
		MaxRow:        1,
	}
}

// Init checks every page of a file with rowsTotalCount rows
func (p *Pagination) Init(rowsTotalCount int, rows []domain.MemoRow) {
	p.RowsTotalCount = rowsTotalCount
	p.Pages = make([]bool, p.PagesCount())
	for i := range p.Pages {
		p.Pages[i] = true
	}

	if rowsTotalCount <= 0 {
		p.CheckAll = true
		p.From, p.To, p.MinRow, p.MaxRow = 1, 1, 1, 1
		return
	}

	if p.WithFlag {
		p.applyFlag(rows)
		return
	}
	p.pagesChanged()
}

// PagesCount returns the number of pages of the file
func (p *Pagination) PagesCount() int {
	return PagesCount(p.RowsTotalCount, p.RowsPerPage)
}

// TogglePage flips the checkbox of a page
func (p *Pagination) TogglePage(page int) error {
	if page < 0 || page >= len(p.Pages) {
		return fmt.Errorf("page %d: %w", page+1, domain.ErrRowOutOfRange)
	}
	p.Pages[page] = !p.Pages[page]
	p.pagesChanged()
	return nil
}

// CheckAllPages sets every page checkbox to checked
func (p *Pagination) CheckAllPages(checked bool) {
	for i := range p.Pages {
		p.Pages[i] = checked
	}
	p.pagesChanged()
}

// SetWithFlag switches the flag filter. Enabling it keeps checked only the
// pages that hold flagged rows.
func (p *Pagination) SetWithFlag(withFlag bool, rows []domain.MemoRow) {
	p.WithFlag = withFlag
	if withFlag {
		p.applyFlag(rows)
	}
}

// SetFrom sets the first row number of the selection
func (p *Pagination) SetFrom(n int) error {
	if n < p.MinRow || n > p.MaxRow || n > p.To {
		return fmt.Errorf("from %d: %w", n, domain.ErrRowOutOfRange)
	}
	p.From = n
	return nil
}

// SetTo sets the last row number of the selection
func (p *Pagination) SetTo(n int) error {
	if n < p.MinRow || n > p.MaxRow || n < p.From {
		return fmt.Errorf("to %d: %w", n, domain.ErrRowOutOfRange)
	}
	p.To = n
	return nil
}

// AddUpRows moves the first row of the selection forward by the deduction step
func (p *Pagination) AddUpRows() {
	p.From += p.DeductionStep
	if p.From > p.To {
		p.From = p.To
	}
}

// DeductRows moves the last row of the selection back by the deduction step
func (p *Pagination) DeductRows() {
	p.To -= p.DeductionStep
	if p.To < p.From {
		p.To = p.From
	}
}

// SelectedPages returns the checked page numbers
func (p *Pagination) SelectedPages() []int {
	return SelectedPages(p.Pages)
}

// SelectedRowsIndexes returns the row indexes covered by the selection
func (p *Pagination) SelectedRowsIndexes() []int {
	return SelectedRowsIndexes(p.SelectedPages(), p.From-1, p.To-1, p.RowsPerPage)
}

func (p *Pagination) pagesChanged() {
	p.CheckAll = len(p.Pages) > 0
	for _, checked := range p.Pages {
		if !checked {
			p.CheckAll = false
			break
		}
	}

	selected := p.SelectedPages()
	if len(selected) == 0 {
		return
	}

	b := BoundaryRowsIndexes(selected, p.RowsTotalCount, p.RowsPerPage)
	p.From = b.FirstRowIndex + 1
	p.To = b.LastRowIndex + 1
	p.MinRow = p.From
	p.MaxRow = p.To
}

func (p *Pagination) applyFlag(rows []domain.MemoRow) {
	flagged := []int{}
	for _, r := range rows {
		if r.Flag {
			flagged = append(flagged, r.ID)
		}
	}

	withRows := PagesWithRows(p.SelectedPages(), flagged, p.RowsPerPage)
	keep := make(map[int]bool, len(withRows))
	for _, page := range withRows {
		keep[page] = true
	}

	p.Pages = make([]bool, p.PagesCount())
	for i := range p.Pages {
		p.Pages[i] = keep[i]
	}
	p.pagesChanged()
}
