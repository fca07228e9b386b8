package memo

import "memorizer/internal/domain"

// Session walks through the selected rows of one memo file
type Session struct {
	rnd RandomNumber

	rows      []domain.MemoRow
	selection map[int]bool
	withFlag  bool
	shown     map[int]bool

	randomize       bool
	current         *domain.MemoRow
	previous        *domain.MemoRow
	previousShown   bool
	answerDisplayed bool
}

// NewSession creates an empty session
func NewSession(rnd RandomNumber, randomize bool) *Session {
	return &Session{
		rnd:       rnd,
		randomize: randomize,
		selection: map[int]bool{},
		shown:     map[int]bool{},
	}
}

// Load replaces the rows of the session and forgets progress.
// rows must be sorted by id.
func (s *Session) Load(rows []domain.MemoRow) {
	s.rows = rows
	s.selection = map[int]bool{}
	s.withFlag = false
	s.Reset()
}

// Rows returns all loaded rows
func (s *Session) Rows() []domain.MemoRow {
	return s.rows
}

// SetSelection selects rows by index, optionally only the flagged ones
func (s *Session) SetSelection(selectedRowsIndexes []int, withFlag bool) {
	s.selection = make(map[int]bool, len(selectedRowsIndexes))
	for _, i := range selectedRowsIndexes {
		s.selection[i] = true
	}
	s.withFlag = withFlag
	s.current = nil
	s.answerDisplayed = false
}

// Fresh returns selected rows that were not shown yet, in id order
func (s *Session) Fresh() []domain.MemoRow {
	fresh := []domain.MemoRow{}
	for _, r := range s.rows {
		if !s.selection[r.ID] || s.shown[r.ID] {
			continue
		}
		if s.withFlag && !r.Flag {
			continue
		}
		fresh = append(fresh, r)
	}
	return fresh
}

// Current returns the card to display, nil when the selection is exhausted
func (s *Session) Current() *domain.MemoRow {
	if s.previousShown {
		return s.previous
	}
	if s.current != nil {
		return s.current
	}

	fresh := s.Fresh()
	if len(fresh) == 0 {
		return nil
	}

	if s.randomize {
		s.current = RandomMemoRow(fresh, s.rnd)
	} else {
		row := fresh[0]
		s.current = &row
	}
	return s.current
}

// SetShown marks a row as done and remembers it as the previous card
func (s *Session) SetShown(id int) {
	s.shown[id] = true
	if row := s.row(id); row != nil {
		s.previous = row
	}
	s.current = nil
	s.previousShown = false
	s.answerDisplayed = false
}

// ShowPrevious switches the current card to the previous one
func (s *Session) ShowPrevious() {
	if s.previous != nil {
		s.previousShown = true
		s.answerDisplayed = false
	}
}

// IsPreviousReady reports whether there is a previous card that is not displayed
func (s *Session) IsPreviousReady() bool {
	return s.previous != nil && !s.previousShown
}

// IsPreviousShown reports whether the previous card is displayed
func (s *Session) IsPreviousShown() bool {
	return s.previousShown
}

// Reveal displays the answer of the current card
func (s *Session) Reveal() {
	s.answerDisplayed = true
}

// AnswerDisplayed reports whether the answer of the current card is visible
func (s *Session) AnswerDisplayed() bool {
	return s.answerDisplayed
}

// Randomize reports whether cards are drawn randomly
func (s *Session) Randomize() bool {
	return s.randomize
}

// SetRandomize switches between random and sequential order
func (s *Session) SetRandomize(randomize bool) {
	if s.randomize == randomize {
		return
	}
	s.randomize = randomize
	s.current = nil
}

// RowsLeftCount returns how many cards remain after the current one
func (s *Session) RowsLeftCount() int {
	n := len(s.Fresh())
	if n > 0 {
		return n - 1
	}
	return 0
}

// Reset starts the selection over
func (s *Session) Reset() {
	s.shown = map[int]bool{}
	s.current = nil
	s.previous = nil
	s.previousShown = false
	s.answerDisplayed = false
}

// SetFlag updates the flag of a loaded row
func (s *Session) SetFlag(id int, flag bool) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Flag = flag
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current.Flag = flag
	}
	if s.previous != nil && s.previous.ID == id {
		s.previous.Flag = flag
	}
}

func (s *Session) row(id int) *domain.MemoRow {
	for i := range s.rows {
		if s.rows[i].ID == id {
			row := s.rows[i]
			return &row
		}
	}
	return nil
}
