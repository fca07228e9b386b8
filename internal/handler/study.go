package handler

import (
	"fmt"
	"strings"

	"memorizer/internal/domain"
	"memorizer/internal/service"

	tele "gopkg.in/telebot.v3"
)

const (
	pageButtonsPerRow = 5
	// pageWindowSize bounds the page buttons of one keyboard, Telegram
	// rejects keyboards with about a hundred buttons
	pageWindowSize = 40
)

// pageWindow returns the [start, end) range of pages shown around focus.
// A negative focus picks the window of the first checked page.
func pageWindow(pages []bool, focus int) (int, int) {
	if focus < 0 {
		focus = 0
		for i, checked := range pages {
			if checked {
				focus = i
				break
			}
		}
	}
	if focus >= len(pages) {
		focus = len(pages) - 1
	}
	if focus < 0 {
		return 0, 0
	}

	start := focus / pageWindowSize * pageWindowSize
	end := start + pageWindowSize
	if end > len(pages) {
		end = len(pages)
	}
	return start, end
}

// cardView renders the current card and study controls
func cardView(card *service.CardView) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}

	if card.Row == nil {
		text := fmt.Sprintf("📚 %s\n\n🎉 All selected cards are done.", card.MemoFile.Name)
		markup.Inline(
			markup.Row(btnRestart, btnPages),
			markup.Row(btnBack),
		)
		return text, markup
	}

	row := card.Row
	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 %s · #%d", card.MemoFile.Name, row.ID+1)
	if row.Flag {
		sb.WriteString(" 🚩")
	}
	if card.PreviousShown {
		sb.WriteString(" · previous")
	}
	fmt.Fprintf(&sb, "\n\n❓ %s\n", row.Front(card.TranslationFirst))
	if card.AnswerDisplayed {
		fmt.Fprintf(&sb, "💡 %s\n", row.Back(card.TranslationFirst))
	} else {
		sb.WriteString("💡 …\n")
	}

	order := "in order"
	if card.Randomize {
		order = "random"
	}
	fmt.Fprintf(&sb, "\nLeft: %d · %s", card.RowsLeft, order)

	flag := btnFlag
	if row.Flag {
		flag.Text = "🏳 Unflag"
	}
	random := btnRandom
	if card.Randomize {
		random.Text = "🔢 In order"
	}

	controls := markup.Row(btnReveal, btnNext)
	if card.AnswerDisplayed {
		controls = markup.Row(btnNext)
	}
	if card.PreviousReady {
		controls = append(tele.Row{btnPrevious}, controls...)
	}

	markup.Inline(
		controls,
		markup.Row(flag, random),
		markup.Row(btnPages, btnRestart, btnReload),
		markup.Row(btnBack),
	)
	return sb.String(), markup
}

// paginationView renders the page checkboxes of the window around focus and the row range
func paginationView(view *service.PaginationView, focus int) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	start, end := pageWindow(view.Pages, focus)
	pageRow := tele.Row{}
	for i := start; i < end; i++ {
		checked := view.Pages[i]
		label := fmt.Sprintf("%d", i+1)
		if checked {
			label = "✅" + label
		}
		pageRow = append(pageRow, markup.Data(label, fmt.Sprintf("%s%d", prefixPage, i)))
		if len(pageRow) == pageButtonsPerRow {
			rows = append(rows, pageRow)
			pageRow = tele.Row{}
		}
	}
	if len(pageRow) > 0 {
		rows = append(rows, pageRow)
	}

	if start > 0 || end < len(view.Pages) {
		nav := tele.Row{}
		if start > 0 {
			nav = append(nav, markup.Data("◀️", fmt.Sprintf("%s%d", prefixPageWindow, start-pageWindowSize)))
		}
		if end < len(view.Pages) {
			nav = append(nav, markup.Data("▶️", fmt.Sprintf("%s%d", prefixPageWindow, end)))
		}
		rows = append(rows, nav)
	}

	all := btnAllPages
	if view.CheckAll {
		all.Text = "⬜ Uncheck all"
	}
	withFlag := btnWithFlag
	if view.WithFlag {
		withFlag.Text = "🏳 All rows"
	}

	rows = append(rows,
		markup.Row(all, withFlag),
		markup.Row(btnAddUp, btnDeduct),
		markup.Row(btnSetFrom, btnSetTo),
		markup.Row(btnStudy, btnBack),
	)
	markup.Inline(rows...)

	filter := ""
	if view.WithFlag {
		filter = ", flagged only"
	}
	text := fmt.Sprintf("📑 %s\n\nRows %d–%d (allowed %d–%d)%s\nCards selected: %d",
		view.MemoFile.Name, view.From, view.To, view.MinRow, view.MaxRow, filter, view.Selected)
	if start > 0 || end < len(view.Pages) {
		text += fmt.Sprintf("\nPages %d–%d of %d", start+1, end, len(view.Pages))
	}
	return text, markup
}

// handleStudy shows the current card
func (h *Handler) handleStudy(c tele.Context) error {
	return h.studyAction(h.studyService.Card)(c)
}

// studyAction wraps a card operation of the study service
func (h *Handler) studyAction(action func(userID int64) (*service.CardView, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		unlock := h.lockUser(userID)
		defer unlock()

		card, err := action(userID)
		if err != nil {
			return h.fail(c, err, "update card")
		}

		text, markup := cardView(card)
		return h.show(c, text, markup)
	}
}

// handlePages shows the page selection
func (h *Handler) handlePages(c tele.Context) error {
	return h.pagesAction(h.studyService.Pagination)(c)
}

// pagesAction wraps a pagination operation of the study service
func (h *Handler) pagesAction(action func(userID int64) (*service.PaginationView, error)) tele.HandlerFunc {
	return h.pagesActionAt(-1, action)
}

// pagesActionAt is pagesAction showing the page window around focus
func (h *Handler) pagesActionAt(focus int, action func(userID int64) (*service.PaginationView, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		unlock := h.lockUser(userID)
		defer unlock()

		view, err := action(userID)
		if err != nil {
			return h.fail(c, err, "update pages")
		}

		text, markup := paginationView(view, focus)
		return h.show(c, text, markup)
	}
}

func (h *Handler) handleTogglePage(c tele.Context, page int) error {
	return h.pagesActionAt(page, func(userID int64) (*service.PaginationView, error) {
		return h.studyService.TogglePage(userID, page)
	})(c)
}

// handlePageWindow shows another window of page buttons
func (h *Handler) handlePageWindow(c tele.Context, start int) error {
	return h.pagesActionAt(start, h.studyService.Pagination)(c)
}

// handleAskRow asks for the first or last row number of the range
func (h *Handler) handleAskRow(state domain.UserState) tele.HandlerFunc {
	return func(c tele.Context) error {
		view, err := h.studyService.Pagination(c.Sender().ID)
		if err != nil {
			return h.fail(c, err, "load pages")
		}

		h.SetState(c.Sender().ID, &domain.StateData{State: state})

		which := "first"
		if state == domain.StateWaitingTo {
			which = "last"
		}
		return h.show(c, fmt.Sprintf("Send the %s row number (%d–%d)", which, view.MinRow, view.MaxRow), cancelMarkup())
	}
}
