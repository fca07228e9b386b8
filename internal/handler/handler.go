package handler

import (
	"sync"

	"memorizer/internal/domain"
	"memorizer/internal/middleware"
	"memorizer/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot             *tele.Bot
	authService     *service.AuthService
	memoFileService *service.MemoFileService
	studyService    *service.StudyService
	logger          *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Per-user locks serialize study callbacks of one user
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	memoFileService *service.MemoFileService,
	studyService *service.StudyService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:             bot,
		authService:     authService,
		memoFileService: memoFileService,
		studyService:    studyService,
		logger:          logger,
		states:          make(map[int64]*domain.StateData),
		callbackLocks:   make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Open to everyone: greeting and password entry
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle(tele.OnText, h.handleText)

	authorized := h.bot.Group()
	authorized.Use(middleware.AuthMiddleware(h.authService, h.logger))

	// Commands
	authorized.Handle("/help", h.handleHelp)
	authorized.Handle("/files", h.handleFiles)
	authorized.Handle("/new", h.handleNewFile)
	authorized.Handle("/study", h.handleStudy)
	authorized.Handle("/pages", h.handlePages)
	authorized.Handle("/settings", h.handleSettings)
	authorized.Handle("/email", h.handleAskEmail)
	authorized.Handle("/export", h.handleExport)
	authorized.Handle("/cancel", h.handleCancel)
	authorized.Handle(tele.OnDocument, h.handleDocument)

	// Callback queries (inline buttons)
	authorized.Handle(&btnFiles, h.handleFiles)
	authorized.Handle(&btnNewFile, h.handleNewFile)
	authorized.Handle(&btnAddRow, h.handleAddRow)
	authorized.Handle(&btnStudy, h.handleStudy)
	authorized.Handle(&btnPages, h.handlePages)
	authorized.Handle(&btnSettings, h.handleSettings)
	authorized.Handle(&btnCancel, h.handleCancel)
	authorized.Handle(&btnBack, h.handleStart)

	authorized.Handle(&btnNext, h.studyAction(h.studyService.Next))
	authorized.Handle(&btnPrevious, h.studyAction(h.studyService.Previous))
	authorized.Handle(&btnReveal, h.studyAction(h.studyService.Reveal))
	authorized.Handle(&btnFlag, h.studyAction(h.studyService.ToggleFlag))
	authorized.Handle(&btnRandom, h.studyAction(h.studyService.ToggleRandom))
	authorized.Handle(&btnRestart, h.studyAction(h.studyService.Restart))
	authorized.Handle(&btnReload, h.studyAction(h.studyService.Reload))

	authorized.Handle(&btnAllPages, h.pagesAction(h.studyService.CheckAllPages))
	authorized.Handle(&btnWithFlag, h.pagesAction(h.studyService.ToggleWithFlag))
	authorized.Handle(&btnAddUp, h.pagesAction(h.studyService.AddUpRows))
	authorized.Handle(&btnDeduct, h.pagesAction(h.studyService.DeductRows))
	authorized.Handle(&btnSetFrom, h.handleAskRow(domain.StateWaitingFrom))
	authorized.Handle(&btnSetTo, h.handleAskRow(domain.StateWaitingTo))

	authorized.Handle(&btnTranslationFirst, h.handleToggleTranslationFirst)
	authorized.Handle(&btnSetEmail, h.handleAskEmail)

	// Generic callback handler for dynamic data
	authorized.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// lockUser returns the unlock function of the user's callback lock
func (h *Handler) lockUser(userID int64) func() {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Inline keyboard buttons
var (
	btnFiles    = tele.Btn{Unique: "files", Text: "📂 Memo files"}
	btnNewFile  = tele.Btn{Unique: "new_file", Text: "➕ New memo file"}
	btnAddRow   = tele.Btn{Unique: "add_row", Text: "✏️ Add rows"}
	btnStudy    = tele.Btn{Unique: "study", Text: "🎓 Study"}
	btnPages    = tele.Btn{Unique: "pages", Text: "📑 Pages"}
	btnSettings = tele.Btn{Unique: "settings", Text: "⚙️ Settings"}
	btnCancel   = tele.Btn{Unique: "cancel", Text: "❌ Cancel"}
	btnBack     = tele.Btn{Unique: "back", Text: "🏠 Main menu"}

	btnNext     = tele.Btn{Unique: "next", Text: "➡️ Next"}
	btnPrevious = tele.Btn{Unique: "previous", Text: "⬅️ Previous"}
	btnReveal   = tele.Btn{Unique: "reveal", Text: "👁 Reveal"}
	btnFlag     = tele.Btn{Unique: "flag", Text: "🚩 Flag"}
	btnRandom   = tele.Btn{Unique: "random", Text: "🎲 Random"}
	btnRestart  = tele.Btn{Unique: "restart", Text: "🔁 Start over"}
	btnReload   = tele.Btn{Unique: "reload", Text: "♻️ Reload"}

	btnAllPages = tele.Btn{Unique: "all_pages", Text: "☑️ All pages"}
	btnWithFlag = tele.Btn{Unique: "with_flag", Text: "🚩 Flagged only"}
	btnAddUp    = tele.Btn{Unique: "add_up", Text: "⏫ From"}
	btnDeduct   = tele.Btn{Unique: "deduct", Text: "⏬ To"}
	btnSetFrom  = tele.Btn{Unique: "set_from", Text: "🔢 Set from"}
	btnSetTo    = tele.Btn{Unique: "set_to", Text: "🔢 Set to"}

	btnTranslationFirst = tele.Btn{Unique: "translation_first", Text: "🔄 Question side"}
	btnSetEmail         = tele.Btn{Unique: "set_email", Text: "✉️ Email"}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnStudy, btnPages),
		menu.Row(btnFiles, btnAddRow),
		menu.Row(btnSettings),
	)
	return menu
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}
