package service

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"memorizer/internal/domain"
	"memorizer/internal/memo"
	"memorizer/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CardView is what the user sees while studying
type CardView struct {
	MemoFile         domain.MemoFile
	Row              *domain.MemoRow
	AnswerDisplayed  bool
	PreviousShown    bool
	PreviousReady    bool
	RowsLeft         int
	Randomize        bool
	TranslationFirst bool
}

// PaginationView is the page and range selection of the active memo file
type PaginationView struct {
	MemoFile domain.MemoFile
	Pages    []bool
	CheckAll bool
	WithFlag bool
	From     int
	To       int
	MinRow   int
	MaxRow   int
	Selected int
}

// workspace is the in-memory study state of one user
type workspace struct {
	mu sync.Mutex

	memoFile         domain.MemoFile
	pagination       *memo.Pagination
	session          *memo.Session
	translationFirst bool
	lastUsed         time.Time
}

// syncSelection pushes the pagination selection into the session
func (w *workspace) syncSelection() {
	w.session.SetSelection(w.pagination.SelectedRowsIndexes(), w.pagination.WithFlag)
}

func (w *workspace) card() *CardView {
	var row *domain.MemoRow
	if current := w.session.Current(); current != nil {
		r := *current
		row = &r
	}

	return &CardView{
		MemoFile:         w.memoFile,
		Row:              row,
		AnswerDisplayed:  w.session.AnswerDisplayed(),
		PreviousShown:    w.session.IsPreviousShown(),
		PreviousReady:    w.session.IsPreviousReady(),
		RowsLeft:         w.session.RowsLeftCount(),
		Randomize:        w.session.Randomize(),
		TranslationFirst: w.translationFirst,
	}
}

func (w *workspace) paginationView() *PaginationView {
	p := w.pagination
	pages := make([]bool, len(p.Pages))
	copy(pages, p.Pages)

	return &PaginationView{
		MemoFile: w.memoFile,
		Pages:    pages,
		CheckAll: p.CheckAll,
		WithFlag: p.WithFlag,
		From:     p.From,
		To:       p.To,
		MinRow:   p.MinRow,
		MaxRow:   p.MaxRow,
		Selected: len(w.session.Fresh()),
	}
}

// StudyService keeps per-user study workspaces over the active memo file
type StudyService struct {
	userRepo repository.UserRepository
	fileRepo repository.MemoFileRepository
	rowRepo  repository.MemoRowRepository
	rnd      memo.RandomNumber
	logger   *zap.Logger

	rowsPerPage   int
	deductionStep int
	now           func() time.Time

	workspaces map[int64]*workspace
	// generations is bumped by Invalidate, a load stores its workspace
	// only while the generation it started with is current
	generations map[int64]uint64
	mu          sync.Mutex
	loads       singleflight.Group
}

// NewStudyService creates a new study service
func NewStudyService(
	userRepo repository.UserRepository,
	fileRepo repository.MemoFileRepository,
	rowRepo repository.MemoRowRepository,
	rnd memo.RandomNumber,
	rowsPerPage, deductionStep int,
	logger *zap.Logger,
) *StudyService {
	return &StudyService{
		userRepo:      userRepo,
		fileRepo:      fileRepo,
		rowRepo:       rowRepo,
		rnd:           rnd,
		logger:        logger,
		rowsPerPage:   rowsPerPage,
		deductionStep: deductionStep,
		now:           time.Now,
		workspaces:    make(map[int64]*workspace),
		generations:   make(map[int64]uint64),
	}
}

// Card returns the current card, loading the active memo file if needed
func (s *StudyService) Card(userID int64) (*CardView, error) {
	var view *CardView
	err := s.withWorkspace(userID, false, func(w *workspace) error {
		view = w.card()
		return nil
	})
	return view, err
}

// Reload reloads the active memo file from the database and starts over
func (s *StudyService) Reload(userID int64) (*CardView, error) {
	var view *CardView
	err := s.withWorkspace(userID, true, func(w *workspace) error {
		view = w.card()
		return nil
	})
	return view, err
}

// Next marks the current card as shown and moves on
func (s *StudyService) Next(userID int64) (*CardView, error) {
	var view *CardView
	err := s.withWorkspace(userID, false, func(w *workspace) error {
		if current := w.session.Current(); current != nil {
			w.session.SetShown(current.ID)
		}
		view = w.card()
		return nil
	})
	return view, err
}

// Previous shows the previous card again
func (s *StudyService) Previous(userID int64) (*CardView, error) {
	var view *CardView
	err := s.withWorkspace(userID, false, func(w *workspace) error {
		w.session.ShowPrevious()
		view = w.card()
		return nil
	})
	return view, err
}

// Reveal shows the answer of the current card
func (s *StudyService) Reveal(userID int64) (*CardView, error) {
	var view *CardView
	err := s.withWorkspace(userID, false, func(w *workspace) error {
		w.session.Reveal()
		view = w.card()
		return nil
	})
	return view, err
}

// ToggleFlag flips and persists the flag of the current card
func (s *StudyService) ToggleFlag(userID int64) (*CardView, error) {
	var view *CardView
	err := s.withWorkspace(userID, false, func(w *workspace) error {
		current := w.session.Current()
		if current == nil {
			view = w.card()
			return nil
		}

		flag := !current.Flag
		if err := s.rowRepo.SetFlag(w.memoFile.ID, current.ID, flag); err != nil {
			return err
		}
		w.session.SetFlag(current.ID, flag)
		view = w.card()
		return nil
	})
	return view, err
}

// ToggleRandom switches between random and sequential order and stores the choice
func (s *StudyService) ToggleRandom(userID int64) (*CardView, error) {
	var view *CardView
	err := s.withWorkspace(userID, false, func(w *workspace) error {
		randomize := !w.session.Randomize()
		if err := s.userRepo.UpdateSettings(userID, domain.UserSettings{Randomize: &randomize}); err != nil {
			return err
		}
		w.session.SetRandomize(randomize)
		view = w.card()
		return nil
	})
	return view, err
}

// Restart forgets which cards were shown
func (s *StudyService) Restart(userID int64) (*CardView, error) {
	var view *CardView
	err := s.withWorkspace(userID, false, func(w *workspace) error {
		w.session.Reset()
		view = w.card()
		return nil
	})
	return view, err
}

// Pagination returns the page selection of the active memo file
func (s *StudyService) Pagination(userID int64) (*PaginationView, error) {
	return s.paginate(userID, func(p *memo.Pagination, _ []domain.MemoRow) error {
		return nil
	})
}

// TogglePage flips one page of the selection, page is zero-based
func (s *StudyService) TogglePage(userID int64, page int) (*PaginationView, error) {
	return s.paginate(userID, func(p *memo.Pagination, _ []domain.MemoRow) error {
		return p.TogglePage(page)
	})
}

// CheckAllPages flips all pages to the opposite of the check-all box
func (s *StudyService) CheckAllPages(userID int64) (*PaginationView, error) {
	return s.paginate(userID, func(p *memo.Pagination, _ []domain.MemoRow) error {
		p.CheckAllPages(!p.CheckAll)
		return nil
	})
}

// ToggleWithFlag switches the flagged-only filter
func (s *StudyService) ToggleWithFlag(userID int64) (*PaginationView, error) {
	return s.paginate(userID, func(p *memo.Pagination, rows []domain.MemoRow) error {
		p.SetWithFlag(!p.WithFlag, rows)
		return nil
	})
}

// SetFrom sets the first row number of the selection
func (s *StudyService) SetFrom(userID int64, n int) (*PaginationView, error) {
	return s.paginate(userID, func(p *memo.Pagination, _ []domain.MemoRow) error {
		return p.SetFrom(n)
	})
}

// SetTo sets the last row number of the selection
func (s *StudyService) SetTo(userID int64, n int) (*PaginationView, error) {
	return s.paginate(userID, func(p *memo.Pagination, _ []domain.MemoRow) error {
		return p.SetTo(n)
	})
}

// AddUpRows moves the start of the selection forward
func (s *StudyService) AddUpRows(userID int64) (*PaginationView, error) {
	return s.paginate(userID, func(p *memo.Pagination, _ []domain.MemoRow) error {
		p.AddUpRows()
		return nil
	})
}

// DeductRows moves the end of the selection back
func (s *StudyService) DeductRows(userID int64) (*PaginationView, error) {
	return s.paginate(userID, func(p *memo.Pagination, _ []domain.MemoRow) error {
		p.DeductRows()
		return nil
	})
}

// SetTranslationFirst updates the card side order of a loaded workspace
func (s *StudyService) SetTranslationFirst(userID int64, translationFirst bool) {
	s.mu.Lock()
	w := s.workspaces[userID]
	s.mu.Unlock()

	if w == nil {
		return
	}
	w.mu.Lock()
	w.translationFirst = translationFirst
	w.mu.Unlock()
}

// Invalidate drops the workspace so the next call reloads the memo file
func (s *StudyService) Invalidate(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, userID)
	s.generations[userID]++
}

// EvictIdle drops workspaces not used for ttl and returns how many were dropped
func (s *StudyService) EvictIdle(ttl time.Duration) int {
	deadline := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, w := range s.workspaces {
		w.mu.Lock()
		idle := w.lastUsed.Before(deadline)
		w.mu.Unlock()

		if idle {
			delete(s.workspaces, userID)
			evicted++
		}
	}

	if evicted > 0 {
		s.logger.Info("Evicted idle workspaces",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(s.workspaces)),
		)
	}
	return evicted
}

func (s *StudyService) paginate(userID int64, fn func(p *memo.Pagination, rows []domain.MemoRow) error) (*PaginationView, error) {
	var view *PaginationView
	err := s.withWorkspace(userID, false, func(w *workspace) error {
		if err := fn(w.pagination, w.session.Rows()); err != nil {
			return err
		}
		w.syncSelection()
		view = w.paginationView()
		return nil
	})
	return view, err
}

func (s *StudyService) withWorkspace(userID int64, reload bool, fn func(w *workspace) error) error {
	w, err := s.workspace(userID, reload)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastUsed = s.now()
	return fn(w)
}

// workspace returns the cached workspace of the active memo file or loads it
func (s *StudyService) workspace(userID int64, reload bool) (*workspace, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if !user.HasActiveMemoFile() {
		s.Invalidate(userID)
		return nil, domain.ErrNoActiveMemoFile
	}
	fileID := *user.ActiveMemoFileID

	if reload {
		s.Invalidate(userID)
	}

	s.mu.Lock()
	w := s.workspaces[userID]
	gen := s.generations[userID]
	s.mu.Unlock()

	if w != nil && w.memoFile.ID == fileID {
		w.mu.Lock()
		w.translationFirst = user.TranslationByDefault
		w.mu.Unlock()
		return w, nil
	}

	key := strconv.FormatInt(userID, 10) + ":" + strconv.FormatUint(gen, 10)
	v, err, _ := s.loads.Do(key, func() (interface{}, error) {
		return s.load(user, fileID, gen)
	})
	if err != nil {
		return nil, err
	}
	return v.(*workspace), nil
}

// load reads the memo file and its rows into a fresh workspace
func (s *StudyService) load(user *domain.User, fileID string, gen uint64) (*workspace, error) {
	userID := user.UserID

	file, err := s.fileRepo.Get(fileID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoActiveMemoFile
	}
	if err != nil {
		return nil, err
	}
	if file.UserID != userID {
		return nil, domain.ErrNoActiveMemoFile
	}

	rows, err := s.rowRepo.ListByFile(fileID)
	if err != nil {
		return nil, err
	}

	w := &workspace{
		memoFile:         *file,
		pagination:       memo.NewPagination(s.rowsPerPage, s.deductionStep),
		session:          memo.NewSession(s.rnd, user.Randomize),
		translationFirst: user.TranslationByDefault,
		lastUsed:         s.now(),
	}
	w.session.Load(rows)
	w.pagination.Init(len(rows), rows)
	w.syncSelection()

	s.mu.Lock()
	stale := s.generations[userID] != gen
	if !stale {
		s.workspaces[userID] = w
	}
	s.mu.Unlock()

	if stale {
		s.logger.Debug("Workspace invalidated while loading",
			zap.Int64("user_id", userID),
			zap.String("memo_file_id", fileID),
		)
		return w, nil
	}

	s.logger.Debug("Workspace loaded",
		zap.Int64("user_id", userID),
		zap.String("memo_file_id", fileID),
		zap.Int("rows", len(rows)),
	)
	return w, nil
}
