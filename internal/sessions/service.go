package sessions

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/internal/children"
	"github.com/angelmondragon/juniorgolf-backend/internal/drills"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
	"github.com/angelmondragon/juniorgolf-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StarsPerDrill is the fixed award for one verified drill.
const StarsPerDrill = 2

const (
	sessionNotFound = "session not found"
	sessionClosed   = "session is no longer in progress"
)

// Service runs the practice session lifecycle and its star bookkeeping.
type Service interface {
	Generate(ctx context.Context, parentID uuid.UUID, input GenerateInput) (*SessionDTO, error)
	CompleteDrill(ctx context.Context, parentID, sessionID, sessionDrillID uuid.UUID) (*SessionDTO, error)
	Complete(ctx context.Context, parentID, sessionID uuid.UUID) (*SessionDTO, error)
	Get(ctx context.Context, parentID, sessionID uuid.UUID) (*SessionDTO, error)
	List(ctx context.Context, parentID uuid.UUID, input ListInput) (*ListResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ShuffleFunc permutes n elements through swap.
type ShuffleFunc func(n int, swap func(i, j int))

type service struct {
	tx       txRunner
	sessions Repository
	children children.Repository
	drills   drills.Repository
	metrics  *metrics.RewardMetrics
	logg     *logger.Logger
	now      func() time.Time
	shuffle  ShuffleFunc
}

// ServiceParams bundles the dependencies of the session service.
type ServiceParams struct {
	TxRunner    txRunner
	SessionRepo Repository
	ChildRepo   children.Repository
	DrillRepo   drills.Repository
	Metrics     *metrics.RewardMetrics
	Logger      *logger.Logger
	Clock       func() time.Time
	Shuffle     ShuffleFunc
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.SessionRepo == nil {
		return nil, fmt.Errorf("session repository is required")
	}
	if params.ChildRepo == nil {
		return nil, fmt.Errorf("children repository is required")
	}
	if params.DrillRepo == nil {
		return nil, fmt.Errorf("drill repository is required")
	}
	svc := &service{
		tx:       params.TxRunner,
		sessions: params.SessionRepo,
		children: params.ChildRepo,
		drills:   params.DrillRepo,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      params.Clock,
		shuffle:  params.Shuffle,
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.shuffle == nil {
		svc.shuffle = rand.Shuffle
	}
	return svc, nil
}

// Generate builds a session from a random subset of the child's age-band drills.
func (s *service) Generate(ctx context.Context, parentID uuid.UUID, input GenerateInput) (*SessionDTO, error) {
	duration, err := enums.ParseSessionDuration(input.DurationMinutes)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "durationMinutes must be one of 10, 15, 20")
	}
	child, err := children.FindOwned(ctx, s.children, parentID, input.ChildID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.drills.ListByAgeBand(ctx, child.AgeBand)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drills")
	}
	if len(candidates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNoDrillsAvailable, "no drills available for this age band")
	}
	picked := pickDrills(candidates, duration.DrillCount(), s.shuffle)

	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.New(),
		ChildID:   child.ID,
		Status:    enums.SessionStatusInProgress,
		StartedAt: now,
		Drills:    make([]models.SessionDrill, 0, len(picked)),
	}
	for i := range picked {
		session.Drills = append(session.Drills, models.SessionDrill{
			ID:      uuid.New(),
			DrillID: picked[i].ID,
			Order:   i + 1,
		})
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.sessions.WithTx(tx).Create(ctx, session)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	for i := range session.Drills {
		session.Drills[i].Drill = &picked[i]
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"session_id": session.ID.String(), "child_id": child.ID.String()})
	s.logg.Info(ctx, "session generated")
	return FromModel(session), nil
}

// pickDrills shuffles a copy of candidates and keeps the first n.
func pickDrills(candidates []models.Drill, n int, shuffle ShuffleFunc) []models.Drill {
	pool := make([]models.Drill, len(candidates))
	copy(pool, candidates)
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

func (s *service) CompleteDrill(ctx context.Context, parentID, sessionID, sessionDrillID uuid.UUID) (*SessionDTO, error) {
	session, err := s.findOwned(ctx, parentID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != enums.SessionStatusInProgress {
		return nil, pkgerrors.New(pkgerrors.CodeSessionClosed, sessionClosed)
	}
	slot := findSlot(session, sessionDrillID)
	if slot == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session drill not found")
	}
	if slot.Completed {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyCompleted, "drill already completed")
	}

	now := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.sessions.WithTx(tx)
		flipped, err := repo.MarkDrillCompleted(ctx, session.ID, slot.ID, StarsPerDrill, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete drill")
		}
		if !flipped {
			return pkgerrors.New(pkgerrors.CodeAlreadyCompleted, "drill already completed")
		}
		open, err := repo.AddStars(ctx, session.ID, StarsPerDrill)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update session stars")
		}
		if !open {
			return pkgerrors.New(pkgerrors.CodeSessionClosed, sessionClosed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddStarsAwarded(metrics.SourceDrill, StarsPerDrill)
	return s.Get(ctx, parentID, sessionID)
}

func findSlot(session *models.Session, sessionDrillID uuid.UUID) *models.SessionDrill {
	for i := range session.Drills {
		if session.Drills[i].ID == sessionDrillID {
			return &session.Drills[i]
		}
	}
	return nil
}

// Complete closes the session and credits its stars to the child exactly once.
func (s *service) Complete(ctx context.Context, parentID, sessionID uuid.UUID) (*SessionDTO, error) {
	session, err := s.findOwned(ctx, parentID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != enums.SessionStatusInProgress {
		return nil, pkgerrors.New(pkgerrors.CodeSessionClosed, sessionClosed)
	}

	now := s.now().UTC()
	var credited int
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.sessions.WithTx(tx)
		closed, err := repo.Close(ctx, session.ID, enums.SessionStatusCompleted, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete session")
		}
		if !closed {
			return pkgerrors.New(pkgerrors.CodeSessionClosed, sessionClosed)
		}
		credited, err = repo.StarsEarned(ctx, session.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session stars")
		}
		if credited == 0 {
			return nil
		}
		if err := s.children.WithTx(tx).CreditStars(ctx, session.ChildID, credited); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit stars")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSessionCompleted(string(enums.SessionStatusCompleted))
	s.metrics.AddStarsAwarded(metrics.SourceSession, credited)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"session_id": session.ID.String(),
		"child_id":   session.ChildID.String(),
		"stars":      credited,
	})
	s.logg.Info(ctx, "session completed")
	return s.Get(ctx, parentID, sessionID)
}

func (s *service) Get(ctx context.Context, parentID, sessionID uuid.UUID) (*SessionDTO, error) {
	session, err := s.findOwned(ctx, parentID, sessionID)
	if err != nil {
		return nil, err
	}
	return FromModel(session), nil
}

func (s *service) List(ctx context.Context, parentID uuid.UUID, input ListInput) (*ListResult, error) {
	if input.Filters.Status != nil && !input.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid session status")
	}
	page, err := s.sessions.List(ctx, parentID, input.Filters, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions")
	}
	result := &ListResult{
		Sessions: make([]SessionDTO, 0, len(page.Items)),
		Total:    page.Total,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	for i := range page.Items {
		result.Sessions = append(result.Sessions, *FromModel(&page.Items[i]))
	}
	return result, nil
}

func (s *service) findOwned(ctx context.Context, parentID, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.sessions.FindOwned(ctx, parentID, sessionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, sessionNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}
	return session, nil
}
