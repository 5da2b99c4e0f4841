package service

import (
	"context"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/logger"
	"github.com/devlingo/devlingo/internal/repository"
	"golang.org/x/sync/errgroup"
)

type unitService struct {
	units    repository.UnitRepo
	progress repository.ProgressRepo
	users    CurrentUser
	log      *logger.Logger
	observer UseCaseObserver
}

func NewUnitService(
	units repository.UnitRepo,
	progress repository.ProgressRepo,
	users CurrentUser,
	log *logger.Logger,
	observers ...UseCaseObserver,
) UnitService {
	return &unitService{
		units:    units,
		progress: progress,
		users:    users,
		log:      loggerOrNop(log).Named("units"),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *unitService) ListUnits(ctx context.Context) []domain.Unit {
	startedAt := time.Now()
	var (
		err   error
		units []domain.Unit
	)
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "unit.list",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"units": len(units)},
		})
	}()

	userID, ok := s.users.CurrentUser(ctx)
	if !ok {
		s.log.Debug("listing units without a signed-in user")
		return []domain.Unit{}
	}

	units, err = s.buildPath(ctx, userID)
	if err != nil {
		s.log.Warn("listing units failed", "user_id", userID, "error", err)
		units = []domain.Unit{}
	}
	return units
}

// buildPath runs the three reads concurrently; they are independent.
func (s *unitService) buildPath(ctx context.Context, userID string) ([]domain.Unit, error) {
	var (
		raw         []domain.RawUnit
		lessonsDone domain.IDSet
		unitsDone   domain.IDSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if raw, err = s.units.ListWithLessons(gctx); err != nil {
			return fmt.Errorf("reading units: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if lessonsDone, err = s.progress.CompletedLessonIDs(gctx, userID); err != nil {
			return fmt.Errorf("reading completed lessons: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if unitsDone, err = s.progress.CompletedUnitIDs(gctx, userID); err != nil {
			return fmt.Errorf("reading completed units: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return domain.BuildUnitPath(raw, lessonsDone, unitsDone), nil
}
