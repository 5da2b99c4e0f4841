package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/auth"
	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/logger"
	"github.com/devlingo/devlingo/internal/repository"
	"github.com/google/uuid"
)

type progressService struct {
	users    repository.UserRepo
	lessons  repository.LessonRepo
	progress repository.ProgressRepo
	attempts repository.AttemptRepo
	current  CurrentUser
	log      *logger.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewProgressService(
	users repository.UserRepo,
	lessons repository.LessonRepo,
	progress repository.ProgressRepo,
	attempts repository.AttemptRepo,
	current CurrentUser,
	log *logger.Logger,
	observers ...UseCaseObserver,
) ProgressService {
	return &progressService{
		users:    users,
		lessons:  lessons,
		progress: progress,
		attempts: attempts,
		current:  current,
		log:      loggerOrNop(log).Named("progress"),
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressService) CompleteLesson(ctx context.Context, lessonID string, xpEarned int) bool {
	startedAt := time.Now()
	var err error
	fields := map[string]any{"lesson_id": lessonID, "xp": xpEarned}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "lesson.complete",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	userID, ok := s.current.CurrentUser(ctx)
	if !ok {
		err = auth.ErrNotAuthenticated
		return false
	}

	err = s.progress.UpsertLessonCompletion(ctx, &domain.LessonCompletion{
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: true,
		XPEarned:    xpEarned,
		CompletedAt: s.now(),
	})
	if err != nil {
		s.log.Error("saving lesson completion failed", "user_id", userID, "lesson_id", lessonID, "error", err)
		return false
	}

	// The completion record is authoritative; the running total and the unit
	// record are allowed to lag behind it.
	if xerr := s.users.IncrementTotalXP(ctx, userID, xpEarned); xerr != nil {
		s.log.Warn("updating total xp failed", "user_id", userID, "error", xerr)
		fields["xp_total_error"] = xerr.Error()
	}
	unitDone, uerr := s.markUnitIfComplete(ctx, userID, lessonID)
	if uerr != nil {
		s.log.Warn("recording unit completion failed", "user_id", userID, "lesson_id", lessonID, "error", uerr)
		fields["unit_error"] = uerr.Error()
	}
	fields["unit_completed"] = unitDone
	return true
}

func (s *progressService) markUnitIfComplete(ctx context.Context, userID, lessonID string) (bool, error) {
	lesson, err := s.lessons.GetDetail(ctx, lessonID)
	if err != nil {
		return false, err
	}
	siblings, err := s.lessons.ListByUnit(ctx, lesson.UnitID)
	if err != nil {
		return false, err
	}
	done, err := s.progress.CompletedLessonIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	if !domain.IsUnitComplete(domain.ProcessLessons(siblings, done)) {
		return false, nil
	}
	err = s.progress.MarkUnitCompleted(ctx, &domain.UnitCompletion{
		UserID:      userID,
		UnitID:      lesson.UnitID,
		CompletedAt: s.now(),
	})
	return err == nil, err
}

func (s *progressService) RecordAttempt(ctx context.Context, summary domain.AttemptSummary) bool {
	startedAt := time.Now()
	var err error
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "attempt.record",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"lesson_id": summary.LessonID,
				"outcome":   string(summary.Outcome),
			},
		})
	}()

	userID, ok := s.current.CurrentUser(ctx)
	if !ok {
		err = auth.ErrNotAuthenticated
		return false
	}
	if summary.LessonID == "" || summary.Outcome == "" {
		err = errors.New("attempt summary has no lesson or outcome")
		return false
	}

	err = s.attempts.Create(ctx, &domain.Attempt{
		ID:        uuid.New().String(),
		UserID:    userID,
		LessonID:  summary.LessonID,
		Outcome:   summary.Outcome,
		Correct:   summary.Correct,
		Incorrect: summary.Incorrect,
		Accuracy:  summary.Accuracy,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.log.Warn("recording attempt failed", "user_id", userID, "lesson_id", summary.LessonID, "error", err)
		return false
	}
	return true
}

func (s *progressService) History(ctx context.Context, limit int) ([]*domain.Attempt, error) {
	userID, ok := s.current.CurrentUser(ctx)
	if !ok {
		return nil, auth.ErrNotAuthenticated
	}
	attempts, err := s.attempts.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	return attempts, nil
}
