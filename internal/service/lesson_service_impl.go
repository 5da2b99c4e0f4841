package service

import (
	"context"
	"errors"
	"time"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/logger"
	"github.com/devlingo/devlingo/internal/repository"
)

type lessonService struct {
	lessons  repository.LessonRepo
	progress repository.ProgressRepo
	users    CurrentUser
	log      *logger.Logger
	observer UseCaseObserver
}

func NewLessonService(
	lessons repository.LessonRepo,
	progress repository.ProgressRepo,
	users CurrentUser,
	log *logger.Logger,
	observers ...UseCaseObserver,
) LessonService {
	return &lessonService{
		lessons:  lessons,
		progress: progress,
		users:    users,
		log:      loggerOrNop(log).Named("lessons"),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *lessonService) GetLesson(ctx context.Context, lessonID string) *domain.Lesson {
	startedAt := time.Now()
	var err error
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "lesson.get",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"lesson_id": lessonID},
		})
	}()

	userID, ok := s.users.CurrentUser(ctx)
	if !ok {
		s.log.Debug("reading lesson without a signed-in user", "lesson_id", lessonID)
		return nil
	}

	var lesson *domain.Lesson
	lesson, err = s.lessons.GetDetail(ctx, lessonID)
	if err != nil {
		s.log.Warn("reading lesson failed", "lesson_id", lessonID, "error", err)
		return nil
	}

	// A missing completion record just means the lesson is still pending.
	c, cerr := s.progress.GetLessonCompletion(ctx, userID, lessonID)
	switch {
	case cerr == nil:
		lesson.Completed = c.IsCompleted
	case !errors.Is(cerr, repository.ErrNotFound):
		s.log.Warn("reading lesson completion failed", "lesson_id", lessonID, "error", cerr)
	}
	return lesson
}
