package service

import (
	"context"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/db"
	"github.com/devlingo/devlingo/internal/importer"
	"github.com/devlingo/devlingo/internal/logger"
	"github.com/devlingo/devlingo/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	log      *logger.Logger
	observer UseCaseObserver
}

// NewImportService persists course files. Every import runs in a single
// transaction with repositories bound to it.
func NewImportService(uow db.UnitOfWork, log *logger.Logger, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		log:      loggerOrNop(log).Named("import"),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportCourse(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadCourseSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading course file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportCourseFromSchema(ctx context.Context, schema *importer.CourseSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.CourseSchema) (result *ImportResult, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{}
		if result != nil {
			fields["units"] = result.UnitCount
			fields["lessons"] = result.LessonCount
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "course.import",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if schema == nil {
		return nil, fmt.Errorf("no course to import")
	}
	if errs := importer.ValidateCourseSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	course, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting course: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		units := repository.NewSQLiteUnitRepo(tx)
		lessons := repository.NewSQLiteLessonRepo(tx)

		for _, u := range course.Units {
			if err := units.Create(ctx, u); err != nil {
				return fmt.Errorf("creating unit %q: %w", u.Title, err)
			}
			for i := range u.Lessons {
				if err := lessons.Create(ctx, &u.Lessons[i]); err != nil {
					return fmt.Errorf("creating lesson %q: %w", u.Lessons[i].Title, err)
				}
			}
		}
		for _, q := range course.Questions {
			if err := lessons.CreateQuestion(ctx, q); err != nil {
				return fmt.Errorf("creating question %q: %w", q.Text, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("course imported", "units", len(course.Units), "lessons", course.LessonCount())
	return &ImportResult{
		UnitCount:     len(course.Units),
		LessonCount:   course.LessonCount(),
		QuestionCount: len(course.Questions),
		OptionCount:   course.OptionCount(),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
