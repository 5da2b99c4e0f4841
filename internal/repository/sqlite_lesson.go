package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devlingo/devlingo/internal/db"
	"github.com/devlingo/devlingo/internal/domain"
)

type SQLiteLessonRepo struct {
	db db.DBTX
}

func NewSQLiteLessonRepo(conn db.DBTX) *SQLiteLessonRepo {
	return &SQLiteLessonRepo{db: conn}
}

func (r *SQLiteLessonRepo) Create(ctx context.Context, l *domain.RawLesson) error {
	query := `INSERT INTO lessons (id, unit_id, title, description, xp_reward, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.UnitID,
		l.Title,
		l.Description,
		l.XPReward,
		l.Position,
		formatTime(nowUTC()),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("lesson %s: %w", l.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("inserting lesson: %w", err)
	}
	return nil
}

func (r *SQLiteLessonRepo) CreateQuestion(ctx context.Context, q *domain.Question) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lesson_questions (id, lesson_id, question, position) VALUES (?, ?, ?, ?)`,
		q.ID, q.LessonID, q.Text, q.Position)
	if isUniqueViolation(err) {
		return fmt.Errorf("question %s at position %d: %w", q.ID, q.Position, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("inserting question: %w", err)
	}
	for _, o := range q.Options {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO lesson_question_options (id, question_id, option_text, is_correct, position) VALUES (?, ?, ?, ?, ?)`,
			o.ID, q.ID, o.Text, boolToInt(o.IsCorrect), o.Position)
		if isUniqueViolation(err) {
			return fmt.Errorf("option %s at position %d: %w", o.ID, o.Position, ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("inserting option: %w", err)
		}
	}
	return nil
}

func (r *SQLiteLessonRepo) GetDetail(ctx context.Context, id string) (*domain.Lesson, error) {
	var l domain.Lesson
	var reward int
	err := r.db.QueryRowContext(ctx,
		`SELECT id, unit_id, title, description, xp_reward FROM lessons WHERE id = ?`, id,
	).Scan(&l.ID, &l.UnitID, &l.Title, &l.Description, &reward)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning lesson: %w", err)
	}
	l.XP = domain.LessonXP(reward)

	questions, err := r.listQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	options, err := r.listOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Options = options[questions[i].ID]
	}
	domain.SortQuestions(questions)
	l.Questions = questions
	return &l, nil
}

func (r *SQLiteLessonRepo) ListByUnit(ctx context.Context, unitID string) ([]domain.RawLesson, error) {
	query := `SELECT id, unit_id, title, description, xp_reward, position
		FROM lessons WHERE unit_id = ? ORDER BY position, created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, unitID)
	if err != nil {
		return nil, fmt.Errorf("listing lessons by unit: %w", err)
	}
	return scanRawLessons(rows)
}

func (r *SQLiteLessonRepo) listQuestions(ctx context.Context, lessonID string) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, lesson_id, question, position FROM lesson_questions WHERE lesson_id = ? ORDER BY position`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.LessonID, &q.Text, &q.Position); err != nil {
			return nil, fmt.Errorf("scanning question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}
	return questions, nil
}

// listOptions returns the options of every question in the lesson, keyed by question id.
func (r *SQLiteLessonRepo) listOptions(ctx context.Context, lessonID string) (map[string][]domain.Option, error) {
	query := `SELECT o.id, o.question_id, o.option_text, o.is_correct, o.position
		FROM lesson_question_options o
		JOIN lesson_questions q ON q.id = o.question_id
		WHERE q.lesson_id = ?
		ORDER BY o.question_id, o.position`
	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("listing options: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Option)
	for rows.Next() {
		var o domain.Option
		var correct int
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &correct, &o.Position); err != nil {
			return nil, fmt.Errorf("scanning option row: %w", err)
		}
		o.IsCorrect = intToBool(correct)
		out[o.QuestionID] = append(out[o.QuestionID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating options: %w", err)
	}
	return out, nil
}

// scanRawLessons drains lesson rows and closes them.
func scanRawLessons(rows *sql.Rows) ([]domain.RawLesson, error) {
	defer rows.Close()
	lessons := []domain.RawLesson{}
	for rows.Next() {
		var l domain.RawLesson
		if err := rows.Scan(&l.ID, &l.UnitID, &l.Title, &l.Description, &l.XPReward, &l.Position); err != nil {
			return nil, fmt.Errorf("scanning lesson row: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lessons: %w", err)
	}
	return lessons, nil
}
