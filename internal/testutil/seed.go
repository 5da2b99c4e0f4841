package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/devlingo/devlingo/internal/db"
	"github.com/devlingo/devlingo/internal/domain"
)

// SeedUser inserts u directly, bypassing password hashing.
func SeedUser(t *testing.T, conn db.DBTX, u *domain.User) {
	t.Helper()
	_, err := conn.ExecContext(context.Background(),
		`INSERT INTO users (id, name, email, password_hash, total_xp, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.TotalXP, u.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
}

// SeedCourse inserts units with their lessons and gives every lesson
// questionsPerLesson questions built by NewTestQuestion.
func SeedCourse(t *testing.T, conn db.DBTX, questionsPerLesson int, units ...*domain.RawUnit) {
	t.Helper()
	ctx := context.Background()
	for _, u := range units {
		ts := u.CreatedAt.UTC().Format(time.RFC3339)
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO units (id, title, description, created_at) VALUES (?, ?, ?, ?)`,
			u.ID, u.Title, u.Description, ts); err != nil {
			t.Fatalf("seeding unit: %v", err)
		}
		for _, l := range u.Lessons {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO lessons (id, unit_id, title, description, xp_reward, position, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				l.ID, u.ID, l.Title, l.Description, l.XPReward, l.Position, ts); err != nil {
				t.Fatalf("seeding lesson: %v", err)
			}
			for p := 1; p <= questionsPerLesson; p++ {
				seedQuestion(t, conn, NewTestQuestion(l.ID, p))
			}
		}
	}
}

// SeedLessonCompletion marks a lesson completed for the user.
func SeedLessonCompletion(t *testing.T, conn db.DBTX, userID, lessonID string, xp int) {
	t.Helper()
	_, err := conn.ExecContext(context.Background(),
		`INSERT INTO user_lessons (user_id, lesson_id, is_completed, xp_earned, completed_at) VALUES (?, ?, 1, ?, ?)`,
		userID, lessonID, xp, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("seeding lesson completion: %v", err)
	}
}

func seedQuestion(t *testing.T, conn db.DBTX, q *domain.Question) {
	t.Helper()
	ctx := context.Background()
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO lesson_questions (id, lesson_id, question, position) VALUES (?, ?, ?, ?)`,
		q.ID, q.LessonID, q.Text, q.Position); err != nil {
		t.Fatalf("seeding question: %v", err)
	}
	for _, o := range q.Options {
		correct := 0
		if o.IsCorrect {
			correct = 1
		}
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO lesson_question_options (id, question_id, option_text, is_correct, position) VALUES (?, ?, ?, ?, ?)`,
			o.ID, q.ID, o.Text, correct, o.Position); err != nil {
			t.Fatalf("seeding option: %v", err)
		}
	}
}
