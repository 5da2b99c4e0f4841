package domain

// ProcessLessons maps raw lessons to learner lessons, marking each one completed
// when its id is in completed. Input order is preserved.
func ProcessLessons(lessons []RawLesson, completed IDSet) []Lesson {
	out := make([]Lesson, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, Lesson{
			ID:          l.ID,
			UnitID:      l.UnitID,
			Title:       l.Title,
			Description: l.Description,
			XP:          LessonXP(l.XPReward),
			Completed:   completed.Has(l.ID),
		})
	}
	return out
}

// IsUnitComplete reports whether lessons is non-empty and every lesson is completed.
// An empty unit is never complete.
func IsUnitComplete(lessons []Lesson) bool {
	if len(lessons) == 0 {
		return false
	}
	for _, l := range lessons {
		if !l.Completed {
			return false
		}
	}
	return true
}

// UnitStatusInput carries what CalculateUnitStatus needs about a unit and its predecessor.
type UnitStatusInput struct {
	Lessons               []Lesson
	IsFirstUnit           bool
	PreviousUnitCompleted bool
}

// CalculateUnitStatus derives a unit's status. Completion of every lesson wins
// over position; the first unit is otherwise available, and later units unlock
// only once the previous unit is completed.
func CalculateUnitStatus(in UnitStatusInput) UnitStatus {
	if IsUnitComplete(in.Lessons) {
		return UnitCompleted
	}
	if in.IsFirstUnit {
		return UnitAvailable
	}
	if in.PreviousUnitCompleted {
		return UnitAvailable
	}
	return UnitLocked
}

// BuildUnitPath computes the learner's path over units ordered by creation time.
//
// A unit counts as completed for unlocking purposes when either an explicit unit
// completion record exists or all of its lessons are completed. Either proof is
// sufficient on its own.
func BuildUnitPath(units []RawUnit, completedLessons, completedUnits IDSet) []Unit {
	path := make([]Unit, 0, len(units))
	prevCompleted := false
	for i, u := range units {
		lessons := ProcessLessons(u.Lessons, completedLessons)

		status := CalculateUnitStatus(UnitStatusInput{
			Lessons:               lessons,
			IsFirstUnit:           i == 0,
			PreviousUnitCompleted: prevCompleted,
		})
		recorded := completedUnits.Has(u.ID)
		if recorded {
			status = UnitCompleted
		}

		path = append(path, Unit{
			ID:          u.ID,
			Title:       u.Title,
			Description: u.Description,
			Status:      status,
			Lessons:     lessons,
			CreatedAt:   u.CreatedAt,
		})
		prevCompleted = recorded || IsUnitComplete(lessons)
	}
	return path
}

// UnitProgress returns the fraction of completed lessons in a unit (0 for an empty unit).
func UnitProgress(u Unit) float64 {
	if len(u.Lessons) == 0 {
		return 0
	}
	done := 0
	for _, l := range u.Lessons {
		if l.Completed {
			done++
		}
	}
	return float64(done) / float64(len(u.Lessons))
}

// FindLesson returns the unit and lesson for lessonID within path.
func FindLesson(path []Unit, lessonID string) (*Unit, *Lesson) {
	for i := range path {
		for j := range path[i].Lessons {
			if path[i].Lessons[j].ID == lessonID {
				return &path[i], &path[i].Lessons[j]
			}
		}
	}
	return nil, nil
}
