package domain

import "time"

type UnitStatus string

const (
	UnitLocked    UnitStatus = "locked"
	UnitAvailable UnitStatus = "available"
	UnitCompleted UnitStatus = "completed"
)

// Unit is a sequential group of lessons. Status is derived on every read.
type Unit struct {
	ID          string
	Title       string
	Description string
	Status      UnitStatus
	Lessons     []Lesson
	CreatedAt   time.Time
}

// RawUnit is a unit row with its lesson rows, as read from storage.
type RawUnit struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	Lessons     []RawLesson
}

// IDSet is a set of record identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set contains nothing.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}
