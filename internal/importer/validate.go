package importer

import (
	"fmt"
	"strings"
)

// ValidateCourseSchema checks the course file for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateCourseSchema(schema *CourseSchema) []error {
	var errs []error

	if len(schema.Units) == 0 {
		return append(errs, fmt.Errorf("units: at least one unit is required"))
	}

	unitRefs := make(map[string]bool)
	lessonRefs := make(map[string]bool)
	for i, u := range schema.Units {
		prefix := fmt.Sprintf("units[%d]", i)
		errs = append(errs, validateRef(prefix, u.Ref, unitRefs)...)
		if strings.TrimSpace(u.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		errs = append(errs, validateLessons(prefix, u.Lessons, lessonRefs)...)
	}

	return errs
}

func validateRef(prefix, ref string, seen map[string]bool) []error {
	switch {
	case ref == "":
		return []error{fmt.Errorf("%s.ref is required", prefix)}
	case seen[ref]:
		return []error{fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref)}
	}
	seen[ref] = true
	return nil
}

func validateLessons(unitPrefix string, lessons []LessonImport, refs map[string]bool) []error {
	var errs []error
	positions := make(map[int]bool)

	for i, l := range lessons {
		prefix := fmt.Sprintf("%s.lessons[%d]", unitPrefix, i)
		errs = append(errs, validateRef(prefix, l.Ref, refs)...)

		if strings.TrimSpace(l.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if l.XP != nil && *l.XP < 0 {
			errs = append(errs, fmt.Errorf("%s.xp must not be negative", prefix))
		}
		if l.Position < 0 {
			errs = append(errs, fmt.Errorf("%s.position must not be negative", prefix))
		} else if p := positionOr(l.Position, i); positions[p] {
			errs = append(errs, fmt.Errorf("%s.position: duplicate position %d", prefix, p))
		} else {
			positions[p] = true
		}

		errs = append(errs, validateQuestions(prefix, l.Questions)...)
	}

	return errs
}

func validateQuestions(lessonPrefix string, questions []QuestionImport) []error {
	var errs []error
	positions := make(map[int]bool)

	for i, q := range questions {
		prefix := fmt.Sprintf("%s.questions[%d]", lessonPrefix, i)

		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Errorf("%s.text is required", prefix))
		}
		if q.Position < 0 {
			errs = append(errs, fmt.Errorf("%s.position must not be negative", prefix))
		} else if p := positionOr(q.Position, i); positions[p] {
			errs = append(errs, fmt.Errorf("%s.position: duplicate position %d", prefix, p))
		} else {
			positions[p] = true
		}

		errs = append(errs, validateOptions(prefix, q.Options)...)
	}

	return errs
}

func validateOptions(questionPrefix string, options []OptionImport) []error {
	var errs []error

	if len(options) < 2 {
		errs = append(errs, fmt.Errorf("%s.options: at least two options are required", questionPrefix))
	}

	positions := make(map[int]bool)
	correct := 0
	for i, o := range options {
		prefix := fmt.Sprintf("%s.options[%d]", questionPrefix, i)
		if strings.TrimSpace(o.Text) == "" {
			errs = append(errs, fmt.Errorf("%s.text is required", prefix))
		}
		if o.Position < 0 {
			errs = append(errs, fmt.Errorf("%s.position must not be negative", prefix))
		} else if p := positionOr(o.Position, i); positions[p] {
			errs = append(errs, fmt.Errorf("%s.position: duplicate position %d", prefix, p))
		} else {
			positions[p] = true
		}
		if o.Correct {
			correct++
		}
	}

	if len(options) > 0 && correct == 0 {
		errs = append(errs, fmt.Errorf("%s.options: no correct option", questionPrefix))
	}

	return errs
}
