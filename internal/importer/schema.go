package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CourseSchema is the top-level structure of a course content file.
type CourseSchema struct {
	Units []UnitImport `json:"units" yaml:"units"`
}

// UnitImport defines a unit. Units are placed on the path in file order.
type UnitImport struct {
	Ref         string         `json:"ref" yaml:"ref"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Lessons     []LessonImport `json:"lessons" yaml:"lessons"`
}

// LessonImport defines a lesson. XP defaults to the standard reward when omitted.
type LessonImport struct {
	Ref         string           `json:"ref" yaml:"ref"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	XP          *int             `json:"xp,omitempty" yaml:"xp,omitempty"`
	Position    int              `json:"position,omitempty" yaml:"position,omitempty"`
	Questions   []QuestionImport `json:"questions" yaml:"questions"`
}

type QuestionImport struct {
	Text     string         `json:"text" yaml:"text"`
	Position int            `json:"position,omitempty" yaml:"position,omitempty"`
	Options  []OptionImport `json:"options" yaml:"options"`
}

type OptionImport struct {
	Text     string `json:"text" yaml:"text"`
	Correct  bool   `json:"correct,omitempty" yaml:"correct,omitempty"`
	Position int    `json:"position,omitempty" yaml:"position,omitempty"`
}

// LoadCourseSchema reads a course file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. Unknown fields are rejected.
func LoadCourseSchema(path string) (*CourseSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseCourseYAML(data)
	default:
		return ParseCourseJSON(data)
	}
}

func ParseCourseJSON(data []byte) (*CourseSchema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var schema CourseSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing course file: %w", err)
	}
	return &schema, nil
}

func ParseCourseYAML(data []byte) (*CourseSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var schema CourseSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing course file: %w", err)
	}
	return &schema, nil
}

// positionOr returns p, or the 1-based index when p is unset.
func positionOr(p, index int) int {
	if p > 0 {
		return p
	}
	return index + 1
}
