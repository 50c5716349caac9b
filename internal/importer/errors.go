package importer

import (
	"errors"
	"fmt"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
)

var (
	// ErrInvalidYamlStructure marks a node of the wrong shape or a missing
	// required field. Returned wrapped in *StructureError.
	ErrInvalidYamlStructure = errors.New("invalid yaml structure")
	// ErrYamlLoad marks a file that cannot be read or parsed, or is empty.
	ErrYamlLoad = errors.New("yaml load failed")
	// ErrImporter is the root of every identity failure.
	ErrImporter = errors.New("import failed")

	ErrSubjectImport = fmt.Errorf("subject: %w", ErrImporter)
	ErrLevelImport   = fmt.Errorf("level: %w", ErrImporter)
	ErrCourseImport  = fmt.Errorf("course: %w", ErrImporter)
	ErrTopicImport   = fmt.Errorf("topic: %w", ErrImporter)

	// ErrUnknownReference marks a words file pointing at a subject, course
	// or topic that does not exist.
	ErrUnknownReference = errors.New("unknown reference")
)

func kindSentinel(kind types.Kind) error {
	switch kind {
	case types.KindSubject:
		return ErrSubjectImport
	case types.KindLevel:
		return ErrLevelImport
	case types.KindCourse:
		return ErrCourseImport
	case types.KindTopic:
		return ErrTopicImport
	default:
		return ErrImporter
	}
}

// StructureError reports a malformed node. Line is 1-based, 0 when unknown.
type StructureError struct {
	Kind  types.Kind
	Field string
	Line  int
	Msg   string
}

func (e *StructureError) Error() string {
	where := string(e.Kind)
	if e.Line > 0 {
		where = fmt.Sprintf("%s at line %d", e.Kind, e.Line)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: field %q %s", ErrInvalidYamlStructure, where, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidYamlStructure, where, e.Msg)
}

func (e *StructureError) Unwrap() error { return ErrInvalidYamlStructure }

// ImportError reports an identity conflict for one incoming record. Err is
// set when the store rejected the write rather than the resolver.
type ImportError struct {
	Kind    types.Kind
	Name    string
	Slug    string
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	msg := fmt.Sprintf("%s import: %s (name=%q, slug=%q)", e.Kind, e.Message, e.Name, e.Slug)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{kindSentinel(e.Kind)}
	}
	return []error{kindSentinel(e.Kind), e.Err}
}
