package catalog

import (
	"fmt"
	"strings"
)

type Subject struct {
	PK   PK     `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	// Courses is only populated by hydrating queries.
	Courses []*Course `json:"courses,omitempty"`
}

func (s *Subject) Identity() Identity     { return Identity{Kind: KindSubject, PK: s.PK} }
func (s *Subject) NaturalKey() NaturalKey { return NaturalKey{Name: s.Name, Slug: s.Slug} }
func (s *Subject) Label() string          { return s.Name }

type Level struct {
	PK   PK     `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (l *Level) Identity() Identity     { return Identity{Kind: KindLevel, PK: l.PK} }
func (l *Level) NaturalKey() NaturalKey { return NaturalKey{Name: l.Name, Slug: l.Slug} }

type Course struct {
	PK        PK     `json:"id"`
	SubjectPK PK     `json:"subject_id"`
	Level     *Level `json:"level,omitempty"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`

	// Topics is only populated by hydrating queries.
	Topics []*Topic `json:"topics,omitempty"`
}

func (c *Course) Identity() Identity     { return Identity{Kind: KindCourse, PK: c.PK} }
func (c *Course) NaturalKey() NaturalKey { return NaturalKey{Name: c.Name, Slug: c.Slug} }
func (c *Course) Label() string          { return c.Name }

// Less orders courses by level name, then case-insensitively by name.
func (c *Course) Less(o *Course) bool {
	ln, on := "", ""
	if c.Level != nil {
		ln = c.Level.Name
	}
	if o.Level != nil {
		on = o.Level.Name
	}
	if ln != on {
		return ln < on
	}
	return strings.ToLower(c.Name) < strings.ToLower(o.Name)
}

type Topic struct {
	PK       PK     `json:"id"`
	CoursePK PK     `json:"course_id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
}

func (t *Topic) Identity() Identity     { return Identity{Kind: KindTopic, PK: t.PK} }
func (t *Topic) NaturalKey() NaturalKey { return NaturalKey{Name: t.Name, Slug: t.Slug} }
func (t *Topic) Label() string          { return fmt.Sprintf("%s: %s", t.Code, t.Name) }

// Word is a Frayer-model vocabulary entry owned by a subject.
type Word struct {
	PK              PK       `json:"id"`
	SubjectPK       PK       `json:"subject_id"`
	Word            string   `json:"word"`
	Definition      string   `json:"definition"`
	Characteristics []string `json:"characteristics"`
	Examples        []string `json:"examples"`
	NonExamples     []string `json:"non_examples"`

	// Populated only by GetByID.
	Topics   []*Topic       `json:"topics,omitempty"`
	Versions []*WordVersion `json:"versions,omitempty"`
	Related  []*RelatedWord `json:"related_words,omitempty"`
}

func (w *Word) Identity() Identity { return Identity{Kind: KindWord, PK: w.PK} }

// WordVersion is a level-specific wording of a word's Frayer content. The
// word's own fields are the version used when no level matches.
type WordVersion struct {
	PK              PK       `json:"id"`
	WordPK          PK       `json:"word_id"`
	Definition      string   `json:"definition"`
	Characteristics []string `json:"characteristics"`
	Examples        []string `json:"examples"`
	NonExamples     []string `json:"non_examples"`
	Levels          []*Level `json:"levels"`
	LevelLabel      string   `json:"level_label"`
}

// LevelLabel names a set of levels for display: "All levels" when empty,
// "A and B" for two, "A, B, and C" for more.
func LevelLabel(levels []*Level) string {
	names := make([]string, 0, len(levels))
	for _, l := range levels {
		names = append(names, l.Name)
	}
	switch len(names) {
	case 0:
		return "All levels"
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// RelatedWord points at another word of the same subject.
type RelatedWord struct {
	PK   PK     `json:"id"`
	Word string `json:"word"`
}

// Creation values: validated fields plus resolved parent keys, never persisted
// themselves.

type SubjectCreate struct {
	Name string
	Slug string
}

type LevelCreate struct {
	Name string
	Slug string
}

type CourseCreate struct {
	SubjectPK PK
	LevelPK   PK
	Name      string
	Slug      string
}

type TopicCreate struct {
	CoursePK PK
	Code     string
	Name     string
	Slug     string
}

type WordCreate struct {
	SubjectPK       PK
	Word            string
	Definition      string
	Characteristics []string
	Examples        []string
	NonExamples     []string
}

type WordVersionCreate struct {
	Definition      string
	Characteristics []string
	Examples        []string
	NonExamples     []string
	LevelPKs        []PK
}
