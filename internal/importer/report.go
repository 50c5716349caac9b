package importer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
)

// StageReport collects the outcome of every item of one kind. Append-only.
type StageReport[E any] struct {
	Created []E
	Skipped []E
	Errors  []string
}

// WordStage collects words import outcomes as "subject/word" labels; Linked
// holds "word -> code" labels for newly added topic links and Related
// "word <-> word" labels for newly added relationships.
type WordStage struct {
	Created []string
	Updated []string
	Linked  []string
	Related []string
}

// Report accumulates across every file of one run.
type Report struct {
	RunID    uuid.UUID
	Subjects StageReport[*types.Subject]
	Levels   StageReport[*types.Level]
	Courses  StageReport[*types.Course]
	Topics   StageReport[*types.Topic]
	Words    WordStage
}

func NewReport() *Report {
	return &Report{RunID: uuid.New()}
}

func (r *Report) HasErrors() bool {
	return len(r.Subjects.Errors)+len(r.Levels.Errors)+len(r.Courses.Errors)+len(r.Topics.Errors) > 0
}

// Summary renders the per-stage counts for terminal output.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", r.RunID)
	row := func(name string, created, skipped, errs int) {
		fmt.Fprintf(&b, "  %-9s created=%d skipped=%d errors=%d\n", name, created, skipped, errs)
	}
	row("subjects", len(r.Subjects.Created), len(r.Subjects.Skipped), len(r.Subjects.Errors))
	row("levels", len(r.Levels.Created), len(r.Levels.Skipped), len(r.Levels.Errors))
	row("courses", len(r.Courses.Created), len(r.Courses.Skipped), len(r.Courses.Errors))
	row("topics", len(r.Topics.Created), len(r.Topics.Skipped), len(r.Topics.Errors))
	if n := len(r.Words.Created) + len(r.Words.Updated) + len(r.Words.Linked) + len(r.Words.Related); n > 0 {
		fmt.Fprintf(&b, "  %-9s created=%d updated=%d linked=%d related=%d\n", "words",
			len(r.Words.Created), len(r.Words.Updated), len(r.Words.Linked), len(r.Words.Related))
	}
	return b.String()
}
