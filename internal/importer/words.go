package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/observability"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
)

type wordsFile struct {
	Subject string      `yaml:"subject" validate:"required"`
	Words   []wordEntry `yaml:"words" validate:"dive"`
}

type wordEntry struct {
	Word            string         `yaml:"word" validate:"required"`
	Definition      string         `yaml:"definition"`
	Characteristics []string       `yaml:"characteristics"`
	Examples        []string       `yaml:"examples"`
	NonExamples     []string       `yaml:"non-examples"`
	Topics          []wordTopicRef `yaml:"topics" validate:"dive"`
	Versions        []wordVersion  `yaml:"versions" validate:"dive"`
	Related         []string       `yaml:"related" validate:"dive,required"`
}

// wordVersion words the entry for particular levels, named as in the
// catalog.
type wordVersion struct {
	Levels          []string `yaml:"levels" validate:"min=1,dive,required"`
	Definition      string   `yaml:"definition"`
	Characteristics []string `yaml:"characteristics"`
	Examples        []string `yaml:"examples"`
	NonExamples     []string `yaml:"non-examples"`
}

type wordTopicRef struct {
	Course string   `yaml:"course" validate:"required"`
	Codes  []string `yaml:"codes" validate:"min=1,dive,required"`
}

// parseWords decodes and validates a words document.
func parseWords(root *yaml.Node) (*wordsFile, error) {
	root = resolveAlias(root)
	if root == nil || root.Kind != yaml.MappingNode {
		line := 0
		if root != nil {
			line = root.Line
		}
		return nil, &StructureError{Kind: types.KindWord, Line: line, Msg: "words document must be a mapping"}
	}
	var f wordsFile
	if err := root.Decode(&f); err != nil {
		return nil, &StructureError{Kind: types.KindWord, Line: root.Line, Msg: err.Error()}
	}
	f.Subject = strings.TrimSpace(f.Subject)
	for i := range f.Words {
		w := &f.Words[i]
		w.Word = strings.TrimSpace(w.Word)
		w.Definition = strings.TrimSpace(w.Definition)
		for j := range w.Topics {
			w.Topics[j].Course = strings.TrimSpace(w.Topics[j].Course)
			for k := range w.Topics[j].Codes {
				w.Topics[j].Codes[k] = strings.TrimSpace(w.Topics[j].Codes[k])
			}
		}
		for j := range w.Versions {
			v := &w.Versions[j]
			v.Definition = strings.TrimSpace(v.Definition)
			for k := range v.Levels {
				v.Levels[k] = strings.TrimSpace(v.Levels[k])
			}
		}
		for j := range w.Related {
			w.Related[j] = strings.TrimSpace(w.Related[j])
		}
	}
	if err := validate.Struct(&f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Namespace()
			if i := strings.Index(field, "."); i >= 0 {
				field = field[i+1:]
			}
			return nil, &StructureError{Kind: types.KindWord, Field: field, Msg: fmt.Sprintf("failed %q check", verrs[0].Tag())}
		}
		return nil, &StructureError{Kind: types.KindWord, Msg: err.Error()}
	}
	return &f, nil
}

// ImportWordsFile upserts every word of path under its subject, replaces its
// level versions, links it to the listed topics and relates it to the listed
// words, all in one transaction. The subject, levels, courses and topics
// must already exist; related words must exist or appear in the same file.
func (im *Importer) ImportWordsFile(ctx context.Context, path string, report *Report) (*Report, error) {
	if report == nil {
		report = NewReport()
	}
	root, err := LoadYAML(path)
	if err != nil {
		return report, fmt.Errorf("import words %s: %w", path, err)
	}
	if err := im.importWords(ctx, path, root, report); err != nil {
		return report, fmt.Errorf("import words %s: %w", path, err)
	}
	return report, nil
}

func (im *Importer) ImportWordsNode(ctx context.Context, root *yaml.Node, report *Report) (*Report, error) {
	if report == nil {
		report = NewReport()
	}
	return report, im.importWords(ctx, "<inline>", root, report)
}

func (im *Importer) importWords(ctx context.Context, source string, root *yaml.Node, report *Report) error {
	f, err := parseWords(root)
	if err != nil {
		return err
	}
	start := time.Now()
	attrs := []attribute.KeyValue{
		attribute.String("import.file", source),
		attribute.String("import.subject", f.Subject),
		attribute.Int("import.words", len(f.Words)),
	}
	err = observability.Trace(ctx, "importer.ImportWords", attrs, func(ctx context.Context) error {
		return im.set.Tx.InTx(ctx, func(dbc dbctx.Context) error {
			return im.applyWords(dbc, f, report)
		})
	})
	status := "ok"
	if err != nil {
		status = "error"
		im.log.Warn("Words import rolled back", "file", source, "error", err)
	} else {
		im.log.Info("Imported words", "file", source, "subject", f.Subject, "words", len(f.Words))
		im.publish(ctx, "words", source, report)
	}
	im.metrics.ObserveImportFile("words", status, time.Since(start))
	return err
}

func (im *Importer) applyWords(dbc dbctx.Context, f *wordsFile, report *Report) error {
	subject, err := im.set.Subjects.GetByName(dbc, f.Subject)
	if err != nil {
		return err
	}
	if subject == nil {
		return fmt.Errorf("subject %q: %w", f.Subject, ErrUnknownReference)
	}

	courses := map[string]*types.Course{}
	levels := map[string]*types.Level{}
	stored := make(map[string]*types.Word, len(f.Words))
	for _, entry := range f.Words {
		w, created, err := im.set.Words.Upsert(dbc, types.WordCreate{
			SubjectPK:       subject.PK,
			Word:            entry.Word,
			Definition:      entry.Definition,
			Characteristics: entry.Characteristics,
			Examples:        entry.Examples,
			NonExamples:     entry.NonExamples,
		})
		if err != nil {
			return fmt.Errorf("upsert word %q: %w", entry.Word, err)
		}
		stored[w.Word] = w
		label := subject.Name + "/" + w.Word
		if created {
			report.Words.Created = append(report.Words.Created, label)
		} else {
			report.Words.Updated = append(report.Words.Updated, label)
		}

		for _, ref := range entry.Topics {
			course, ok := courses[ref.Course]
			if !ok {
				course, err = im.set.Courses.GetByName(dbc, ref.Course)
				if err != nil {
					return err
				}
				if course == nil || course.SubjectPK != subject.PK {
					return fmt.Errorf("course %q in subject %q: %w", ref.Course, subject.Name, ErrUnknownReference)
				}
				courses[ref.Course] = course
			}
			for _, code := range ref.Codes {
				topic, err := im.set.Topics.GetByCourseAndCode(dbc, course.PK, code)
				if err != nil {
					return err
				}
				if topic == nil {
					return fmt.Errorf("topic %q in course %q: %w", code, course.Name, ErrUnknownReference)
				}
				linked, err := im.set.Words.LinkTopic(dbc, w.PK, topic.PK)
				if err != nil {
					return fmt.Errorf("link %q to %s: %w", w.Word, topic.Label(), err)
				}
				if linked {
					report.Words.Linked = append(report.Words.Linked, w.Word+" -> "+topic.Code)
				}
			}
		}

		versions, err := im.wordVersions(dbc, entry.Versions, levels)
		if err != nil {
			return fmt.Errorf("word %q: %w", w.Word, err)
		}
		if err := im.set.Words.ReplaceVersions(dbc, w.PK, versions); err != nil {
			return fmt.Errorf("versions of %q: %w", w.Word, err)
		}
	}

	// Relationships may point forward in the file, so they run last.
	for _, entry := range f.Words {
		w := stored[entry.Word]
		for _, name := range entry.Related {
			if name == w.Word {
				return &StructureError{Kind: types.KindWord, Field: "related", Msg: fmt.Sprintf("word %q cannot be related to itself", name)}
			}
			other, ok := stored[name]
			if !ok {
				other, err = im.set.Words.GetBySubjectAndWord(dbc, subject.PK, name)
				if err != nil {
					return err
				}
				if other == nil {
					return fmt.Errorf("related word %q in subject %q: %w", name, subject.Name, ErrUnknownReference)
				}
			}
			related, err := im.set.Words.Relate(dbc, w.PK, other.PK)
			if err != nil {
				return fmt.Errorf("relate %q to %q: %w", w.Word, other.Word, err)
			}
			if related {
				report.Words.Related = append(report.Words.Related, w.Word+" <-> "+other.Word)
			}
		}
	}
	return nil
}

// wordVersions resolves the level names of each version. Levels are shared
// across subjects, so they are looked up by name alone.
func (im *Importer) wordVersions(dbc dbctx.Context, in []wordVersion, cache map[string]*types.Level) ([]types.WordVersionCreate, error) {
	out := make([]types.WordVersionCreate, 0, len(in))
	for _, v := range in {
		create := types.WordVersionCreate{
			Definition:      v.Definition,
			Characteristics: v.Characteristics,
			Examples:        v.Examples,
			NonExamples:     v.NonExamples,
		}
		seen := map[types.PK]bool{}
		for _, name := range v.Levels {
			level, ok := cache[name]
			if !ok {
				var err error
				if level, err = im.set.Levels.GetByName(dbc, name); err != nil {
					return nil, err
				}
				if level == nil {
					return nil, fmt.Errorf("level %q: %w", name, ErrUnknownReference)
				}
				cache[name] = level
			}
			if !seen[level.PK] {
				seen[level.PK] = true
				create.LevelPKs = append(create.LevelPKs, level.PK)
			}
		}
		out = append(out, create)
	}
	return out, nil
}
