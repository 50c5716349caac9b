// Package importer loads hierarchical catalog YAML (subject, levels,
// courses, topics) and Frayer-model word lists into the catalog
// repositories, reconciling every record against what is already stored.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/nomadicTree/frayerstore/internal/data/repos"
	"github.com/nomadicTree/frayerstore/internal/observability"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
	"github.com/nomadicTree/frayerstore/internal/realtime/bus"
)

// LoadYAML reads path and returns its root content node.
func LoadYAML(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrYamlLoad, err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a single YAML document. Empty documents are rejected.
func ParseYAML(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrYamlLoad, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrYamlLoad)
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, fmt.Errorf("%w: empty document", ErrYamlLoad)
	}
	return root, nil
}

// Publisher is told about every committed file.
type Publisher interface {
	Publish(ctx context.Context, ev bus.ImportEvent) error
}

type Importer struct {
	set     repos.Set
	root    *SubjectCoordinator
	log     *logger.Logger
	metrics *observability.Metrics
	events  Publisher
}

func New(set repos.Set, baseLog *logger.Logger, metrics *observability.Metrics) *Importer {
	return &Importer{
		set:     set,
		root:    NewCoordinators(set, baseLog, metrics),
		log:     baseLog.With("component", "Importer"),
		metrics: metrics,
	}
}

// WithEvents sets the publisher notified after each commit.
func (im *Importer) WithEvents(p Publisher) *Importer {
	im.events = p
	return im
}

func (im *Importer) publish(ctx context.Context, kind, source string, report *Report) {
	if im.events == nil {
		return
	}
	ev := bus.ImportEvent{
		RunID:  report.RunID.String(),
		Kind:   kind,
		Source: source,
		At:     time.Now().UTC(),
	}
	if err := im.events.Publish(ctx, ev); err != nil {
		im.log.Warn("Import event not published", "file", source, "error", err)
	}
}

// ImportFile imports one catalog file in a single transaction. report may
// be shared across calls; a nil report starts a new one. On failure every
// row written for this file is rolled back, while the report keeps what was
// recorded before the error.
func ImportFile(ctx context.Context, path string, set repos.Set, report *Report) (*Report, error) {
	return New(set, logger.Nop(), nil).ImportFile(ctx, path, report)
}

func (im *Importer) ImportFile(ctx context.Context, path string, report *Report) (*Report, error) {
	if report == nil {
		report = NewReport()
	}
	root, err := LoadYAML(path)
	if err != nil {
		return report, fmt.Errorf("import %s: %w", path, err)
	}
	if err := im.importRoot(ctx, path, root, report); err != nil {
		return report, fmt.Errorf("import %s: %w", path, err)
	}
	return report, nil
}

// ImportNode imports an already parsed catalog document.
func (im *Importer) ImportNode(ctx context.Context, root *yaml.Node, report *Report) (*Report, error) {
	if report == nil {
		report = NewReport()
	}
	return report, im.importRoot(ctx, "<inline>", root, report)
}

func (im *Importer) importRoot(ctx context.Context, source string, root *yaml.Node, report *Report) error {
	start := time.Now()
	attrs := []attribute.KeyValue{
		attribute.String("import.file", source),
		attribute.String("import.run_id", report.RunID.String()),
	}
	err := observability.Trace(ctx, "importer.ImportFile", attrs, func(ctx context.Context) error {
		return im.set.Tx.InTx(ctx, func(dbc dbctx.Context) error {
			_, err := im.root.Import(dbc, root, report)
			return err
		})
	})
	status := "ok"
	if err != nil {
		status = "error"
		im.log.Warn("Import rolled back", "file", source, "run_id", report.RunID.String(), "error", err)
	} else {
		im.log.Info("Imported file", "file", source, "run_id", report.RunID.String())
		im.publish(ctx, "catalog", source, report)
	}
	im.metrics.ObserveImportFile("catalog", status, time.Since(start))
	return err
}

// ImportFiles imports paths in order, one transaction each, stopping at the
// first failure. Files before the failing one stay committed.
func (im *Importer) ImportFiles(ctx context.Context, paths []string, report *Report) (*Report, error) {
	if report == nil {
		report = NewReport()
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := im.ImportFile(ctx, p, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// IsDataError reports whether err comes from the input rather than the
// store, so callers can choose an exit status.
func IsDataError(err error) bool {
	return errors.Is(err, ErrInvalidYamlStructure) ||
		errors.Is(err, ErrYamlLoad) ||
		errors.Is(err, ErrImporter) ||
		errors.Is(err, ErrUnknownReference)
}
