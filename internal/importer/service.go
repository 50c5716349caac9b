package importer

import (
	"errors"
	"fmt"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/observability"
	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

// Repo is the slice of a catalog repository the import service needs.
type Repo[E any, C any] interface {
	GetBySlug(dbc dbctx.Context, slug string) (E, error)
	GetByName(dbc dbctx.Context, name string) (E, error)
	Create(dbc dbctx.Context, in C) (E, error)
}

// Service imports one kind of entity: look up, resolve, then create when
// nothing matched. D is the incoming record, C the creation value.
type Service[T any, E Entity[T], D types.Keyed, C any] struct {
	kind    types.Kind
	repo    Repo[E, C]
	build   func(D) C
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewService[T any, E Entity[T], D types.Keyed, C any](
	kind types.Kind,
	repo Repo[E, C],
	build func(D) C,
	baseLog *logger.Logger,
	metrics *observability.Metrics,
) *Service[T, E, D, C] {
	return &Service[T, E, D, C]{
		kind:    kind,
		repo:    repo,
		build:   build,
		log:     baseLog.With("service", "ImportService", "kind", string(kind)),
		metrics: metrics,
	}
}

// ImportItem returns the stored entity for incoming, creating it when
// neither its slug nor its name is known. Create runs at most once.
func (s *Service[T, E, D, C]) ImportItem(dbc dbctx.Context, incoming D, stage *StageReport[E]) (E, error) {
	key := incoming.NaturalKey()

	bySlug, err := s.repo.GetBySlug(dbc, key.Slug)
	if err != nil {
		return nil, fmt.Errorf("lookup %s by slug %q: %w", s.kind, key.Slug, err)
	}
	byName, err := s.repo.GetByName(dbc, key.Name)
	if err != nil {
		return nil, fmt.Errorf("lookup %s by name %q: %w", s.kind, key.Name, err)
	}

	res := ResolveIdentity[T](incoming, bySlug, byName)
	s.log.Debug("Resolved identity", "slug", key.Slug, "decision", string(res.Decision))
	s.metrics.IncImportDecision(string(s.kind), string(res.Decision))

	existing, err := HandleResolution[T](res, s.kind, stage)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created, err := s.repo.Create(dbc, s.build(incoming))
	if errors.Is(err, apperrors.ErrConflict) {
		// Neither slug nor name matched, so another key collided, e.g. a
		// topic code already used in its course.
		stage.Errors = append(stage.Errors, msgStoredKeyTaken)
		return nil, &ImportError{Kind: s.kind, Name: key.Name, Slug: key.Slug, Message: msgStoredKeyTaken, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("create %s %q: %w", s.kind, key.Name, err)
	}
	stage.Created = append(stage.Created, created)
	return created, nil
}
