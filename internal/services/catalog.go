package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nomadicTree/frayerstore/internal/data/repos"
	"github.com/nomadicTree/frayerstore/internal/data/repos/catalog"
	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

// CatalogService answers the read-only browse queries.
type CatalogService interface {
	ListSubjects(ctx context.Context, includeCourses, includeTopics bool) ([]*types.Subject, error)
	GetSubject(ctx context.Context, slug string) (*types.Subject, error)
	// ListSubjectCourses groups courses by level name, then orders by name.
	ListSubjectCourses(ctx context.Context, subjectSlug string, includeTopics bool) ([]*types.Course, error)
	ListLevels(ctx context.Context) ([]*types.Level, error)
	ListCourseTopics(ctx context.Context, coursePK types.PK) ([]*types.Topic, error)
	ListTopicWords(ctx context.Context, topicPK types.PK) ([]*types.Word, error)
	SearchWords(ctx context.Context, query string) ([]*types.Word, error)
	GetWord(ctx context.Context, pk types.PK) (*types.Word, error)
	// Invalidate drops cached subject and level listings.
	Invalidate()
}

type catalogService struct {
	log      *logger.Logger
	subjects repos.SubjectRepo
	levels   repos.LevelRepo
	courses  repos.CourseRepo
	topics   repos.TopicRepo
	words    repos.WordRepo

	mu     sync.RWMutex
	cache  bool
	cached map[string]any
}

// NewCatalogService builds the browse service. With cacheListings set, the
// subject and level listings are held until Invalidate; only enable it when
// every importer publishes to a bus this process watches.
func NewCatalogService(baseLog *logger.Logger, set repos.Set, cacheListings bool) CatalogService {
	return &catalogService{
		log:      baseLog.With("service", "CatalogService"),
		subjects: set.Subjects,
		levels:   set.Levels,
		courses:  set.Courses,
		topics:   set.Topics,
		words:    set.Words,
		cache:    cacheListings,
		cached:   map[string]any{},
	}
}

func (s *catalogService) Invalidate() {
	s.mu.Lock()
	s.cached = map[string]any{}
	s.mu.Unlock()
	s.log.Debug("Listing cache invalidated")
}

// cachedList memoizes whole listings; they only change through imports,
// which call Invalidate.
func cachedList[T any](s *catalogService, key string, load func() (T, error)) (T, error) {
	if !s.cache {
		return load()
	}
	s.mu.RLock()
	v, ok := s.cached[key]
	s.mu.RUnlock()
	if ok {
		return v.(T), nil
	}
	out, err := load()
	if err != nil {
		return out, err
	}
	s.mu.Lock()
	s.cached[key] = out
	s.mu.Unlock()
	return out, nil
}

func (s *catalogService) ListSubjects(ctx context.Context, includeCourses, includeTopics bool) ([]*types.Subject, error) {
	key := fmt.Sprintf("subjects:%t:%t", includeCourses, includeTopics)
	return cachedList(s, key, func() ([]*types.Subject, error) {
		return s.subjects.ListAll(dbctx.Context{Ctx: ctx}, catalog.SubjectListOptions{
			IncludeCourses: includeCourses,
			IncludeTopics:  includeTopics,
		})
	})
}

func (s *catalogService) GetSubject(ctx context.Context, slug string) (*types.Subject, error) {
	subject, err := s.subjects.GetBySlug(dbctx.Context{Ctx: ctx}, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, fmt.Errorf("subject %q: %w", slug, apperrors.ErrNotFound)
	}
	return subject, nil
}

func (s *catalogService) ListSubjectCourses(ctx context.Context, subjectSlug string, includeTopics bool) ([]*types.Course, error) {
	subject, err := s.GetSubject(ctx, subjectSlug)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.GetForSubject(dbctx.Context{Ctx: ctx}, subject.PK, includeTopics)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Less(courses[j]) })
	return courses, nil
}

func (s *catalogService) ListLevels(ctx context.Context) ([]*types.Level, error) {
	return cachedList(s, "levels", func() ([]*types.Level, error) {
		return s.levels.ListAll(dbctx.Context{Ctx: ctx})
	})
}

func (s *catalogService) ListCourseTopics(ctx context.Context, coursePK types.PK) ([]*types.Topic, error) {
	dbc := dbctx.Context{Ctx: ctx}
	course, err := s.courses.GetByID(dbc, coursePK)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("course %d: %w", coursePK, apperrors.ErrNotFound)
	}
	return s.topics.GetForCourse(dbc, coursePK)
}

func (s *catalogService) ListTopicWords(ctx context.Context, topicPK types.PK) ([]*types.Word, error) {
	dbc := dbctx.Context{Ctx: ctx}
	topic, err := s.topics.GetByID(dbc, topicPK)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("topic %d: %w", topicPK, apperrors.ErrNotFound)
	}
	return s.words.ListForTopic(dbc, topicPK)
}

func (s *catalogService) SearchWords(ctx context.Context, query string) ([]*types.Word, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty: %w", apperrors.ErrInvalidArgument)
	}
	words, err := s.words.Search(dbctx.Context{Ctx: ctx}, query)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Word search", "query", query, "hits", len(words))
	return words, nil
}

func (s *catalogService) GetWord(ctx context.Context, pk types.PK) (*types.Word, error) {
	w, err := s.words.GetByID(dbctx.Context{Ctx: ctx}, pk)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("word %d: %w", pk, apperrors.ErrNotFound)
	}
	return w, nil
}
