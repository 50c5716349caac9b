package importer

import (
	"gopkg.in/yaml.v3"

	"github.com/nomadicTree/frayerstore/internal/data/repos"
	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/observability"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

type (
	subjectService = Service[types.Subject, *types.Subject, ImportSubject, types.SubjectCreate]
	levelService   = Service[types.Level, *types.Level, ImportLevel, types.LevelCreate]
	courseService  = Service[types.Course, *types.Course, ImportCourse, types.CourseCreate]
	topicService   = Service[types.Topic, *types.Topic, ImportTopic, types.TopicCreate]
)

// Coordinators walk the tree depth-first. Each imports its own node, then
// hands every child to the next coordinator with the new parent key. The
// first error stops the walk and is returned as is.

type SubjectCoordinator struct {
	svc    *subjectService
	levels *LevelCoordinator
}

type LevelCoordinator struct {
	svc     *levelService
	courses *CourseCoordinator
}

type CourseCoordinator struct {
	svc    *courseService
	topics *TopicCoordinator
}

type TopicCoordinator struct {
	svc *topicService
}

// NewCoordinators wires the four stages over set and returns the root.
func NewCoordinators(set repos.Set, baseLog *logger.Logger, metrics *observability.Metrics) *SubjectCoordinator {
	topics := &TopicCoordinator{
		svc: NewService[types.Topic, *types.Topic, ImportTopic, types.TopicCreate](
			types.KindTopic, set.Topics,
			func(t ImportTopic) types.TopicCreate {
				return types.TopicCreate{CoursePK: t.CoursePK, Code: t.Code, Name: t.Name, Slug: t.Slug}
			},
			baseLog, metrics,
		),
	}
	courses := &CourseCoordinator{
		svc: NewService[types.Course, *types.Course, ImportCourse, types.CourseCreate](
			types.KindCourse, set.Courses,
			func(c ImportCourse) types.CourseCreate {
				return types.CourseCreate{SubjectPK: c.SubjectPK, LevelPK: c.LevelPK, Name: c.Name, Slug: c.Slug}
			},
			baseLog, metrics,
		),
		topics: topics,
	}
	levels := &LevelCoordinator{
		svc: NewService[types.Level, *types.Level, ImportLevel, types.LevelCreate](
			types.KindLevel, set.Levels,
			func(l ImportLevel) types.LevelCreate {
				return types.LevelCreate{Name: l.Name, Slug: l.Slug}
			},
			baseLog, metrics,
		),
		courses: courses,
	}
	return &SubjectCoordinator{
		svc: NewService[types.Subject, *types.Subject, ImportSubject, types.SubjectCreate](
			types.KindSubject, set.Subjects,
			func(s ImportSubject) types.SubjectCreate {
				return types.SubjectCreate{Name: s.Name, Slug: s.Slug}
			},
			baseLog, metrics,
		),
		levels: levels,
	}
}

func (c *SubjectCoordinator) Import(dbc dbctx.Context, node *yaml.Node, report *Report) (*types.Subject, error) {
	in, err := ParseSubject(node)
	if err != nil {
		return nil, err
	}
	items, err := children(node, "levels", types.KindSubject)
	if err != nil {
		return nil, err
	}
	subject, err := c.svc.ImportItem(dbc, in, &report.Subjects)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, err := c.levels.Import(dbc, item, subject.PK, report); err != nil {
			return nil, err
		}
	}
	return subject, nil
}

func (c *LevelCoordinator) Import(dbc dbctx.Context, node *yaml.Node, subjectPK types.PK, report *Report) (*types.Level, error) {
	in, err := ParseLevel(node, subjectPK)
	if err != nil {
		return nil, err
	}
	items, err := children(node, "courses", types.KindLevel)
	if err != nil {
		return nil, err
	}
	level, err := c.svc.ImportItem(dbc, in, &report.Levels)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, err := c.courses.Import(dbc, item, subjectPK, level.PK, report); err != nil {
			return nil, err
		}
	}
	return level, nil
}

func (c *CourseCoordinator) Import(dbc dbctx.Context, node *yaml.Node, subjectPK, levelPK types.PK, report *Report) (*types.Course, error) {
	in, err := ParseCourse(node, subjectPK, levelPK)
	if err != nil {
		return nil, err
	}
	items, err := children(node, "topics", types.KindCourse)
	if err != nil {
		return nil, err
	}
	course, err := c.svc.ImportItem(dbc, in, &report.Courses)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, err := c.topics.Import(dbc, item, course.PK, report); err != nil {
			return nil, err
		}
	}
	return course, nil
}

func (c *TopicCoordinator) Import(dbc dbctx.Context, node *yaml.Node, coursePK types.PK, report *Report) (*types.Topic, error) {
	in, err := ParseTopic(node, coursePK)
	if err != nil {
		return nil, err
	}
	return c.svc.ImportItem(dbc, in, &report.Topics)
}
