package catalog

import (
	"gorm.io/gorm"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

type TopicRepo interface {
	GetByID(dbc dbctx.Context, pk types.PK) (*types.Topic, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Topic, error)
	GetByName(dbc dbctx.Context, name string) (*types.Topic, error)
	GetByCourseAndCode(dbc dbctx.Context, coursePK types.PK, code string) (*types.Topic, error)
	GetForCourse(dbc dbctx.Context, coursePK types.PK) ([]*types.Topic, error)
	Create(dbc dbctx.Context, in types.TopicCreate) (*types.Topic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) getOne(q *gorm.DB) (*types.Topic, error) {
	var row TopicRow
	found, err := takeOne(q, &row)
	if err != nil || !found {
		return nil, err
	}
	return topicFromRow(&row), nil
}

func (r *topicRepo) GetByID(dbc dbctx.Context, pk types.PK) (*types.Topic, error) {
	return r.getOne(conn(dbc, r.db).Where("id = ?", int64(pk)))
}

func (r *topicRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Topic, error) {
	return r.getOne(conn(dbc, r.db).Where("slug = ?", slug))
}

func (r *topicRepo) GetByName(dbc dbctx.Context, name string) (*types.Topic, error) {
	return r.getOne(conn(dbc, r.db).Where("name = ?", name))
}

func (r *topicRepo) GetByCourseAndCode(dbc dbctx.Context, coursePK types.PK, code string) (*types.Topic, error) {
	return r.getOne(conn(dbc, r.db).Where("course_id = ? AND code = ?", int64(coursePK), code))
}

func (r *topicRepo) GetForCourse(dbc dbctx.Context, coursePK types.PK) ([]*types.Topic, error) {
	var rows []TopicRow
	if err := conn(dbc, r.db).
		Where("course_id = ?", int64(coursePK)).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.Topic, 0, len(rows))
	for i := range rows {
		out = append(out, topicFromRow(&rows[i]))
	}
	return out, nil
}

func (r *topicRepo) Create(dbc dbctx.Context, in types.TopicCreate) (*types.Topic, error) {
	row := topicRowFromCreate(in)
	if err := conn(dbc, r.db).Create(row).Error; err != nil {
		return nil, translateWriteErr("create topic", err)
	}
	return topicFromRow(row), nil
}
