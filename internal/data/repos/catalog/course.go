package catalog

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

type CourseRepo interface {
	GetByID(dbc dbctx.Context, pk types.PK) (*types.Course, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Course, error)
	GetByName(dbc dbctx.Context, name string) (*types.Course, error)
	GetForSubject(dbc dbctx.Context, subjectPK types.PK, includeTopics bool) ([]*types.Course, error)
	ListAll(dbc dbctx.Context, includeTopics bool) ([]*types.Course, error)
	Create(dbc dbctx.Context, in types.CourseCreate) (*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

// Every course read joins its level.
func (r *courseRepo) base(dbc dbctx.Context) *gorm.DB {
	return conn(dbc, r.db).Preload("Level")
}

func (r *courseRepo) getOne(dbc dbctx.Context, where string, arg interface{}) (*types.Course, error) {
	var row CourseRow
	found, err := takeOne(r.base(dbc).Where(where, arg), &row)
	if err != nil || !found {
		return nil, err
	}
	return courseFromRow(&row), nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, pk types.PK) (*types.Course, error) {
	return r.getOne(dbc, "id = ?", int64(pk))
}

func (r *courseRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Course, error) {
	return r.getOne(dbc, "slug = ?", slug)
}

func (r *courseRepo) GetByName(dbc dbctx.Context, name string) (*types.Course, error) {
	return r.getOne(dbc, "name = ?", name)
}

func (r *courseRepo) getMany(q *gorm.DB, includeTopics bool) ([]*types.Course, error) {
	if includeTopics {
		q = q.Preload("Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("code ASC")
		})
	}
	var rows []CourseRow
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.Course, 0, len(rows))
	for i := range rows {
		out = append(out, courseFromRow(&rows[i]))
	}
	return out, nil
}

func (r *courseRepo) GetForSubject(dbc dbctx.Context, subjectPK types.PK, includeTopics bool) ([]*types.Course, error) {
	return r.getMany(r.base(dbc).Where("subject_id = ?", int64(subjectPK)), includeTopics)
}

func (r *courseRepo) ListAll(dbc dbctx.Context, includeTopics bool) ([]*types.Course, error) {
	return r.getMany(r.base(dbc), includeTopics)
}

func (r *courseRepo) Create(dbc dbctx.Context, in types.CourseCreate) (*types.Course, error) {
	row := courseRowFromCreate(in)
	if err := conn(dbc, r.db).Omit("Level", "Topics").Create(row).Error; err != nil {
		return nil, translateWriteErr("create course", err)
	}
	// Reload so the joined level comes back with the new course.
	created, err := r.GetByID(dbc, types.PK(row.ID))
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("create course: row %d vanished after insert", row.ID)
	}
	return created, nil
}
