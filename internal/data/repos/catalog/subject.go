package catalog

import (
	"gorm.io/gorm"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

// SubjectListOptions selects which children ListAll hydrates. IncludeTopics
// implies IncludeCourses.
type SubjectListOptions struct {
	IncludeCourses bool
	IncludeTopics  bool
}

type SubjectRepo interface {
	GetByID(dbc dbctx.Context, pk types.PK) (*types.Subject, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Subject, error)
	GetByName(dbc dbctx.Context, name string) (*types.Subject, error)
	ListAll(dbc dbctx.Context, opts SubjectListOptions) ([]*types.Subject, error)
	Create(dbc dbctx.Context, in types.SubjectCreate) (*types.Subject, error)
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) getOne(dbc dbctx.Context, where string, arg interface{}) (*types.Subject, error) {
	var row SubjectRow
	found, err := takeOne(conn(dbc, r.db).Where(where, arg), &row)
	if err != nil || !found {
		return nil, err
	}
	return subjectFromRow(&row), nil
}

func (r *subjectRepo) GetByID(dbc dbctx.Context, pk types.PK) (*types.Subject, error) {
	return r.getOne(dbc, "id = ?", int64(pk))
}

func (r *subjectRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Subject, error) {
	return r.getOne(dbc, "slug = ?", slug)
}

func (r *subjectRepo) GetByName(dbc dbctx.Context, name string) (*types.Subject, error) {
	return r.getOne(dbc, "name = ?", name)
}

func (r *subjectRepo) ListAll(dbc dbctx.Context, opts SubjectListOptions) ([]*types.Subject, error) {
	q := conn(dbc, r.db).Order("name ASC")
	if opts.IncludeCourses || opts.IncludeTopics {
		q = q.Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).Preload("Courses.Level")
	}
	if opts.IncludeTopics {
		q = q.Preload("Courses.Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("code ASC")
		})
	}

	var rows []SubjectRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.Subject, 0, len(rows))
	for i := range rows {
		out = append(out, subjectFromRow(&rows[i]))
	}
	return out, nil
}

func (r *subjectRepo) Create(dbc dbctx.Context, in types.SubjectCreate) (*types.Subject, error) {
	row := subjectRowFromCreate(in)
	if err := conn(dbc, r.db).Create(row).Error; err != nil {
		return nil, translateWriteErr("create subject", err)
	}
	r.log.Debug("Subject created", "subject_id", row.ID, "slug", row.Slug)
	return subjectFromRow(row), nil
}
