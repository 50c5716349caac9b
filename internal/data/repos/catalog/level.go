package catalog

import (
	"gorm.io/gorm"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

type LevelRepo interface {
	GetByID(dbc dbctx.Context, pk types.PK) (*types.Level, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Level, error)
	GetByName(dbc dbctx.Context, name string) (*types.Level, error)
	ListAll(dbc dbctx.Context) ([]*types.Level, error)
	Create(dbc dbctx.Context, in types.LevelCreate) (*types.Level, error)
}

type levelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLevelRepo(db *gorm.DB, baseLog *logger.Logger) LevelRepo {
	return &levelRepo{db: db, log: baseLog.With("repo", "LevelRepo")}
}

func (r *levelRepo) getOne(dbc dbctx.Context, where string, arg interface{}) (*types.Level, error) {
	var row LevelRow
	found, err := takeOne(conn(dbc, r.db).Where(where, arg), &row)
	if err != nil || !found {
		return nil, err
	}
	return levelFromRow(&row), nil
}

func (r *levelRepo) GetByID(dbc dbctx.Context, pk types.PK) (*types.Level, error) {
	return r.getOne(dbc, "id = ?", int64(pk))
}

func (r *levelRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Level, error) {
	return r.getOne(dbc, "slug = ?", slug)
}

func (r *levelRepo) GetByName(dbc dbctx.Context, name string) (*types.Level, error) {
	return r.getOne(dbc, "name = ?", name)
}

func (r *levelRepo) ListAll(dbc dbctx.Context) ([]*types.Level, error) {
	var rows []LevelRow
	if err := conn(dbc, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.Level, 0, len(rows))
	for i := range rows {
		out = append(out, levelFromRow(&rows[i]))
	}
	return out, nil
}

func (r *levelRepo) Create(dbc dbctx.Context, in types.LevelCreate) (*types.Level, error) {
	row := levelRowFromCreate(in)
	if err := conn(dbc, r.db).Create(row).Error; err != nil {
		return nil, translateWriteErr("create level", err)
	}
	return levelFromRow(row), nil
}
