package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

type WordRepo interface {
	GetByID(dbc dbctx.Context, pk types.PK) (*types.Word, error)
	GetBySubjectAndWord(dbc dbctx.Context, subjectPK types.PK, word string) (*types.Word, error)
	Search(dbc dbctx.Context, query string) ([]*types.Word, error)
	ListForTopic(dbc dbctx.Context, topicPK types.PK) ([]*types.Word, error)
	// Upsert inserts the word or overwrites the definition and lists of the
	// existing (subject, word) row. created reports which happened.
	Upsert(dbc dbctx.Context, in types.WordCreate) (w *types.Word, created bool, err error)
	// LinkTopic is idempotent; linked is false when the link already existed.
	LinkTopic(dbc dbctx.Context, wordPK, topicPK types.PK) (linked bool, err error)
	// ReplaceVersions drops the word's level versions and stores versions in
	// their place, in order.
	ReplaceVersions(dbc dbctx.Context, wordPK types.PK, versions []types.WordVersionCreate) error
	// Relate links two distinct words symmetrically. It is idempotent;
	// related is false when the pair already existed.
	Relate(dbc dbctx.Context, a, b types.PK) (related bool, err error)
}

type wordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWordRepo(db *gorm.DB, baseLog *logger.Logger) WordRepo {
	return &wordRepo{db: db, log: baseLog.With("repo", "WordRepo")}
}

func (r *wordRepo) GetByID(dbc dbctx.Context, pk types.PK) (*types.Word, error) {
	var row WordRow
	found, err := takeOne(conn(dbc, r.db).Where("id = ?", int64(pk)), &row)
	if err != nil || !found {
		return nil, err
	}
	w, err := wordFromRow(&row)
	if err != nil {
		return nil, err
	}
	if w.Topics, err = r.topicsForWord(dbc, pk); err != nil {
		return nil, err
	}
	if w.Versions, err = r.versionsForWord(dbc, pk); err != nil {
		return nil, err
	}
	if w.Related, err = r.relatedWords(dbc, pk); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *wordRepo) versionsForWord(dbc dbctx.Context, wordPK types.PK) ([]*types.WordVersion, error) {
	var rows []WordVersionRow
	if err := conn(dbc, r.db).
		Where("word_id = ?", int64(wordPK)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	out := make([]*types.WordVersion, 0, len(rows))
	byID := make(map[int64]*types.WordVersion, len(rows))
	ids := make([]int64, 0, len(rows))
	for i := range rows {
		v, err := wordVersionFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		byID[rows[i].ID] = v
		ids = append(ids, rows[i].ID)
	}

	var links []WordVersionLevelRow
	if err := conn(dbc, r.db).Where("version_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) > 0 {
		levelIDs := make([]int64, 0, len(links))
		for _, l := range links {
			levelIDs = append(levelIDs, l.LevelID)
		}
		var levels []LevelRow
		if err := conn(dbc, r.db).Where("id IN ?", levelIDs).Order("name ASC").Find(&levels).Error; err != nil {
			return nil, err
		}
		for i := range levels {
			for _, l := range links {
				if l.LevelID == levels[i].ID {
					v := byID[l.VersionID]
					v.Levels = append(v.Levels, levelFromRow(&levels[i]))
				}
			}
		}
	}
	for _, v := range out {
		v.LevelLabel = types.LevelLabel(v.Levels)
	}
	return out, nil
}

func (r *wordRepo) relatedWords(dbc dbctx.Context, wordPK types.PK) ([]*types.RelatedWord, error) {
	var rows []WordRow
	pk := int64(wordPK)
	if err := conn(dbc, r.db).
		Joins("JOIN word_relationships ON (word_relationships.word_id1 = ? AND word_relationships.word_id2 = words.id) OR (word_relationships.word_id2 = ? AND word_relationships.word_id1 = words.id)", pk, pk).
		Order("words.word ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]*types.RelatedWord, 0, len(rows))
	for i := range rows {
		out = append(out, &types.RelatedWord{PK: types.PK(rows[i].ID), Word: rows[i].Word})
	}
	return out, nil
}

func (r *wordRepo) topicsForWord(dbc dbctx.Context, wordPK types.PK) ([]*types.Topic, error) {
	var rows []TopicRow
	if err := conn(dbc, r.db).
		Joins("JOIN word_topics ON word_topics.topic_id = topics.id").
		Joins("JOIN courses ON courses.id = topics.course_id").
		Where("word_topics.word_id = ?", int64(wordPK)).
		Order("courses.name ASC").
		Order("topics.code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.Topic, 0, len(rows))
	for i := range rows {
		out = append(out, topicFromRow(&rows[i]))
	}
	return out, nil
}

func (r *wordRepo) GetBySubjectAndWord(dbc dbctx.Context, subjectPK types.PK, word string) (*types.Word, error) {
	var row WordRow
	found, err := takeOne(conn(dbc, r.db).Where("subject_id = ? AND word = ?", int64(subjectPK), word), &row)
	if err != nil || !found {
		return nil, err
	}
	return wordFromRow(&row)
}

func (r *wordRepo) Search(dbc dbctx.Context, query string) ([]*types.Word, error) {
	var rows []WordRow
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	if err := conn(dbc, r.db).
		Where("LOWER(word) LIKE ? ESCAPE '\\'", pattern).
		Order("word ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return wordsFromRows(rows)
}

func (r *wordRepo) ListForTopic(dbc dbctx.Context, topicPK types.PK) ([]*types.Word, error) {
	var rows []WordRow
	if err := conn(dbc, r.db).
		Joins("JOIN word_topics ON word_topics.word_id = words.id").
		Where("word_topics.topic_id = ?", int64(topicPK)).
		Order("words.word ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return wordsFromRows(rows)
}

func (r *wordRepo) Upsert(dbc dbctx.Context, in types.WordCreate) (*types.Word, bool, error) {
	row, err := wordRowFromCreate(in)
	if err != nil {
		return nil, false, err
	}

	var existing WordRow
	found, err := takeOne(conn(dbc, r.db).Where("subject_id = ? AND word = ?", row.SubjectID, row.Word), &existing)
	if err != nil {
		return nil, false, err
	}
	if !found {
		if err := conn(dbc, r.db).Omit("Subject").Create(row).Error; err != nil {
			return nil, false, translateWriteErr("create word", err)
		}
		w, err := wordFromRow(row)
		return w, true, err
	}

	existing.Definition = row.Definition
	existing.Characteristics = row.Characteristics
	existing.Examples = row.Examples
	existing.NonExamples = row.NonExamples
	if err := conn(dbc, r.db).
		Model(&WordRow{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"definition":      existing.Definition,
			"characteristics": existing.Characteristics,
			"examples":        existing.Examples,
			"non_examples":    existing.NonExamples,
		}).Error; err != nil {
		return nil, false, translateWriteErr("update word", err)
	}
	w, err := wordFromRow(&existing)
	return w, false, err
}

func (r *wordRepo) LinkTopic(dbc dbctx.Context, wordPK, topicPK types.PK) (bool, error) {
	res := conn(dbc, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("Word", "Topic").
		Create(&WordTopicRow{WordID: int64(wordPK), TopicID: int64(topicPK)})
	if res.Error != nil {
		return false, translateWriteErr("link word topic", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *wordRepo) ReplaceVersions(dbc dbctx.Context, wordPK types.PK, versions []types.WordVersionCreate) error {
	db := conn(dbc, r.db)
	existing := db.Session(&gorm.Session{NewDB: true}).
		Model(&WordVersionRow{}).
		Select("id").
		Where("word_id = ?", int64(wordPK))
	if err := db.Where("version_id IN (?)", existing).Delete(&WordVersionLevelRow{}).Error; err != nil {
		return translateWriteErr("delete word version levels", err)
	}
	if err := conn(dbc, r.db).Where("word_id = ?", int64(wordPK)).Delete(&WordVersionRow{}).Error; err != nil {
		return translateWriteErr("delete word versions", err)
	}

	for _, in := range versions {
		row, err := wordVersionRowFromCreate(wordPK, in)
		if err != nil {
			return err
		}
		if err := conn(dbc, r.db).Omit("Word").Create(row).Error; err != nil {
			return translateWriteErr("create word version", err)
		}
		for _, levelPK := range in.LevelPKs {
			if err := conn(dbc, r.db).
				Clauses(clause.OnConflict{DoNothing: true}).
				Omit("Version", "Level").
				Create(&WordVersionLevelRow{VersionID: row.ID, LevelID: int64(levelPK)}).Error; err != nil {
				return translateWriteErr("link word version level", err)
			}
		}
	}
	return nil
}

func (r *wordRepo) Relate(dbc dbctx.Context, a, b types.PK) (bool, error) {
	if a == b {
		return false, fmt.Errorf("relate word %d to itself: %w", a, apperrors.ErrInvalidArgument)
	}
	if a > b {
		a, b = b, a
	}
	res := conn(dbc, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("Word1", "Word2").
		Create(&WordRelationshipRow{WordID1: int64(a), WordID2: int64(b)})
	if res.Error != nil {
		return false, translateWriteErr("relate words", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func wordsFromRows(rows []WordRow) ([]*types.Word, error) {
	out := make([]*types.Word, 0, len(rows))
	for i := range rows {
		w, err := wordFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
