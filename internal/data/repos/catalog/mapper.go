package catalog

import (
	"encoding/json"

	"gorm.io/datatypes"

	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
)

// Mapping between storage rows and domain values. No validation, no queries.

func subjectFromRow(row *SubjectRow) *types.Subject {
	s := &types.Subject{PK: types.PK(row.ID), Name: row.Name, Slug: row.Slug}
	if len(row.Courses) > 0 {
		s.Courses = make([]*types.Course, 0, len(row.Courses))
		for i := range row.Courses {
			s.Courses = append(s.Courses, courseFromRow(&row.Courses[i]))
		}
	}
	return s
}

func subjectRowFromCreate(in types.SubjectCreate) *SubjectRow {
	return &SubjectRow{Name: in.Name, Slug: in.Slug}
}

func levelFromRow(row *LevelRow) *types.Level {
	if row == nil {
		return nil
	}
	return &types.Level{PK: types.PK(row.ID), Name: row.Name, Slug: row.Slug}
}

func levelRowFromCreate(in types.LevelCreate) *LevelRow {
	return &LevelRow{Name: in.Name, Slug: in.Slug}
}

func courseFromRow(row *CourseRow) *types.Course {
	c := &types.Course{
		PK:        types.PK(row.ID),
		SubjectPK: types.PK(row.SubjectID),
		Level:     levelFromRow(row.Level),
		Name:      row.Name,
		Slug:      row.Slug,
	}
	if len(row.Topics) > 0 {
		c.Topics = make([]*types.Topic, 0, len(row.Topics))
		for i := range row.Topics {
			c.Topics = append(c.Topics, topicFromRow(&row.Topics[i]))
		}
	}
	return c
}

func courseRowFromCreate(in types.CourseCreate) *CourseRow {
	return &CourseRow{
		SubjectID: int64(in.SubjectPK),
		LevelID:   int64(in.LevelPK),
		Name:      in.Name,
		Slug:      in.Slug,
	}
}

func topicFromRow(row *TopicRow) *types.Topic {
	return &types.Topic{
		PK:       types.PK(row.ID),
		CoursePK: types.PK(row.CourseID),
		Code:     row.Code,
		Name:     row.Name,
		Slug:     row.Slug,
	}
}

func topicRowFromCreate(in types.TopicCreate) *TopicRow {
	return &TopicRow{
		CourseID: int64(in.CoursePK),
		Code:     in.Code,
		Name:     in.Name,
		Slug:     in.Slug,
	}
}

func wordFromRow(row *WordRow) (*types.Word, error) {
	w := &types.Word{
		PK:         types.PK(row.ID),
		SubjectPK:  types.PK(row.SubjectID),
		Word:       row.Word,
		Definition: row.Definition,
	}
	var err error
	if w.Characteristics, err = decodeList(row.Characteristics); err != nil {
		return nil, err
	}
	if w.Examples, err = decodeList(row.Examples); err != nil {
		return nil, err
	}
	if w.NonExamples, err = decodeList(row.NonExamples); err != nil {
		return nil, err
	}
	return w, nil
}

func wordRowFromCreate(in types.WordCreate) (*WordRow, error) {
	row := &WordRow{
		SubjectID:  int64(in.SubjectPK),
		Word:       in.Word,
		Definition: in.Definition,
	}
	var err error
	if row.Characteristics, err = encodeList(in.Characteristics); err != nil {
		return nil, err
	}
	if row.Examples, err = encodeList(in.Examples); err != nil {
		return nil, err
	}
	if row.NonExamples, err = encodeList(in.NonExamples); err != nil {
		return nil, err
	}
	return row, nil
}

func wordVersionFromRow(row *WordVersionRow) (*types.WordVersion, error) {
	v := &types.WordVersion{
		PK:         types.PK(row.ID),
		WordPK:     types.PK(row.WordID),
		Definition: row.Definition,
		Levels:     []*types.Level{},
	}
	var err error
	if v.Characteristics, err = decodeList(row.Characteristics); err != nil {
		return nil, err
	}
	if v.Examples, err = decodeList(row.Examples); err != nil {
		return nil, err
	}
	if v.NonExamples, err = decodeList(row.NonExamples); err != nil {
		return nil, err
	}
	return v, nil
}

func wordVersionRowFromCreate(wordPK types.PK, in types.WordVersionCreate) (*WordVersionRow, error) {
	row := &WordVersionRow{WordID: int64(wordPK), Definition: in.Definition}
	var err error
	if row.Characteristics, err = encodeList(in.Characteristics); err != nil {
		return nil, err
	}
	if row.Examples, err = encodeList(in.Examples); err != nil {
		return nil, err
	}
	if row.NonExamples, err = encodeList(in.NonExamples); err != nil {
		return nil, err
	}
	return row, nil
}

func encodeList(items []string) (datatypes.JSON, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func decodeList(raw datatypes.JSON) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
