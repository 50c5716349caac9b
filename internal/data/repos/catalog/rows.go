package catalog

import "gorm.io/datatypes"

// Storage rows. Uniqueness on slug and name is enforced per table behind the
// importer's identity checks.

type SubjectRow struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;uniqueIndex:idx_subjects_name"`
	Slug string `gorm:"column:slug;not null;uniqueIndex:idx_subjects_slug"`

	Courses []CourseRow `gorm:"foreignKey:SubjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (SubjectRow) TableName() string { return "subjects" }

type LevelRow struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;uniqueIndex:idx_levels_name"`
	Slug string `gorm:"column:slug;not null;uniqueIndex:idx_levels_slug"`
}

func (LevelRow) TableName() string { return "levels" }

type CourseRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	SubjectID int64     `gorm:"column:subject_id;not null;index"`
	LevelID   int64     `gorm:"column:level_id;not null;index"`
	Level     *LevelRow `gorm:"foreignKey:LevelID;references:ID;constraint:OnDelete:RESTRICT"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_courses_name"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:idx_courses_slug"`

	Topics []TopicRow `gorm:"foreignKey:CourseID;references:ID;constraint:OnDelete:CASCADE"`
}

func (CourseRow) TableName() string { return "courses" }

type TopicRow struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	CourseID int64  `gorm:"column:course_id;not null;uniqueIndex:idx_topics_course_code,priority:1"`
	Code     string `gorm:"column:code;not null;uniqueIndex:idx_topics_course_code,priority:2"`
	Name     string `gorm:"column:name;not null;uniqueIndex:idx_topics_name"`
	Slug     string `gorm:"column:slug;not null;uniqueIndex:idx_topics_slug"`
}

func (TopicRow) TableName() string { return "topics" }

type WordRow struct {
	ID              int64          `gorm:"primaryKey;autoIncrement"`
	SubjectID       int64          `gorm:"column:subject_id;not null;uniqueIndex:idx_words_subject_word,priority:1"`
	Subject         *SubjectRow    `gorm:"foreignKey:SubjectID;references:ID;constraint:OnDelete:CASCADE"`
	Word            string         `gorm:"column:word;not null;uniqueIndex:idx_words_subject_word,priority:2"`
	Definition      string         `gorm:"column:definition;type:text"`
	Characteristics datatypes.JSON `gorm:"column:characteristics"`
	Examples        datatypes.JSON `gorm:"column:examples"`
	NonExamples     datatypes.JSON `gorm:"column:non_examples"`
}

func (WordRow) TableName() string { return "words" }

type WordTopicRow struct {
	WordID  int64     `gorm:"column:word_id;primaryKey"`
	Word    *WordRow  `gorm:"foreignKey:WordID;references:ID;constraint:OnDelete:CASCADE"`
	TopicID int64     `gorm:"column:topic_id;primaryKey;index"`
	Topic   *TopicRow `gorm:"foreignKey:TopicID;references:ID;constraint:OnDelete:CASCADE"`
}

func (WordTopicRow) TableName() string { return "word_topics" }

type WordVersionRow struct {
	ID              int64          `gorm:"primaryKey;autoIncrement"`
	WordID          int64          `gorm:"column:word_id;not null;index"`
	Word            *WordRow       `gorm:"foreignKey:WordID;references:ID;constraint:OnDelete:CASCADE"`
	Definition      string         `gorm:"column:definition;type:text"`
	Characteristics datatypes.JSON `gorm:"column:characteristics"`
	Examples        datatypes.JSON `gorm:"column:examples"`
	NonExamples     datatypes.JSON `gorm:"column:non_examples"`
}

func (WordVersionRow) TableName() string { return "word_versions" }

type WordVersionLevelRow struct {
	VersionID int64           `gorm:"column:version_id;primaryKey"`
	Version   *WordVersionRow `gorm:"foreignKey:VersionID;references:ID;constraint:OnDelete:CASCADE"`
	LevelID   int64           `gorm:"column:level_id;primaryKey;index"`
	Level     *LevelRow       `gorm:"foreignKey:LevelID;references:ID;constraint:OnDelete:CASCADE"`
}

func (WordVersionLevelRow) TableName() string { return "word_version_levels" }

// WordRelationshipRow stores each pair once, lower id first.
type WordRelationshipRow struct {
	WordID1 int64    `gorm:"column:word_id1;primaryKey"`
	Word1   *WordRow `gorm:"foreignKey:WordID1;references:ID;constraint:OnDelete:CASCADE"`
	WordID2 int64    `gorm:"column:word_id2;primaryKey;index"`
	Word2   *WordRow `gorm:"foreignKey:WordID2;references:ID;constraint:OnDelete:CASCADE"`
}

func (WordRelationshipRow) TableName() string { return "word_relationships" }

// Models lists every row type in dependency order for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&SubjectRow{},
		&LevelRow{},
		&CourseRow{},
		&TopicRow{},
		&WordRow{},
		&WordTopicRow{},
		&WordVersionRow{},
		&WordVersionLevelRow{},
		&WordRelationshipRow{},
	}
}
