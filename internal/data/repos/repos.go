package repos

import (
	"gorm.io/gorm"

	"github.com/nomadicTree/frayerstore/internal/data/repos/catalog"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

type SubjectRepo = catalog.SubjectRepo
type LevelRepo = catalog.LevelRepo
type CourseRepo = catalog.CourseRepo
type TopicRepo = catalog.TopicRepo
type WordRepo = catalog.WordRepo

type Transactor = catalog.Transactor

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return catalog.NewSubjectRepo(db, baseLog)
}
func NewLevelRepo(db *gorm.DB, baseLog *logger.Logger) LevelRepo {
	return catalog.NewLevelRepo(db, baseLog)
}
func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return catalog.NewCourseRepo(db, baseLog)
}
func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return catalog.NewTopicRepo(db, baseLog)
}
func NewWordRepo(db *gorm.DB, baseLog *logger.Logger) WordRepo {
	return catalog.NewWordRepo(db, baseLog)
}
func NewTransactor(db *gorm.DB, baseLog *logger.Logger) Transactor {
	return catalog.NewTransactor(db, baseLog)
}

// Set bundles every catalog repository behind one transactor. Both the gorm
// store and memstore produce one.
type Set struct {
	Tx       Transactor
	Subjects SubjectRepo
	Levels   LevelRepo
	Courses  CourseRepo
	Topics   TopicRepo
	Words    WordRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Tx:       NewTransactor(db, baseLog),
		Subjects: NewSubjectRepo(db, baseLog),
		Levels:   NewLevelRepo(db, baseLog),
		Courses:  NewCourseRepo(db, baseLog),
		Topics:   NewTopicRepo(db, baseLog),
		Words:    NewWordRepo(db, baseLog),
	}
}
