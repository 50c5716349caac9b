package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/nomadicTree/frayerstore/internal/data/repos/catalog"
	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
)

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, name, slug string) types.PK {
	tb.Helper()
	row := &catalog.SubjectRow{Name: name, Slug: slug}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return types.PK(row.ID)
}

func SeedLevel(tb testing.TB, ctx context.Context, tx *gorm.DB, name, slug string) types.PK {
	tb.Helper()
	row := &catalog.LevelRow{Name: name, Slug: slug}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed level: %v", err)
	}
	return types.PK(row.ID)
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectPK, levelPK types.PK, name, slug string) types.PK {
	tb.Helper()
	row := &catalog.CourseRow{SubjectID: int64(subjectPK), LevelID: int64(levelPK), Name: name, Slug: slug}
	if err := tx.WithContext(ctx).Omit("Level", "Topics").Create(row).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return types.PK(row.ID)
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, coursePK types.PK, code, name, slug string) types.PK {
	tb.Helper()
	row := &catalog.TopicRow{CourseID: int64(coursePK), Code: code, Name: name, Slug: slug}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return types.PK(row.ID)
}

// Count returns the number of rows in model's table.
func Count(tb testing.TB, db *gorm.DB, model interface{}) int64 {
	tb.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
