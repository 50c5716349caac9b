package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nomadicTree/frayerstore/internal/data/repos/catalog"
	"github.com/nomadicTree/frayerstore/internal/data/repos/testutil"
	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
)

func TestSubjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := catalog.NewSubjectRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, types.SubjectCreate{Name: "Computing", Slug: "computing"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PK == 0 || created.Name != "Computing" || created.Slug != "computing" {
		t.Fatalf("Create returned %+v", created)
	}

	if got, err := repo.GetByID(dbc, created.PK); err != nil || got == nil || got.Slug != "computing" {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetBySlug(dbc, "computing"); err != nil || got == nil || got.PK != created.PK {
		t.Fatalf("GetBySlug: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetByName(dbc, "Computing"); err != nil || got == nil || got.PK != created.PK {
		t.Fatalf("GetByName: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetBySlug(dbc, "missing"); err != nil || got != nil {
		t.Fatalf("GetBySlug(missing): got=%+v err=%v", got, err)
	}
	if got, err := repo.GetByName(dbc, "computing"); err != nil || got != nil {
		t.Fatalf("GetByName is case sensitive: got=%+v err=%v", got, err)
	}

	if _, err := repo.Create(dbc, types.SubjectCreate{Name: "Other", Slug: "computing"}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("duplicate slug: want ErrConflict, got %v", err)
	}
}

func TestSubjectRepoListAllHydration(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := catalog.NewSubjectRepo(db, testutil.Logger(t))

	maths := testutil.SeedSubject(t, ctx, db, "Maths", "maths")
	computing := testutil.SeedSubject(t, ctx, db, "Computing", "computing")
	gcse := testutil.SeedLevel(t, ctx, db, "GCSE", "gcse")
	cs := testutil.SeedCourse(t, ctx, db, computing, gcse, "GCSE Computer Science", "gcse-computer-science")
	testutil.SeedCourse(t, ctx, db, computing, gcse, "Cambridge Nationals", "cambridge-nationals")
	testutil.SeedCourse(t, ctx, db, maths, gcse, "GCSE Maths", "gcse-maths")
	testutil.SeedTopic(t, ctx, db, cs, "2.1", "Algorithms", "algorithms")
	testutil.SeedTopic(t, ctx, db, cs, "1.1", "Systems architecture", "systems-architecture")

	plain, err := repo.ListAll(dbc, catalog.SubjectListOptions{})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(plain) != 2 || plain[0].Name != "Computing" || plain[1].Name != "Maths" {
		t.Fatalf("ListAll order: %+v", plain)
	}
	if plain[0].Courses != nil {
		t.Fatalf("unhydrated ListAll should not load courses")
	}

	withCourses, err := repo.ListAll(dbc, catalog.SubjectListOptions{IncludeCourses: true})
	if err != nil {
		t.Fatalf("ListAll(courses): %v", err)
	}
	courses := withCourses[0].Courses
	if len(courses) != 2 || courses[0].Name != "Cambridge Nationals" {
		t.Fatalf("hydrated courses: %+v", courses)
	}
	if courses[0].Level == nil || courses[0].Level.Slug != "gcse" {
		t.Fatalf("course level not joined: %+v", courses[0])
	}
	if courses[1].Topics != nil {
		t.Fatalf("topics loaded without IncludeTopics")
	}

	withTopics, err := repo.ListAll(dbc, catalog.SubjectListOptions{IncludeTopics: true})
	if err != nil {
		t.Fatalf("ListAll(topics): %v", err)
	}
	topics := withTopics[0].Courses[1].Topics
	if len(topics) != 2 || topics[0].Code != "1.1" || topics[1].Code != "2.1" {
		t.Fatalf("topics not ordered by code: %+v", topics)
	}
}

func TestTransactorRollsBack(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	repo := catalog.NewSubjectRepo(db, log)
	txr := catalog.NewTransactor(db, log)

	boom := errors.New("boom")
	err := txr.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := repo.Create(dbc, types.SubjectCreate{Name: "Computing", Slug: "computing"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx: want boom, got %v", err)
	}
	if n := testutil.Count(t, db, &catalog.SubjectRow{}); n != 0 {
		t.Fatalf("rollback left %d subjects", n)
	}

	if err := txr.InTx(ctx, func(dbc dbctx.Context) error {
		_, err := repo.Create(dbc, types.SubjectCreate{Name: "Computing", Slug: "computing"})
		return err
	}); err != nil {
		t.Fatalf("InTx commit: %v", err)
	}
	if n := testutil.Count(t, db, &catalog.SubjectRow{}); n != 1 {
		t.Fatalf("commit stored %d subjects", n)
	}
}
