package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadicTree/frayerstore/internal/data/repos"
	"github.com/nomadicTree/frayerstore/internal/data/repos/memstore"
	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	httpH "github.com/nomadicTree/frayerstore/internal/http/handlers"
	"github.com/nomadicTree/frayerstore/internal/http/response"
	"github.com/nomadicTree/frayerstore/internal/observability"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
	"github.com/nomadicTree/frayerstore/internal/services"
)

type fixture struct {
	router *gin.Engine
	course types.PK
	topic  types.PK
	word   types.PK
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	set := memstore.New().Repos()
	f := fixture{}
	seed(t, set, &f)

	log := logger.Nop()
	f.router = NewRouter(RouterConfig{
		Log:            log,
		Metrics:        observability.NewMetrics(),
		CatalogHandler: httpH.NewCatalogHandler(log, services.NewCatalogService(log, set, false)),
		HealthHandler:  httpH.NewHealthHandler(),
	})
	return f
}

func seed(t *testing.T, set repos.Set, f *fixture) {
	dbc := dbctx.Background()
	sub, err := set.Subjects.Create(dbc, types.SubjectCreate{Name: "Computing", Slug: "computing"})
	require.NoError(t, err)
	gcse, err := set.Levels.Create(dbc, types.LevelCreate{Name: "GCSE", Slug: "gcse"})
	require.NoError(t, err)
	course, err := set.Courses.Create(dbc, types.CourseCreate{SubjectPK: sub.PK, LevelPK: gcse.PK, Name: "GCSE Computer Science", Slug: "gcse-computer-science"})
	require.NoError(t, err)
	topic, err := set.Topics.Create(dbc, types.TopicCreate{CoursePK: course.PK, Code: "1.1", Name: "Systems architecture", Slug: "systems-architecture"})
	require.NoError(t, err)
	w, _, err := set.Words.Upsert(dbc, types.WordCreate{SubjectPK: sub.PK, Word: "Register", Definition: "A small store inside the CPU"})
	require.NoError(t, err)
	_, err = set.Words.LinkTopic(dbc, w.PK, topic.PK)
	require.NoError(t, err)
	require.NoError(t, set.Words.ReplaceVersions(dbc, w.PK, []types.WordVersionCreate{
		{Definition: "Tiny CPU memory", LevelPKs: []types.PK{gcse.PK}},
	}))
	cache, _, err := set.Words.Upsert(dbc, types.WordCreate{SubjectPK: sub.PK, Word: "Cache"})
	require.NoError(t, err)
	_, err = set.Words.Relate(dbc, w.PK, cache.PK)
	require.NoError(t, err)
	f.course, f.topic, f.word = course.PK, topic.PK, w.PK
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func id(pk types.PK) string { return strconv.FormatInt(int64(pk), 10) }

func TestHealthcheck(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/healthcheck")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListSubjectsInclude(t *testing.T) {
	f := newFixture(t)

	var bare struct{ Subjects []types.Subject }
	rec := get(t, f.router, "/api/subjects")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &bare)
	require.Len(t, bare.Subjects, 1)
	assert.Empty(t, bare.Subjects[0].Courses)

	var full struct{ Subjects []types.Subject }
	rec = get(t, f.router, "/api/subjects?include=courses,topics")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &full)
	require.Len(t, full.Subjects[0].Courses, 1)
	assert.Equal(t, "GCSE", full.Subjects[0].Courses[0].Level.Name)
	require.Len(t, full.Subjects[0].Courses[0].Topics, 1)
	assert.Equal(t, "1.1", full.Subjects[0].Courses[0].Topics[0].Code)
}

func TestSubjectRoutes(t *testing.T) {
	f := newFixture(t)

	var one struct{ Subject types.Subject }
	rec := get(t, f.router, "/api/subjects/computing")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &one)
	assert.Equal(t, "Computing", one.Subject.Name)

	var courses struct{ Courses []types.Course }
	rec = get(t, f.router, "/api/subjects/computing/courses?include=topics")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &courses)
	require.Len(t, courses.Courses, 1)
	assert.Len(t, courses.Courses[0].Topics, 1)

	rec = get(t, f.router, "/api/subjects/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var env response.ErrorEnvelope
	decode(t, rec, &env)
	assert.Equal(t, "not_found", env.Error.Code)
	assert.Contains(t, env.Error.Message, "history")
}

func TestTopicAndWordRoutes(t *testing.T) {
	f := newFixture(t)

	var levels struct{ Levels []types.Level }
	rec := get(t, f.router, "/api/levels")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &levels)
	assert.Len(t, levels.Levels, 1)

	var topics struct{ Topics []types.Topic }
	rec = get(t, f.router, "/api/courses/"+id(f.course)+"/topics")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &topics)
	require.Len(t, topics.Topics, 1)

	var words struct{ Words []types.Word }
	rec = get(t, f.router, "/api/topics/"+id(f.topic)+"/words")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &words)
	require.Len(t, words.Words, 1)
	assert.Equal(t, "Register", words.Words[0].Word)

	var hits struct{ Words []types.Word }
	rec = get(t, f.router, "/api/words?q=regis")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &hits)
	assert.Len(t, hits.Words, 1)

	var one struct{ Word types.Word }
	rec = get(t, f.router, "/api/words/"+id(f.word))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &one)
	require.Len(t, one.Word.Topics, 1)
	assert.Equal(t, "Systems architecture", one.Word.Topics[0].Name)
	require.Len(t, one.Word.Versions, 1)
	assert.Equal(t, "GCSE", one.Word.Versions[0].LevelLabel)
	assert.Equal(t, "Tiny CPU memory", one.Word.Versions[0].Definition)
	require.Len(t, one.Word.Related, 1)
	assert.Equal(t, "Cache", one.Word.Related[0].Word)
	assert.Contains(t, rec.Body.String(), `"related_words":[`)
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t)
	cases := map[string]int{
		"/api/words":              http.StatusBadRequest,
		"/api/words/abc":          http.StatusBadRequest,
		"/api/words/0":            http.StatusBadRequest,
		"/api/words/999":          http.StatusNotFound,
		"/api/courses/999/topics": http.StatusNotFound,
		"/api/topics/999/words":   http.StatusNotFound,
	}
	for path, want := range cases {
		rec := get(t, f.router, path)
		assert.Equal(t, want, rec.Code, path)
		var env response.ErrorEnvelope
		decode(t, rec, &env)
		assert.NotEmpty(t, env.Error.Message, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	get(t, f.router, "/api/levels")
	rec := get(t, f.router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `fs_api_requests_total{method="GET",route="/api/levels",status="200"}`))
}
