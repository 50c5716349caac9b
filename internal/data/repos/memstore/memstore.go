// Package memstore is an in-memory implementation of the catalog
// repositories. It enforces the same uniqueness rules as the SQL schema and
// counts every repository call, which makes it usable as a spy.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nomadicTree/frayerstore/internal/data/repos"
	"github.com/nomadicTree/frayerstore/internal/data/repos/catalog"
	types "github.com/nomadicTree/frayerstore/internal/domain/catalog"
	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
	"github.com/nomadicTree/frayerstore/internal/platform/ctxutil"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
)

type courseRec struct {
	PK        types.PK
	SubjectPK types.PK
	LevelPK   types.PK
	Name      string
	Slug      string
}

type link struct {
	Word  types.PK
	Topic types.PK
}

type versionRec struct {
	PK              types.PK
	WordPK          types.PK
	Definition      string
	Characteristics []string
	Examples        []string
	NonExamples     []string
	LevelPKs        []types.PK
}

// pair holds a word relationship, lower key first.
type pair struct{ A, B types.PK }

type tables struct {
	seq      types.PK
	subjects map[types.PK]types.Subject
	levels   map[types.PK]types.Level
	courses  map[types.PK]courseRec
	topics   map[types.PK]types.Topic
	words    map[types.PK]types.Word
	links    map[link]struct{}
	versions map[types.PK]versionRec
	related  map[pair]struct{}
}

func newTables() tables {
	return tables{
		subjects: map[types.PK]types.Subject{},
		levels:   map[types.PK]types.Level{},
		courses:  map[types.PK]courseRec{},
		topics:   map[types.PK]types.Topic{},
		words:    map[types.PK]types.Word{},
		links:    map[link]struct{}{},
		versions: map[types.PK]versionRec{},
		related:  map[pair]struct{}{},
	}
}

// clone copies every table. Stored values are never mutated in place, so a
// shallow copy of each map is a full snapshot.
func (t tables) clone() tables {
	out := newTables()
	out.seq = t.seq
	for k, v := range t.subjects {
		out.subjects[k] = v
	}
	for k, v := range t.levels {
		out.levels[k] = v
	}
	for k, v := range t.courses {
		out.courses[k] = v
	}
	for k, v := range t.topics {
		out.topics[k] = v
	}
	for k, v := range t.words {
		out.words[k] = v
	}
	for k := range t.links {
		out.links[k] = struct{}{}
	}
	for k, v := range t.versions {
		out.versions[k] = v
	}
	for k := range t.related {
		out.related[k] = struct{}{}
	}
	return out
}

var (
	_ catalog.Transactor  = (*Store)(nil)
	_ catalog.SubjectRepo = (*subjectRepo)(nil)
	_ catalog.LevelRepo   = (*levelRepo)(nil)
	_ catalog.CourseRepo  = (*courseRepo)(nil)
	_ catalog.TopicRepo   = (*topicRepo)(nil)
	_ catalog.WordRepo    = (*wordRepo)(nil)
)

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	t    tables

	calls map[string]int
}

func New() *Store {
	return &Store{t: newTables(), calls: map[string]int{}}
}

// Repos returns the repository set backed by this store.
func (s *Store) Repos() repos.Set {
	return repos.Set{
		Tx:       s,
		Subjects: &subjectRepo{s},
		Levels:   &levelRepo{s},
		Courses:  &courseRepo{s},
		Topics:   &topicRepo{s},
		Words:    &wordRepo{s},
	}
}

// InTx runs fn against the store and restores the pre-call snapshot when fn
// fails. Transactions are serialized.
func (s *Store) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := s.t.clone()
	s.mu.Unlock()

	if err := fn(dbctx.Context{Ctx: ctxutil.Default(ctx)}); err != nil {
		s.mu.Lock()
		s.t = snap
		s.mu.Unlock()
		return err
	}
	return nil
}

// Calls returns the total number of repository calls made so far.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// CallsTo returns how often op (e.g. "Topics.Create") was called.
func (s *Store) CallsTo(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// lock records op and takes the data lock; callers defer s.mu.Unlock().
func (s *Store) lock(op string) {
	s.mu.Lock()
	s.calls[op]++
}

func (s *Store) next() types.PK {
	s.t.seq++
	return s.t.seq
}

func conflict(table, field, value string) error {
	return fmt.Errorf("create %s: %w: %s %q already exists", table, apperrors.ErrConflict, field, value)
}

func missing(table string, pk types.PK) error {
	return fmt.Errorf("%s %d: %w", table, pk, apperrors.ErrNotFound)
}

// ---- subjects ----

type subjectRepo struct{ s *Store }

func (r *subjectRepo) GetByID(_ dbctx.Context, pk types.PK) (*types.Subject, error) {
	r.s.lock("Subjects.GetByID")
	defer r.s.mu.Unlock()
	if v, ok := r.s.t.subjects[pk]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *subjectRepo) GetBySlug(_ dbctx.Context, slug string) (*types.Subject, error) {
	r.s.lock("Subjects.GetBySlug")
	defer r.s.mu.Unlock()
	return r.find(func(v types.Subject) bool { return v.Slug == slug }), nil
}

func (r *subjectRepo) GetByName(_ dbctx.Context, name string) (*types.Subject, error) {
	r.s.lock("Subjects.GetByName")
	defer r.s.mu.Unlock()
	return r.find(func(v types.Subject) bool { return v.Name == name }), nil
}

func (r *subjectRepo) find(match func(types.Subject) bool) *types.Subject {
	for _, v := range r.s.t.subjects {
		if match(v) {
			return &v
		}
	}
	return nil
}

func (r *subjectRepo) ListAll(_ dbctx.Context, opts catalog.SubjectListOptions) ([]*types.Subject, error) {
	r.s.lock("Subjects.ListAll")
	defer r.s.mu.Unlock()
	out := make([]*types.Subject, 0, len(r.s.t.subjects))
	for _, v := range r.s.t.subjects {
		v := v
		if opts.IncludeCourses || opts.IncludeTopics {
			v.Courses = r.s.coursesWhere(func(c courseRec) bool { return c.SubjectPK == v.PK }, opts.IncludeTopics)
		}
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *subjectRepo) Create(_ dbctx.Context, in types.SubjectCreate) (*types.Subject, error) {
	r.s.lock("Subjects.Create")
	defer r.s.mu.Unlock()
	for _, v := range r.s.t.subjects {
		if v.Slug == in.Slug {
			return nil, conflict("subject", "slug", in.Slug)
		}
		if v.Name == in.Name {
			return nil, conflict("subject", "name", in.Name)
		}
	}
	v := types.Subject{PK: r.s.next(), Name: in.Name, Slug: in.Slug}
	r.s.t.subjects[v.PK] = v
	return &v, nil
}

// ---- levels ----

type levelRepo struct{ s *Store }

func (r *levelRepo) GetByID(_ dbctx.Context, pk types.PK) (*types.Level, error) {
	r.s.lock("Levels.GetByID")
	defer r.s.mu.Unlock()
	if v, ok := r.s.t.levels[pk]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *levelRepo) GetBySlug(_ dbctx.Context, slug string) (*types.Level, error) {
	r.s.lock("Levels.GetBySlug")
	defer r.s.mu.Unlock()
	for _, v := range r.s.t.levels {
		if v.Slug == slug {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *levelRepo) GetByName(_ dbctx.Context, name string) (*types.Level, error) {
	r.s.lock("Levels.GetByName")
	defer r.s.mu.Unlock()
	for _, v := range r.s.t.levels {
		if v.Name == name {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *levelRepo) ListAll(_ dbctx.Context) ([]*types.Level, error) {
	r.s.lock("Levels.ListAll")
	defer r.s.mu.Unlock()
	out := make([]*types.Level, 0, len(r.s.t.levels))
	for _, v := range r.s.t.levels {
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *levelRepo) Create(_ dbctx.Context, in types.LevelCreate) (*types.Level, error) {
	r.s.lock("Levels.Create")
	defer r.s.mu.Unlock()
	for _, v := range r.s.t.levels {
		if v.Slug == in.Slug {
			return nil, conflict("level", "slug", in.Slug)
		}
		if v.Name == in.Name {
			return nil, conflict("level", "name", in.Name)
		}
	}
	v := types.Level{PK: r.s.next(), Name: in.Name, Slug: in.Slug}
	r.s.t.levels[v.PK] = v
	return &v, nil
}

// ---- courses ----

type courseRepo struct{ s *Store }

// course joins the level and optionally the ordered topics. Caller holds mu.
func (s *Store) course(c courseRec, includeTopics bool) *types.Course {
	out := &types.Course{PK: c.PK, SubjectPK: c.SubjectPK, Name: c.Name, Slug: c.Slug}
	if lv, ok := s.t.levels[c.LevelPK]; ok {
		out.Level = &lv
	}
	if includeTopics {
		if ts := s.topicsFor(c.PK); len(ts) > 0 {
			out.Topics = ts
		}
	}
	return out
}

func (s *Store) coursesWhere(match func(courseRec) bool, includeTopics bool) []*types.Course {
	var out []*types.Course
	for _, c := range s.t.courses {
		if match(c) {
			out = append(out, s.course(c, includeTopics))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *courseRepo) GetByID(_ dbctx.Context, pk types.PK) (*types.Course, error) {
	r.s.lock("Courses.GetByID")
	defer r.s.mu.Unlock()
	if c, ok := r.s.t.courses[pk]; ok {
		return r.s.course(c, false), nil
	}
	return nil, nil
}

func (r *courseRepo) GetBySlug(_ dbctx.Context, slug string) (*types.Course, error) {
	r.s.lock("Courses.GetBySlug")
	defer r.s.mu.Unlock()
	for _, c := range r.s.t.courses {
		if c.Slug == slug {
			return r.s.course(c, false), nil
		}
	}
	return nil, nil
}

func (r *courseRepo) GetByName(_ dbctx.Context, name string) (*types.Course, error) {
	r.s.lock("Courses.GetByName")
	defer r.s.mu.Unlock()
	for _, c := range r.s.t.courses {
		if c.Name == name {
			return r.s.course(c, false), nil
		}
	}
	return nil, nil
}

func (r *courseRepo) GetForSubject(_ dbctx.Context, subjectPK types.PK, includeTopics bool) ([]*types.Course, error) {
	r.s.lock("Courses.GetForSubject")
	defer r.s.mu.Unlock()
	out := r.s.coursesWhere(func(c courseRec) bool { return c.SubjectPK == subjectPK }, includeTopics)
	if out == nil {
		out = []*types.Course{}
	}
	return out, nil
}

func (r *courseRepo) ListAll(_ dbctx.Context, includeTopics bool) ([]*types.Course, error) {
	r.s.lock("Courses.ListAll")
	defer r.s.mu.Unlock()
	out := r.s.coursesWhere(func(courseRec) bool { return true }, includeTopics)
	if out == nil {
		out = []*types.Course{}
	}
	return out, nil
}

func (r *courseRepo) Create(_ dbctx.Context, in types.CourseCreate) (*types.Course, error) {
	r.s.lock("Courses.Create")
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.subjects[in.SubjectPK]; !ok {
		return nil, missing("subject", in.SubjectPK)
	}
	if _, ok := r.s.t.levels[in.LevelPK]; !ok {
		return nil, missing("level", in.LevelPK)
	}
	for _, c := range r.s.t.courses {
		if c.Slug == in.Slug {
			return nil, conflict("course", "slug", in.Slug)
		}
		if c.Name == in.Name {
			return nil, conflict("course", "name", in.Name)
		}
	}
	c := courseRec{PK: r.s.next(), SubjectPK: in.SubjectPK, LevelPK: in.LevelPK, Name: in.Name, Slug: in.Slug}
	r.s.t.courses[c.PK] = c
	return r.s.course(c, false), nil
}

// ---- topics ----

type topicRepo struct{ s *Store }

// topicsFor returns the course's topics ordered by code. Caller holds mu.
func (s *Store) topicsFor(coursePK types.PK) []*types.Topic {
	out := []*types.Topic{}
	for _, t := range s.t.topics {
		if t.CoursePK == coursePK {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *topicRepo) GetByID(_ dbctx.Context, pk types.PK) (*types.Topic, error) {
	r.s.lock("Topics.GetByID")
	defer r.s.mu.Unlock()
	if v, ok := r.s.t.topics[pk]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *topicRepo) GetBySlug(_ dbctx.Context, slug string) (*types.Topic, error) {
	r.s.lock("Topics.GetBySlug")
	defer r.s.mu.Unlock()
	return r.find(func(v types.Topic) bool { return v.Slug == slug }), nil
}

func (r *topicRepo) GetByName(_ dbctx.Context, name string) (*types.Topic, error) {
	r.s.lock("Topics.GetByName")
	defer r.s.mu.Unlock()
	return r.find(func(v types.Topic) bool { return v.Name == name }), nil
}

func (r *topicRepo) GetByCourseAndCode(_ dbctx.Context, coursePK types.PK, code string) (*types.Topic, error) {
	r.s.lock("Topics.GetByCourseAndCode")
	defer r.s.mu.Unlock()
	return r.find(func(v types.Topic) bool { return v.CoursePK == coursePK && v.Code == code }), nil
}

func (r *topicRepo) find(match func(types.Topic) bool) *types.Topic {
	for _, v := range r.s.t.topics {
		if match(v) {
			return &v
		}
	}
	return nil
}

func (r *topicRepo) GetForCourse(_ dbctx.Context, coursePK types.PK) ([]*types.Topic, error) {
	r.s.lock("Topics.GetForCourse")
	defer r.s.mu.Unlock()
	return r.s.topicsFor(coursePK), nil
}

func (r *topicRepo) Create(_ dbctx.Context, in types.TopicCreate) (*types.Topic, error) {
	r.s.lock("Topics.Create")
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.courses[in.CoursePK]; !ok {
		return nil, missing("course", in.CoursePK)
	}
	for _, v := range r.s.t.topics {
		if v.Slug == in.Slug {
			return nil, conflict("topic", "slug", in.Slug)
		}
		if v.Name == in.Name {
			return nil, conflict("topic", "name", in.Name)
		}
		if v.CoursePK == in.CoursePK && v.Code == in.Code {
			return nil, conflict("topic", "code", in.Code)
		}
	}
	v := types.Topic{PK: r.s.next(), CoursePK: in.CoursePK, Code: in.Code, Name: in.Name, Slug: in.Slug}
	r.s.t.topics[v.PK] = v
	return &v, nil
}

// ---- words ----

type wordRepo struct{ s *Store }

func (r *wordRepo) GetByID(_ dbctx.Context, pk types.PK) (*types.Word, error) {
	r.s.lock("Words.GetByID")
	defer r.s.mu.Unlock()
	w, ok := r.s.t.words[pk]
	if !ok {
		return nil, nil
	}
	type linked struct {
		course string
		topic  types.Topic
	}
	var ls []linked
	for l := range r.s.t.links {
		if l.Word != pk {
			continue
		}
		t := r.s.t.topics[l.Topic]
		ls = append(ls, linked{course: r.s.t.courses[t.CoursePK].Name, topic: t})
	}
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].course != ls[j].course {
			return ls[i].course < ls[j].course
		}
		return ls[i].topic.Code < ls[j].topic.Code
	})
	w.Topics = make([]*types.Topic, 0, len(ls))
	for i := range ls {
		w.Topics = append(w.Topics, &ls[i].topic)
	}
	w.Versions = r.s.versionsFor(pk)
	w.Related = r.s.relatedTo(pk)
	return &w, nil
}

// versionsFor returns the word's versions in insertion order with their
// levels sorted by name. Caller holds mu.
func (s *Store) versionsFor(wordPK types.PK) []*types.WordVersion {
	var recs []versionRec
	for _, v := range s.t.versions {
		if v.WordPK == wordPK {
			recs = append(recs, v)
		}
	}
	if len(recs) == 0 {
		return nil
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].PK < recs[j].PK })
	out := make([]*types.WordVersion, 0, len(recs))
	for _, rec := range recs {
		v := &types.WordVersion{
			PK:              rec.PK,
			WordPK:          rec.WordPK,
			Definition:      rec.Definition,
			Characteristics: copyList(rec.Characteristics),
			Examples:        copyList(rec.Examples),
			NonExamples:     copyList(rec.NonExamples),
			Levels:          []*types.Level{},
		}
		for _, pk := range rec.LevelPKs {
			if lv, ok := s.t.levels[pk]; ok {
				lv := lv
				v.Levels = append(v.Levels, &lv)
			}
		}
		sort.Slice(v.Levels, func(i, j int) bool { return v.Levels[i].Name < v.Levels[j].Name })
		v.LevelLabel = types.LevelLabel(v.Levels)
		out = append(out, v)
	}
	return out
}

// relatedTo returns the words paired with wordPK, sorted by word. Caller
// holds mu.
func (s *Store) relatedTo(wordPK types.PK) []*types.RelatedWord {
	var out []*types.RelatedWord
	for p := range s.t.related {
		other := p.A
		switch wordPK {
		case p.A:
			other = p.B
		case p.B:
		default:
			continue
		}
		out = append(out, &types.RelatedWord{PK: other, Word: s.t.words[other].Word})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

func (r *wordRepo) GetBySubjectAndWord(_ dbctx.Context, subjectPK types.PK, word string) (*types.Word, error) {
	r.s.lock("Words.GetBySubjectAndWord")
	defer r.s.mu.Unlock()
	if w := r.find(subjectPK, word); w != nil {
		return w, nil
	}
	return nil, nil
}

func (r *wordRepo) find(subjectPK types.PK, word string) *types.Word {
	for _, w := range r.s.t.words {
		if w.SubjectPK == subjectPK && w.Word == word {
			return &w
		}
	}
	return nil
}

func (r *wordRepo) Search(_ dbctx.Context, query string) ([]*types.Word, error) {
	r.s.lock("Words.Search")
	defer r.s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(query))
	out := []*types.Word{}
	for _, w := range r.s.t.words {
		if strings.Contains(strings.ToLower(w.Word), q) {
			w := w
			out = append(out, &w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}

func (r *wordRepo) ListForTopic(_ dbctx.Context, topicPK types.PK) ([]*types.Word, error) {
	r.s.lock("Words.ListForTopic")
	defer r.s.mu.Unlock()
	out := []*types.Word{}
	for l := range r.s.t.links {
		if l.Topic == topicPK {
			w := r.s.t.words[l.Word]
			out = append(out, &w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}

func (r *wordRepo) Upsert(_ dbctx.Context, in types.WordCreate) (*types.Word, bool, error) {
	r.s.lock("Words.Upsert")
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.subjects[in.SubjectPK]; !ok {
		return nil, false, missing("subject", in.SubjectPK)
	}
	w := types.Word{
		SubjectPK:       in.SubjectPK,
		Word:            in.Word,
		Definition:      in.Definition,
		Characteristics: copyList(in.Characteristics),
		Examples:        copyList(in.Examples),
		NonExamples:     copyList(in.NonExamples),
	}
	created := false
	if existing := r.find(in.SubjectPK, in.Word); existing != nil {
		w.PK = existing.PK
	} else {
		w.PK = r.s.next()
		created = true
	}
	r.s.t.words[w.PK] = w
	return &w, created, nil
}

func (r *wordRepo) LinkTopic(_ dbctx.Context, wordPK, topicPK types.PK) (bool, error) {
	r.s.lock("Words.LinkTopic")
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.words[wordPK]; !ok {
		return false, missing("word", wordPK)
	}
	if _, ok := r.s.t.topics[topicPK]; !ok {
		return false, missing("topic", topicPK)
	}
	l := link{Word: wordPK, Topic: topicPK}
	if _, ok := r.s.t.links[l]; ok {
		return false, nil
	}
	r.s.t.links[l] = struct{}{}
	return true, nil
}

func (r *wordRepo) ReplaceVersions(_ dbctx.Context, wordPK types.PK, versions []types.WordVersionCreate) error {
	r.s.lock("Words.ReplaceVersions")
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.words[wordPK]; !ok {
		return missing("word", wordPK)
	}
	for _, in := range versions {
		for _, pk := range in.LevelPKs {
			if _, ok := r.s.t.levels[pk]; !ok {
				return missing("level", pk)
			}
		}
	}
	for pk, v := range r.s.t.versions {
		if v.WordPK == wordPK {
			delete(r.s.t.versions, pk)
		}
	}
	for _, in := range versions {
		rec := versionRec{
			PK:              r.s.next(),
			WordPK:          wordPK,
			Definition:      in.Definition,
			Characteristics: copyList(in.Characteristics),
			Examples:        copyList(in.Examples),
			NonExamples:     copyList(in.NonExamples),
			LevelPKs:        append([]types.PK(nil), in.LevelPKs...),
		}
		r.s.t.versions[rec.PK] = rec
	}
	return nil
}

func (r *wordRepo) Relate(_ dbctx.Context, a, b types.PK) (bool, error) {
	r.s.lock("Words.Relate")
	defer r.s.mu.Unlock()
	if a == b {
		return false, fmt.Errorf("relate word %d to itself: %w", a, apperrors.ErrInvalidArgument)
	}
	for _, pk := range []types.PK{a, b} {
		if _, ok := r.s.t.words[pk]; !ok {
			return false, missing("word", pk)
		}
	}
	if a > b {
		a, b = b, a
	}
	p := pair{A: a, B: b}
	if _, ok := r.s.t.related[p]; ok {
		return false, nil
	}
	r.s.t.related[p] = struct{}{}
	return true, nil
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
