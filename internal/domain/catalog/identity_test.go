package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamePersisted(t *testing.T) {
	a := &Subject{PK: 1, Name: "Computing", Slug: "computing"}
	b := &Subject{PK: 1, Name: "renamed", Slug: "renamed"}
	c := &Subject{PK: 2, Name: "Computing", Slug: "computing"}

	assert.True(t, Same(a, b))
	assert.False(t, Same(a, c))
}

func TestSameDiffersAcrossKinds(t *testing.T) {
	s := &Subject{PK: 1, Name: "GCSE", Slug: "gcse"}
	l := &Level{PK: 1, Name: "GCSE", Slug: "gcse"}
	assert.False(t, Same(s, l))
}

func TestSameUnsavedUsesReference(t *testing.T) {
	a := &Subject{Name: "Computing", Slug: "computing"}
	b := &Subject{Name: "Computing", Slug: "computing"}

	assert.False(t, Same(a, b))
	assert.True(t, Same(a, a))
	assert.False(t, Same(a, nil))
	assert.False(t, a.Identity().Equal(b.Identity()))
}

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "topic#4", (&Topic{PK: 4}).Identity().String())
	assert.Equal(t, "course(unsaved)", (&Course{}).Identity().String())
}

func TestCourseLess(t *testing.T) {
	gcse := &Level{PK: 1, Name: "GCSE"}
	alevel := &Level{PK: 2, Name: "A Level"}
	a := &Course{Name: "computer science", Level: gcse}
	b := &Course{Name: "Computer Systems", Level: gcse}
	c := &Course{Name: "Algorithms", Level: alevel}

	assert.True(t, a.Less(b))
	assert.True(t, c.Less(a))
	assert.False(t, a.Less(c))
}

func TestTopicLabel(t *testing.T) {
	assert.Equal(t, "A1: Algorithms", (&Topic{Code: "A1", Name: "Algorithms"}).Label())
}

func TestLevelLabel(t *testing.T) {
	gcse, alevel, ks3 := &Level{Name: "GCSE"}, &Level{Name: "A Level"}, &Level{Name: "KS3"}
	assert.Equal(t, "All levels", LevelLabel(nil))
	assert.Equal(t, "GCSE", LevelLabel([]*Level{gcse}))
	assert.Equal(t, "GCSE and A Level", LevelLabel([]*Level{gcse, alevel}))
	assert.Equal(t, "KS3, GCSE, and A Level", LevelLabel([]*Level{ks3, gcse, alevel}))
}
