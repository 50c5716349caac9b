package slug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Café", "cafe"},
		{"naïve", "naive"},
		{"Gödel", "godel"},
		{"Δelta", "elta"},
		{"C++ Programming", "c-programming"},
		{"  Computer   Science  ", "computer-science"},
		{"A-Level (Year 12)", "a-level-year-12"},
		{"--Edge--Case--", "edge-case"},
		{"GCSE", "gcse"},
		{"1.1 Systems architecture", "1-1-systems-architecture"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Slugify(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSlugifyRejectsBlank(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := Slugify(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument), "input %q", in)
	}
}

func TestSlugifyNameWithNothingLeft(t *testing.T) {
	for _, in := range []string{"Δ", "ΔΣΩ", "!!!", "日本"} {
		got, err := Slugify(in)
		require.NoError(t, err, in)
		assert.Empty(t, got, in)
	}
}

func TestSlugifyShapeAndDeterminism(t *testing.T) {
	names := []string{
		"Café au lait", "naïve Bayes", "Ünïcödé!!", "C++ Programming", "x",
		"Über  -- Straße", "Data & Information", "3D Graphics", "ÅÆØ trial", "a_b_c",
		"Networks: Topologies / Protocols", "Élan vital", "-leading", "trailing-",
	}
	for _, n := range names {
		first, err := Slugify(n)
		require.NoError(t, err, n)
		second, err := Slugify(n)
		require.NoError(t, err, n)
		assert.Equal(t, first, second, n)
		assert.True(t, Valid(first), "%q produced %q", n, first)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("computer-science"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("-a"))
	assert.False(t, Valid("a-"))
	assert.False(t, Valid("a--b"))
	assert.False(t, Valid("A"))
}
