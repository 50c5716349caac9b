package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadicTree/frayerstore/internal/data/repos"
	"github.com/nomadicTree/frayerstore/internal/platform/dbctx"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

const computingWords = `
subject: Computing
words:
  - word: Register
    definition: A small store inside the CPU
    characteristics: [fast, tiny]
    examples: [accumulator, program counter]
    non-examples: [RAM]
    topics:
      - course: GCSE Computer Science
        codes: ["1.1"]
      - course: A Level Computer Science
        codes: [1.1]
  - word: Cache
    definition: Fast memory between CPU and RAM
    topics:
      - course: GCSE Computer Science
        codes: ["1.1", "1.2"]
`

func seedCatalog(t *testing.T, set repos.Set) *Importer {
	t.Helper()
	im := New(set, logger.Nop(), nil)
	_, err := im.ImportNode(context.Background(), mustParse(t, computingDoc), nil)
	require.NoError(t, err)
	return im
}

func TestImportWords(t *testing.T) {
	backends(t, func(t *testing.T, set repos.Set) {
		im := seedCatalog(t, set)
		path := writeFile(t, "words.yaml", computingWords)
		ctx := context.Background()

		report, err := im.ImportWordsFile(ctx, path, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Computing/Register", "Computing/Cache"}, report.Words.Created)
		assert.Empty(t, report.Words.Updated)
		assert.Len(t, report.Words.Linked, 4)

		again, err := im.ImportWordsFile(ctx, path, nil)
		require.NoError(t, err)
		assert.Empty(t, again.Words.Created)
		assert.Len(t, again.Words.Updated, 2)
		assert.Empty(t, again.Words.Linked)

		hits, err := set.Words.Search(dbctx.Background(), "register")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		w, err := set.Words.GetByID(dbctx.Background(), hits[0].PK)
		require.NoError(t, err)
		assert.Equal(t, []string{"accumulator", "program counter"}, w.Examples)
		assert.Equal(t, []string{"RAM"}, w.NonExamples)
		require.Len(t, w.Topics, 2)
		assert.Equal(t, "Processors", w.Topics[0].Name)
		assert.Equal(t, "Systems architecture", w.Topics[1].Name)
	})
}

func TestImportWordsUnknownReferences(t *testing.T) {
	cases := map[string]string{
		"subject": "subject: Physics\nwords:\n  - word: Force\n",
		"course":  "subject: Computing\nwords:\n  - word: Bus\n    topics:\n      - course: Networking\n        codes: [\"1\"]\n",
		"topic":   "subject: Computing\nwords:\n  - word: Bus\n    topics:\n      - course: GCSE Computer Science\n        codes: [\"9.9\"]\n",
		"level":   "subject: Computing\nwords:\n  - word: Bus\n    versions:\n      - levels: [KS3]\n        definition: Wires\n",
		"related": "subject: Computing\nwords:\n  - word: Bus\n    related: [Clock]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			backends(t, func(t *testing.T, set repos.Set) {
				im := seedCatalog(t, set)
				_, err := im.ImportWordsNode(context.Background(), mustParse(t, doc), nil)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownReference)

				hits, err := set.Words.Search(dbctx.Background(), "")
				require.NoError(t, err)
				assert.Empty(t, hits, "failed import must not leave words behind")
			})
		})
	}
}

func TestImportWordsStructure(t *testing.T) {
	im := New(repos.Set{}, logger.Nop(), nil)
	for name, doc := range map[string]string{
		"no subject": "words:\n  - word: Bus\n",
		"blank word": "subject: Computing\nwords:\n  - word: '  '\n",
		"no codes":   "subject: Computing\nwords:\n  - word: Bus\n    topics:\n      - course: X\n",
		"not a map":  "- subject\n",
		"no levels":  "subject: Computing\nwords:\n  - word: Bus\n    versions:\n      - definition: Wires\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := im.ImportWordsNode(context.Background(), mustParse(t, doc), nil)
			requireStructureError(t, err)
		})
	}
}

const registerVersions = `
subject: Computing
words:
  - word: Register
    definition: A small store inside the CPU
    related: [Cache]
    versions:
      - levels: [A Level]
        definition: A storage location within the processor
        examples: [MAR, MDR]
      - levels: [GCSE, A Level, GCSE]
        definition: Tiny CPU memory
  - word: Cache
    definition: Fast memory between CPU and RAM
    related: [Register]
`

func TestImportWordsVersionsAndRelated(t *testing.T) {
	backends(t, func(t *testing.T, set repos.Set) {
		im := seedCatalog(t, set)
		ctx := context.Background()

		report, err := im.ImportWordsNode(ctx, mustParse(t, registerVersions), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Register <-> Cache"}, report.Words.Related)
		assert.Contains(t, report.Summary(), "related=1")

		hits, err := set.Words.Search(dbctx.Background(), "register")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		w, err := set.Words.GetByID(dbctx.Background(), hits[0].PK)
		require.NoError(t, err)

		require.Len(t, w.Versions, 2)
		assert.Equal(t, "A storage location within the processor", w.Versions[0].Definition)
		assert.Equal(t, []string{"MAR", "MDR"}, w.Versions[0].Examples)
		assert.Equal(t, "A Level", w.Versions[0].LevelLabel)
		require.Len(t, w.Versions[1].Levels, 2)
		assert.Equal(t, "A Level and GCSE", w.Versions[1].LevelLabel)

		require.Len(t, w.Related, 1)
		assert.Equal(t, "Cache", w.Related[0].Word)
		cache, err := set.Words.GetByID(dbctx.Background(), w.Related[0].PK)
		require.NoError(t, err)
		require.Len(t, cache.Related, 1)
		assert.Equal(t, "Register", cache.Related[0].Word)
		assert.Empty(t, cache.Versions)

		// Content is replaced on re-import; relationships are kept.
		again, err := im.ImportWordsNode(ctx, mustParse(t, "subject: Computing\nwords:\n  - word: Register\n"), nil)
		require.NoError(t, err)
		assert.Empty(t, again.Words.Related)
		w, err = set.Words.GetByID(dbctx.Background(), w.PK)
		require.NoError(t, err)
		assert.Empty(t, w.Versions)
		assert.Len(t, w.Related, 1)
	})
}

func TestImportWordsRejectsSelfRelation(t *testing.T) {
	backends(t, func(t *testing.T, set repos.Set) {
		im := seedCatalog(t, set)
		_, err := im.ImportWordsNode(context.Background(), mustParse(t, "subject: Computing\nwords:\n  - word: Bus\n    related: [Bus]\n"), nil)
		se := requireStructureError(t, err)
		assert.Equal(t, "related", se.Field)

		hits, err := set.Words.Search(dbctx.Background(), "bus")
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}
