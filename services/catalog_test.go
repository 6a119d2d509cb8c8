package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bellapacxx/gwent-backend/config"
	"github.com/bellapacxx/gwent-backend/game"
	"github.com/bellapacxx/gwent-backend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestCatalogFileRoundTrip(t *testing.T) {
	want := game.BuiltinCatalog()
	raw, err := EncodeCatalog(want)
	require.NoError(t, err)

	got, err := DecodeCatalog(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, want.Definitions, got.Definitions)
	assert.Equal(t, want.Decks, got.Decks)
	assert.Equal(t, want.Leaders, got.Leaders)
}

func TestLoadCatalogFile(t *testing.T) {
	raw, err := EncodeCatalog(game.BuiltinCatalog())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cards.toml")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	c, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Decks, len(game.PlayableFactions))

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDecodeCatalogRejects(t *testing.T) {
	base, err := EncodeCatalog(game.BuiltinCatalog())
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "colour = \"red\"\n" + string(base)},
		{"bad syntax", "[[cards]\nid = 1"},
		{"empty", ""},
		{"duplicate deck", string(base) + "\n[[decks]]\nfaction = \"monsters\"\nleader = \"mo_eredin\"\ncards = []\n"},
		{"unknown ability", string(withBadAbility(t))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCatalog(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func withBadAbility(t *testing.T) []byte {
	t.Helper()
	c := game.BuiltinCatalog()
	c.Definitions["mo_fiend"].Abilities = []game.Ability{"teleport"}
	raw, err := EncodeCatalog(c)
	require.NoError(t, err)
	return raw
}

func TestDecodeCatalogDefaultsCopies(t *testing.T) {
	c := game.BuiltinCatalog()
	for f, entries := range c.Decks {
		for i := range entries {
			entries[i].Copies = 1
		}
		c.Decks[f] = entries
	}
	raw, err := EncodeCatalog(c)
	require.NoError(t, err)
	raw = bytes.ReplaceAll(raw, []byte("copies = 1"), []byte("copies = 0"))

	got, err := DecodeCatalog(bytes.NewReader(raw))
	require.NoError(t, err)
	for _, e := range got.Decks[game.FactionMonsters] {
		assert.Equal(t, 1, e.Copies)
	}
}

func TestCatalogStoreSeedAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore(openTestDB(t))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	want := game.BuiltinCatalog()
	require.NoError(t, store.Seed(ctx, want))
	// Seeding twice upserts instead of failing on the unique keys.
	require.NoError(t, store.Seed(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Definitions, got.Definitions)
	assert.Equal(t, want.Decks, got.Decks)
	assert.Equal(t, want.Leaders, got.Leaders)
}

func TestCatalogStoreSeedRejectsInvalid(t *testing.T) {
	store := NewCatalogStore(openTestDB(t))
	c := game.BuiltinCatalog()
	delete(c.Leaders, game.FactionNilfgaard)

	assert.ErrorIs(t, store.Seed(context.Background(), c), game.ErrMissingLeader)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestCatalogStoreRejectsNonPositiveCopies(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := NewCatalogStore(db)

	c := game.BuiltinCatalog()
	c.Decks[game.FactionNilfgaard][0].Copies = -2
	assert.ErrorIs(t, store.Seed(ctx, c), game.ErrInvalidCopies)

	require.NoError(t, store.Seed(ctx, game.BuiltinCatalog()))
	require.NoError(t, db.Model(&models.DeckEntry{}).
		Where("faction = ?", string(game.FactionMonsters)).
		Update("copies", 0).Error)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, game.ErrInvalidCopies)
}

func TestLoadCatalogSources(t *testing.T) {
	ctx := context.Background()

	c, err := LoadCatalog(ctx, &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, game.BuiltinCatalog().Leaders, c.Leaders)

	// An empty database falls through to the file.
	dir := t.TempDir()
	custom := game.BuiltinCatalog()
	custom.Definitions["mo_fiend"].BaseStrength = 7
	raw, err := EncodeCatalog(custom)
	require.NoError(t, err)
	path := filepath.Join(dir, "cards.toml")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	dsn := filepath.Join(dir, "empty.db")
	c, err = LoadCatalog(ctx, &config.Config{DatabaseURL: dsn, CardCatalogFile: path})
	require.NoError(t, err)
	fiend, ok := c.Definition("mo_fiend")
	require.True(t, ok)
	assert.Equal(t, 7, fiend.BaseStrength)

	// A seeded database wins over the file.
	db, err := config.OpenDatabase(dsn)
	require.NoError(t, err)
	require.NoError(t, NewCatalogStore(db).Seed(ctx, game.BuiltinCatalog()))
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	c, err = LoadCatalog(ctx, &config.Config{DatabaseURL: dsn, CardCatalogFile: path})
	require.NoError(t, err)
	fiend, ok = c.Definition("mo_fiend")
	require.True(t, ok)
	assert.Equal(t, 6, fiend.BaseStrength)
}
