package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthners/healthners/internal/adapters/storage/memory"
	"github.com/healthners/healthners/internal/app/settings"
	"github.com/healthners/healthners/internal/domain"
)

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}
func (brokenKV) Set(context.Context, string, string) error { return errors.New("disk gone") }
func (brokenKV) Remove(context.Context, string) error      { return errors.New("disk gone") }

func TestDefaults(t *testing.T) {
	s := settings.NewStore(memory.NewKVStore())
	assert.Equal(t, settings.Defaults, s.Load(context.Background()))
}

func TestToggleThemePersists(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()

	got := settings.NewStore(kv).ToggleTheme(ctx)
	assert.Equal(t, domain.ThemeDark, got.Theme)

	// a new store over the same storage sees the change
	assert.Equal(t, domain.ThemeDark, settings.NewStore(kv).Load(ctx).Theme)

	got = settings.NewStore(kv).ToggleTheme(ctx)
	assert.Equal(t, domain.ThemeLight, got.Theme)

	raw, _, _ := kv.Get(ctx, settings.KeyTheme)
	assert.Equal(t, "light", raw)
}

func TestSetLanguage(t *testing.T) {
	ctx := context.Background()
	s := settings.NewStore(memory.NewKVStore())

	got := s.SetLanguage(ctx, "en-US")
	assert.Equal(t, domain.LanguageEnglish, got.Language)
	assert.Equal(t, domain.LanguageEnglish, s.Load(ctx).Language)

	got = s.SetLanguage(ctx, "klingon")
	assert.Equal(t, domain.LanguageEnglish, got.Language)
}

func TestStorageErrorsFallBackToDefaults(t *testing.T) {
	ctx := context.Background()
	s := settings.NewStore(brokenKV{})

	assert.Equal(t, settings.Defaults, s.Load(ctx))

	got := s.ToggleTheme(ctx)
	assert.Equal(t, domain.ThemeDark, got.Theme)
}
