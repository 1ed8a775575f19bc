// Package settings persists the theme and language preferences.
package settings

import (
	"context"

	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/i18n"
	"github.com/healthners/healthners/internal/observability"
)

const (
	KeyTheme    = "theme"
	KeyLanguage = "language"
)

// Defaults are used until the user changes anything.
var Defaults = domain.Settings{
	Theme:    domain.ThemeLight,
	Language: domain.DefaultLanguage,
}

// Store keeps the settings in a domain.KVStore. Write failures are logged;
// the returned value is what the caller should render.
type Store struct {
	kv domain.KVStore
}

func NewStore(kv domain.KVStore) *Store {
	return &Store{kv: kv}
}

func (s *Store) Load(ctx context.Context) domain.Settings {
	log := observability.LoggerFromContext(ctx)
	out := Defaults

	theme, found, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		log.Error("error loading theme", "error", err)
	} else if found {
		out.Theme = parseTheme(theme)
	}

	lang, found, err := s.kv.Get(ctx, KeyLanguage)
	if err != nil {
		log.Error("error loading language", "error", err)
	} else if found {
		if l, ok := i18n.ParseLanguage(lang); ok {
			out.Language = l
		}
	}

	return out
}

// ToggleTheme flips between light and dark.
func (s *Store) ToggleTheme(ctx context.Context) domain.Settings {
	cur := s.Load(ctx)
	next := domain.ThemeDark
	if cur.Theme == domain.ThemeDark {
		next = domain.ThemeLight
	}
	return s.SetTheme(ctx, next)
}

func (s *Store) SetTheme(ctx context.Context, theme domain.Theme) domain.Settings {
	cur := s.Load(ctx)
	cur.Theme = parseTheme(string(theme))

	if err := s.kv.Set(ctx, KeyTheme, string(cur.Theme)); err != nil {
		observability.LoggerFromContext(ctx).Error("error saving theme", "error", err)
	}
	return cur
}

func (s *Store) SetLanguage(ctx context.Context, lang domain.Language) domain.Settings {
	cur := s.Load(ctx)
	l, ok := i18n.ParseLanguage(string(lang))
	if !ok {
		observability.LoggerFromContext(ctx).Warn("unsupported language ignored", "language", lang)
		return cur
	}
	cur.Language = l

	if err := s.kv.Set(ctx, KeyLanguage, string(cur.Language)); err != nil {
		observability.LoggerFromContext(ctx).Error("error saving language", "error", err)
	}
	return cur
}

func parseTheme(s string) domain.Theme {
	if domain.Theme(s) == domain.ThemeDark {
		return domain.ThemeDark
	}
	return domain.ThemeLight
}
