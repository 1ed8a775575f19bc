package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/i18n"
)

func TestParseLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Language
		ok   bool
	}{
		{"en", domain.LanguageEnglish, true},
		{"en-GB", domain.LanguageEnglish, true},
		{"uk", domain.LanguageUkrainian, true},
		{"uk-UA,uk;q=0.9,en;q=0.5", domain.LanguageUkrainian, true},
		{"fr", domain.DefaultLanguage, false},
		{"", domain.DefaultLanguage, false},
	}

	for _, tc := range cases {
		got, ok := i18n.ParseLanguage(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}

func TestCatalogsHaveSameQuickReplyKeys(t *testing.T) {
	uk := i18n.ForLanguage(domain.LanguageUkrainian)
	en := i18n.ForLanguage(domain.LanguageEnglish)

	assert.Len(t, en.QuickReplies, len(uk.QuickReplies))
	for _, qr := range uk.QuickReplies {
		label, ok := en.QuickReplyLabel(qr.Key)
		assert.True(t, ok, "missing english label for %s", qr.Key)
		assert.NotEmpty(t, label)
	}
}

func TestUnknownLanguageFallsBackToDefault(t *testing.T) {
	c := i18n.ForLanguage(domain.Language("de"))
	assert.Equal(t, i18n.ForLanguage(domain.DefaultLanguage).InitialMessage, c.InitialMessage)
}

func TestLanguageContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, domain.DefaultLanguage, i18n.FromContext(ctx))

	ctx = i18n.WithLanguage(ctx, domain.LanguageEnglish)
	assert.Equal(t, domain.LanguageEnglish, i18n.FromContext(ctx))
}
