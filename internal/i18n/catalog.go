// Package i18n holds the user-facing strings in every supported language.
package i18n

import (
	"context"

	"golang.org/x/text/language"

	"github.com/healthners/healthners/internal/domain"
)

// Catalog is the set of translated strings for one language.
type Catalog struct {
	Settings             string
	Language             string
	Theme                string
	DarkMode             string
	LightMode            string
	Logout               string
	Cancel               string
	Delete               string
	DeleteHistory        string
	DeleteHistoryConfirm string
	GetStarted           string
	Welcome              string
	MessagePlaceholder   string
	InitialMessage       string
	Apology              string
	QuickReplies         []QuickReply
}

// QuickReply is a predefined prompt offered as a one-tap shortcut.
type QuickReply struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

const (
	QuickReplyAttentionSpan   = "attention_span"
	QuickReplyEmotionalStress = "emotional_stress"
	QuickReplyInactivity      = "inactivity"
	QuickReplyEyeStrain       = "eye_strain"
)

var catalogs = map[domain.Language]Catalog{
	domain.LanguageUkrainian: {
		Settings:             "Налаштування",
		Language:             "Мова",
		Theme:                "Тема",
		DarkMode:             "Темна тема",
		LightMode:            "Світла тема",
		Logout:               "Вийти",
		Cancel:               "Скасувати",
		Delete:               "Видалити",
		DeleteHistory:        "Видалити історію",
		DeleteHistoryConfirm: "Ви впевнені, що хочете видалити всю історію чату? Це не можна буде скасувати.",
		GetStarted:           "Розпочати",
		Welcome:              "Ласкаво просимо!",
		MessagePlaceholder:   "Напишіть повідомлення...",
		InitialMessage:       "Привіт, я Healthners.\nЯку пораду ви хотіли б отримати?",
		Apology:              "Вибачте, але я не можу зараз відповісти. Спробуйте пізніше.",
		QuickReplies: []QuickReply{
			{Key: QuickReplyAttentionSpan, Label: "Концентрація уваги"},
			{Key: QuickReplyEmotionalStress, Label: "Емоційний стрес"},
			{Key: QuickReplyInactivity, Label: "Малорухливість після тривалого сидіння"},
			{Key: QuickReplyEyeStrain, Label: "Втома очей"},
		},
	},
	domain.LanguageEnglish: {
		Settings:             "Settings",
		Language:             "Language",
		Theme:                "Theme",
		DarkMode:             "Dark Mode",
		LightMode:            "Light Mode",
		Logout:               "Log out",
		Cancel:               "Cancel",
		Delete:               "Delete",
		DeleteHistory:        "Delete History",
		DeleteHistoryConfirm: "Are you sure you want to delete all chat history? This cannot be undone.",
		GetStarted:           "Get Started",
		Welcome:              "Welcome!",
		MessagePlaceholder:   "Type a message...",
		InitialMessage:       "Hello, I'm Healthners.\nWhat advice would you like?",
		Apology:              "Sorry, I can't answer right now. Please try again later.",
		QuickReplies: []QuickReply{
			{Key: QuickReplyAttentionSpan, Label: "Attention span"},
			{Key: QuickReplyEmotionalStress, Label: "Emotional stress"},
			{Key: QuickReplyInactivity, Label: "Inactivity after continuous sitting"},
			{Key: QuickReplyEyeStrain, Label: "Eye strain"},
		},
	},
}

// ForLanguage returns the catalog for lang, falling back to the default language.
func ForLanguage(lang domain.Language) Catalog {
	if c, ok := catalogs[lang]; ok {
		return c
	}
	return catalogs[domain.DefaultLanguage]
}

// QuickReplyLabel resolves a quick reply key to its prompt text.
func (c Catalog) QuickReplyLabel(key string) (string, bool) {
	for _, qr := range c.QuickReplies {
		if qr.Key == key {
			return qr.Label, true
		}
	}
	return "", false
}

var supported = []language.Tag{
	language.Ukrainian, // first entry is the matcher's fallback
	language.English,
}

var matcher = language.NewMatcher(supported)

// ParseLanguage maps a BCP 47 tag or Accept-Language value ("en-GB",
// "uk-UA,uk;q=0.9") to a supported language. ok is false when nothing in s
// matches with at least low confidence.
func ParseLanguage(s string) (domain.Language, bool) {
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return domain.DefaultLanguage, false
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return domain.DefaultLanguage, false
	}
	if supported[idx] == language.English {
		return domain.LanguageEnglish, true
	}
	return domain.LanguageUkrainian, true
}

type ctxKey struct{}

// WithLanguage stores the active language in the context.
func WithLanguage(ctx context.Context, lang domain.Language) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromContext returns the active language, or the default one.
func FromContext(ctx context.Context) domain.Language {
	if lang, ok := ctx.Value(ctxKey{}).(domain.Language); ok && lang != "" {
		return lang
	}
	return domain.DefaultLanguage
}
