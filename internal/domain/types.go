package domain

type UserID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Language string

const (
	LanguageUkrainian Language = "uk"
	LanguageEnglish   Language = "en"
)

// DefaultLanguage is used until the user picks one.
const DefaultLanguage = LanguageUkrainian
