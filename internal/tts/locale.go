package tts

import (
	"strings"

	"github.com/hegedustibor/htgo-tts/voices"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when a locale is absent or cannot be parsed.
const DefaultLanguage = voices.Portuguese

// Voice is a locale members can pick for speech.
type Voice struct {
	Label  string
	Locale string
	Code   string
}

var Voices = []Voice{
	{Label: "Português (BR)", Locale: "pt-BR", Code: voices.Portuguese},
	{Label: "Português (PT)", Locale: "pt-PT", Code: voices.Portuguese},
	{Label: "English (US)", Locale: "en-US", Code: voices.English},
	{Label: "Español", Locale: "es-ES", Code: voices.Spanish},
	{Label: "Français", Locale: "fr-FR", Code: voices.French},
	{Label: "Deutsch", Locale: "de-DE", Code: voices.German},
	{Label: "Italiano", Locale: "it-IT", Code: "it"},
	{Label: "日本語", Locale: "ja-JP", Code: "ja"},
}

// FindVoice looks a voice up by locale, case-insensitively.
func FindVoice(locale string) (Voice, bool) {
	locale = strings.TrimSpace(locale)
	for _, v := range Voices {
		if strings.EqualFold(v.Locale, locale) {
			return v, true
		}
	}
	return Voice{}, false
}

// LanguageFromLocale maps a BCP 47 tag such as "pt-BR" to its two-letter
// language code. Absent, malformed or non two-letter tags yield fallback, or
// DefaultLanguage when fallback is empty.
func LanguageFromLocale(tag, fallback string) string {
	if fallback == "" {
		fallback = DefaultLanguage
	}

	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fallback
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return fallback
	}
	base, conf := parsed.Base()
	if conf == language.No {
		return fallback
	}

	code := base.String()
	if len(code) != 2 {
		return fallback
	}
	return code
}
