// Package i18n resolves user-facing message ids against embedded locale catalogs.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message ids used by the dispatch flow.
const (
	ProgressWaitTitle       = "APP.PROGRESS.WAIT_TITLE"
	NoImageErrorTitle       = "ERRORS.NO_IMAGE_ERROR.TITLE"
	NoImageErrorDescription = "ERRORS.NO_IMAGE_ERROR.DESCRIPTION"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves a message id to text in the active locale.
type Translator struct {
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	locale    string
}

// NewTranslator loads the embedded catalogs and selects locale, falling back to English.
func NewTranslator(locale string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", entry.Name(), err)
		}
	}

	t := &Translator{bundle: bundle}
	t.SetLocale(locale)
	return t, nil
}

// SetLocale switches the active locale. Unknown locales resolve to English.
func (t *Translator) SetLocale(locale string) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = language.English.String()
	}
	t.locale = locale
	t.localizer = goi18n.NewLocalizer(t.bundle, locale, language.English.String())
}

// Locale returns the active locale tag.
func (t *Translator) Locale() string {
	return t.locale
}

// T returns the localized text for id, or id itself when no catalog has it.
func (t *Translator) T(id string) string {
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

// Locales lists the tags of all embedded catalogs.
func (t *Translator) Locales() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}
