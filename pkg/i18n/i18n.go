package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

// Translator resolves message ids into localized text.
type Translator struct {
	bundle *goi18n.Bundle
}

// New builds a translator with English as the default language and every
// embedded locale file loaded.
func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		p := path.Join("locales", e.Name())
		data, err := locales.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
	}

	return &Translator{bundle: bundle}, nil
}

// Translate localizes messageID for the Accept-Language value lang. fallback is
// returned when the id is unknown in every candidate language.
func (t *Translator) Translate(lang, messageID string, data map[string]interface{}, fallback string) string {
	if t == nil || messageID == "" {
		return fallback
	}
	localizer := goi18n.NewLocalizer(t.bundle, lang)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}
