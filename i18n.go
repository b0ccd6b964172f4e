package jsonschema

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// GetI18n builds the bundle backing ValidationError.Localize: one message
// template per Code (result.go), embedded from locales/*.json so callers
// never need to ship locale files alongside the binary.
func GetI18n() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en", "zh-Hans"),
	)

	err := bundle.LoadFS(localesFS, "locales/*.json")

	return bundle, err
}

// NewLocalizer loads the embedded bundle and returns a Localizer for
// locale ("en", "zh-Hans", ...), ready to pass to
// ValidationError.Localize. Unknown locales fall back to the bundle's
// default locale rather than erroring.
func NewLocalizer(locale string) (*i18n.Localizer, error) {
	bundle, err := GetI18n()
	if err != nil {
		return nil, err
	}
	return bundle.NewLocalizer(locale), nil
}
