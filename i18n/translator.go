package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides the values substituted into {placeholder} markers (for
// example "field", "value" or "allowed").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalog = map[string]map[string]string{
	"en": {
		"required":          "{field} cannot be empty",
		"group_required":    "{field} cannot all be empty",
		"uniqueness":        "{field} should be unique, found duplicate: {value}",
		"invalid_integer":   "{field} should be an integer, got: {value}",
		"invalid_number":    "{field} should be a number, got: {value}",
		"too_small":         "{field} should be greater than {min}, got: {value}",
		"too_big":           "{field} should be less than {max}, got: {value}",
		"invalid_enum":      "{field} should be one of: {{allowed}}, got: {value}",
		"field_too_small":   "{field} should be greater than {target}, got: {value}, {other}",
		"field_too_big":     "{field} should be less than {target}, got: {value}, {other}",
		"pattern":           "should match pattern {pattern}, got: {value}",
		"too_short":         "should be at least {min} characters, got: {value}",
		"too_long":          "should be at most {max} characters, got: {value}",
		"invalid_format":    "should be a date in layout {layout}, got: {value}",
		"invalid_enum_fold": "should be one of (case-insensitive): {{allowed}}, got: {value}",
	},
	"ja": {
		"required":          "{field} は必須です",
		"group_required":    "{field} のいずれかは必須です",
		"uniqueness":        "{field} が重複しています: {value}",
		"invalid_integer":   "{field} は整数である必要があります: {value}",
		"invalid_number":    "{field} は数値である必要があります: {value}",
		"too_small":         "{field} は {min} より大きい必要があります: {value}",
		"too_big":           "{field} は {max} より小さい必要があります: {value}",
		"invalid_enum":      "{field} は {{allowed}} のいずれかである必要があります: {value}",
		"field_too_small":   "{field} は {target} より大きい必要があります: {value}, {other}",
		"field_too_big":     "{field} は {target} より小さい必要があります: {value}, {other}",
		"pattern":           "パターン {pattern} に一致しません: {value}",
		"too_short":         "{min} 文字以上である必要があります: {value}",
		"too_long":          "{max} 文字以下である必要があります: {value}",
		"invalid_format":    "日付形式 {layout} ではありません: {value}",
		"invalid_enum_fold": "{{allowed}} のいずれか (大文字小文字を区別しない) である必要があります: {value}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := catalog[t.lang][code]
	if !ok {
		return code
	}
	return Render(tmpl, data)
}

// Render substitutes {key} markers in tmpl with values from data. Unknown
// markers are left as-is.
func Render(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Supported reports whether a built-in catalog exists for lang.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// ForLanguage returns the built-in Translator for lang, falling back to "en".
func ForLanguage(lang string) Translator {
	if !Supported(lang) {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// Default returns the Translator currently installed by SetLanguage or
// SetTranslator.
func Default() Translator { return currentTranslator }

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
