package fieldtl

import "strings"

// YandexLocales lists the language codes Yandex Translate accepts.
var YandexLocales = []string{
	"af", "am", "ar", "az", "ba", "be", "bg", "bn", "bs", "ca", "ceb", "cs",
	"cv", "cy", "da", "de", "el", "emj", "en", "eo", "es", "et", "eu", "fa",
	"fi", "fr", "ga", "gd", "gl", "gu", "he", "hi", "hr", "ht", "hu", "hy",
	"id", "is", "it", "ja", "jv", "ka", "kazlat", "kk", "km", "kn", "ko", "ky",
	"la", "lb", "lo", "lt", "lv", "mg", "mhr", "mi", "mk", "ml", "mn", "mr",
	"mrj", "ms", "mt", "my", "ne", "nl", "no", "os", "pa", "pap", "pl", "pt",
	"ro", "ru", "sah", "si", "sk", "sl", "sq", "sr", "su", "sv", "sw", "ta",
	"te", "tg", "th", "tl", "tr", "tt", "udm", "uk", "ur", "uz", "uzbcyr",
	"vi", "xh", "yi", "zh", "zu",
}

// DeepLTargetLocales lists the target codes DeepL accepts.
var DeepLTargetLocales = []string{
	"AR", "BG", "CS", "DA", "DE", "EL", "EN-GB", "EN-US", "ES", "ET", "FI",
	"FR", "HU", "ID", "IT", "JA", "KO", "LT", "LV", "NB", "NL", "PL", "PT-BR",
	"PT-PT", "RO", "RU", "SK", "SL", "SV", "TR", "UK", "ZH", "ZH-HANS",
	"ZH-HANT",
}

// DeepLSourceLocales lists the source codes DeepL accepts.
var DeepLSourceLocales = []string{
	"AR", "BG", "CS", "DA", "DE", "EL", "EN", "ES", "ET", "FI", "FR", "HU",
	"ID", "IT", "JA", "KO", "LT", "LV", "NB", "NL", "PL", "PT", "RO", "RU",
	"SK", "SL", "SV", "TR", "UK", "ZH",
}

// ResolveTarget maps locale to the target code service accepts. It returns
// "" when the locale cannot be used. Services without a rule get the locale
// unchanged.
func ResolveTarget(locale string, service Service) string {
	if strings.TrimSpace(locale) == "" {
		return ""
	}

	lower, base := splitLocale(locale)

	switch service {
	case ServiceYandex:
		return base
	case ServiceDeepL, ServiceDeepLFree:
		switch lower {
		case "en":
			return "EN-US"
		case "pt":
			return "PT-PT"
		}
		if containsFold(DeepLTargetLocales, base) {
			return strings.ToUpper(base)
		}
		return strings.ToUpper(locale)
	}
	return locale
}

// ResolveSource maps locale to the source code service accepts. An empty
// result asks the service to detect the source language itself.
func ResolveSource(locale string, service Service) string {
	if strings.TrimSpace(locale) == "" {
		return ""
	}

	_, base := splitLocale(locale)

	switch service {
	case ServiceYandex:
		if containsFold(YandexLocales, base) {
			return base
		}
		return ""
	case ServiceDeepL, ServiceDeepLFree:
		if containsFold(DeepLSourceLocales, base) {
			return strings.ToUpper(base)
		}
		return ""
	}
	return locale
}

// splitLocale lowercases locale and returns it along with its base subtag.
func splitLocale(locale string) (lower, base string) {
	lower = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	base = strings.SplitN(lower, "-", 2)[0]
	return lower, base
}

func containsFold(list []string, code string) bool {
	for _, c := range list {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

// LanguageNames maps locale codes to human-readable names for AI prompts.
var LanguageNames = map[string]string{
	"en-US": "English (United States)",
	"en-GB": "English (United Kingdom)",
	"de-DE": "German (Germany)",
	"es-ES": "Spanish (Spain)",
	"es-MX": "Spanish (Mexico)",
	"fr-FR": "French (France)",
	"it-IT": "Italian (Italy)",
	"ja-JP": "Japanese (Japan)",
	"pt-BR": "Portuguese (Brazil)",
	"pt-PT": "Portuguese (Portugal)",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"ar-SA": "Arabic (Saudi Arabia)",
	"cs-CZ": "Czech (Czech Republic)",
	"da-DK": "Danish (Denmark)",
	"el-GR": "Greek (Greece)",
	"fi-FI": "Finnish (Finland)",
	"he-IL": "Hebrew (Israel)",
	"hi-IN": "Hindi (India)",
	"hu-HU": "Hungarian (Hungary)",
	"id-ID": "Indonesian (Indonesia)",
	"ko-KR": "Korean (South Korea)",
	"nl-NL": "Dutch (Netherlands)",
	"nb-NO": "Norwegian Bokmål (Norway)",
	"pl-PL": "Polish (Poland)",
	"ro-RO": "Romanian (Romania)",
	"ru-RU": "Russian (Russia)",
	"sv-SE": "Swedish (Sweden)",
	"th-TH": "Thai (Thailand)",
	"tr-TR": "Turkish (Turkey)",
	"uk-UA": "Ukrainian (Ukraine)",
	"vi-VN": "Vietnamese (Vietnam)",
}

// shortCodeToLocale maps base subtags to the locale named in LanguageNames.
var shortCodeToLocale = map[string]string{
	"en": "en-US",
	"de": "de-DE",
	"es": "es-ES",
	"fr": "fr-FR",
	"it": "it-IT",
	"ja": "ja-JP",
	"pt": "pt-BR",
	"zh": "zh-CN",
	"ko": "ko-KR",
	"ru": "ru-RU",
	"ar": "ar-SA",
	"he": "he-IL",
	"hi": "hi-IN",
	"nl": "nl-NL",
	"pl": "pl-PL",
	"tr": "tr-TR",
	"vi": "vi-VN",
}

// GetLanguageName returns the human-readable name for a locale.
// Falls back to the locale itself if not found.
func GetLanguageName(locale string) string {
	tag := ToHTMLLang(locale)
	if name, ok := LanguageNames[tag]; ok {
		return name
	}
	if full, ok := shortCodeToLocale[strings.ToLower(tag)]; ok {
		return LanguageNames[full]
	}
	return locale
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(locale string) string {
	_, base := splitLocale(locale)
	if RTLLanguages[base] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(locale string) bool {
	return GetDirection(locale) == "rtl"
}

// ToHTMLLang converts a locale to HTML lang attribute format (e.g., "es_ES" → "es-ES").
func ToHTMLLang(locale string) string {
	return strings.ReplaceAll(locale, "_", "-")
}
