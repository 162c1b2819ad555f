package fieldtl

import (
	"strings"
	"unicode"
)

// plain sends one string to the backend. Blank strings never reach it.
func (r *run) plain(text string, format Format, location string) (string, error) {
	if strings.TrimSpace(text) == "" {
		r.skipped++
		return text, nil
	}

	if err := r.ctx.Err(); err != nil {
		return "", err
	}

	if hook := r.engine.leafHook; hook != nil {
		hook(Leaf{Location: location, Format: format, Text: text, Hash: HashText(text)})
	}

	r.engine.logger.Debug("translating leaf",
		"location", location,
		"format", format,
		"chars", len(text),
	)

	translated, err := r.backend.Translate(r.ctx, text, r.opts)
	if err != nil {
		return "", asBackendError(r.opts.Service, err)
	}

	r.translated++
	return translated, nil
}

// slug translates the slug words as text and re-slugifies the result.
func (r *run) slug(text string, location string) (string, error) {
	if strings.TrimSpace(text) == "" {
		r.skipped++
		return text, nil
	}

	words := strings.ReplaceAll(text, "-", " ")
	translated, err := r.plain(words, FormatSlug, location)
	if err != nil {
		return "", err
	}
	return Slugify(translated), nil
}

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	return b.String()
}

// preserveWhitespace keeps the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + strings.TrimSpace(translated) + trailing
}
