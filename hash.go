package fieldtl

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey builds the cache key of one backend call:
// hash:source:target:service:format, with the model appended for OpenAI.
func CacheKey(hash string, opts TranslationOptions) string {
	key := hash + ":" + opts.SourceLocale + ":" + opts.TargetLocale + ":" + string(opts.Service) + ":" + string(opts.Format)
	if opts.Service == ServiceOpenAI {
		key += ":" + opts.OpenAI.Model
	}
	return key
}
