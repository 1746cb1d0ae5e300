package upload

import (
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// keyTimeLayout sorts lexically in chronological order.
const keyTimeLayout = "20060102-150405"

// fallbackFileName replaces names that sanitize to nothing usable.
const fallbackFileName = "file"

// KeyGenerator derives object keys of the form
// {yyyyMMdd-HHmmss}-{32 hex token}-{file name}.
type KeyGenerator struct {
	now   func() time.Time
	token func() string
}

// NewKeyGenerator returns a KeyGenerator using the wall clock and random UUIDs.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{now: time.Now, token: randomToken}
}

// Key returns a new key for fileName. Each call draws a fresh token, so
// two calls within the same second never share a key.
func (g *KeyGenerator) Key(fileName string) string {
	return g.now().UTC().Format(keyTimeLayout) + "-" + g.token() + "-" + SanitizeFileName(fileName)
}

// SanitizeFileName keeps only the final path segment of name. Both '/' and
// '\' count as separators and control characters are dropped.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))

	switch name {
	case "", ".", "..", "/":
		return fallbackFileName
	}
	return name
}

func randomToken() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}
