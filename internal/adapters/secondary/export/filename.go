package export

import (
	"regexp"
	"strings"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// FileSuffix follows the stem of every exported file name
const FileSuffix = "_presentation"

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)

// FileName builds "{stem}_presentation.{ext}". The stem is the sanitized deck
// title, or the source file stem when the title has no letters or digits,
// or "presentation" when neither is usable.
func FileName(title, sourceName, ext string) string {
	stem := sanitize(title)
	if stem == "" {
		stem = sanitize(entities.FileStem(sourceName))
	}
	if stem == "" {
		stem = "presentation"
	}
	return stem + FileSuffix + "." + ext
}

// sanitize lowercases s and replaces every non-alphanumeric character with an
// underscore. Input without any alphanumeric character yields "".
func sanitize(s string) string {
	if !strings.ContainsFunc(s, isASCIIAlnum) {
		return ""
	}
	return strings.ToLower(nonAlphanumeric.ReplaceAllString(s, "_"))
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
