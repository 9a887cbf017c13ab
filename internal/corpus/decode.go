package corpus

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText decodes b as UTF-8, dropping a leading byte order mark and
// replacing every invalid sequence with U+FFFD.
func DecodeText(b []byte) string {
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}

// sniffBinary returns the detected MIME type when content is a recognized
// non-text format such as an image or archive. Unrecognized content is
// treated as text.
func sniffBinary(content []byte) (string, bool) {
	detected := mimetype.Detect(content)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return "", false
		}
	}
	if detected.Is("application/octet-stream") {
		return "", false
	}
	return detected.String(), true
}
