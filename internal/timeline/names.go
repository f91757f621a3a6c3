package timeline

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveClipName turns a media path into a readable clip name.
func DeriveClipName(mediaPath string) string {
	if strings.TrimSpace(mediaPath) == "" {
		return "Untitled Clip"
	}
	base := filepath.Base(mediaPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	name := strings.TrimSpace(cleaned.String())
	if name == "" {
		return "Untitled Clip"
	}
	return cases.Title(language.Und).String(name)
}
