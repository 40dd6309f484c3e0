// Package langdetect resolves files and bare snippets to entries in a
// language registry. It uses go-enry for the filename tables, shebang and
// modeline parsing, and the content classifier; the registry stays the
// single source of truth for which languages exist.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/retab/pkg/language"
)

// enryRenames maps go-enry display names whose lowercase form is not a
// registry key.
var enryRenames = map[string]string{
	"JSON with Comments": "jsonc",
}

// DetectFile resolves a file to a registered language.
//
// Resolution order: the registry's own extension map, enry's filename and
// extension tables, then content detection. The registry map runs first
// so extensions claimed in user configuration beat enry's global tables.
func DetectFile(reg *language.Registry, path string, content []byte) (*language.Language, bool) {
	if reg == nil {
		return nil, false
	}

	if lang, ok := reg.LookupExtension(filepath.Ext(path)); ok {
		return lang, true
	}

	base := filepath.Base(path)
	if name, ok := enry.GetLanguageByFilename(base); ok {
		if lang, ok := lookupEnry(reg, name); ok {
			return lang, true
		}
	}
	if name, ok := enry.GetLanguageByExtension(base); ok {
		if lang, ok := lookupEnry(reg, name); ok {
			return lang, true
		}
	}

	return DetectContent(reg, content)
}

// DetectContent resolves bare content to a registered language, for input
// with no usable filename (fenced code blocks, stdin).
//
// Shebang and modeline are decisive when present: a file that declares
// itself an unregistered language stays undetected rather than falling
// through to a tier that would misfile it. After those, cheap structural
// checks run before the classifier, which is unreliable on short
// snippets.
func DetectContent(reg *language.Registry, content []byte) (*language.Language, bool) {
	if reg == nil || len(bytes.TrimSpace(content)) == 0 {
		return nil, false
	}

	if name, safe := enry.GetLanguageByShebang(content); safe {
		return lookupEnry(reg, name)
	}
	if name, safe := enry.GetLanguageByModeline(content); safe {
		return lookupEnry(reg, name)
	}

	if lang, ok := detectByOutline(reg, content); ok {
		return lang, true
	}

	if name, safe := enry.GetLanguageByClassifier(content, candidateNames(reg)); safe && name != "" {
		return lookupEnry(reg, name)
	}
	return nil, false
}

// lookupEnry resolves a go-enry language name against the registry.
func lookupEnry(reg *language.Registry, name string) (*language.Language, bool) {
	if renamed, ok := enryRenames[name]; ok {
		name = renamed
	}
	return reg.Lookup(strings.ToLower(name))
}

// candidateNames returns the display names of every registered language.
// The builtin names match enry's, so they double as classifier
// candidates; a config-defined name enry does not know is ignored by the
// classifier, never an error.
func candidateNames(reg *language.Registry) []string {
	langs := reg.Languages()
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		out = append(out, l.Name())
	}
	return out
}

// detectByOutline checks for structures distinctive enough to trust
// without the classifier. Order matters: Python's def+colon is checked
// before Ruby's bare def, and JSON before the looser JavaScript checks.
func detectByOutline(reg *language.Registry, content []byte) (*language.Language, bool) {
	trimmed := bytes.TrimSpace(content)
	text := string(content)

	var id string
	switch {
	case goOutline(trimmed, text):
		id = "go"
	case pythonOutline(text):
		id = "python"
	case jsonOutline(trimmed):
		id = "json"
	case typescriptOutline(text):
		id = "typescript"
	case javascriptOutline(text):
		id = "javascript"
	case rubyOutline(text):
		id = "ruby"
	default:
		return nil, false
	}
	return reg.Lookup(id)
}

// goOutline requires both package and func: a bare package clause also
// opens Java and Kotlin files.
func goOutline(trimmed []byte, text string) bool {
	return bytes.HasPrefix(trimmed, []byte("package ")) && strings.Contains(text, "func ")
}

func pythonOutline(text string) bool {
	if strings.Contains(text, "def ") && strings.Contains(text, "):") {
		return true
	}
	return strings.Contains(text, "__name__") || strings.Contains(text, "__main__")
}

func jsonOutline(trimmed []byte) bool {
	return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`"`)) &&
		!bytes.Contains(trimmed, []byte(";"))
}

func typescriptOutline(text string) bool {
	return strings.Contains(text, "interface ") ||
		strings.Contains(text, "export type ") ||
		strings.Contains(text, ": string") ||
		strings.Contains(text, ": number")
}

func javascriptOutline(text string) bool {
	return strings.Contains(text, "=>") ||
		strings.Contains(text, "const ") ||
		strings.Contains(text, "console.log")
}

func rubyOutline(text string) bool {
	if strings.Contains(text, "def ") && strings.Contains(text, "end") {
		return true
	}
	return strings.Contains(text, "puts ") || strings.Contains(text, " do |")
}
