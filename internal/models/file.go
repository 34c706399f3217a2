package models

import "strings"

// VirtualFile is one file in the in-memory workspace. Name may contain
// path separators (e.g. "src/components/Header.jsx"); at most one file
// per name exists in a workspace.
type VirtualFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// languageByExt maps common file extensions to editor language names.
var languageByExt = map[string]string{
	"js":   "javascript",
	"jsx":  "jsx",
	"ts":   "typescript",
	"tsx":  "tsx",
	"go":   "go",
	"py":   "python",
	"rb":   "ruby",
	"rs":   "rust",
	"css":  "css",
	"html": "html",
	"json": "json",
	"md":   "markdown",
	"sh":   "bash",
	"yml":  "yaml",
	"yaml": "yaml",
	"sql":  "sql",
}

// LanguageFromName derives an editor language from the extension past
// the last path separator. Unknown extensions fall back to the raw
// extension; names without one fall back to "plaintext".
func LanguageFromName(name string) string {
	base := name
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}

	dot := strings.LastIndex(base, ".")
	if dot < 0 || dot == len(base)-1 {
		return "plaintext"
	}

	ext := strings.ToLower(base[dot+1:])
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return ext
}

// BaseName strips everything up to the last path separator.
func BaseName(name string) string {
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
