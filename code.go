package main

import (
	"strings"
)

// Supported exercise languages.
// Поддерживаемые языки заданий.
const (
	LangPython = "python"
	LangLua    = "lua"
	LangRuby   = "ruby"
	LangShell  = "sh"
)

// languageAliases maps user-facing names to canonical language names.
var languageAliases = map[string]string{
	"python":  LangPython,
	"python3": LangPython,
	"py":      LangPython,
	"lua":     LangLua,
	"ruby":    LangRuby,
	"rb":      LangRuby,
	"sh":      LangShell,
	"shell":   LangShell,
	"bash":    LangShell,
}

// languageExtensions gives the temp-file suffix for each language.
var languageExtensions = map[string]string{
	LangPython: ".py",
	LangLua:    ".lua",
	LangRuby:   ".rb",
	LangShell:  ".sh",
}

// normalizeLanguage returns the canonical name for lang, or lang lowercased
// when it is not a known alias.
// normalizeLanguage возвращает каноническое имя языка.
func normalizeLanguage(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if canonical, ok := languageAliases[l]; ok {
		return canonical
	}
	return l
}

func extensionFor(lang string) string {
	if ext, ok := languageExtensions[lang]; ok {
		return ext
	}
	return ".txt"
}

// splitArgs splits a command line, honouring single and double quotes and
// backslash escapes.
func splitArgs(raw string) []string {
	var args []string
	var cur []rune
	inDouble := false
	inSingle := false
	escaped := false

	for _, r := range raw {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case (r == ' ' || r == '\t') && !inDouble && !inSingle:
			if len(cur) > 0 {
				args = append(args, string(cur))
				cur = nil
			}
		default:
			cur = append(cur, r)
		}
	}
	if len(cur) > 0 {
		args = append(args, string(cur))
	}
	return args
}
