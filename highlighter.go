package main

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// HighlightedToken represents a token with its style.
// HighlightedToken представляет токен с его стилем.
type HighlightedToken struct {
	Text  string
	Style tcell.Style
}

// syntax describes the lexical bits the highlighter needs for one language.
type syntax struct {
	keywords     map[string]bool
	builtins     map[string]bool
	lineComment  string
	tripleQuotes bool
}

func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

var syntaxes = map[string]syntax{
	LangPython: {
		keywords: wordSet(`and as assert break class continue def del elif else except
			finally for from global if import in is lambda nonlocal not or pass raise
			return try while with yield None True False`),
		builtins:     wordSet(`print len range str int float list dict set tuple sorted sum min max abs enumerate zip map filter input`),
		lineComment:  "#",
		tripleQuotes: true,
	},
	LangLua: {
		keywords: wordSet(`and break do else elseif end false for function goto if in
			local nil not or repeat return then true until while`),
		builtins:    wordSet(`print pairs ipairs tostring tonumber type select error pcall string table math`),
		lineComment: "--",
	},
	LangRuby: {
		keywords: wordSet(`alias and begin break case class def do else elsif end ensure
			false for if in module next nil not or redo rescue retry return self super
			then true unless until when while yield`),
		builtins:    wordSet(`puts print p require attr_accessor`),
		lineComment: "#",
	},
	LangShell: {
		keywords:    wordSet(`if then else elif fi for while until do done case esac in function return local export`),
		builtins:    wordSet(`echo printf read cd test exit`),
		lineComment: "#",
	},
}

// isAlpha checks if a byte is an alphabetic character or underscore.
// isAlpha проверяет, является ли байт алфавитным символом или подчеркиванием.
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// isDigit checks if a byte is a digit.
// isDigit проверяет, является ли байт цифрой.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isOperator checks if a byte is an operator.
func isOperator(c byte) bool {
	return strings.IndexByte("+-*/%=<>!&|^~#", c) >= 0
}

// highlightLine splits line into styled tokens for language. The token texts
// always concatenate back to line.
// highlightLine подсвечивает строку текста в зависимости от языка.
func highlightLine(language, line string, theme Theme) []HighlightedToken {
	syn, ok := syntaxes[normalizeLanguage(language)]
	if !ok {
		return []HighlightedToken{{Text: line, Style: theme.Default}}
	}

	var tokens []HighlightedToken
	emit := func(text string, style tcell.Style) {
		tokens = append(tokens, HighlightedToken{Text: text, Style: style})
	}

	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case syn.lineComment != "" && strings.HasPrefix(line[i:], syn.lineComment):
			emit(line[i:], theme.Comment)
			return tokens

		case c == '"' || c == '\'':
			start := i
			if syn.tripleQuotes && strings.HasPrefix(line[i:], strings.Repeat(string(c), 3)) {
				end := strings.Index(line[i+3:], strings.Repeat(string(c), 3))
				if end < 0 {
					i = len(line)
				} else {
					i += 3 + end + 3
				}
				emit(line[start:i], theme.String)
				continue
			}
			i++
			for i < len(line) {
				if line[i] == '\\' && i < len(line)-1 {
					i += 2
					continue
				}
				if line[i] == c {
					i++
					break
				}
				i++
			}
			if i > len(line) {
				i = len(line)
			}
			emit(line[start:i], theme.String)

		case isDigit(c):
			start := i
			for i < len(line) && (isDigit(line[i]) || line[i] == '.' || line[i] == 'x' ||
				(line[i] >= 'a' && line[i] <= 'f') || (line[i] >= 'A' && line[i] <= 'F')) {
				i++
			}
			emit(line[start:i], theme.Number)

		case isAlpha(c):
			start := i
			for i < len(line) && (isAlpha(line[i]) || isDigit(line[i])) {
				i++
			}
			word := line[start:i]
			switch {
			case syn.keywords[word]:
				emit(word, theme.Keyword)
			case syn.builtins[word]:
				emit(word, theme.Function)
			default:
				emit(word, theme.Default)
			}

		case isOperator(c):
			emit(line[i:i+1], theme.Operator)
			i++

		default:
			_, size := utf8.DecodeRuneInString(line[i:])
			emit(line[i:i+size], theme.Default)
			i += size
		}
	}
	return tokens
}
