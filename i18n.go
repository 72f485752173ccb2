package main

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales/*.po
var localeFS embed.FS

// Translator looks up interface strings by message id.
// Translator ищет строки интерфейса по идентификатору.
type Translator struct {
	lang string
	po   *gotext.Po
}

// NewTranslator loads the catalog for lang ("en" or "ru"). Unknown
// languages fall back to English; an empty lang is detected from the system.
func NewTranslator(lang string) *Translator {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = detectSystemLanguage()
	}
	data, err := localeFS.ReadFile("locales/" + lang + ".po")
	if err != nil {
		lang = "en"
		data, _ = localeFS.ReadFile("locales/en.po")
	}
	po := gotext.NewPo()
	po.Parse(data)
	return &Translator{lang: lang, po: po}
}

// Lang returns the loaded language code.
func (t *Translator) Lang() string {
	return t.lang
}

// T returns the translation of id formatted with vars. Missing ids are
// returned unchanged. The msgid is looked up first and formatted here so
// that T is not a printf wrapper for vet.
func (t *Translator) T(id string, vars ...interface{}) string {
	format := t.po.Get(id)
	if len(vars) == 0 {
		return format
	}
	return fmt.Sprintf(format, vars...)
}

// detectSystemLanguage возвращает код языка системы: "ru" или "en"
func detectSystemLanguage() string {
	candidates := []string{
		os.Getenv("LC_ALL"),
		os.Getenv("LC_MESSAGES"),
		os.Getenv("LANG"),
		os.Getenv("LANGUAGE"),
	}
	for _, v := range candidates {
		if v == "" {
			continue
		}
		lv := strings.ToLower(v)
		if dot := strings.IndexByte(lv, '.'); dot != -1 {
			lv = lv[:dot]
		}
		if strings.HasPrefix(lv, "ru") {
			return "ru"
		}
		if strings.HasPrefix(lv, "en") {
			return "en"
		}
	}
	return "en"
}
