package main

import (
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard holds the last cut or copied text for an editor session.
// When mirroring is enabled the text is also written to the system clipboard.
// Clipboard хранит последний вырезанный или скопированный текст сессии.
type Clipboard struct {
	text   string
	mirror bool
}

// NewClipboard creates a session clipboard.
// NewClipboard создает буфер обмена сессии.
func NewClipboard(mirror bool) *Clipboard {
	return &Clipboard{mirror: mirror && !clipboard.Unsupported}
}

// Set replaces the clipboard contents. The session copy is always updated;
// the returned error only reports a failed write to the system clipboard.
func (c *Clipboard) Set(text string) error {
	c.text = text
	if !c.mirror {
		return nil
	}
	return clipboard.WriteAll(text)
}

// Text returns the clipboard contents with line endings normalized to "\n".
// An empty session clipboard falls back to the system clipboard when mirroring.
func (c *Clipboard) Text() string {
	text := c.text
	if text == "" && c.mirror {
		if sys, err := clipboard.ReadAll(); err == nil {
			text = sys
		}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
