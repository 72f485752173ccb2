package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

var (
	colorLevel    = color.Style{color.FgCyan, color.OpBold}
	colorID       = color.Style{color.FgYellow}
	colorLanguage = color.Style{color.FgMagenta}
	colorDone     = color.Style{color.FgGreen, color.OpBold}
	colorTodo     = color.Style{color.FgGray}
	colorSummary  = color.Style{color.FgGreen, color.OpBold}
)

// printCatalog lists every exercise in the store with its progress mark.
// printCatalog выводит список заданий хранилища.
func printCatalog(w io.Writer, store *ExerciseStore, progress *Progress, tr *Translator) error {
	exercises, err := store.Catalog()
	if err != nil {
		return err
	}
	done, todo := tr.T("CATALOG_DONE"), tr.T("CATALOG_TODO")
	markWidth := max(runewidth.StringWidth(done), runewidth.StringWidth(todo))
	level := 0
	for _, ex := range exercises {
		if ex.Level != level {
			level = ex.Level
			fmt.Fprintln(w, colorLevel.Sprint(tr.T("CATALOG_LEVEL", level)))
		}
		// Pad before colouring, escape codes would count toward the width.
		mark := colorTodo.Sprint(padRight(todo, markWidth))
		if progress != nil && progress.Cleared(ex.Level, ex.ID) {
			mark = colorDone.Sprint(padRight(done, markWidth))
		}
		instructions := strings.SplitN(ex.Instructions, "\n", 2)[0]
		fmt.Fprintf(w, "  %s %s %s %s\n",
			colorID.Sprint(padRight(ex.ID, 8)), colorLanguage.Sprint(padRight(ex.Language, 7)), mark, instructions)
	}
	return nil
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// printSummary prints the end-of-game line after the screen is released.
func printSummary(w io.Writer, player string, progress *Progress, finished bool, tr *Translator) {
	if finished {
		fmt.Fprintln(w, colorSummary.Sprint(tr.T("GAME_COMPLETE")))
	}
	obstacles, levels := progress.ClearedCount()
	fmt.Fprintln(w, colorSummary.Sprint(tr.T("SUMMARY", player, obstacles, levels)))
}
