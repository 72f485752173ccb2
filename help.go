package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// printUsageExtended prints the help text in the system language.
// printUsageExtended выводит справку на языке системы.
func printUsageExtended() {
	printUsage(os.Stderr, detectSystemLanguage())
}

func printUsage(w io.Writer, lang string) {
	switch lang {
	case "ru":
		printUsageRU(w)
	default:
		printUsageEN(w)
	}
}

// printUsageRU выводит справку на русском.
func printUsageRU(w io.Writer) {
	fmt.Fprintln(w, "codemaze - лабиринт, где кусты ломаются кодом")
	fmt.Fprintln(w, "Использование: codemaze [флаги]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Флаги:")
	fmt.Fprintln(w, "  -config путь       Файл конфигурации TOML")
	fmt.Fprintln(w, "  -store путь        Хранилище заданий JSON (по умолчанию встроенное)")
	fmt.Fprintln(w, "  -level N           Начать с уровня N")
	fmt.Fprintln(w, "  -edit N/id         Открыть одно задание в редакторе, например 1/bush2")
	fmt.Fprintln(w, "  -list              Показать список заданий и прогресс")
	fmt.Fprintln(w, "  -lang en|ru        Язык интерфейса")
	fmt.Fprintln(w, "  -v, -version       Показать версию программы")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Лабиринт:")
	fmt.Fprintln(w, "  WASD/Стрелки  Ход")
	fmt.Fprintln(w, "  F             Сломать соседний пронумерованный куст")
	fmt.Fprintln(w, "  R             Начать уровень заново")
	fmt.Fprintln(w, "  Q, Esc        Выход")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Редактор:")
	fmt.Fprintln(w, "  Ctrl-X        Запустить код (или вырезать выделенное)")
	fmt.Fprintln(w, "  Ctrl-C        Копировать выделенное")
	fmt.Fprintln(w, "  Ctrl-V        Вставить")
	fmt.Fprintln(w, "  Ctrl-Space    Начать выделение")
	fmt.Fprintln(w, "  Shift+Стрелки Выделение")
	fmt.Fprintln(w, "  Tab           Отступ в 4 пробела")
	fmt.Fprintln(w, "  Insert        Режим замены")
	fmt.Fprintln(w, "  Alt+Стрелки   Переход между строками")
	fmt.Fprintln(w, "  Ctrl-Home/End Начало/конец кода")
	fmt.Fprintln(w, "  Esc           Снять выделение или выйти из редактора")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Языки заданий: "+strings.Join(supportedLanguages(), ", "))
	fmt.Fprintln(w, "Переменные окружения: CODEMAZE_PYTHON, CODEMAZE_LANG")
}

// printUsageEN prints the help text in English.
func printUsageEN(w io.Writer) {
	fmt.Fprintln(w, "codemaze - a maze where bushes are broken with code")
	fmt.Fprintln(w, "Usage: codemaze [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config path       TOML configuration file")
	fmt.Fprintln(w, "  -store path        JSON exercise store (built-in by default)")
	fmt.Fprintln(w, "  -level N           Start at level N")
	fmt.Fprintln(w, "  -edit N/id         Open a single exercise in the editor, e.g. 1/bush2")
	fmt.Fprintln(w, "  -list              List exercises and progress")
	fmt.Fprintln(w, "  -lang en|ru        Interface language")
	fmt.Fprintln(w, "  -v, -version       Show version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Maze:")
	fmt.Fprintln(w, "  WASD/Arrows   Move")
	fmt.Fprintln(w, "  F             Break the numbered bush next to you")
	fmt.Fprintln(w, "  R             Restart the level")
	fmt.Fprintln(w, "  Q, Esc        Quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Editor:")
	fmt.Fprintln(w, "  Ctrl-X        Run the code (or cut the selection)")
	fmt.Fprintln(w, "  Ctrl-C        Copy the selection")
	fmt.Fprintln(w, "  Ctrl-V        Paste")
	fmt.Fprintln(w, "  Ctrl-Space    Start a selection")
	fmt.Fprintln(w, "  Shift+Arrows  Select")
	fmt.Fprintln(w, "  Tab           Indent by 4 spaces")
	fmt.Fprintln(w, "  Insert        Toggle overwrite mode")
	fmt.Fprintln(w, "  Alt+Arrows    Move across line ends")
	fmt.Fprintln(w, "  Ctrl-Home/End Start/end of the code")
	fmt.Fprintln(w, "  Esc           Clear the selection or leave the editor")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exercise languages: "+strings.Join(supportedLanguages(), ", "))
	fmt.Fprintln(w, "Environment: CODEMAZE_PYTHON, CODEMAZE_LANG")
}

func supportedLanguages() []string {
	return []string{LangPython, LangLua, LangRuby, LangShell}
}
