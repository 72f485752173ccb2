package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
)

// DefaultTimeout bounds a single submission when the config sets none.
const DefaultTimeout = 10 * time.Second

// ErrUnknownLanguage is returned when no runner can execute a language.
var ErrUnknownLanguage = errors.New("no runner for language")

// JudgeResult is the outcome of running a submission.
// JudgeResult - результат проверки решения.
type JudgeResult struct {
	Matched        bool
	CapturedOutput string
	ErrorMessage   string
	Duration       time.Duration
	TimedOut       bool
	// Truncated is set when the program printed more than is kept.
	Truncated bool
}

// Display returns what the failure popup shows: the error if there is one,
// the captured output otherwise.
func (r JudgeResult) Display() string {
	if r.ErrorMessage != "" {
		return r.ErrorMessage
	}
	return r.CapturedOutput
}

// RunOutput is the raw output of one execution.
type RunOutput struct {
	Stdout    string
	Stderr    string
	Truncated bool
}

// Runner executes a program and returns its output. A non-nil error means
// the program could not run to a successful finish.
// Runner выполняет программу и возвращает ее вывод.
type Runner interface {
	Run(ctx context.Context, code string) (RunOutput, error)
}

// Judge runs submissions and compares their output with the expected one.
// Judge запускает решения и сравнивает вывод с ожидаемым.
type Judge struct {
	timeout      time.Duration
	interpreters map[string][]string
	logger       *slog.Logger
}

// NewJudge creates a judge. interpreters maps a canonical language name to the
// command that runs a script file; the file path is appended as the last
// argument. Lua always runs in a sandboxed child of the game binary.
func NewJudge(timeout time.Duration, interpreters map[string][]string, logger *slog.Logger) *Judge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = discardLogger()
	}
	cmds := make(map[string][]string, len(interpreters))
	for lang, argv := range interpreters {
		if len(argv) > 0 {
			cmds[normalizeLanguage(lang)] = argv
		}
	}
	return &Judge{timeout: timeout, interpreters: cmds, logger: logger}
}

// Timeout returns the per-submission time limit.
func (j *Judge) Timeout() time.Duration {
	return j.timeout
}

// runnerFor picks the runner for language.
func (j *Judge) runnerFor(language string) (Runner, error) {
	lang := normalizeLanguage(language)
	if lang == LangLua {
		return LuaRunner{}, nil
	}
	if argv, ok := j.interpreters[lang]; ok {
		return &ProcessRunner{Command: argv, Ext: extensionFor(lang)}, nil
	}
	return nil, fmt.Errorf("%q: %w", language, ErrUnknownLanguage)
}

// Run executes lines as a program in language and judges its output.
// Every failure is reported inside the result; Run never returns an error.
// Run выполняет код и проверяет вывод.
func (j *Judge) Run(ctx context.Context, lines []string, expected, language string) JudgeResult {
	runner, err := j.runnerFor(language)
	if err != nil {
		return JudgeResult{ErrorMessage: errorMessage("", err)}
	}
	return j.RunWith(ctx, runner, lines, expected)
}

// RunWith judges lines using an explicit runner.
func (j *Judge) RunWith(ctx context.Context, runner Runner, lines []string, expected string) JudgeResult {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	code := strings.Join(lines, "\n")
	start := time.Now()
	out, err := runner.Run(ctx, code)
	res := JudgeResult{
		CapturedOutput: trimTrailingSpace(out.Stdout),
		Duration:       time.Since(start),
		Truncated:      out.Truncated,
	}

	if err != nil {
		stderr := out.Stderr
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.TimedOut = true
			stderr = ""
			err = fmt.Errorf("timed out after %s", j.timeout)
		}
		res.ErrorMessage = errorMessage(stderr, err)
		j.logger.Info("submission failed", "err", err, "duration", res.Duration, "timed_out", res.TimedOut)
		return res
	}

	res.Matched = !res.Truncated && res.CapturedOutput == expected
	j.logger.Info("submission judged", "matched", res.Matched, "duration", res.Duration, "truncated", res.Truncated)
	return res
}

// errorMessage builds the user-facing text: trimmed stderr when there is any,
// otherwise the error itself.
func errorMessage(stderr string, err error) string {
	detail := strings.TrimSpace(stderr)
	if detail == "" && err != nil {
		detail = err.Error()
	}
	return "Error: " + detail
}

func trimTrailingSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
