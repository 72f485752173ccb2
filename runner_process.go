package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// maxCapturedOutput bounds how much of stdout and of stderr is kept from
// one run. The rest is discarded and the output is marked truncated.
const maxCapturedOutput = 64 << 10

// cappedBuffer keeps the first limit bytes written to it and drops the rest.
// Write never fails so the child is not killed by a broken pipe.
// cappedBuffer хранит только первые limit байт вывода.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if room := c.limit - c.buf.Len(); room < len(p) {
		c.truncated = true
		if room <= 0 {
			return n, nil
		}
		p = p[:room]
	}
	c.buf.Write(p)
	return n, nil
}

func (c *cappedBuffer) String() string {
	return c.buf.String()
}

// Truncated reports whether anything was dropped.
func (c *cappedBuffer) Truncated() bool {
	return c.truncated
}

// runCommand runs cmd with stdin and captures capped stdout and stderr.
func runCommand(cmd *exec.Cmd, stdin io.Reader) (RunOutput, error) {
	cmd.WaitDelay = time.Second
	cmd.Stdin = stdin
	stdout := newCappedBuffer(maxCapturedOutput)
	stderr := newCappedBuffer(maxCapturedOutput)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	return RunOutput{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.Truncated(),
	}, err
}

// ProcessRunner writes the code to a temp file and runs an interpreter on it.
// The program runs with the privileges of the game process.
// ProcessRunner запускает интерпретатор для временного файла с кодом.
type ProcessRunner struct {
	Command []string
	Ext     string
	// Dir is where the temp file is created; "" means os.TempDir().
	Dir string
}

// Run implements Runner. The temp file is removed before Run returns.
func (p *ProcessRunner) Run(ctx context.Context, code string) (RunOutput, error) {
	if len(p.Command) == 0 {
		return RunOutput{}, errors.New("empty interpreter command")
	}
	tmp, err := os.CreateTemp(p.Dir, "codemaze_*"+p.Ext)
	if err != nil {
		return RunOutput{}, fmt.Errorf("create script: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return RunOutput{}, fmt.Errorf("write script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return RunOutput{}, fmt.Errorf("close script: %w", err)
	}

	args := append(append([]string{}, p.Command[1:]...), tmp.Name())
	return runCommand(exec.CommandContext(ctx, p.Command[0], args...), nil)
}
