package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime/debug"
	"runtime/metrics"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// luaChildEnv marks a process started by LuaRunner. The game binary checks it
// first thing and runs the sandbox instead of the game.
const luaChildEnv = "CODEMAZE_LUA_CHILD"

const (
	// luaMaxString caps strings built by string.rep and table.concat.
	luaMaxString = 16 << 20
	// luaMemoryLimit is the heap size at which the child gives up.
	luaMemoryLimit = 256 << 20
	// luaChildOOM is the exit code used when the memory limit is hit.
	luaChildOOM = 3
)

// luaBlockedGlobals are removed from the base library before running code.
var luaBlockedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// LuaRunner runs Lua code in a child copy of the game binary with only the
// base, table, string and math libraries. A runaway program can only take the
// child down; the game reports it as a failed run.
// LuaRunner выполняет Lua-код в песочнице в дочернем процессе.
type LuaRunner struct {
	// Exe is the binary started as the child; "" means os.Executable().
	Exe string
}

// Run implements Runner. The code is passed to the child on stdin.
func (r LuaRunner) Run(ctx context.Context, code string) (RunOutput, error) {
	exe := r.Exe
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return RunOutput{}, fmt.Errorf("lua: %w", err)
		}
	}
	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = append(os.Environ(), luaChildEnv+"=1")
	out, err := runCommand(cmd, strings.NewReader(code))
	if err != nil {
		out.Stderr = luaChildError(out.Stderr)
	}
	return out, err
}

// luaChildError keeps sandbox errors whole and reduces anything else, such
// as a Go runtime crash dump, to its first line.
func luaChildError(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if strings.HasPrefix(stderr, "lua: ") {
		return stderr
	}
	first, _, _ := strings.Cut(stderr, "\n")
	return first
}

// luaChildRequested reports whether this process is a LuaRunner child.
func luaChildRequested() bool {
	return os.Getenv(luaChildEnv) == "1"
}

// runLuaChild is the body of the child process: it reads the program from
// stdin, runs it and returns the exit code.
// runLuaChild выполняет программу из stdin и возвращает код выхода.
func runLuaChild(stdin io.Reader, stdout, stderr io.Writer) int {
	debug.SetMemoryLimit(luaMemoryLimit)
	go watchMemory(luaMemoryLimit, stderr)

	code, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "lua: read program: %v\n", err)
		return 1
	}
	w := bufio.NewWriter(stdout)
	err = runLuaSandbox(context.Background(), string(code), w)
	w.Flush()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// watchMemory ends the process once the live heap grows past limit.
func watchMemory(limit uint64, stderr io.Writer) {
	sample := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	for range tick.C {
		metrics.Read(sample)
		if sample[0].Value.Kind() == metrics.KindUint64 && sample[0].Value.Uint64() > limit {
			fmt.Fprintln(stderr, "lua: memory limit exceeded")
			os.Exit(luaChildOOM)
		}
	}
}

// runLuaSandbox runs code in a fresh restricted state. print writes to out.
func runLuaSandbox(ctx context.Context, code string, out io.Writer) (err error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:    true,
		CallStackSize:   200,
		RegistrySize:    1024 * 20,
		RegistryMaxSize: 1024 * 256,
	})
	defer L.Close()

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range luaBlockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	installLuaLimits(L)

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		for i := 1; i <= top; i++ {
			if i > 1 {
				io.WriteString(out, "\t")
			}
			io.WriteString(out, L.ToStringMeta(L.Get(i)).String())
		}
		io.WriteString(out, "\n")
		return 0
	}))
	L.SetContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if err := L.DoString(code); err != nil {
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) && apiErr.Object != nil {
			// Drop the traceback, the message is enough for the popup.
			return fmt.Errorf("lua: %s", apiErr.Object.String())
		}
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// installLuaLimits replaces the library functions that can build a huge
// string in one call with versions that refuse results over luaMaxString.
// The string table is also the __index of string values, so s:rep() is
// covered too.
func installLuaLimits(L *lua.LState) {
	if str, ok := L.GetGlobal("string").(*lua.LTable); ok {
		str.RawSetString("rep", L.NewFunction(luaStringRep))
	}
	if tbl, ok := L.GetGlobal("table").(*lua.LTable); ok {
		if concat, ok := tbl.RawGetString("concat").(*lua.LFunction); ok {
			tbl.RawSetString("concat", L.NewFunction(luaTableConcat(concat)))
		}
	}
}

func luaStringRep(L *lua.LState) int {
	s := L.CheckString(1)
	n := L.CheckInt(2)
	if n <= 0 || s == "" {
		L.Push(lua.LString(""))
		return 1
	}
	if n > luaMaxString/len(s) {
		L.RaiseError("string.rep: result too large")
	}
	L.Push(lua.LString(strings.Repeat(s, n)))
	return 1
}

// luaTableConcat sizes the result before handing the call to concat.
func luaTableConcat(concat *lua.LFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		sep := L.OptString(2, "")
		i := max(L.OptInt(3, 1), 1)
		j := min(L.OptInt(4, tbl.Len()), tbl.Len())
		total := 0
		for k := i; k <= j; k++ {
			v := tbl.RawGetInt(k)
			if !lua.LVCanConvToString(v) {
				break
			}
			total += len(lua.LVAsString(v))
			if k != j {
				total += len(sep)
			}
			if total > luaMaxString {
				L.RaiseError("table.concat: result too large")
			}
		}

		top := L.GetTop()
		L.Push(concat)
		for a := 1; a <= top; a++ {
			L.Push(L.Get(a))
		}
		L.Call(top, 1)
		return 1
	}
}
