// Command luahb runs Lua scripts with the harfbuzz module preloaded.
//
//	luahb [flags] script.lua [args...]
//	luahb -e 'print(require("harfbuzz").version())'
//	luahb -i font.ttf
//	luahb shape --font-file font.ttf [hb-shape options] text
//	luahb -version
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/boxesandglue/luatextshape/hb"
	"github.com/boxesandglue/luatextshape/luahb"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "shape" {
		return runShape(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("luahb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		chunk       = fs.String("e", "", "Lua chunk to evaluate")
		interactive = fs.String("i", "", "Shape interactively with the given font file")
		verbose     = fs.Bool("v", false, "Log debug output to stderr")
		version     = fs.Bool("version", false, "Print engine version and shapers and exit")
		maxFeatures = fs.Int("max-features", 0, "Maximum features per shaping call (0 = default)")
		shapers     = fs.String("shapers", "", "Default shaper list (comma-separated)")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: luahb [flags] script.lua [args...]")
		fmt.Fprintln(stderr, "       luahb -e 'chunk'")
		fmt.Fprintln(stderr, "       luahb -i font.ttf")
		fmt.Fprintln(stderr, "       luahb shape --font-file font.ttf [hb-shape options] text")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := newLogger(*verbose, stderr)
	defer log.Sync()
	hb.SetLogger(log)
	defer hb.SetLogger(nil)

	if *version {
		fmt.Fprintf(stdout, "luahb %s\nshapers: %s\n", hb.Version(), strings.Join(hb.Shapers(), ","))
		return 0
	}
	if *interactive != "" {
		if err := runInteractive(*interactive); err != nil {
			fmt.Fprintf(stderr, "luahb: %v\n", err)
			return 1
		}
		return 0
	}

	opts := []luahb.Option{luahb.WithLogger(log)}
	if *maxFeatures > 0 {
		opts = append(opts, luahb.WithMaxFeatures(*maxFeatures))
	}
	if *shapers != "" {
		opts = append(opts, luahb.WithShapers(strings.Split(*shapers, ",")...))
	}

	var err error
	switch {
	case *chunk != "":
		err = runLua(stdout, opts, append([]string{"-e"}, fs.Args()...), func(L *lua.LState) error {
			return L.DoString(*chunk)
		})
	case fs.NArg() > 0:
		script := fs.Arg(0)
		err = runLua(stdout, opts, fs.Args(), func(L *lua.LState) error {
			return L.DoFile(script)
		})
	default:
		fs.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "luahb: %v\n", err)
		return 1
	}
	return 0
}

// newLogger returns a development logger when verbose is set and a
// production logger that only reports warnings otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	encoder := zap.NewProductionEncoderConfig()
	if verbose {
		level = zapcore.DebugLevel
		encoder = zap.NewDevelopmentEncoderConfig()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoder),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// runLua sets up a state with the module preloaded, print redirected to
// stdout and the global arg table, then calls exec.
func runLua(stdout io.Writer, opts []luahb.Option, args []string, exec func(*lua.LState) error) error {
	L := lua.NewState()
	defer L.Close()

	if err := luahb.Preload(L, opts...); err != nil {
		return err
	}
	L.SetGlobal("print", L.NewFunction(printTo(stdout)))

	argTbl := L.NewTable()
	for i, a := range args {
		argTbl.RawSetInt(i, lua.LString(a))
	}
	L.SetGlobal("arg", argTbl)
	return exec(L)
}

// printTo mirrors Lua's print: arguments converted with tostring, separated
// by tabs.
func printTo(w io.Writer) lua.LGFunction {
	return func(L *lua.LState) int {
		tostring := L.GetGlobal("tostring")
		parts := make([]string, L.GetTop())
		for i := range parts {
			L.Push(tostring)
			L.Push(L.Get(i + 1))
			L.Call(1, 1)
			parts[i] = L.ToString(-1)
			L.Pop(1)
		}
		fmt.Fprintln(w, strings.Join(parts, "\t"))
		return 0
	}
}
