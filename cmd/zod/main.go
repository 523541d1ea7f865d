package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/zod/config"
	"github.com/wippyai/zod/engine"
	"github.com/wippyai/zod/errors"
	"github.com/wippyai/zod/modfile"
	"github.com/wippyai/zod/runtime"
	"github.com/wippyai/zod/wasm"
)

const usage = `Usage: zod compile [-o out] [-config zod.toml] <file.wat|file.yaml|file.cbor>
       zod execute [-engine interpreter|wazero] [-i] [-config zod.toml] <file.bin> <func> [args...]
       zod inspect [-format text|yaml|cbor] [-o out] <file.bin>
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.InvalidInput(errors.PhaseLoad, "missing command")
	}

	switch args[0] {
	case "compile", "--compile":
		return runCompile(args[1:], stdout)
	case "execute", "--execute":
		return runExecute(ctx, args[1:], stdout)
	case "inspect":
		return runInspect(args[1:], stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("unknown command %q", args[0]))
	}
}

// setup loads the configuration and installs the configured logger in the
// engine and runtime packages.
func setup(configPath string) (*config.Config, *zap.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, nil, err
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		return nil, nil, err
	}
	engine.SetLogger(logger.Named("engine"))
	runtime.SetLogger(logger.Named("runtime"))
	return cfg, logger, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func runCompile(args []string, stdout io.Writer) error {
	fs := newFlagSet("compile")
	var (
		out        = fs.String("o", "", "Output file (default <name><extension> from config)")
		configPath = fs.String("config", "", "Path to zod.toml")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.InvalidInput(errors.PhaseLoad, "compile takes exactly one source file")
	}
	src := fs.Arg(0)

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	format, ok := runtime.FormatOf(src)
	if !ok {
		return errors.Unsupported(errors.PhaseLoad, "source file extension of "+src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Load("read source", err)
	}

	m, err := runtime.ParseSource(format, data)
	if err != nil {
		return err
	}
	rt, err := runtime.New(context.Background(), runtime.Options{})
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	bin, err := rt.Compile(m)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = cfg.OutputPath(src)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Load("create output directory", err)
		}
	}
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		return errors.Load("write binary", err)
	}

	logger.Info("compiled", zap.String("source", src), zap.String("output", path), zap.Int("bytes", len(bin)))
	fmt.Fprintf(stdout, ">> %s\n", path)
	return nil
}

func runExecute(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("execute")
	var (
		engineName  = fs.String("engine", "", "Execution engine: interpreter or wazero (default from config)")
		interactive = fs.Bool("i", false, "Interactive mode with TUI")
		configPath  = fs.String("config", "", "Path to zod.toml")
	)
	// Flags stop at the first positional argument, so negative numbers
	// after the function name are arguments.
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	name := cfg.Execute.Engine
	if *engineName != "" {
		name = *engineName
	}

	if *interactive {
		if fs.NArg() != 1 {
			return errors.InvalidInput(errors.PhaseLoad, "interactive mode takes exactly one binary file")
		}
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.InvalidInput(errors.PhaseLoad, "interactive mode requires a terminal")
		}
		return runInteractive(fs.Arg(0), name)
	}

	if fs.NArg() < 2 {
		return errors.InvalidInput(errors.PhaseLoad, "execute takes a binary file and a function name")
	}
	callArgs, err := parseArgs(fs.Args()[2:])
	if err != nil {
		return err
	}

	bin, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return errors.Load("read binary", err)
	}

	rt, err := runtime.New(ctx, runtime.Options{Engine: name})
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	result, err := rt.Execute(ctx, bin, fs.Arg(1), callArgs)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, ">> %d\n", result)
	return nil
}

// parseArgs parses base-10 integer arguments.
func parseArgs(args []string) ([]int64, error) {
	values := make([]int64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Value(arg).
				Cause(err).
				Detail("argument %d (%q) is not an integer", i, arg).
				Build()
		}
		values[i] = v
	}
	return values, nil
}

func runInspect(args []string, stdout io.Writer) error {
	fs := newFlagSet("inspect")
	var (
		format = fs.String("format", "text", "Output format: text, yaml or cbor")
		out    = fs.String("o", "", "Output file (default stdout)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.InvalidInput(errors.PhaseLoad, "inspect takes exactly one binary file")
	}

	bin, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return errors.Load("read binary", err)
	}
	m, err := wasm.ParseModule(bin)
	if err != nil {
		return err
	}

	var data []byte
	switch *format {
	case "text":
		data = []byte(disassemble(m))
	case "yaml":
		data, err = modfile.MarshalYAML(m)
	case "cbor":
		if *out == "" && term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.InvalidInput(errors.PhaseLoad, "refusing to write cbor to a terminal, use -o")
		}
		data, err = modfile.MarshalCBOR(m)
	default:
		return errors.Unsupported(errors.PhaseLoad, "inspect format "+*format)
	}
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return errors.Load("write description", err)
	}
	fmt.Fprintf(stdout, ">> %s\n", *out)
	return nil
}
