package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	labelanalyzer "github.com/menta2k/label-analyzer"
	"github.com/menta2k/label-analyzer/internal/config"
	"github.com/menta2k/label-analyzer/internal/utils"
	"github.com/menta2k/label-analyzer/pkg/classes"
	"github.com/menta2k/label-analyzer/pkg/report"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitNoInput = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s diameter [flags] <labels file or dir>\n", name)
	fmt.Fprintf(w, "       %s count [flags] <labels file or dir>\n", name)
	fmt.Fprintf(w, "       %s init-config [path]\n", name)
	fmt.Fprintf(w, "       %s -version\n", name)
	fmt.Fprintf(w, "without -config, %s is read when it exists\n", config.GetConfigPath())
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)

	if len(args) == 0 {
		usage(stderr)
		return exitFailure
	}

	switch args[0] {
	case "diameter":
		return runDiameter(args[1:], stdout, logger)
	case "count":
		return runCount(args[1:], stdout, logger)
	case "init-config":
		return runInitConfig(args[1:], stdout, logger)
	case "-version", "--version", "version":
		fmt.Fprintf(stdout, "label-analyzer %s\n", labelanalyzer.GetVersion())
		return exitOK
	case "-h", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		logger.Printf("unknown command %q", args[0])
		usage(stderr)
		return exitFailure
	}
}

// options shared by both commands
type commonFlags struct {
	configPath string
	in         string
	out        string
	classes    string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file (json or yaml)")
	fs.StringVar(&c.in, "in", "", "label file or directory (may also be given as argument)")
	fs.StringVar(&c.out, "out", "", "output directory")
	fs.StringVar(&c.classes, "classes", "", "class names file, one name per line")
}

// load parses flags and resolves the configuration. Explicit flags win over
// the config file.
func (c *commonFlags) load(fs *flag.FlagSet, args []string) (*config.Config, map[string]bool, error) {
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case len(positional) > 1:
		return nil, nil, fmt.Errorf("unexpected argument %q", positional[1])
	case len(positional) == 1 && c.in != "":
		return nil, nil, fmt.Errorf("input given both as -in and as argument %q", positional[0])
	case len(positional) == 1:
		c.in = positional[0]
	}
	if c.in == "" {
		return nil, nil, errors.New("missing input path")
	}

	cfg := config.Default()
	configPath := c.configPath
	if configPath == "" && utils.FileExists(config.GetConfigPath()) {
		configPath = config.GetConfigPath()
	}
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["classes"] {
		cfg.ClassesFile = c.classes
	}
	return cfg, set, nil
}

func runDiameter(args []string, stdout io.Writer, logger *log.Logger) int {
	fs := flag.NewFlagSet("diameter", flag.ContinueOnError)
	fs.SetOutput(logger.Writer())

	var common commonFlags
	common.register(fs)
	var pixels, realLen float64
	var unit string
	fs.Float64Var(&pixels, "scale-pixels", 0, "pixel length of the reference scale bar (required)")
	fs.Float64Var(&realLen, "scale-real", 0, "real length represented by the scale bar (required)")
	fs.StringVar(&unit, "unit", "um", "unit of the real length")

	cfg, set, err := common.load(fs, args)
	if err != nil {
		logger.Printf("error: %v", err)
		return exitFailure
	}
	if set["scale-pixels"] {
		cfg.Scale.Pixels = pixels
	}
	if set["scale-real"] {
		cfg.Scale.Real = realLen
	}
	if set["unit"] {
		cfg.Scale.Unit = unit
	}
	if set["out"] {
		cfg.Output.DiameterDir = common.out
	}
	if err := cfg.Validate(); err != nil {
		logger.Printf("error: invalid configuration: %v", err)
		return exitFailure
	}

	// the scale is checked before any label file is touched
	conv, err := cfg.Converter()
	if err != nil {
		logger.Printf("error: %v", err)
		return exitFailure
	}

	files, code := discover(common.in, cfg.ClassesFile, logger)
	if code != exitOK {
		return code
	}

	analyzer := labelanalyzer.NewWithOptions(cfg.ProcessingOptions(), logger)
	result := analyzer.Diameters(files, conv)

	names, err := classes.Load(cfg.ClassesFile)
	if err != nil {
		logger.Printf("warning: %v", err)
	}
	paths, err := report.NewAssembler(names).WriteDiameters(cfg.Output.DiameterDir, result.Records)
	for _, p := range paths {
		fmt.Fprintf(stdout, "wrote: %s\n", p)
	}
	if err != nil {
		logger.Printf("error: %v", err)
		return exitFailure
	}
	return exitOK
}

func runCount(args []string, stdout io.Writer, logger *log.Logger) int {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	fs.SetOutput(logger.Writer())

	var common commonFlags
	common.register(fs)

	cfg, set, err := common.load(fs, args)
	if err != nil {
		logger.Printf("error: %v", err)
		return exitFailure
	}
	if set["out"] {
		cfg.Output.CountDir = common.out
	}
	if err := cfg.Validate(); err != nil {
		logger.Printf("error: invalid configuration: %v", err)
		return exitFailure
	}

	names, err := classes.Load(cfg.ClassesFile)
	if err != nil {
		logger.Printf("error: %v", err)
		return exitFailure
	}

	files, code := discover(common.in, cfg.ClassesFile, logger)
	if code != exitOK {
		return code
	}

	analyzer := labelanalyzer.NewWithOptions(cfg.ProcessingOptions(), logger)
	result := analyzer.Counts(files)

	paths, err := report.NewAssembler(names).WriteCounts(cfg.Output.CountDir, result.Tally)
	for _, p := range paths {
		fmt.Fprintf(stdout, "wrote: %s\n", p)
	}
	if err != nil {
		logger.Printf("error: %v", err)
		return exitFailure
	}
	return exitOK
}

// parseInterspersed parses flags that appear before or after positional
// arguments and returns the positional ones in order.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func runInitConfig(args []string, stdout io.Writer, logger *log.Logger) int {
	fs := flag.NewFlagSet("init-config", flag.ContinueOnError)
	fs.SetOutput(logger.Writer())
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	path := config.GetConfigPath()
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if utils.FileExists(path) {
		logger.Printf("error: %s already exists", path)
		return exitFailure
	}
	if err := config.Default().SaveToFile(path); err != nil {
		logger.Printf("error: %v", err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "wrote: %s\n", path)
	return exitOK
}

func discover(in, classesFile string, logger *log.Logger) ([]string, int) {
	files, err := labelanalyzer.Discover(in, classesFile)
	if errors.Is(err, labelanalyzer.ErrNoInput) {
		logger.Printf("error: %v", err)
		return nil, exitNoInput
	}
	if err != nil {
		logger.Printf("error: %v", err)
		return nil, exitFailure
	}
	return files, exitOK
}
