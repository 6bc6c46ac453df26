package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultFuncName = "RegisterComponents"

type options struct {
	namespace   string
	dir         string
	output      string
	packageName string
	funcName    string
	dryRun      bool
	verbose     bool
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "jamocha-gen",
		Short: "Generate the registration of the @component types of a module",
		Long: `Scan the packages of a module for types annotated with @component, and generate a
function registering their constructors on a jamocha.StaticScanner.

Meant to run through go:generate, the target file and package defaulting to $GOFILE and
$GOPACKAGE.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := zerolog.InfoLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.DateTime}).
				Level(level).
				With().
				Timestamp().
				Logger()

			return run(logger, opts, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.namespace, "namespace", "", "import path prefix of the packages to scan, everything below --dir if empty")
	flags.StringVar(&opts.dir, "dir", "", "directory the packages are loaded from, defaults to the module root")
	flags.StringVar(&opts.output, "output", defaultOutput(), "generated file")
	flags.StringVar(&opts.packageName, "package", os.Getenv("GOPACKAGE"), "package of the generated file, defaults to the package found next to it")
	flags.StringVar(&opts.funcName, "func", defaultFuncName, "name of the generated registration function")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the generated code instead of writing it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")

	return cmd
}

func run(logger zerolog.Logger, opts *options, stdout io.Writer) error {
	startScan := time.Now()

	dir := opts.dir
	if dir == "" {
		dir = findModuleRoot()
	}
	output, err := filepath.Abs(opts.output)
	if err != nil {
		return fmt.Errorf("invalid output %s:\n\t%w", opts.output, err)
	}

	result, err := scan(logger, dir, opts.namespace)
	if err != nil {
		return err
	}

	target := Target{
		Package:   opts.packageName,
		Func:      opts.funcName,
		Namespace: opts.namespace,
	}
	if pkg, found := result.PackageAt(filepath.Dir(output)); found {
		target.ImportPath = pkg.PkgPath
		if target.Package == "" {
			target.Package = pkg.Name
		}
	}
	if target.Package == "" {
		return errors.New("unable to guess the package of the generated file, use --package")
	}

	logger.Info().Msgf("🎯 %d components found", len(result.Components))
	definitionsLogs := make([]string, len(result.Components))
	for i, definition := range result.Components {
		definitionsLogs[i] = definition.String()
	}
	logger.Debug().Msgf("Components:\n%s", strings.Join(definitionsLogs, "\n----\n"))
	logger.Info().Msgf("🕵️‍♂️ Scanning completed in %s", time.Since(startScan))

	code, err := generateCode(target, result.Components)
	if err != nil {
		return err
	}

	if opts.dryRun {
		_, err = stdout.Write(code)
		return err
	}
	if err = os.WriteFile(output, code, 0o644); err != nil {
		return fmt.Errorf("failed to write %s:\n\t%w", output, err)
	}
	logger.Info().Msgf("✅ Code generated successfully in %s", output)

	return nil
}

// defaultOutput derives the generated file from the file holding the go:generate directive.
func defaultOutput() string {
	if goFile := os.Getenv("GOFILE"); goFile != "" {
		return strings.TrimSuffix(goFile, ".go") + "_gen.go"
	}
	return "components_gen.go"
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "."
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
