package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/RayMarquina/dbt-project-sub004/internal/adapters"
	"github.com/RayMarquina/dbt-project-sub004/internal/app"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
)

// Exit codes of the graphrun process.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// commands maps each subcommand to the resource types it selects. A nil
// slice selects every kind.
var commands = map[string][]node.Kind{
	"run":      {node.KindModel},
	"test":     {node.KindTest},
	"seed":     {node.KindSeed},
	"snapshot": {node.KindSnapshot},
	"build":    nil,
	"ls":       nil,
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, " ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("graphrun", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
graphrun - Runs a project's resources in dependency order.

Usage:
  graphrun <command> [options]

Commands:
  run        Execute models.
  test       Execute tests.
  seed       Execute seeds.
  snapshot   Execute snapshots.
  build      Execute every selected resource.
  ls         List the selected resources without executing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	if len(args) == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	command := args[0]
	if command == "-h" || command == "--help" || command == "help" {
		flagSet.Usage()
		return nil, true, nil
	}
	kinds, ok := commands[command]
	if !ok {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unknown command %q", command)}
	}

	var selects, excludes stringList
	projectDirFlag := flagSet.String("project-dir", ".", "Directory containing the project's .hcl files.")
	flagSet.Var(&selects, "select", "Selector patterns to include. Repeatable, whitespace separated.")
	flagSet.Var(&selects, "s", "Selector patterns to include (shorthand).")
	flagSet.Var(&excludes, "exclude", "Selector patterns to exclude. Repeatable, whitespace separated.")
	selectorFlag := flagSet.String("selector", "", "Name of a selector defined in the project.")
	resourceTypeFlag := flagSet.String("resource-type", "", "Restrict 'build' and 'ls' to one resource type.")
	threadsFlag := flagSet.Int("threads", 0, "Number of concurrent workers. 0 uses the project setting or the CPU count.")
	singleThreadedFlag := flagSet.Bool("single-threaded", false, "Execute nodes one at a time on the main goroutine.")
	failFastFlag := flagSet.Bool("fail-fast", false, "Stop the run at the first failure.")
	adapterFlag := flagSet.String("adapter", "shell", fmt.Sprintf("Execution adapter. Options: %s.", strings.Join(adapters.Names(), ", ")))
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	progressURLFlag := flagSet.String("progress-url", "", "Socket.IO server that receives progress events.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected arguments: %v", flagSet.Args())}
	}

	if *resourceTypeFlag != "" {
		if kinds != nil {
			return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("--resource-type is only valid with 'build' or 'ls', not %q", command)}
		}
		kind, err := node.ParseKind(*resourceTypeFlag)
		if err != nil {
			return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
		}
		kinds = []node.Kind{kind}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ProjectDir:    *projectDirFlag,
		Select:        selects,
		Exclude:       excludes,
		Selector:      *selectorFlag,
		ResourceTypes: kinds,
		ListOnly:      command == "ls",
		Settings: app.Settings{
			Threads:        *threadsFlag,
			FailFast:       *failFastFlag,
			SingleThreaded: *singleThreadedFlag,
		},
		Adapter:         *adapterFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
		ProgressURL:     *progressURLFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
