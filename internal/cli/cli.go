package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rzaytsev/flowbind/internal/app"
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

// envDefaults are the FLOWBIND_* environment variables flags layer over.
type envDefaults struct {
	Flows        string `env:"FLOWBIND_FLOWS"`
	LogFormat    string `env:"FLOWBIND_LOG_FORMAT" envDefault:"text"`
	LogLevel     string `env:"FLOWBIND_LOG_LEVEL" envDefault:"info"`
	AdminPort    int    `env:"FLOWBIND_ADMIN_PORT" envDefault:"0"`
	ContextStore string `env:"FLOWBIND_CONTEXT_STORE" envDefault:"memory"`
	ContextDB    string `env:"FLOWBIND_CONTEXT_DB"`
}

// injectList collects repeated -inject flags.
type injectList []string

func (l *injectList) String() string { return strings.Join(*l, ",") }

func (l *injectList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Parse processes command-line arguments over environment defaults. It
// returns a populated app config, a boolean indicating if the program
// should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var defaults envDefaults
	if err := env.Parse(&defaults); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid FLOWBIND_* environment: %v", err)}
	}

	flagSet := flag.NewFlagSet("flowbind", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowbind - deploy and drive flow definitions on the built-in development host.

Usage:
  flowbind [options] [FLOWS_PATH]

Arguments:
  FLOWS_PATH
    Path to a single .flow.hcl file or a directory containing .flow.hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	flowsFlag := flagSet.String("flows", defaults.Flows, "Path to the flow file or directory.")
	fFlag := flagSet.String("f", "", "Path to the flow file or directory (shorthand).")
	adminPortFlag := flagSet.Int("admin-port", defaults.AdminPort, "Port for the HTTP admin server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	storeFlag := flagSet.String("context-store", defaults.ContextStore, "Context store backend. Options: 'memory' or 'sqlite'.")
	dbFlag := flagSet.String("context-db", defaults.ContextDB, "SQLite file for the context store, when the backend is sqlite.")
	var injects injectList
	flagSet.Var(&injects, "inject", "Message to inject after deployment, as flow.node=payload. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *flowsFlag != "" {
		path = *flowsFlag
	} else if *fFlag != "" {
		path = *fFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Flows path determined.", "path", path)

	if path == "" {
		slog.Debug("No flows path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		FlowsPath:    path,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		AdminPort:    *adminPortFlag,
		ContextStore: strings.ToLower(*storeFlag),
		ContextDB:    *dbFlag,
		Injects:      []string(injects),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
