package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vk/coursegrid/internal/app"
	"github.com/vk/coursegrid/internal/remote"
)

// Environment variables consulted for flag defaults.
const (
	EnvLogLevel  = "COURSEGRID_LOG_LEVEL"
	EnvLogFormat = "COURSEGRID_LOG_FORMAT"
	EnvCatalog   = "COURSEGRID_CATALOG"
	EnvBaseURL   = "COURSEGRID_BASE_URL"
)

const defaultCatalog = "catalog.db"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

const usage = `
CourseGrid - Course prerequisite graphs for university curricula.

Usage:
  coursegrid [options] <command> [command options] [arguments]

Commands:
  show <file>             Print the curriculum grouped by semester.
  cascade <file> <id>     Print every course blocked by failing course <id>.
  serve <dir>             Serve the curricula in <dir> over HTTP and socket.io.
  scrape                  Download curricula from the academic portal.
  list                    List the curricula recorded in the catalog.
  remote <url> <id>       Ask a running server for the cascade of <id>.

Options:
`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("coursegrid", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", envOr(EnvLogFormat, "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envOr(EnvLogLevel, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	noColorFlag := flagSet.Bool("no-color", false, "Disable colored output.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	cfg := app.Config{
		Command:   flagSet.Arg(0),
		LogFormat: logFormat,
		LogLevel:  logLevel,
		NoColor:   *noColorFlag,
	}
	slog.Debug("Command determined.", "command", cfg.Command)

	exit, err := parseCommand(&cfg, flagSet.Args()[1:], output)
	if err != nil || exit {
		return nil, exit, err
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// parseCommand fills cfg from the arguments following the command name.
func parseCommand(cfg *app.Config, args []string, output io.Writer) (bool, error) {
	fs := flag.NewFlagSet("coursegrid "+cfg.Command, flag.ContinueOnError)
	fs.SetOutput(output)

	var positional []string
	var apply func() error

	switch cfg.Command {
	case app.CommandShow:
		positional = []string{"file"}
		apply = func() error {
			cfg.CurriculumPath = fs.Arg(0)
			return nil
		}
	case app.CommandCascade:
		positional = []string{"file", "id"}
		apply = func() error {
			cfg.CurriculumPath = fs.Arg(0)
			return parseID(fs.Arg(1), &cfg.CourseID)
		}
	case app.CommandServe:
		addr := fs.String("addr", "127.0.0.1:8080", "Address the server listens on.")
		initial := fs.String("curriculum", "", "Code of the curriculum to load at startup.")
		positional = []string{"dir"}
		apply = func() error {
			cfg.CurriculaDir = fs.Arg(0)
			cfg.Addr = *addr
			cfg.InitialCode = *initial
			return nil
		}
	case app.CommandScrape:
		out := fs.String("out", "json", "Directory the curriculum files are written to.")
		first := fs.Int("first", 0, "First curriculum code to fetch.")
		last := fs.Int("last", 9999, "Last curriculum code to fetch.")
		workers := fs.Int("workers", 0, "Number of concurrent requests. 0 uses the CPU count.")
		baseURL := fs.String("base-url", os.Getenv(EnvBaseURL), "Base URL of the academic portal.")
		timeout := fs.Duration("timeout", 10*time.Second, "Timeout of each request.")
		catalogPath := fs.String("catalog", envOr(EnvCatalog, defaultCatalog), "SQLite catalog to record fetched curricula in. Empty disables it.")
		apply = func() error {
			cfg.CatalogPath = *catalogPath
			cfg.Scrape = app.ScrapeConfig{
				OutputDir: *out,
				BaseURL:   *baseURL,
				First:     *first,
				Last:      *last,
				Workers:   *workers,
				Timeout:   *timeout,
			}
			return nil
		}
	case app.CommandList:
		catalogPath := fs.String("catalog", envOr(EnvCatalog, defaultCatalog), "SQLite catalog to read.")
		apply = func() error {
			cfg.CatalogPath = *catalogPath
			return nil
		}
	case app.CommandRemote:
		timeout := fs.Duration("timeout", remote.DefaultTimeout, "How long to wait for the server's answer.")
		positional = []string{"url", "id"}
		apply = func() error {
			cfg.ServerURL = fs.Arg(0)
			cfg.Timeout = *timeout
			return parseID(fs.Arg(1), &cfg.CourseID)
		}
	default:
		return false, usageError("unknown command %q", cfg.Command)
	}

	fs.Usage = func() {
		fmt.Fprintf(output, "\nUsage:\n  coursegrid %s [options]", cfg.Command)
		for _, p := range positional {
			fmt.Fprintf(output, " <%s>", p)
		}
		fmt.Fprint(output, "\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return true, nil
		}
		return false, &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() != len(positional) {
		return false, usageError("%s: expected %d argument(s), got %d", cfg.Command, len(positional), fs.NArg())
	}
	if err := apply(); err != nil {
		return false, err
	}
	return false, nil
}

func parseID(s string, dst *int) error {
	id, err := strconv.Atoi(s)
	if err != nil {
		return usageError("invalid course id %q: must be an integer", s)
	}
	*dst = id
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
