package app

import (
	"errors"
	"fmt"
	"time"
)

// Commands understood by the application.
const (
	CommandShow    = "show"
	CommandCascade = "cascade"
	CommandServe   = "serve"
	CommandScrape  = "scrape"
	CommandList    = "list"
	CommandRemote  = "remote"
)

// ScrapeConfig holds the settings of the scrape command.
type ScrapeConfig struct {
	OutputDir string
	BaseURL   string
	First     int
	Last      int
	Workers   int
	Timeout   time.Duration
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command string

	LogFormat string
	LogLevel  string
	NoColor   bool

	// CurriculumPath is the file read by show and cascade.
	CurriculumPath string
	// CourseID is the course selected by cascade and remote.
	CourseID int

	// CurriculaDir, Addr and InitialCode configure serve.
	CurriculaDir string
	Addr         string
	InitialCode  string

	// ServerURL and Timeout configure remote.
	ServerURL string
	Timeout   time.Duration

	// CatalogPath is the SQLite index used by scrape and list.
	CatalogPath string
	Scrape      ScrapeConfig
}

// NewConfig validates cfg for its command and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandShow:
		if cfg.CurriculumPath == "" {
			return nil, errors.New("show: a curriculum file is required")
		}
	case CommandCascade:
		if cfg.CurriculumPath == "" {
			return nil, errors.New("cascade: a curriculum file is required")
		}
	case CommandServe:
		if cfg.CurriculaDir == "" {
			return nil, errors.New("serve: a curricula directory is required")
		}
		if cfg.Addr == "" {
			return nil, errors.New("serve: a listen address is required")
		}
	case CommandScrape:
		if cfg.Scrape.OutputDir == "" {
			return nil, errors.New("scrape: an output directory is required")
		}
	case CommandList:
		if cfg.CatalogPath == "" {
			return nil, errors.New("list: a catalog path is required")
		}
	case CommandRemote:
		if cfg.ServerURL == "" {
			return nil, errors.New("remote: a server URL is required")
		}
	case "":
		return nil, errors.New("a command is required")
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	return &cfg, nil
}
