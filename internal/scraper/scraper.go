// Package scraper downloads curriculum prerequisite files from the
// university portal. Every program code in a range is requested concurrently
// and each non-empty answer is saved as <code>.json in an output directory.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vk/coursegrid/internal/catalog"
	"github.com/vk/coursegrid/internal/ctxlog"
)

const (
	// DefaultBaseURL is the portal that serves the curriculum files.
	DefaultBaseURL = "https://graduacao.ufms.br"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second
	// LastCode is the highest four-digit program code.
	LastCode = 9999

	progressEvery = 100
)

// Recorder stores an index entry for every saved curriculum.
type Recorder interface {
	Record(ctx context.Context, e catalog.Entry) error
}

// Config controls a scrape run. Zero values select the defaults.
type Config struct {
	BaseURL   string
	OutputDir string
	// First and Last bound the code range, both inclusive. Nil selects
	// 0000 and 9999 respectively.
	First, Last *int
	Workers     int
	Timeout     time.Duration
	Client      *http.Client
	// Catalog is optional.
	Catalog Recorder
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID      string
	Successful int
	Failed     int
	// Saved lists the codes written to disk, sorted.
	Saved []string
}

// Total returns the number of codes processed.
func (s *Summary) Total() int {
	return s.Successful + s.Failed
}

// errEmpty marks an answer that decoded to an empty list.
var errEmpty = errors.New("empty curriculum")

// Scraper fetches curriculum files. Create one with New.
type Scraper struct {
	cfg         Config
	first, last int
	client      *http.Client
}

// New applies defaults to cfg and returns a Scraper.
func New(cfg Config) (*Scraper, error) {
	if cfg.OutputDir == "" {
		return nil, errors.New("scraper: OutputDir is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	first, last := 0, LastCode
	if cfg.First != nil {
		first = *cfg.First
	}
	if cfg.Last != nil {
		last = *cfg.Last
	}
	if first < 0 || last > LastCode || first > last {
		return nil, fmt.Errorf("scraper: invalid code range %04d..%04d", first, last)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Scraper{cfg: cfg, first: first, last: last, client: client}, nil
}

// Run fetches every code in the configured range and returns a summary. It
// stops handing out codes when ctx is cancelled and returns ctx.Err() in that
// case, along with the partial summary.
func (s *Scraper) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "run_id", runID)

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", s.cfg.OutputDir, err)
	}
	logger.Info("Starting curriculum scrape.",
		"first", fmt.Sprintf("%04d", s.first),
		"last", fmt.Sprintf("%04d", s.last),
		"output_dir", s.cfg.OutputDir,
		"workers", s.cfg.Workers,
	)

	var (
		successful atomic.Int64
		failed     atomic.Int64
		mu         sync.Mutex
		saved      []string
		wg         sync.WaitGroup
	)
	codes := make(chan int)

	for workerID := range s.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workerLogger := logger.With("workerID", workerID)
			for n := range codes {
				code := fmt.Sprintf("%04d", n)
				if err := s.process(ctx, runID, code); err != nil {
					f := failed.Add(1)
					workerLogger.Debug("Code skipped.", "code", code, "error", err)
					if n%progressEvery == 0 {
						workerLogger.Info("Progress.", "code", code, "successful", successful.Load(), "failed", f)
					}
					continue
				}
				successful.Add(1)
				mu.Lock()
				saved = append(saved, code)
				mu.Unlock()
				workerLogger.Info("Curriculum saved.", "code", code)
			}
		}()
	}

	var runErr error
feed:
	for n := s.first; n <= s.last; n++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		select {
		case codes <- n:
		case <-ctx.Done():
			runErr = ctx.Err()
			break feed
		}
	}
	close(codes)
	wg.Wait()

	sort.Strings(saved)
	summary := &Summary{
		RunID:      runID,
		Successful: int(successful.Load()),
		Failed:     int(failed.Load()),
		Saved:      saved,
	}
	logger.Info("Scrape finished.", "successful", summary.Successful, "failed", summary.Failed, "total", summary.Total())
	return summary, runErr
}

// process fetches one code and saves it when the answer is usable.
func (s *Scraper) process(ctx context.Context, runID, code string) error {
	records, err := s.fetch(ctx, code)
	if err != nil {
		return err
	}
	path := filepath.Join(s.cfg.OutputDir, code+".json")
	if err := save(path, records); err != nil {
		return err
	}
	if s.cfg.Catalog != nil {
		entry := catalog.Entry{
			Code:        code,
			Path:        path,
			CourseCount: len(records),
			RunID:       runID,
			FetchedAt:   time.Now().UTC(),
		}
		if err := s.cfg.Catalog.Record(ctx, entry); err != nil {
			ctxlog.FromContext(ctx).Warn("Failed to record curriculum in catalog.", "code", code, "error", err)
		}
	}
	return nil
}

// URL returns the prerequisite endpoint for a program code.
func (s *Scraper) URL(code string) string {
	return fmt.Sprintf("%s/portal/matriz/get-pre-requisitos/%s", s.cfg.BaseURL, code)
}

func (s *Scraper) fetch(ctx context.Context, code string) ([]json.RawMessage, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.URL(code), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", fmt.Sprintf("%s/cursos/%s/matriz", s.cfg.BaseURL, code))
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(records) == 0 {
		return nil, errEmpty
	}
	return records, nil
}

// save writes the records pretty-printed. Non-ASCII text is kept as is.
func save(path string, records []json.RawMessage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
