package app

import (
	"context"
	"fmt"

	"github.com/vk/coursegrid/internal/catalog"
	"github.com/vk/coursegrid/internal/ctxlog"
	"github.com/vk/coursegrid/internal/curriculum"
	"github.com/vk/coursegrid/internal/prereqgraph"
	"github.com/vk/coursegrid/internal/remote"
	"github.com/vk/coursegrid/internal/render"
	"github.com/vk/coursegrid/internal/scraper"
	"github.com/vk/coursegrid/internal/server"
)

// loadGraph reads the configured curriculum file and builds its graph,
// logging the anomalies the graph tolerates.
func (a *App) loadGraph(ctx context.Context) (*curriculum.Curriculum, *prereqgraph.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	cur, err := curriculum.Open(ctx, a.config.CurriculumPath)
	if err != nil {
		return nil, nil, err
	}

	g := prereqgraph.New()
	g.Build(cur.Courses)
	logger.Debug("Prerequisite graph built.", "code", cur.Code, "courses", g.Len())

	if dangling := g.Dangling(); len(dangling) > 0 {
		logger.Warn("Curriculum references prerequisites it does not define.", "code", cur.Code, "ids", dangling)
	}
	if err := g.DetectCycles(); err != nil {
		logger.Warn("Curriculum has a prerequisite cycle.", "code", cur.Code, "error", err)
	}
	return cur, g, nil
}

func (a *App) show(ctx context.Context) error {
	cur, g, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}
	title := cur.Title
	if title == "" {
		title = "Curriculum " + cur.Code
	}
	render.SemesterTable(a.outW, g, title)
	return nil
}

func (a *App) cascade(ctx context.Context) error {
	_, g, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}
	return render.Cascade(a.outW, g, a.config.CourseID)
}

func (a *App) serve(ctx context.Context) error {
	srv := server.New(ctx, a.config.CurriculaDir)
	if a.config.InitialCode != "" {
		if _, err := srv.Load(ctx, a.config.InitialCode); err != nil {
			srv.Close()
			return err
		}
	}
	return srv.Run(ctx, a.config.Addr)
}

func (a *App) scrape(ctx context.Context) error {
	cfg := scraper.Config{
		BaseURL:   a.config.Scrape.BaseURL,
		OutputDir: a.config.Scrape.OutputDir,
		First:     &a.config.Scrape.First,
		Last:      &a.config.Scrape.Last,
		Workers:   a.config.Scrape.Workers,
		Timeout:   a.config.Scrape.Timeout,
	}
	if a.config.CatalogPath != "" {
		store, err := catalog.Open(a.config.CatalogPath)
		if err != nil {
			return err
		}
		defer store.Close()
		cfg.Catalog = store
	}

	s, err := scraper.New(cfg)
	if err != nil {
		return err
	}
	summary, err := s.Run(ctx)
	if summary != nil {
		render.ScrapeSummary(a.outW, summary.Successful, summary.Failed, a.config.Scrape.OutputDir)
	}
	return err
}

func (a *App) list(ctx context.Context) error {
	store, err := catalog.Open(a.config.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	render.Catalog(a.outW, entries)
	return nil
}

func (a *App) remote(ctx context.Context) error {
	c, err := remote.FetchCascade(ctx, a.config.ServerURL, a.config.CourseID, a.config.Timeout)
	if err != nil {
		return err
	}
	if len(c.Levels) == 0 {
		fmt.Fprintf(a.outW, "no course depends on %d\n", c.ID)
		return nil
	}
	for i, level := range c.Levels {
		fmt.Fprintf(a.outW, "%d. %v\n", i+1, level)
	}
	return nil
}
