package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/coursegrid/internal/catalog"
)

const curriculumJSON = `[
  {"id": 1, "name": "Algoritmos I", "credit_hours": 68, "semester": 1},
  {"id": 2, "name": "Algoritmos II", "credit_hours": 68, "semester": 2, "prerequisites": [1]},
  {"id": 3, "name": "Compiladores", "credit_hours": 68, "semester": 5, "prerequisites": [2, 404]},
  {"id": 4, "name": "Tópicos", "credit_hours": 34, "category": "optativa", "semester": 99, "prerequisites": [3]}
]`

func writeCurriculum(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "0123.json")
	require.NoError(t, os.WriteFile(path, []byte(curriculumJSON), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "show ok", cfg: Config{Command: CommandShow, CurriculumPath: "a.json"}},
		{name: "show without file", cfg: Config{Command: CommandShow}, wantErr: "curriculum file is required"},
		{name: "cascade without file", cfg: Config{Command: CommandCascade}, wantErr: "curriculum file is required"},
		{name: "serve without dir", cfg: Config{Command: CommandServe, Addr: ":1"}, wantErr: "curricula directory is required"},
		{name: "serve without addr", cfg: Config{Command: CommandServe, CurriculaDir: "d"}, wantErr: "listen address is required"},
		{name: "scrape without output", cfg: Config{Command: CommandScrape}, wantErr: "output directory is required"},
		{name: "list without catalog", cfg: Config{Command: CommandList}, wantErr: "catalog path is required"},
		{name: "remote without url", cfg: Config{Command: CommandRemote}, wantErr: "server URL is required"},
		{name: "no command", cfg: Config{}, wantErr: "a command is required"},
		{name: "unknown command", cfg: Config{Command: "dance"}, wantErr: `unknown command "dance"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *got)
		})
	}
}

func TestRun_Show(t *testing.T) {
	a, out, logs := SetupAppTest(t, &Config{Command: CommandShow, CurriculumPath: writeCurriculum(t)})

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "Curriculum 0123")
	assert.Contains(t, out.String(), "algoritmos ii")
	assert.Contains(t, out.String(), "Free electives")
	assert.Contains(t, logs.String(), "Curriculum references prerequisites it does not define.")
}

func TestRun_Cascade(t *testing.T) {
	a, out, _ := SetupAppTest(t, &Config{Command: CommandCascade, CurriculumPath: writeCurriculum(t), CourseID: 1})

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "1. algoritmos ii (2)")
	assert.Contains(t, out.String(), "blocked if not passed: 3 course(s)")
}

func TestRun_CascadeNegativeID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0456.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
	  {"id": -5, "name": "Estágio", "credit_hours": 34, "semester": 1},
	  {"id": 6, "name": "TCC", "credit_hours": 68, "semester": 2, "prerequisites": [-5]}
	]`), 0o600))

	a, out, _ := SetupAppTest(t, &Config{Command: CommandCascade, CurriculumPath: path, CourseID: -5})
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "1. tcc (6)")
}

func TestRun_CascadeUnknownCourse(t *testing.T) {
	a, _, _ := SetupAppTest(t, &Config{Command: CommandCascade, CurriculumPath: writeCurriculum(t), CourseID: 999999})
	assert.ErrorContains(t, a.Run(context.Background()), "course 999999 not found")
}

func TestRun_ShowMissingFile(t *testing.T) {
	a, _, _ := SetupAppTest(t, &Config{Command: CommandShow, CurriculumPath: filepath.Join(t.TempDir(), "x.json")})
	assert.ErrorContains(t, a.Run(context.Background()), "failed to read curriculum file")
}

func TestRun_ScrapeAndList(t *testing.T) {
	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/portal/matriz/get-pre-requisitos/0003" {
			w.Write([]byte(curriculumJSON))
			return
		}
		http.NotFound(w, r)
	}))
	defer portal.Close()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.db")
	outDir := filepath.Join(dir, "json")

	a, out, _ := SetupAppTest(t, &Config{
		Command:     CommandScrape,
		CatalogPath: catalogPath,
		Scrape:      ScrapeConfig{OutputDir: outDir, BaseURL: portal.URL, First: 1, Last: 5, Workers: 2, Timeout: time.Second},
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "Successful: 1")
	assert.Contains(t, out.String(), "Failed: 4")
	assert.FileExists(t, filepath.Join(outDir, "0003.json"))

	store, err := catalog.Open(catalogPath)
	require.NoError(t, err)
	entry, err := store.Get(context.Background(), "0003")
	require.NoError(t, err)
	assert.Equal(t, 4, entry.CourseCount)
	require.NoError(t, store.Close())

	list, listOut, _ := SetupAppTest(t, &Config{Command: CommandList, CatalogPath: catalogPath})
	require.NoError(t, list.Run(context.Background()))
	assert.Contains(t, listOut.String(), "0003")

	// The scraped file is loadable as a curriculum.
	show, showOut, _ := SetupAppTest(t, &Config{Command: CommandShow, CurriculumPath: filepath.Join(outDir, "0003.json")})
	require.NoError(t, show.Run(context.Background()))
	assert.Contains(t, showOut.String(), "compiladores")
}

func TestRun_ServeUnknownInitialCurriculum(t *testing.T) {
	a, _, _ := SetupAppTest(t, &Config{Command: CommandServe, CurriculaDir: t.TempDir(), Addr: "127.0.0.1:0", InitialCode: "0404"})
	assert.ErrorContains(t, a.Run(context.Background()), "unknown curriculum")
}

func TestRun_ServeStopsOnCancel(t *testing.T) {
	dir := filepath.Dir(writeCurriculum(t))
	a, _, logs := SetupAppTest(t, &Config{Command: CommandServe, CurriculaDir: dir, Addr: "127.0.0.1:0", InitialCode: "0123"})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "Curriculum loaded.")
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}

func TestRun_RemoteInvalidURL(t *testing.T) {
	a, _, _ := SetupAppTest(t, &Config{Command: CommandRemote, ServerURL: "nope", CourseID: 1, Timeout: time.Second})
	assert.ErrorContains(t, a.Run(context.Background()), "invalid server URL")
}
