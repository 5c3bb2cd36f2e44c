package remote

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/coursegrid/internal/server"
)

func TestDecodeCascade(t *testing.T) {
	c, err := decodeCascade(map[string]any{
		"id":     float64(10),
		"levels": []any{[]any{float64(11), float64(12)}, []any{float64(13)}},
	})
	require.NoError(t, err)
	assert.Equal(t, &Cascade{ID: 10, Levels: [][]int{{11, 12}, {13}}}, c)

	_, err = decodeCascade("not an object")
	assert.ErrorContains(t, err, "failed to decode cascade payload")
}

func TestFetchCascade_InvalidURL(t *testing.T) {
	_, err := FetchCascade(context.Background(), "localhost", 1, time.Second)
	assert.ErrorContains(t, err, "invalid server URL")
}

func TestFetchCascade_AgainstServer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002.json"), []byte(`[
	  {"id": 10, "name": "D", "credit_hours": 60, "semester": 1},
	  {"id": 11, "name": "E", "credit_hours": 60, "semester": 2, "prerequisites": [10]},
	  {"id": 12, "name": "F", "credit_hours": 60, "semester": 2, "prerequisites": [10]},
	  {"id": 13, "name": "G", "credit_hours": 60, "semester": 3, "prerequisites": [11, 12]}
	]`), 0o600))

	srv := server.New(context.Background(), dir)
	_, err := srv.Load(context.Background(), "0002")
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer func() {
		ts.Close()
		srv.Close()
	}()

	c, err := FetchCascade(context.Background(), ts.URL, 10, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10, c.ID)
	assert.Equal(t, [][]int{{11, 12}, {13}}, c.Levels)
}
