package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte("game_id\n1\n"), 0o644))

	rc, err := NewClient("").Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "game_id\n1\n", string(body))

	_, err = NewClient("").Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/events.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, "game_id\n7\n")
	}))
	defer srv.Close()

	rc, err := NewClient("s3cret").Open(context.Background(), srv.URL+"/events.csv")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "game_id\n7\n", string(body))

	_, err = NewClient("s3cret").Open(context.Background(), srv.URL+"/nope.csv")
	assert.ErrorContains(t, err, "HTTP 404")

	_, err = NewClient("").Open(context.Background(), srv.URL+"/events.csv")
	assert.ErrorContains(t, err, "HTTP 401")
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.org/e.csv"))
	assert.True(t, IsRemote("http://localhost/e.csv"))
	assert.False(t, IsRemote("data/e.csv"))
}
