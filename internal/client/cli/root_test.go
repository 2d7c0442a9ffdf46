package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/octosync/internal/client/storage/encrypted"
	"github.com/iudanet/octosync/internal/client/sync"
	"github.com/iudanet/octosync/internal/config"
	"github.com/iudanet/octosync/pkg/api"
)

// execute запускает корневую команду с общими флагами теста
func execute(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand("test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))

	base := []string{"--env-dir", dir, "--db", filepath.Join(dir, "client.db")}
	root.SetArgs(append(args, base...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_OfflineLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "", "create", "projects", `{"name":"Website"}`, "--remote", "none")
	require.NoError(t, err)

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Website", created["name"])

	out, err = execute(t, dir, `{"name":"Website v2"}`, "update", "projects", id, "-f", "-", "--remote", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Website v2")

	out, err = execute(t, dir, "", "list", "projects", "--local", "--remote", "none")
	require.NoError(t, err)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Website v2", listed[0]["name"])

	out, err = execute(t, dir, "", "status", "projects", "--remote", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Remote: none")

	_, err = execute(t, dir, "", "sync", "--remote", "none")
	assert.ErrorIs(t, err, sync.ErrNoRemote)

	_, err = execute(t, dir, "", "delete", "projects", id, "--yes", "--remote", "none")
	require.NoError(t, err)

	_, err = execute(t, dir, "", "get", "projects", id, "--remote", "none")
	assert.ErrorIs(t, err, sync.ErrNotFound)
}

func TestRootCommand_S3RemoteUnreachable(t *testing.T) {
	t.Setenv("OCTOSYNC_REMOTE_S3_ENDPOINT", "127.0.0.1:1")
	t.Setenv("OCTOSYNC_SYNC_LOOKUP_TIMEOUT", "200ms")
	t.Setenv("OCTOSYNC_SYNC_WRITE_TIMEOUT", "200ms")
	t.Setenv("OCTOSYNC_SYNC_BULK_TIMEOUT", "1s")
	t.Setenv("OCTOSYNC_SYNC_BACKOFF", "1ms")

	dir := t.TempDir()

	out, err := execute(t, dir, "", "create", "projects", `{"name":"Offline"}`, "--remote", config.RemoteS3)
	require.NoError(t, err)

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	out, err = execute(t, dir, "", "list", "projects", "--local", "--remote", config.RemoteS3)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Offline")

	_, err = execute(t, dir, "", "delete", "projects", id, "--yes", "--remote", config.RemoteS3)
	require.NoError(t, err)

	out, err = execute(t, dir, "", "list", "projects", "--local", "--remote", config.RemoteS3)
	require.NoError(t, err)
	assert.NotContains(t, out, id)
}

func TestRootCommand_WrongPassphraseKeepsData(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("OCTOSYNC_PASSPHRASE", "correct horse battery")
	out, err := execute(t, dir, "", "create", "projects", `{"name":"Secret"}`, "--remote", "none")
	require.NoError(t, err)
	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &created))

	t.Setenv("OCTOSYNC_PASSPHRASE", "wrong horse battery!")
	_, err = execute(t, dir, "", "create", "projects", `{"name":"Other"}`, "--remote", "none")
	assert.ErrorIs(t, err, encrypted.ErrWrongPassphrase)

	t.Setenv("OCTOSYNC_PASSPHRASE", "correct horse battery")
	out, err = execute(t, dir, "", "list", "projects", "--local", "--remote", "none")
	require.NoError(t, err)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created["id"], listed[0]["id"])
	assert.Equal(t, "Secret", listed[0]["name"])
}

func TestRootCommand_Arguments(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "", "get", "projects")
	assert.Error(t, err)

	_, err = execute(t, dir, "", "create", "projects", "--remote", "none")
	assert.ErrorContains(t, err, "missing JSON payload")

	_, err = execute(t, dir, "", "create", "projects", "{}", "-f", "x.json", "--remote", "none")
	assert.Error(t, err)

	_, err = execute(t, dir, "", "list", "projects", "--remote", "ftp")
	assert.ErrorContains(t, err, "invalid config")
}

func TestRootCommand_HTTPRemote(t *testing.T) {
	var (
		mu       gosync.Mutex
		upserted []api.Record
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cli-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			_ = json.NewEncoder(w).Encode(api.InsertResponse{ID: "x", Created: true})
		case http.MethodPut:
			var req api.UpsertRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			upserted = append(upserted, req.Records...)
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(api.UpsertResponse{Upserted: len(req.Records)})
		default:
			_ = json.NewEncoder(w).Encode(api.RecordsResponse{Records: []api.Record{}})
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	remoteFlags := []string{"--remote", config.RemoteHTTP, "--server", server.URL, "--token", "cli-token"}

	_, err := execute(t, dir, "", append([]string{"create", "leads", `{"company":"ACME"}`}, remoteFlags...)...)
	require.NoError(t, err)

	out, err := execute(t, dir, "", append([]string{"sync", "leads"}, remoteFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "All 1 collection(s) synchronized")

	mu.Lock()
	require.Len(t, upserted, 1)
	assert.Equal(t, "ACME", upserted[0]["company"])
	mu.Unlock()

	out, err = execute(t, dir, "", append([]string{"status", "leads"}, remoteFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Remote: http "+server.URL)
	assert.NotContains(t, out, "never")
}
