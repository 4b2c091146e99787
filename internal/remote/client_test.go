package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nhle/checkin/internal/model"
)

func testSettings() model.Settings {
	return model.Settings{Owner: "nhle", Repo: "checkin-data", Branch: "main"}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(testSettings(), "test-token", time.Second)
	c.apiBase = srv.URL
	return c
}

// contentsBody renders a contents-API read response for the given raw
// document content.
func contentsBody(content, sha string) string {
	b, _ := json.Marshal(contentsResponse{
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		SHA:     sha,
	})
	return string(b)
}

func TestGetFileDecodesContentAndSHA(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("auth header = %q", got)
		}
		if got := r.URL.Query().Get("ref"); got != "main" {
			t.Errorf("ref = %q, want main", got)
		}
		fmt.Fprint(w, contentsBody(`{"hello":true}`, "abc123"))
	}))

	content, sha, found, err := c.GetFile(context.Background(), "data/meta.json")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if !found {
		t.Fatal("found = false for an existing document")
	}
	if string(content) != `{"hello":true}` {
		t.Errorf("content = %q", content)
	}
	if sha != "abc123" {
		t.Errorf("sha = %q, want abc123", sha)
	}
}

func TestGetFileHandlesWrappedBase64(t *testing.T) {
	// The API inserts newlines into long base64 payloads.
	encoded := base64.StdEncoding.EncodeToString([]byte("payload"))
	wrapped := encoded[:4] + "\n" + encoded[4:] + "\n"
	body, _ := json.Marshal(contentsResponse{Content: wrapped, SHA: "s"})

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))

	content, _, _, err := c.GetFile(context.Background(), "data/tasks.json")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if string(content) != "payload" {
		t.Errorf("content = %q, want payload", content)
	}
}

func TestGetFileAbsentIsNotAnError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, _, found, err := c.GetFile(context.Background(), "data/tasks.json")
	if err != nil {
		t.Fatalf("GetFile on missing document: %v", err)
	}
	if found {
		t.Error("found = true for a missing document")
	}
}

func TestGetFileAuthError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, _, _, err := c.GetFile(context.Background(), "data/tasks.json")
	if !IsAuthError(err) {
		t.Errorf("err = %v, want AuthError", err)
	}
}

func TestGetFileNotConfigured(t *testing.T) {
	c := NewClient(model.Settings{}, "", time.Second)
	_, _, _, err := c.GetFile(context.Background(), "data/tasks.json")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestPutFileSendsObservedSHA(t *testing.T) {
	var putBody putRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, contentsBody("old", "sha-current"))
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Fatalf("decoding put body: %v", err)
			}
			fmt.Fprint(w, `{}`)
		}
	}))

	if err := c.PutFile(context.Background(), "data/tasks.json", []byte("new")); err != nil {
		t.Fatalf("PutFile: %v", err)
	}

	if putBody.SHA != "sha-current" {
		t.Errorf("put sha = %q, want the observed sha-current", putBody.SHA)
	}
	if putBody.Branch != "main" {
		t.Errorf("put branch = %q, want main", putBody.Branch)
	}
	decoded, _ := base64.StdEncoding.DecodeString(putBody.Content)
	if string(decoded) != "new" {
		t.Errorf("put content = %q, want new", decoded)
	}
}

func TestPutFileRetriesConflictOnce(t *testing.T) {
	var (
		gets, puts int
		shas       []string
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets++
			fmt.Fprint(w, contentsBody("old", fmt.Sprintf("sha-%d", gets)))
		case http.MethodPut:
			puts++
			var body putRequest
			json.NewDecoder(r.Body).Decode(&body)
			shas = append(shas, body.SHA)
			if puts == 1 {
				w.WriteHeader(http.StatusConflict)
				return
			}
			fmt.Fprint(w, `{}`)
		}
	}))

	if err := c.PutFile(context.Background(), "data/tasks.json", []byte("x")); err != nil {
		t.Fatalf("PutFile: %v", err)
	}
	if puts != 2 {
		t.Errorf("puts = %d, want a single retry", puts)
	}
	if len(shas) != 2 || shas[0] == shas[1] {
		t.Errorf("retry reused the stale sha: %v", shas)
	}
}

func TestPutFileConflictExhaustion(t *testing.T) {
	var puts int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, contentsBody("old", "sha"))
		case http.MethodPut:
			puts++
			w.WriteHeader(http.StatusConflict)
		}
	}))

	err := c.PutFile(context.Background(), "data/tasks.json", []byte("x"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if puts != maxPutAttempts {
		t.Errorf("puts = %d, want exactly %d attempts", puts, maxPutAttempts)
	}
}

func TestPutFileSurfacesAPIMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"Resource not accessible by integration"}`)
		}
	}))

	err := c.PutFile(context.Background(), "data/tasks.json", []byte("x"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if !strings.Contains(apiErr.Message, "Resource not accessible") {
		t.Errorf("message = %q, want the remote's message", apiErr.Message)
	}
}

func TestPullAbsentDocumentsSeedEmptySnapshot(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	snap, err := c.Pull(context.Background())
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if len(snap.Tasks) != 0 || len(snap.Checkins) != 0 {
		t.Errorf("absent documents produced non-empty collections: %+v", snap)
	}
	if snap.Meta.SchemaVersion != model.CurrentSchemaVersion {
		t.Errorf("meta = %+v, want the default seed", snap.Meta)
	}
}

func TestPullMalformedDocumentDegradesToEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "tasks.json"):
			fmt.Fprint(w, contentsBody("this is not json", "s1"))
		case strings.Contains(r.URL.Path, "checkins.json"):
			fmt.Fprint(w, contentsBody(`[{"id":"c1","taskId":"t1","date":"2024-01-01","state":"done","source":"scheduled"}]`, "s2"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	snap, err := c.Pull(context.Background())
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if len(snap.Tasks) != 0 {
		t.Errorf("malformed tasks document produced %d tasks, want empty seed", len(snap.Tasks))
	}
	if len(snap.Checkins) != 1 {
		t.Errorf("healthy checkins document did not survive: %+v", snap.Checkins)
	}
}

func TestPushWritesThreeDocumentsWithFreshSyncStamp(t *testing.T) {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	written := make(map[string]string)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			var body putRequest
			json.NewDecoder(r.Body).Decode(&body)
			decoded, _ := base64.StdEncoding.DecodeString(body.Content)
			written[r.URL.Path] = string(decoded)
			fmt.Fprint(w, `{}`)
		}
	}))

	snap := model.Snapshot{Meta: model.Meta{SchemaVersion: 1, ClientID: "me"}}
	if err := c.Push(context.Background(), snap, now); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if len(written) != 3 {
		t.Fatalf("wrote %d documents, want 3: %v", len(written), written)
	}

	var meta model.Meta
	for path, content := range written {
		if strings.HasSuffix(path, "meta.json") {
			if err := json.Unmarshal([]byte(content), &meta); err != nil {
				t.Fatalf("pushed meta does not decode: %v", err)
			}
		}
	}
	if !meta.LastSyncAt.Equal(now) {
		t.Errorf("pushed lastSyncAt = %v, want %v", meta.LastSyncAt, now)
	}
}
