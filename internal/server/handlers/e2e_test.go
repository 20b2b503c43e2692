package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appsmith/internal/forge"
	"git.home.luguber.info/inful/appsmith/internal/genai"
	"git.home.luguber.info/inful/appsmith/internal/notify"
	"git.home.luguber.info/inful/appsmith/internal/pipeline"
	"git.home.luguber.info/inful/appsmith/internal/publish"
	"git.home.luguber.info/inful/appsmith/internal/server/responses"
	"git.home.luguber.info/inful/appsmith/internal/task"
)

const e2eHTML = "<!DOCTYPE html>\n<html><body><h1>Counter</h1></body></html>"

// TestHandleBuildRoundTwoEndToEnd drives a round-2 request through the real
// generator, publisher, forge client, and notifier, with httptest servers
// standing in for Groq, GitHub, and the evaluation endpoint. The update path
// has no propagation waits, so the whole run is immediate.
func TestHandleBuildRoundTwoEndToEnd(t *testing.T) {
	groq := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"role":    "assistant",
					"content": "Here is the app:\n```html\n" + e2eHTML + "\n```\nEnjoy.",
				}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer groq.Close()

	var indexBody, readmeBody []byte
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/octo/demo1/contents/index.html":
			writeE2EJSON(t, w, http.StatusOK, map[string]any{"sha": "blob-old-index"})
		case r.Method == http.MethodPut && r.URL.Path == "/repos/octo/demo1/contents/index.html":
			var payload struct {
				Message string `json:"message"`
				Content string `json:"content"`
				SHA     string `json:"sha"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "Update app for round 2", payload.Message)
			require.Equal(t, "blob-old-index", payload.SHA)
			var err error
			indexBody, err = base64.StdEncoding.DecodeString(payload.Content)
			require.NoError(t, err)
			writeE2EJSON(t, w, http.StatusOK, map[string]any{"commit": map[string]any{"sha": "commit-idx"}})
		case r.Method == http.MethodGet && r.URL.Path == "/repos/octo/demo1/contents/README.md":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/repos/octo/demo1/contents/README.md":
			var payload struct {
				Message string `json:"message"`
				Content string `json:"content"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "Update README for round 2", payload.Message)
			var err error
			readmeBody, err = base64.StdEncoding.DecodeString(payload.Content)
			require.NoError(t, err)
			writeE2EJSON(t, w, http.StatusCreated, map[string]any{"commit": map[string]any{"sha": "commit-readme"}})
		default:
			t.Errorf("unexpected GitHub call: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer gh.Close()

	var notified notify.Payload
	eval := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&notified))
		w.WriteHeader(http.StatusOK)
	}))
	defer eval.Close()

	gen, err := genai.NewClient("key", groq.URL)
	require.NoError(t, err)
	ghClient, err := forge.NewGitHubClient("tok", "octo", gh.URL, "https://github.com")
	require.NoError(t, err)

	pipe := pipeline.New(gen, publish.NewPublisher(ghClient), ghClient, notify.NewNotifier(), nil, nil)
	h := NewBuildHandlers(testConfig(), pipe)

	body, err := json.Marshal(task.Request{
		Email:         "a@b.com",
		Secret:        "s3cret",
		Task:          "demo1",
		Round:         2,
		Nonce:         "xyz",
		Brief:         "a counter app",
		Checks:        []string{"has a button"},
		EvaluationURL: eval.URL,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.HandleBuild(rec, httptest.NewRequest(http.MethodPost, "/build", bytes.NewBuffer(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.BuildResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.Equal(t, "https://github.com/octo/demo1", resp.RepoURL)
	require.Equal(t, "https://octo.github.io/demo1/", resp.PagesURL)
	require.Equal(t, "commit-idx", resp.CommitSHA)

	require.Equal(t, e2eHTML, string(indexBody))
	require.True(t, strings.Contains(string(readmeBody), "demo1"))

	require.Equal(t, notify.Payload{
		Email:     "a@b.com",
		Task:      "demo1",
		Round:     2,
		Nonce:     "xyz",
		RepoURL:   "https://github.com/octo/demo1",
		CommitSHA: "commit-idx",
		PagesURL:  "https://octo.github.io/demo1/",
	}, notified)
}

func writeE2EJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}
