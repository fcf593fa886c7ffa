package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bionic "github.com/tassa-yoniso-manasi-karoto/go-bionic"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(analyzer bionic.Analyzer) http.Handler {
	srv := New(bionic.NewRenderer(analyzer), Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         zerolog.Nop(),
	})
	return srv.Handler()
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestProcess(t *testing.T) {
	h := newTestServer(nil)

	w := postJSON(t, h, "/process", TextRequest{Text: "... end"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp TextResponse
	decode(t, w, &resp)
	assert.Equal(t, "... <b>en</b>d", resp.ProcessedText)
}

func TestClassic(t *testing.T) {
	w := postJSON(t, newTestServer(nil), "/classic", TextRequest{Text: "room 101"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp TextResponse
	decode(t, w, &resp)
	assert.Equal(t, "<b>ro</b>om <b>101</b>", resp.ProcessedText)
}

func TestBionicReading(t *testing.T) {
	analyzer := bionic.AnalyzerFunc(func(ctx context.Context, text string) ([]bionic.MorphToken, error) {
		return []bionic.MorphToken{{Surface: "사과", Pos: bionic.Noun}, {Surface: "!", Pos: bionic.Punctuation}}, nil
	})

	w := postJSON(t, newTestServer(analyzer), "/bionic-reading", TextRequest{Text: "사과!"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp TextResponse
	decode(t, w, &resp)
	assert.Equal(t, "<b>사</b>과 !", resp.ProcessedText)
}

func TestRenderErrors(t *testing.T) {
	failing := func(err error) bionic.Analyzer {
		return bionic.AnalyzerFunc(func(context.Context, string) ([]bionic.MorphToken, error) {
			return nil, err
		})
	}

	tests := []struct {
		name     string
		analyzer bionic.Analyzer
		path     string
		body     interface{}
		status   int
	}{
		{"empty text", nil, "/process", TextRequest{Text: ""}, http.StatusBadRequest},
		{"blank text", nil, "/bionic-reading", TextRequest{Text: " \n"}, http.StatusBadRequest},
		{"bad json", nil, "/process", "not an object", http.StatusBadRequest},
		{"no analyzer", nil, "/bionic-reading", TextRequest{Text: "사과"}, http.StatusServiceUnavailable},
		{"jdk missing", failing(&bionic.AnalyzerError{Unavailable: true, Dependency: "JDK", Hint: "set JAVA_HOME"}),
			"/bionic-reading", TextRequest{Text: "사과"}, http.StatusServiceUnavailable},
		{"analyzer failure", failing(errors.New("tagger crashed")), "/bionic-reading", TextRequest{Text: "사과"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, newTestServer(tt.analyzer), tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp errorResponse
			decode(t, w, &resp)
			assert.NotEmpty(t, resp.Detail)
		})
	}
}

func TestUnavailableDetailCarriesHint(t *testing.T) {
	analyzer := bionic.AnalyzerFunc(func(context.Context, string) ([]bionic.MorphToken, error) {
		return nil, &bionic.AnalyzerError{Unavailable: true, Dependency: "JDK", Hint: "set JAVA_HOME"}
	})
	w := postJSON(t, newTestServer(analyzer), "/bionic-reading", TextRequest{Text: "사과"})

	var resp errorResponse
	decode(t, w, &resp)
	assert.Contains(t, resp.Detail, "JDK")
	assert.Contains(t, resp.Detail, "JAVA_HOME")
}

func TestRootAndHealth(t *testing.T) {
	h := newTestServer(nil)
	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(nil)

	t.Run("allowed preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/process", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("rejected preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/process", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("simple request", func(t *testing.T) {
		b, _ := json.Marshal(TextRequest{Text: "go"})
		req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader(b))
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSDisabledWithoutOrigins(t *testing.T) {
	h := New(bionic.NewRenderer(nil), Options{Logger: zerolog.Nop()}).Handler()

	b, _ := json.Marshal(TextRequest{Text: "go"})
	req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader(b))
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	h := newTestServer(nil)
	postJSON(t, h, "/process", TextRequest{Text: "hello"})
	postJSON(t, h, "/bionic-reading", TextRequest{Text: "hello"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `bionic_render_requests_total{mode="simple",status="ok"} 1`)
	assert.Contains(t, body, `bionic_render_requests_total{mode="advanced",status="error"} 1`)
	assert.Contains(t, body, `bionic_analyzer_failures_total{kind="unavailable"} 1`)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
	long := bytes.Repeat([]byte("가"), 60)
	assert.Equal(t, string(bytes.Repeat([]byte("가"), 50))+"...", preview(string(long)))
}
