package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/docassist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssistant struct {
	count     int
	countErr  error
	reload    *domain.ReloadResult
	reloadErr error
	answer    string
	askErr    error
	asked     string
}

func (s *stubAssistant) Reload(ctx context.Context) (*domain.ReloadResult, error) {
	return s.reload, s.reloadErr
}

func (s *stubAssistant) Ask(ctx context.Context, question string) (string, error) {
	s.asked = question
	if strings.TrimSpace(question) == "" {
		return "", domain.ErrEmptyQuestion
	}
	return s.answer, s.askErr
}

func (s *stubAssistant) SectionsCount(ctx context.Context) (int, error) {
	return s.count, s.countErr
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, a *stubAssistant, method, path, body string, origins ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := SetupRouter(a, RouterConfig{AllowOrigins: origins})

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var payload map[string]any
	if rr.Body.Len() > 0 && strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	}
	return rr, payload
}

func TestHealth(t *testing.T) {
	rr, payload := serve(t, &stubAssistant{}, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", payload["status"])
}

func TestStats(t *testing.T) {
	rr, payload := serve(t, &stubAssistant{count: 42}, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(42), payload["sections_count"])

	// Zero is still reported rather than omitted
	_, payload = serve(t, &stubAssistant{count: 0}, http.MethodGet, "/api/stats", "")
	assert.Equal(t, float64(0), payload["sections_count"])

	rr, payload = serve(t, &stubAssistant{countErr: errors.New("db down")}, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "db down", payload["error"])
}

func TestReload(t *testing.T) {
	a := &stubAssistant{reload: &domain.ReloadResult{DocumentsCount: 3, SectionsCount: 17}}
	rr, payload := serve(t, a, http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(3), payload["documents_count"])
	assert.Equal(t, float64(17), payload["sections_count"])

	rr, payload = serve(t, &stubAssistant{reloadErr: errors.New("disk full")}, http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, false, payload["success"])
	_, hasCount := payload["sections_count"]
	assert.False(t, hasCount)
}

func TestAsk(t *testing.T) {
	a := &stubAssistant{answer: "line one\nline two"}
	rr, payload := serve(t, a, http.MethodPost, "/api/ask", `{"question":"What is X?"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "line one\nline two", payload["answer"])
	assert.Equal(t, "What is X?", a.asked)

	rr, payload = serve(t, a, http.MethodPost, "/api/ask", `{"question":""}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Question vide", payload["error"])

	rr, payload = serve(t, a, http.MethodPost, "/api/ask", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, false, payload["success"])
	msg, _ := payload["error"].(string)
	assert.True(t, strings.HasPrefix(msg, domain.ErrInvalidRequest.Error()+": "), msg)

	rr, payload = serve(t, &stubAssistant{askErr: errors.New("search failed")}, http.MethodPost, "/api/ask", `{"question":"q"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "search failed", payload["error"])
}

func TestCORS(t *testing.T) {
	r := SetupRouter(&stubAssistant{}, RouterConfig{AllowOrigins: []string{"https://docs.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/ask", nil)
	req.Header.Set("Origin", "https://docs.example.com")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://docs.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
