package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func getHealth(t *testing.T, s *Server) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return resp, body
}

func TestHealthHandler_DatabaseConnected(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New("127.0.0.1:0", db, "release", "")

	resp, body := getHealth(t, s)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "connected", body["database"])
}

func TestHealthHandler_NoDatabaseReportsSkipped(t *testing.T) {
	s := New("127.0.0.1:0", nil, "release", "")

	resp, body := getHealth(t, s)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "skipped", body["database"])
}

func TestRequestIDMiddleware(t *testing.T) {
	s := New("127.0.0.1:0", nil, "release", "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	require.NotEmpty(t, resp.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp = httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	require.Equal(t, "req-42", resp.Header().Get("X-Request-ID"))
}
