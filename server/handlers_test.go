package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptbench/scriptbench/config"
	"github.com/scriptbench/scriptbench/harness"
	"github.com/scriptbench/scriptbench/logging"
	"github.com/scriptbench/scriptbench/security"
	"github.com/scriptbench/scriptbench/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRunner returns fixed performance numbers without executing anything.
func stubRunner(ctx context.Context, path, filetype string) (*harness.Result, error) {
	return &harness.Result{
		Filename:     filepath.Base(path),
		ExecTime:     0.01,
		PeakMemoryMB: 1.5,
		ResponseTime: 10,
		Throughput:   100,
	}, nil
}

func stubAnalyzer(path, filetype string) security.Report {
	return security.Report{
		Issues:             []string{"Dangerous function used: eval"},
		VulnerabilityCount: 1,
		Score:              90,
		RiskLevel:          security.RiskLow,
	}
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.DBPath = filepath.Join(base, "test.db")
	cfg.UploadDir = filepath.Join(base, "uploads")
	cfg.ReportsDir = filepath.Join(base, "reports")
	cfg.SignupLogPath = filepath.Join(base, "signups.xlsx")

	store, err := storage.Open(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := New(cfg, store, logging.Nop(),
		WithRunner(stubRunner), WithAnalyzer(stubAnalyzer))
	return srv, srv.Router()
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signupAndLogin(t *testing.T, router *gin.Engine, username, password string) []*http.Cookie {
	t.Helper()
	creds := map[string]string{"username": username, "password": password}

	w := postJSON(t, router, "/v1/signup", creds, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/v1/login", creds, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func uploadFile(t *testing.T, router *gin.Engine, filename, content string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, "/v1/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadRequiresSession(t *testing.T) {
	_, router := newTestServer(t)

	w := uploadFile(t, router, "a.py", "print(1)", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, router := newTestServer(t)

	w := postJSON(t, router, "/v1/signup", map[string]string{"username": "alice", "password": "secret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/v1/login", map[string]string{"username": "alice", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadRunAnalyzePersist(t *testing.T) {
	_, router := newTestServer(t)
	cookies := signupAndLogin(t, router, "alice", "secret")

	w := uploadFile(t, router, "danger.py", "eval(x)\n", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Performance harness.Result  `json:"performance"`
		Security    security.Report `json:"security"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "danger.py", resp.Performance.Filename)
	assert.Equal(t, 90, resp.Security.Score)
	assert.Equal(t, security.RiskLow, resp.Security.RiskLevel)

	// The run must show up in history.
	req, _ := http.NewRequest(http.MethodGet, "/v1/history", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	hw := httptest.NewRecorder()
	router.ServeHTTP(hw, req)
	require.Equal(t, http.StatusOK, hw.Code)

	var histResp struct {
		History []storage.HistoryEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(hw.Body.Bytes(), &histResp))
	require.Len(t, histResp.History, 1)
	assert.Equal(t, "danger.py", histResp.History[0].Filename)
	assert.Equal(t, 90, histResp.History[0].SecurityScore)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	_, router := newTestServer(t)
	cookies := signupAndLogin(t, router, "bob", "secret")

	w := uploadFile(t, router, "notes.txt", "hello", cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRerunMissingFile(t *testing.T) {
	_, router := newTestServer(t)
	cookies := signupAndLogin(t, router, "carol", "secret")

	w := postJSON(t, router, "/v1/rerun/never.py", nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRerunAfterUpload(t *testing.T) {
	_, router := newTestServer(t)
	cookies := signupAndLogin(t, router, "dave", "secret")

	w := uploadFile(t, router, "x.sql", "SELECT 1;", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/v1/rerun/x.sql", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func getWithCookies(t *testing.T, router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReportDownloadAfterUpload(t *testing.T) {
	_, router := newTestServer(t)
	cookies := signupAndLogin(t, router, "frank", "secret")

	w := uploadFile(t, router, "a.py", "eval(x)\n", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = getWithCookies(t, router, "/v1/report/a.py", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Report storage.RunRecord `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a.py", resp.Report.Filename)
	assert.Equal(t, "py", resp.Report.Filetype)
	assert.Equal(t, 90, resp.Report.SecurityScore)
	assert.Equal(t, security.RiskLow, resp.Report.RiskLevel)
	assert.Equal(t, []string{"Dangerous function used: eval"}, resp.Report.Issues)
	assert.InDelta(t, 0.01, resp.Report.ExecTime, 1e-9)
}

func TestReportDownloadUnknownFile(t *testing.T) {
	_, router := newTestServer(t)
	cookies := signupAndLogin(t, router, "grace", "secret")

	w := getWithCookies(t, router, "/v1/report/never.py", cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	_, router := newTestServer(t)
	cookies := signupAndLogin(t, router, "erin", "secret")

	w := postJSON(t, router, "/v1/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = uploadFile(t, router, "a.py", "print(1)", cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSanitizeUpload(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		filename string
		filetype string
		ok       bool
	}{
		{"plain_py", "a.py", "a.py", "py", true},
		{"plain_sql", "q.SQL", "q.SQL", "sql", true},
		{"path_stripped", "../../etc/a.py", "a.py", "py", true},
		{"windows_path_stripped", `c:\tmp\a.py`, "a.py", "py", true},
		{"disallowed_extension", "a.txt", "", "", false},
		{"no_extension", "script", "", "", false},
		{"dot_only", ".", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename, filetype, ok := sanitizeUpload(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.filename, filename)
			assert.Equal(t, tt.filetype, filetype)
		})
	}
}
