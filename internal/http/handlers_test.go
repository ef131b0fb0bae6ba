package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/york1996-max/filebridge/internal/fileaccess"
	"github.com/york1996-max/filebridge/internal/logging"
	"github.com/york1996-max/filebridge/internal/monitoring"
	"github.com/york1996-max/filebridge/internal/service"
	"github.com/york1996-max/filebridge/internal/translator"
	"github.com/york1996-max/filebridge/internal/types"
)

func newTestRouter(t *testing.T, files map[string]string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	access := fileaccess.NewVirtual()
	for p, content := range files {
		require.NoError(t, access.Put(p, []byte(content), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	}
	provider := translator.New("docs", types.CategoryVirtual, access, translator.DefaultConfig(), nil)

	registry := service.NewRegistry()
	require.NoError(t, registry.Register(provider))

	h := NewHandlers(registry, monitoring.NewMetrics(), logging.NewNop())
	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/procedures", h.ListProcedures)
	router.POST("/procedures/:source/:name", h.ExecuteProcedure)
	router.GET("/files/:source/content", h.DownloadFile)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) types.Result {
	t.Helper()
	var res types.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestRootAndHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "filebridge")

	w = doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestListProcedures(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/procedures", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "getTextFiles")
	assert.Contains(t, w.Body.String(), "deleteFile")

	w = doJSON(t, router, http.MethodGet, "/procedures?category=local", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "getTextFiles")
}

func TestExecuteGetTextFiles(t *testing.T) {
	router := newTestRouter(t, map[string]string{
		"notes/b.txt": "second",
		"notes/a.txt": "first",
	})

	w := doJSON(t, router, http.MethodPost, "/procedures/docs/getTextFiles",
		map[string]interface{}{"path": "notes"})
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeResult(t, w)
	assert.True(t, res.Success)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "notes/a.txt", res.Rows[0]["filePath"])
	assert.Equal(t, "first", res.Rows[0]["file"])
	assert.NotEmpty(t, res.Rows[0]["lastModified"])
}

func TestExecuteGetFilesReturnsBase64(t *testing.T) {
	router := newTestRouter(t, map[string]string{"bin/blob.dat": "raw bytes"})

	w := doJSON(t, router, http.MethodPost, "/procedures/docs/getFiles",
		map[string]interface{}{"path": "bin/blob.dat"})
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeResult(t, w)
	require.Len(t, res.Rows, 1)
	encoded, ok := res.Rows[0]["file"].(string)
	require.True(t, ok)
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", string(decoded))
}

func TestExecuteProjectionOmitsMetadata(t *testing.T) {
	router := newTestRouter(t, map[string]string{"a.txt": "x"})

	w := doJSON(t, router, http.MethodPost, "/procedures/docs/getTextFiles",
		map[string]interface{}{"path": "a.txt", "columns": []string{"file", "filePath"}})
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeResult(t, w)
	require.Len(t, res.Rows, 1)
	assert.NotContains(t, res.Rows[0], "lastModified")
	assert.NotContains(t, res.Rows[0], "size")
}

func TestExecuteSaveThenDownload(t *testing.T) {
	router := newTestRouter(t, nil)

	content := "saved over http"
	w := doJSON(t, router, http.MethodPost, "/procedures/docs/saveFile",
		map[string]interface{}{"path": "out/new.txt", "content": content})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/files/docs/content?path=out/new.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestExecuteSaveBinary(t *testing.T) {
	router := newTestRouter(t, nil)

	payload := []byte{0x01, 0x02, 0xFE}
	w := doJSON(t, router, http.MethodPost, "/procedures/docs/saveFile",
		map[string]interface{}{
			"path":         "bin/raw.dat",
			"content":      base64.StdEncoding.EncodeToString(payload),
			"content_kind": "binary",
		})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/files/docs/content?path=bin/raw.dat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
}

func TestExecuteDelete(t *testing.T) {
	router := newTestRouter(t, map[string]string{"a.txt": "x"})

	w := doJSON(t, router, http.MethodPost, "/procedures/docs/deleteFile",
		map[string]interface{}{"path": "a.txt"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/procedures/docs/getFiles",
		map[string]interface{}{"path": "a.txt"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExecuteErrorStatuses(t *testing.T) {
	router := newTestRouter(t, nil)

	// Missing path is a caller bug.
	w := doJSON(t, router, http.MethodPost, "/procedures/docs/getFiles",
		map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unresolved pattern with failOnMissing on.
	w = doJSON(t, router, http.MethodPost, "/procedures/docs/getFiles",
		map[string]interface{}{"path": "ghost.txt"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unknown source.
	w = doJSON(t, router, http.MethodPost, "/procedures/nosuch/getFiles",
		map[string]interface{}{"path": "a.txt"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// Unknown content kind.
	w = doJSON(t, router, http.MethodPost, "/procedures/docs/saveFile",
		map[string]interface{}{"path": "a.txt", "content": "x", "content_kind": "csv"},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadRequiresPath(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/files/docs/content", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
