package http

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/york1996-max/filebridge/internal/logging"
	"github.com/york1996-max/filebridge/internal/monitoring"
	"github.com/york1996-max/filebridge/internal/service"
	"github.com/york1996-max/filebridge/internal/translator"
	"github.com/york1996-max/filebridge/internal/types"
)

// sniffLen bounds how much content is read to detect a download's MIME type.
const sniffLen = 3072

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
	log      *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics, log *logging.Logger) *Handlers {
	return &Handlers{
		registry: registry,
		metrics:  metrics,
		log:      log,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "filebridge",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"sources": h.registry.Stats(),
	})
}

// ListProcedures lists all registered sources and their procedures
func (h *Handlers) ListProcedures(c *gin.Context) {
	var category *types.Category
	if s := c.Query("category"); s != "" {
		cat := types.Category(s)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": h.registry.List(category),
		"stats":   h.registry.Stats(),
	})
}

// executeRequest is the body of a procedure execution call.
type executeRequest struct {
	Path string `json:"path"`
	// Content carries the saveFile payload: plain text for the text
	// and xml kinds, base64 for binary.
	Content     *string  `json:"content"`
	ContentKind string   `json:"content_kind"`
	Columns     []string `json:"columns"`
}

// ExecuteProcedure runs source/procedure from the URL and drains the
// execution into a row set.
func (h *Handlers) ExecuteProcedure(c *gin.Context) {
	source := c.Param("source")
	procedure := c.Param("name")

	var body executeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	req := translator.Request{
		Path:    body.Path,
		Columns: body.Columns,
	}
	if body.Content != nil {
		payload, err := decodePayload(*body.Content, body.ContentKind)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Content = payload
	}

	start := time.Now()
	exec, err := h.registry.CreateExecution(c.Request.Context(), source+"."+procedure, req)
	if err != nil {
		h.metrics.RecordProcedure(source, procedure, "error", 0, time.Since(start))
		h.log.Warn("execution failed",
			zap.String("source", source),
			zap.String("procedure", procedure),
			zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	defer exec.Close()

	rows, err := drainRows(exec)
	if err != nil {
		h.metrics.RecordProcedure(source, procedure, "error", len(rows), time.Since(start))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	h.metrics.RecordProcedure(source, procedure, "ok", len(rows), time.Since(start))

	data, err := sonic.Marshal(types.Result{Success: true, Rows: rows})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// DownloadFile streams one file's raw content, detecting its MIME type
// from a sniffed prefix.
func (h *Handlers) DownloadFile(c *gin.Context) {
	source := c.Param("source")
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter required"})
		return
	}

	exec, err := h.registry.CreateExecution(c.Request.Context(), source+"."+translator.ProcGetFiles, translator.Request{Path: path})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	defer exec.Close()

	rec, err := exec.Next()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found: " + path})
		return
	}

	rc, err := rec.Content.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer rc.Close()

	buf := make([]byte, sniffLen)
	n, rerr := io.ReadFull(rc, buf)
	if rerr != nil && rerr != io.EOF && rerr != io.ErrUnexpectedEOF {
		c.JSON(http.StatusInternalServerError, gin.H{"error": rerr.Error()})
		return
	}
	mtype := mimetype.Detect(buf[:n])

	length := int64(-1)
	if rec.Size != nil {
		length = *rec.Size
	}
	c.DataFromReader(http.StatusOK, length, mtype.String(),
		io.MultiReader(bytes.NewReader(buf[:n]), rc), nil)
}

// drainRows pulls an execution to exhaustion, materializing content.
func drainRows(exec translator.Execution) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	for {
		rec, err := exec.Next()
		if err != nil {
			return rows, err
		}
		if rec == nil {
			return rows, nil
		}

		row := map[string]interface{}{
			translator.ColumnFilePath: rec.Name,
		}
		if rec.Content != nil {
			rc, err := rec.Content.Open()
			if err != nil {
				return rows, err
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return rows, err
			}
			if rec.Content.Kind() == translator.ContentText {
				row[translator.ColumnFile] = string(data)
			} else {
				row[translator.ColumnFile] = base64.StdEncoding.EncodeToString(data)
			}
		}
		if rec.LastModified != nil {
			row[translator.ColumnLastModified] = rec.LastModified.UTC().Format(time.RFC3339Nano)
		}
		if rec.Created != nil {
			row[translator.ColumnCreated] = rec.Created.UTC().Format(time.RFC3339Nano)
		}
		if rec.Size != nil {
			row[translator.ColumnSize] = *rec.Size
		}
		rows = append(rows, row)
	}
}

// decodePayload builds a saveFile payload from the request body.
func decodePayload(content, kind string) (*translator.Payload, error) {
	switch kind {
	case "", "text":
		return &translator.Payload{Kind: translator.ContentText, Reader: strings.NewReader(content)}, nil
	case "xml":
		return &translator.Payload{Kind: translator.ContentXML, Reader: strings.NewReader(content)}, nil
	case "binary":
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, err
		}
		return &translator.Payload{Kind: translator.ContentBinary, Reader: bytes.NewReader(data)}, nil
	default:
		return nil, &translator.InvalidRequestError{Reason: "unknown content kind " + kind}
	}
}

// statusFor maps the adapter error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case translator.IsInvalidRequest(err):
		return http.StatusBadRequest
	case translator.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
