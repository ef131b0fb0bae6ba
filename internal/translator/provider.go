package translator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/york1996-max/filebridge/internal/fileaccess"
	"github.com/york1996-max/filebridge/internal/logging"
	"github.com/york1996-max/filebridge/internal/types"
)

// Procedure names, matched case-insensitively.
const (
	ProcGetTextFiles = "getTextFiles"
	ProcGetFiles     = "getFiles"
	ProcSaveFile     = "saveFile"
	ProcDeleteFile   = "deleteFile"
)

// Result column names for the list procedures.
const (
	ColumnFile         = "file"
	ColumnFilePath     = "filePath"
	ColumnLastModified = "lastModified"
	ColumnCreated      = "created"
	ColumnSize         = "size"
)

// Config carries per-source adapter settings. It is passed explicitly
// so that sources with different settings can coexist.
type Config struct {
	// Encoding is the IANA charset name used to decode text content
	// and encode text payloads. EncodingAuto sniffs per file.
	Encoding string
	// FailOnMissing makes an unresolved pattern or path an error for
	// list and delete procedures instead of an empty result or no-op.
	FailOnMissing bool
}

// DefaultConfig returns the default adapter settings.
func DefaultConfig() Config {
	return Config{Encoding: "utf-8", FailOnMissing: true}
}

// Provider exposes the file procedures for one fileaccess source.
type Provider struct {
	id       string
	category types.Category
	access   fileaccess.FileAccess
	cfg      Config
	log      *logging.Logger
}

// New creates a provider over the given source. The provider is
// agnostic to which fileaccess realization is injected.
func New(id string, category types.Category, access fileaccess.FileAccess, cfg Config, log *logging.Logger) *Provider {
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Provider{
		id:       id,
		category: category,
		access:   access,
		cfg:      cfg,
		log:      log.WithSource(id),
	}
}

// ID returns the source identifier.
func (p *Provider) ID() string { return p.id }

// Definition returns the declarative procedure metadata for this source.
func (p *Provider) Definition() types.Service {
	listColumns := func(contentType string) []types.Column {
		return []types.Column{
			{Name: ColumnFile, Type: contentType},
			{Name: ColumnFilePath, Type: "string"},
			{Name: ColumnLastModified, Type: "timestamp"},
			{Name: ColumnCreated, Type: "timestamp"},
			{Name: ColumnSize, Type: "long"},
		}
	}
	pathParam := types.Parameter{
		Name:        "pathAndPattern",
		Type:        "string",
		Description: "The path and pattern of what files to return",
		Required:    true,
	}

	return types.Service{
		ID:          p.id,
		Name:        p.id,
		Description: "File procedures over a " + string(p.category) + " source",
		Category:    p.category,
		Procedures: []types.Procedure{
			{
				Name:        ProcGetTextFiles,
				Description: "Returns text files that match the given path and pattern",
				Parameters:  []types.Parameter{pathParam},
				ResultSet:   listColumns("clob"),
			},
			{
				Name:        ProcGetFiles,
				Description: "Returns files that match the given path and pattern",
				Parameters:  []types.Parameter{pathParam},
				ResultSet:   listColumns("blob"),
			},
			{
				Name:        ProcSaveFile,
				Description: "Saves the given value to the given path, overwriting any existing file",
				Parameters: []types.Parameter{
					{Name: "filePath", Type: "string", Description: "Target path", Required: true},
					{Name: "file", Type: "object", Description: "The contents to save: text, binary, or XML", Required: true},
				},
			},
			{
				Name:        ProcDeleteFile,
				Description: "Deletes the given file path",
				Parameters: []types.Parameter{
					{Name: "filePath", Type: "string", Description: "Path to delete", Required: true},
				},
			},
		},
	}
}

// CreateExecution validates the request and starts the procedure. List
// procedures resolve their file set here; save and delete perform their
// mutation here and return an already-completed execution.
func (p *Provider) CreateExecution(ctx context.Context, req Request) (Execution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case strings.EqualFold(req.Procedure, ProcGetTextFiles):
		return p.list(req, true)
	case strings.EqualFold(req.Procedure, ProcGetFiles):
		return p.list(req, false)
	case strings.EqualFold(req.Procedure, ProcSaveFile):
		return p.save(req)
	case strings.EqualFold(req.Procedure, ProcDeleteFile):
		return p.delete(req)
	default:
		return nil, fmt.Errorf("unknown procedure %q", req.Procedure)
	}
}

func (p *Provider) list(req Request, text bool) (Execution, error) {
	if req.Path == "" {
		return nil, &InvalidRequestError{Reason: "path must not be empty"}
	}
	files, err := p.access.Resolve(req.Path)
	if err != nil {
		return nil, err
	}
	p.log.Debug("getting files",
		zap.String("pattern", req.Path),
		zap.Int("count", len(files)))
	if len(files) == 0 && p.cfg.FailOnMissing {
		return nil, &NotFoundError{Pattern: req.Path}
	}
	return &listExecution{
		access:   p.access,
		files:    files,
		text:     text,
		encoding: p.cfg.Encoding,
		wantMeta: wantsMetadata(req.Columns),
	}, nil
}

func (p *Provider) save(req Request) (Execution, error) {
	if req.Path == "" || req.Content == nil || req.Content.Reader == nil {
		return nil, &InvalidRequestError{Reason: "saveFile requires a path and non-null content"}
	}
	p.log.Debug("saving", zap.String("path", req.Path))

	r := req.Content.Reader
	if req.Content.Kind == ContentText {
		var err error
		if r, err = encodeReader(r, p.cfg.Encoding); err != nil {
			return nil, &WriteError{Path: req.Path, Err: err}
		}
	}
	if err := p.access.Write(req.Path, r); err != nil {
		return nil, &WriteError{Path: req.Path, Err: err}
	}
	return completedExecution{}, nil
}

func (p *Provider) delete(req Request) (Execution, error) {
	if req.Path == "" {
		return nil, &InvalidRequestError{Reason: "deleteFile requires a path"}
	}
	p.log.Debug("deleting", zap.String("path", req.Path))

	removed, err := p.access.Remove(req.Path)
	if err != nil {
		return nil, &DeleteError{Path: req.Path, Err: err}
	}
	if !removed && p.cfg.FailOnMissing {
		return nil, &NotFoundError{Pattern: req.Path}
	}
	return completedExecution{}, nil
}
