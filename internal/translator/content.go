package translator

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// EncodingAuto selects the charset per file by sniffing a prefix of the
// content.
const EncodingAuto = "auto"

// sniffLen bounds how much content the charset detector reads.
const sniffLen = 4096

// ContentKind tags deferred content as text, binary, or structured XML.
type ContentKind int

const (
	ContentBinary ContentKind = iota
	ContentText
	ContentXML
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentXML:
		return "xml"
	default:
		return "binary"
	}
}

// Content is a deferred byte stream captured in a FileRecord. The
// underlying stream is opened at most once; the returned reader belongs
// to the caller, who must close it.
type Content struct {
	kind     ContentKind
	encoding string
	open     func() (io.ReadCloser, error)
	opened   bool
}

func newContent(kind ContentKind, encoding string, open func() (io.ReadCloser, error)) *Content {
	return &Content{kind: kind, encoding: encoding, open: open}
}

// Kind reports how the content is tagged.
func (c *Content) Kind() ContentKind { return c.kind }

// Open opens the content stream. Text content is decoded from the
// configured charset to UTF-8. A second Open on the same record fails.
func (c *Content) Open() (io.ReadCloser, error) {
	if c.opened {
		return nil, errors.New("content already opened")
	}
	c.opened = true

	rc, err := c.open()
	if err != nil {
		return nil, err
	}
	if c.kind != ContentText {
		return rc, nil
	}
	return decodeReader(rc, c.encoding)
}

// decodeReader wraps rc so that reads yield UTF-8 decoded from name.
func decodeReader(rc io.ReadCloser, name string) (io.ReadCloser, error) {
	if name == EncodingAuto {
		var err error
		rc, name, err = detectCharset(rc)
		if err != nil {
			rc.Close()
			return nil, err
		}
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		rc.Close()
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return &transformReadCloser{
		Reader: transform.NewReader(rc, enc.NewDecoder()),
		closer: rc,
	}, nil
}

// detectCharset sniffs a prefix of rc and returns a replayable reader
// together with the detected charset name. Detection failures fall back
// to UTF-8 rather than failing the read.
func detectCharset(rc io.ReadCloser) (io.ReadCloser, string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", err
	}

	name := "utf-8"
	if n > 0 {
		if best, derr := chardet.NewTextDetector().DetectBest(buf[:n]); derr == nil && best.Charset != "" {
			name = best.Charset
		}
	}
	replay := &transformReadCloser{
		Reader: io.MultiReader(bytes.NewReader(buf[:n]), rc),
		closer: rc,
	}
	return replay, name, nil
}

// encodeReader wraps r so that reads yield bytes encoded into name from
// UTF-8 input. Auto detection has no meaning for writes, so auto keeps
// the payload as-is.
func encodeReader(r io.Reader, name string) (io.Reader, error) {
	if name == EncodingAuto {
		return r, nil
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return transform.NewReader(r, enc.NewEncoder()), nil
}

// transformReadCloser closes the source stream, not the transform layer.
type transformReadCloser struct {
	io.Reader
	closer io.Closer
}

func (t *transformReadCloser) Close() error { return t.closer.Close() }
