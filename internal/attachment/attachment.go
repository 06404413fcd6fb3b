// Package attachment loads resume and context files sent alongside prompts.
package attachment

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxSize is the largest file Load accepts.
const MaxSize = 20 << 20

var (
	// ErrUnsupported is returned for files that are neither PDF nor text.
	ErrUnsupported = errors.New("unsupported attachment format")
	// ErrTooLarge is returned for files larger than MaxSize.
	ErrTooLarge = errors.New("attachment too large")
)

// Format represents an attachment format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatText
	FormatMarkdown
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// MIMEType returns the media type sent to providers.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown"
	case FormatText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// IsText reports whether the format is inlined into prompts as text.
func (f Format) IsText() bool {
	return f == FormatText || f == FormatMarkdown
}

// DetectFormat detects the attachment format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt", ".text":
		return FormatText
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes. Content
// without the PDF signature that is valid UTF-8 is reported as text.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 512)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n == 0 {
		return FormatUnknown, fmt.Errorf("file is empty")
	}
	buf = buf[:n]

	if bytes.HasPrefix(buf, []byte("%PDF-")) {
		return FormatPDF, nil
	}
	if utf8.Valid(trimPartialRune(buf)) && !bytes.ContainsRune(buf, 0) {
		return FormatText, nil
	}
	return FormatUnknown, nil
}

// trimPartialRune drops a multi-byte sequence cut off by the read window.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// Attachment is a loaded file.
type Attachment struct {
	Name   string
	Format Format
	Data   []byte
}

// Load reads path and detects its format, preferring the file content over
// the extension when they disagree.
func Load(path string) (*Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat attachment: %w", err)
	}
	if info.Size() > MaxSize {
		return nil, fmt.Errorf("%s: %w (%d bytes, limit %d)", filepath.Base(path), ErrTooLarge, info.Size(), MaxSize)
	}

	sniffed, err := DetectFormatFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	format := DetectFormat(path)
	switch {
	case sniffed == FormatPDF:
		format = FormatPDF
	case sniffed == FormatText && !format.IsText():
		format = FormatText
	case sniffed == FormatUnknown:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}

	data, err := io.ReadAll(io.NewSectionReader(f, 0, info.Size()))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	return &Attachment{
		Name:   filepath.Base(path),
		Format: format,
		Data:   data,
	}, nil
}

// FromText wraps inline text, such as a job description passed on the
// command line, as a text attachment.
func FromText(name, text string) *Attachment {
	return &Attachment{Name: name, Format: FormatText, Data: []byte(text)}
}

// MIMEType returns the attachment's media type.
func (a *Attachment) MIMEType() string {
	return a.Format.MIMEType()
}

// Base64 returns the standard base64 encoding of the content.
func (a *Attachment) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}

// Text returns the content as a string.
func (a *Attachment) Text() string {
	return string(a.Data)
}
