package wordproc

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser performs best-effort text recovery from word-processor
// payloads. It does not parse the container format: it strips markup
// tags and binary noise from the decoded bytes and keeps whatever
// readable text remains.
type Normaliser struct{}

// New creates a new word-processor normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Handles reports whether this normaliser accepts the MIME type.
// Word-processor payloads declare types containing "word" or "document".
func (n *Normaliser) Handles(mimeType string) bool {
	lower := strings.ToLower(mimeType)
	return strings.Contains(lower, "word") || strings.Contains(lower, "document")
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Specialised MIME normaliser
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalise converts a word-processor document to a normalised document.
// Decode problems never fail the call: they degrade to less content.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := recoverText(string(raw.Content))

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Filename:  raw.Filename,
		Title:     extractTitle(raw.Filename),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "wordproc"

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// recoverText strips markup and binary noise from decoded bytes.
func recoverText(s string) string {
	s = strings.ToValidUTF8(s, " ")
	s = tagPattern.ReplaceAllString(s, " ")
	s = stripNonPrintable(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripNonPrintable replaces every rune outside printable ASCII with a
// space. Whitespace runes are kept so paragraph boundaries survive until
// collapsing.
func stripNonPrintable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x20 && r <= 0x7E:
			b.WriteRune(r)
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// extractTitle derives a human-readable title from a filename.
func extractTitle(filename string) string {
	name := filepath.Base(filename)

	ext := filepath.Ext(name)
	if ext != "" {
		name = strings.TrimSuffix(name, ext)
	}

	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")

	return name
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
