package domain

// RawDocument represents opaque uploaded bytes before text extraction.
type RawDocument struct {
	// URI is the original location (file path, upload key, etc).
	URI string

	// Filename is the original file name as uploaded.
	Filename string

	// MIMEType is the declared content type (e.g. "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-specific key-value pairs.
	Metadata map[string]any
}
