// Package domain defines the core business entities for deedex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An indexed real-estate document with metadata
//   - Chunk: A searchable unit within a document
//   - DocumentType: The coarse category assigned by classification
//   - RawDocument: Opaque uploaded bytes before text extraction
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
