package normalisers

import (
	"github.com/parcelworks/deedex-cli/internal/core/ports/driven"
	"github.com/parcelworks/deedex-cli/internal/normalisers/plaintext"
	"github.com/parcelworks/deedex-cli/internal/normalisers/wordproc"
)

// Registry selects the appropriate normaliser for a MIME type.
// When several normalisers handle the same type, the one with the
// highest priority wins.
type Registry struct {
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.normalisers = append(r.normalisers, n)
}

// ForMIMEType returns the highest-priority normaliser that handles
// the given MIME type, or nil if none does.
func (r *Registry) ForMIMEType(mimeType string) driven.Normaliser {
	var best driven.Normaliser
	for _, n := range r.normalisers {
		if !n.Handles(mimeType) {
			continue
		}
		if best == nil || n.Priority() > best.Priority() {
			best = n
		}
	}
	return best
}

// DefaultRegistry returns a registry with the built-in normalisers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(wordproc.New())
	return r
}
