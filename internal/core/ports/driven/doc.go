// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). Services in internal/core/services depend
// on these interfaces; adapters in internal/adapters/driven implement
// them.
package driven
