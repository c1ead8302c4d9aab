// Package normalisers provides implementations of the Normaliser interface
// for the document formats Deedex accepts. Each normaliser knows how to
// extract text content from the MIME types it declares.
//
// Normalisers are registered with the Registry at startup.
package normalisers
