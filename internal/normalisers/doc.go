// Package normalisers provides implementations of the Normaliser interface
// for the supported document formats. Each normaliser knows how to decode
// a fixed set of file extensions into Documents.
//
// Normalisers are registered with a Registry at startup.
package normalisers
