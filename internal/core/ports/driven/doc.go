// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): storage, lexical and vector indexes,
// and the embedding service.
package driven
