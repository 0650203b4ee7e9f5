// Package services implements the driving port interfaces.
// Services contain the core business logic: the ingestion pipeline
// from raw text to a persisted document graph, and the hybrid ranker
// fusing semantic and lexical relevance. Services orchestrate calls to
// driven ports (adapters) and hold no storage logic themselves.
package services
