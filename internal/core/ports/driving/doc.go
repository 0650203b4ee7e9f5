// Package driving provides interfaces consumed by user-facing adapters
// (primary/inbound ports): the CLI and the MCP server.
package driving
