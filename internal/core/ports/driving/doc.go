// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI, MCP server and drop-folder watcher
// drive the application through these interfaces.
package driving
