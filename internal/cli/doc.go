// Package cli implements the command-line interface for event-announcer.
//
// The cli package provides the Cobra-based CLI: serve runs the Discord bot
// and its ops server, preview builds one announcement locally with the
// configured translator, and schema prints the slash command definition.
// It wires configuration, logging, metrics, translation and delivery
// together; the other packages never read configuration themselves.
package cli
