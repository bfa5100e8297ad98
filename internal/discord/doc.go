// Package discord exposes the announcement builder as the /event slash
// command.
//
// The Handler acknowledges every invocation immediately with a deferred
// ephemeral response, builds the announcement, posts it as an embed and then
// edits the deferred response to report the outcome. The Bot owns the
// gateway session and registers the command at startup.
package discord
