// Package apperror defines the typed error kinds shared by the event-announcer
// components.
//
// Every per-invocation failure carries a Kind so the command handler can decide
// what to show the invoker (validation details) and what to keep in the logs
// (everything else).
package apperror
