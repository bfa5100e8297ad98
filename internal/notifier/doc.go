// Package notifier delivers finished announcements to secondary sinks.
//
// Mirrors (Telegram, Twitter) re-post an announcement after it has been
// delivered to its Discord channel; their failures never affect the primary
// delivery. The dry-run notifier prints the plain-text rendering instead of
// posting anywhere and backs the preview command.
package notifier
