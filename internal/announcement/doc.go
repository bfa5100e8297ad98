// Package announcement turns one event submission into a write-once
// announcement: the UTC start time, its local times in every configured zone
// and the event name and description in every table language.
//
// The Builder does no chat-platform I/O. Renderers for Discord, Telegram,
// Twitter and plain text consume the finished Announcement.
//
// Translation failures are handled per FailurePolicy:
//
//	placeholder  keep the language with the "_translation unavailable_" marker
//	omit         drop the language from the listings
//	abort        fail the whole build
//
// The source language is always listed as an identity entry holding the
// original text, and no provider call is made for it.
package announcement
