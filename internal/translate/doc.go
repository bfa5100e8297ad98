// Package translate wraps remote translation providers behind the Translator
// interface.
//
// One Translate call targets one language and may carry several texts (the
// event name and description). Providers never return an empty translation
// with a nil error: every failure is an apperror of kind
// translation_unavailable so callers must decide what to show instead.
package translate
