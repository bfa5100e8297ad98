// Package telegram mirrors event announcements to a Telegram chat through the
// Bot API.
//
// Messages use Telegram's HTML parse mode. User-supplied text is passed
// through a strict sanitizer before it is embedded in markup.
//
// Authentication requires a bot token (from @BotFather) and chat ID.
package telegram
