package emoji

import "strings"

// EmojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":       {"❌", "[ERR]"},
	"warning":     {"⚠️", "[WRN]"},
	"info":        {"ℹ️", "[INF]"},
	"success":     {"✅", "[OK]"},
	"upload":      {"📤", "[UP]"},
	"file":        {"📄", "[FILE]"},
	"pending":     {"⏳", "[..]"},
	"completed":   {"✅", "[DONE]"},
	"failed":      {"❌", "[FAIL]"},
	"duplicate":   {"♻️", "[DUP]"},
	"critical":    {"🔴", "[CRIT]"},
	"high":        {"🟠", "[HIGH]"},
	"moderate":    {"🔵", "[MOD]"},
	"low":         {"🟢", "[LOW]"},
	"statistics":  {"📊", "[STATS]"},
	"issue":       {"🐞", "[BUG]"},
	"cause":       {"🔍", "[WHY]"},
	"fix":         {"🛠️", "[FIX]"},
	"trash":       {"🗑️", "[DEL]"},
	"clock":       {"🕒", "[T]"},
	"watch":       {"👀", "[WATCH]"},
	"inspect":     {"🔎", "[SCAN]"},
	"server":      {"🌐", "[API]"},
	"rocket":      {"🚀", "[LOG]"},
	"help":        {"❓", "[?]"},
	"door":        {"🚪", "[EXIT]"},
	"progress_on": {"█", "#"},
	"progress_of": {"░", "-"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1] // fallback
		}
		return mapping[0] // emoji
	}
	return "[?]" // unknown key
}

// Bar renders ratio (0..1) as a fixed-width bar. With emoji disabled the
// bar is bracketed ASCII.
func Bar(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	ratio = max(0, min(ratio, 1))
	filled := int(ratio*float64(width) + 0.5)

	bar := strings.Repeat(GetEmoji("progress_on"), filled) +
		strings.Repeat(GetEmoji("progress_of"), width-filled)
	if emojiDisabled {
		return "[" + bar + "]"
	}
	return bar
}
