package emoji

// EmojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":     {"❌", "[ERR]"},
	"warning":   {"⚠️", "[WRN]"},
	"info":      {"ℹ️", "[INF]"},
	"details":   {"💬", "[D]"},
	"text":      {"📄", "[T]"},
	"json":      {"🔣", "[J]"},
	"vendor":    {"📦", "[V]"},
	"context":   {"📋", "[C]"},
	"fix":       {"🪄", "[FIX]"},
	"recording": {"🎬", "[REC]"},
	"clock":     {"🕒", "[@]"},
	"loading":   {"⏳", "[...]"},
	"frame":     {"↳", "->"},
	"help":      {"❓", "[?]"},
	"door":      {"🚪", "[EXIT]"},
	"check":     {"✅", "[x]"},
	"uncheck":   {"⬜", "[ ]"},
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

// Prefix returns the emoji followed by a space, for labels
func Prefix(key string) string {
	return GetEmoji(key) + " "
}
