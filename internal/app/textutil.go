package app

// truncateCell shortens long abstracts for table cells. Rune-based so that
// Japanese text is never cut mid-character.
func truncateCell(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
