package parsing

import "strings"

// maxNameLen bounds item names for downstream price queries and display.
const maxNameLen = 60

// sectionMarker identifies receipts that expose an explicit items section
// (order confirmations with an "Arriving ..." header).
const sectionMarker = "arriving"

// ParsedItem is a single purchased item recovered from receipt text.
type ParsedItem struct {
	Name string  `json:"name"`
	Paid float64 `json:"paid"`
}

// ParseItems extracts (name, price) pairs from raw OCR text. Receipts with a
// recognizable items section go through the segmented parser; everything else
// falls back to the generic line parser. ParseItems never fails; malformed
// input yields an empty slice.
func ParseItems(rawText string) []ParsedItem {
	if strings.Contains(strings.ToLower(rawText), sectionMarker) {
		return parseSegmented(rawText)
	}
	return parseGeneric(rawText)
}

// truncateName bounds an item name to maxNameLen characters.
func truncateName(name string) string {
	if len(name) > maxNameLen {
		return strings.TrimSpace(name[:maxNameLen])
	}
	return name
}
