package parsing

import "strings"

// genericParser pairs item names with trailing prices, falling back to
// pairing a buffered name-only line with a later price-only line. At most one
// pending name is remembered between emissions.
type genericParser struct {
	pendingName string
	items       []ParsedItem
}

func parseGeneric(rawText string) []ParsedItem {
	p := &genericParser{items: []ParsedItem{}}
	for _, line := range strings.Split(rawText, "\n") {
		p.feed(strings.TrimSpace(line))
	}
	return p.items
}

// feed processes a single trimmed line.
func (p *genericParser) feed(line string) {
	if line == "" || isNoise(line) {
		return
	}

	if priceOnlyPattern.MatchString(line) {
		price, err := parseAmount(line)
		if err != nil {
			// A malformed amount is reinterpreted as descriptive text.
			p.pendingName = line
			return
		}
		// A price with no pending name is silently dropped.
		if p.pendingName != "" {
			p.emit(p.pendingName, price)
			p.pendingName = ""
		}
		return
	}

	if name, price, ok := splitTrailingPrice(line); ok {
		p.emit(name, price)
		p.pendingName = ""
		return
	}

	p.pendingName = line
}

func (p *genericParser) emit(name string, price float64) {
	p.items = append(p.items, ParsedItem{Name: truncateName(name), Paid: price})
}
