package parsing

import "strings"

type segmentState int

const (
	beforeSection segmentState = iota
	inSection
)

// segmentedParser handles receipts with an explicit items section. Item
// descriptions may span several lines; a price-only line closes the current
// item.
type segmentedParser struct {
	state  segmentState
	buffer []string
	items  []ParsedItem
}

func parseSegmented(rawText string) []ParsedItem {
	p := &segmentedParser{items: []ParsedItem{}}
	for _, line := range strings.Split(rawText, "\n") {
		p.feed(strings.TrimSpace(line))
	}
	// A leftover description with no closing price is an incomplete item
	// and is dropped.
	return p.items
}

// feed processes a single trimmed line.
func (p *segmentedParser) feed(line string) {
	if line == "" {
		return
	}

	switch p.state {
	case beforeSection:
		if strings.Contains(strings.ToLower(line), sectionMarker) {
			p.state = inSection
			p.buffer = nil
		}
	case inSection:
		if isNoise(line) {
			return
		}
		if priceOnlyPattern.MatchString(line) {
			p.closeItem(line)
			return
		}
		p.buffer = append(p.buffer, line)
	}
}

// closeItem emits the buffered description with the given price line. A
// malformed price abandons the buffered description; it cannot be safely
// reattached to a later item.
func (p *segmentedParser) closeItem(priceLine string) {
	defer func() { p.buffer = nil }()

	if len(p.buffer) == 0 {
		return
	}
	price, err := parseAmount(priceLine)
	if err != nil {
		return
	}
	name := strings.Join(p.buffer, " ")
	p.items = append(p.items, ParsedItem{Name: truncateName(name), Paid: price})
}
