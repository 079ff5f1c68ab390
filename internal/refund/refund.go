package refund

import (
	"time"

	"github.com/refundqueen/refundqueen/internal/parsing"
)

// RefundRecord is one item whose paid price beat the best comparison price
// found online. Savings is always strictly positive.
type RefundRecord struct {
	Name         string  `json:"name"`
	Paid         float64 `json:"paid"`
	MatchedPrice float64 `json:"matched_price"`
	Savings      float64 `json:"savings"`
}

// RefundSummary aggregates refund records in item-discovery order. Total is
// zero exactly when Records is empty.
type RefundSummary struct {
	Records []RefundRecord `json:"records"`
	Total   float64        `json:"total"`
}

// CommissionQuote is the fee derived from total savings.
type CommissionQuote struct {
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// Scan is one processed receipt upload together with its refund results.
type Scan struct {
	ID          string               `json:"id"`
	Filename    string               `json:"filename"`
	ContentType string               `json:"content_type"`
	RawText     string               `json:"raw_text"`
	Items       []parsing.ParsedItem `json:"items"`
	Summary     RefundSummary        `json:"summary"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
