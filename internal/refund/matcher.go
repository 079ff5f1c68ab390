package refund

import (
	"context"
	"log/slog"

	"github.com/refundqueen/refundqueen/internal/parsing"
)

// Epsilon absorbs floating rounding noise from currency-string parsing. A
// saving must exceed it before a refund record is emitted.
const Epsilon = 0.01

// LookupFunc returns candidate market prices for an item query. An error or
// an empty slice means no comparison is available for that item.
type LookupFunc func(ctx context.Context, query string) ([]float64, error)

// ComputeRefunds compares each parsed item against the minimum comparison
// price the lookup returns and accumulates the savings. Lookup failures are
// isolated per item; one bad item never aborts matching of the others.
func ComputeRefunds(ctx context.Context, items []parsing.ParsedItem, lookup LookupFunc) RefundSummary {
	summary := RefundSummary{Records: []RefundRecord{}}

	for _, item := range items {
		prices, err := lookup(ctx, item.Name)
		if err != nil {
			slog.Debug("Price lookup failed", "item", item.Name, "error", err)
			continue
		}
		if len(prices) == 0 {
			continue
		}

		matched := prices[0]
		for _, p := range prices[1:] {
			if p < matched {
				matched = p
			}
		}

		if item.Paid > matched+Epsilon {
			saving := item.Paid - matched
			summary.Records = append(summary.Records, RefundRecord{
				Name:         item.Name,
				Paid:         item.Paid,
				MatchedPrice: matched,
				Savings:      saving,
			})
			summary.Total += saving
		}
	}

	return summary
}
