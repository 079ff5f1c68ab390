package refund

// DefaultCommissionRate is the fraction of total savings charged when a
// refund checkout is started.
const DefaultCommissionRate = 0.05

// QuoteCommission derives a fee from total computed savings. It returns nil
// when there are no savings or no payment gateway is configured; the summary
// itself is never modified.
func QuoteCommission(summary RefundSummary, rate float64, gatewayConfigured bool) *CommissionQuote {
	if !gatewayConfigured || summary.Total <= 0 {
		return nil
	}
	return &CommissionQuote{
		Rate:   rate,
		Amount: summary.Total * rate,
	}
}
