package refund

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("QuoteCommission", func() {
	When("there are savings and a gateway", func() {
		It("quotes the rate applied to the total", func() {
			quote := QuoteCommission(RefundSummary{Total: 40.00}, 0.05, true)
			Expect(quote).NotTo(BeNil())
			Expect(quote.Rate).To(Equal(0.05))
			Expect(quote.Amount).To(BeNumerically("~", 2.00, 1e-9))
		})
	})

	When("there are no savings", func() {
		It("returns nil", func() {
			Expect(QuoteCommission(RefundSummary{Total: 0}, 0.05, true)).To(BeNil())
		})
	})

	When("no gateway is configured", func() {
		It("returns nil even with savings", func() {
			Expect(QuoteCommission(RefundSummary{Total: 40.00}, 0.05, false)).To(BeNil())
		})
	})
})
