package refund

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/refundqueen/refundqueen/internal/parsing"
)

var _ = Describe("ComputeRefunds", func() {
	var (
		items   []parsing.ParsedItem
		prices  map[string][]float64
		errs    map[string]error
		queries []string
		summary RefundSummary
	)

	lookup := func(ctx context.Context, query string) ([]float64, error) {
		queries = append(queries, query)
		if err, ok := errs[query]; ok {
			return nil, err
		}
		return prices[query], nil
	}

	BeforeEach(func() {
		items = nil
		prices = map[string][]float64{}
		errs = map[string]error{}
		queries = nil
	})

	JustBeforeEach(func() {
		summary = ComputeRefunds(context.Background(), items, lookup)
	})

	When("a cheaper price exists", func() {
		BeforeEach(func() {
			items = []parsing.ParsedItem{{Name: "Widget", Paid: 10.00}}
			prices["Widget"] = []float64{12.00, 9.50, 11.00}
		})

		It("matches the minimum comparison price", func() {
			Expect(summary.Records).To(HaveLen(1))
			Expect(summary.Records[0].MatchedPrice).To(Equal(9.50))
		})

		It("records the saving and total", func() {
			Expect(summary.Records[0].Savings).To(BeNumerically("~", 0.50, 1e-9))
			Expect(summary.Total).To(BeNumerically("~", 0.50, 1e-9))
		})
	})

	When("the best price only matches what was paid", func() {
		BeforeEach(func() {
			items = []parsing.ParsedItem{{Name: "Widget", Paid: 10.00}}
			prices["Widget"] = []float64{10.00}
		})

		It("emits no record", func() {
			Expect(summary.Records).To(BeEmpty())
			Expect(summary.Total).To(BeZero())
		})
	})

	When("the saving is within the rounding tolerance", func() {
		BeforeEach(func() {
			items = []parsing.ParsedItem{{Name: "Widget", Paid: 10.00}}
			prices["Widget"] = []float64{9.99}
		})

		It("emits no record", func() {
			Expect(summary.Records).To(BeEmpty())
		})
	})

	When("the saving just exceeds the rounding tolerance", func() {
		BeforeEach(func() {
			items = []parsing.ParsedItem{{Name: "Widget", Paid: 10.00}}
			prices["Widget"] = []float64{9.98}
		})

		It("emits a record for the two cents", func() {
			Expect(summary.Records).To(HaveLen(1))
			Expect(summary.Records[0].Savings).To(BeNumerically("~", 0.02, 1e-9))
		})
	})

	When("the lookup has no prices for an item", func() {
		BeforeEach(func() {
			items = []parsing.ParsedItem{{Name: "Unknown Gadget", Paid: 40.00}}
		})

		It("skips the item", func() {
			Expect(summary.Records).To(BeEmpty())
		})
	})

	When("the lookup fails for one item", func() {
		BeforeEach(func() {
			items = []parsing.ParsedItem{
				{Name: "Widget", Paid: 10.00},
				{Name: "Broken", Paid: 20.00},
				{Name: "Gadget", Paid: 30.00},
			}
			prices["Widget"] = []float64{8.00}
			errs["Broken"] = errors.New("upstream timeout")
			prices["Gadget"] = []float64{25.00}
		})

		It("still matches the other items", func() {
			Expect(summary.Records).To(HaveLen(2))
			Expect(summary.Records[0].Name).To(Equal("Widget"))
			Expect(summary.Records[1].Name).To(Equal("Gadget"))
		})

		It("totals only the successful matches", func() {
			Expect(summary.Total).To(BeNumerically("~", 7.00, 1e-9))
		})
	})

	When("multiple items have savings", func() {
		BeforeEach(func() {
			items = []parsing.ParsedItem{
				{Name: "First", Paid: 10.00},
				{Name: "Second", Paid: 20.00},
			}
			prices["First"] = []float64{5.00}
			prices["Second"] = []float64{15.00}
		})

		It("keeps records in receipt order", func() {
			Expect(summary.Records).To(HaveLen(2))
			Expect(summary.Records[0].Name).To(Equal("First"))
			Expect(summary.Records[1].Name).To(Equal("Second"))
		})

		It("queries every item by name", func() {
			Expect(queries).To(Equal([]string{"First", "Second"}))
		})
	})

	When("there are no items", func() {
		It("returns an empty summary with non-nil records", func() {
			Expect(summary.Records).NotTo(BeNil())
			Expect(summary.Records).To(BeEmpty())
			Expect(summary.Total).To(BeZero())
		})
	})
})
