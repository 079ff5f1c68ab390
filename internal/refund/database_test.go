package refund

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/refundqueen/refundqueen/internal/parsing"
)

var _ = Describe("BoltDB", func() {
	var (
		db     *BoltDB
		dbPath string
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("NewBoltDB", func() {
		When("path is invalid", func() {
			It("returns an error", func() {
				_, err := NewBoltDB("/nonexistent/dir/test.db")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("SaveScan and GetScan", func() {
		var scan *Scan

		BeforeEach(func() {
			scan = &Scan{
				ID:          "scan-1",
				Filename:    "scan-1_receipt.jpg",
				ContentType: "image/jpeg",
				RawText:     "Widget Pro 19.99",
				Items:       []parsing.ParsedItem{{Name: "Widget Pro", Paid: 19.99}},
				Summary: RefundSummary{
					Records: []RefundRecord{{Name: "Widget Pro", Paid: 19.99, MatchedPrice: 15.00, Savings: 4.99}},
					Total:   4.99,
				},
				CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
			}
		})

		When("the scan is saved", func() {
			It("round-trips all fields", func() {
				Expect(db.SaveScan(scan)).NotTo(HaveOccurred())

				got, err := db.GetScan("scan-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(got.ID).To(Equal("scan-1"))
				Expect(got.RawText).To(Equal("Widget Pro 19.99"))
				Expect(got.Items).To(HaveLen(1))
				Expect(got.Summary.Records).To(HaveLen(1))
				Expect(got.Summary.Total).To(Equal(4.99))
				Expect(got.CreatedAt.Equal(scan.CreatedAt)).To(BeTrue())
			})

			It("overwrites an existing scan with the same ID", func() {
				Expect(db.SaveScan(scan)).NotTo(HaveOccurred())
				scan.RawText = "updated"
				Expect(db.SaveScan(scan)).NotTo(HaveOccurred())

				got, err := db.GetScan("scan-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(got.RawText).To(Equal("updated"))
			})
		})

		When("the scan does not exist", func() {
			It("returns an error", func() {
				_, err := db.GetScan("missing")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("scan not found"))
			})
		})
	})

	Describe("ListScans", func() {
		When("the database is empty", func() {
			It("returns an empty non-nil slice", func() {
				scans, err := db.ListScans()
				Expect(err).NotTo(HaveOccurred())
				Expect(scans).NotTo(BeNil())
				Expect(scans).To(BeEmpty())
			})
		})

		When("scans exist", func() {
			BeforeEach(func() {
				Expect(db.SaveScan(&Scan{ID: "a"})).NotTo(HaveOccurred())
				Expect(db.SaveScan(&Scan{ID: "b"})).NotTo(HaveOccurred())
			})

			It("returns all of them", func() {
				scans, err := db.ListScans()
				Expect(err).NotTo(HaveOccurred())
				Expect(scans).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteScan", func() {
		When("the scan exists", func() {
			BeforeEach(func() {
				Expect(db.SaveScan(&Scan{ID: "scan-1"})).NotTo(HaveOccurred())
			})

			It("removes it", func() {
				Expect(db.DeleteScan("scan-1")).NotTo(HaveOccurred())
				_, err := db.GetScan("scan-1")
				Expect(err).To(HaveOccurred())
			})
		})

		When("the scan does not exist", func() {
			It("is a no-op", func() {
				Expect(db.DeleteScan("missing")).NotTo(HaveOccurred())
			})
		})
	})

	Describe("persistence across reopen", func() {
		It("keeps saved scans", func() {
			Expect(db.SaveScan(&Scan{ID: "durable"})).NotTo(HaveOccurred())
			Expect(db.Close()).NotTo(HaveOccurred())

			reopened, err := NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			db = reopened

			got, err := db.GetScan("durable")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal("durable"))
		})
	})
})
