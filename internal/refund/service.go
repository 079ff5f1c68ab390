package refund

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/refundqueen/refundqueen/internal/extract"
	"github.com/refundqueen/refundqueen/internal/parsing"
	"github.com/refundqueen/refundqueen/internal/payment"
	"github.com/refundqueen/refundqueen/internal/pricing"
)

// Checkout gating outcomes surfaced to the web layer.
var (
	ErrNoGateway = errors.New("no payment gateway configured")
	ErrNoSavings = errors.New("scan has no refundable savings")
)

// perItemLookupTimeout bounds each comparison-price lookup so one slow item
// never stalls the rest of the scan.
const perItemLookupTimeout = 10 * time.Second

// IDGenerator generates unique IDs for scans
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs the scan pipeline: store the upload, extract its text, parse
// items, match them against market prices, and persist the result.
type Service struct {
	db             DB
	extractor      extract.Extractor
	storage        Storage
	prices         pricing.Lookup
	gateway        payment.Gateway
	commissionRate float64
	idGenerator    IDGenerator
	timeSource     TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, extractor extract.Extractor, storage Storage, prices pricing.Lookup, gateway payment.Gateway, commissionRate float64) *Service {
	return NewServiceWithDeps(db, extractor, storage, prices, gateway, commissionRate, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor extract.Extractor, storage Storage, prices pricing.Lookup, gateway payment.Gateway, commissionRate float64, idGen IDGenerator, timeSrc TimeSource) *Service {
	if commissionRate <= 0 {
		commissionRate = DefaultCommissionRate
	}
	return &Service{
		db:             db,
		extractor:      extractor,
		storage:        storage,
		prices:         prices,
		gateway:        gateway,
		commissionRate: commissionRate,
		idGenerator:    idGen,
		timeSource:     timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	// Phone-generated filenames can get very long
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ProcessReceipt stores an uploaded receipt, extracts its text, parses the
// purchased items, and computes the refund summary. An upload whose text
// yields no items or no savings is still a valid scan, not an error.
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Scan, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	rawText, err := s.extractor.ExtractText(data, contentType)
	if err != nil {
		slog.Error("Failed to extract receipt text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Clean up the saved file since extraction failed
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("extracting receipt text: %w", err)
	}

	items := parsing.ParseItems(rawText)
	summary := ComputeRefunds(ctx, items, s.lookupPrices)

	slog.Info("Processed receipt",
		"scan_id", id,
		"items", len(items),
		"refunds", len(summary.Records),
		"total_savings", summary.Total,
	)

	scan := &Scan{
		ID:          id,
		Filename:    savedPath,
		ContentType: contentType,
		RawText:     rawText,
		Items:       items,
		Summary:     summary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveScan(scan); err != nil {
		// Clean up file if database save fails
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving scan to database: %w", err)
	}

	return scan, nil
}

// lookupPrices wraps the price-lookup provider with a per-item timeout.
func (s *Service) lookupPrices(ctx context.Context, query string) ([]float64, error) {
	itemCtx, cancel := context.WithTimeout(ctx, perItemLookupTimeout)
	defer cancel()
	return s.prices.Prices(itemCtx, query)
}

// GetScan retrieves a scan by ID
func (s *Service) GetScan(id string) (*Scan, error) {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return nil, fmt.Errorf("getting scan: %w", err)
	}
	return scan, nil
}

// ListScans returns all scans
func (s *Service) ListScans() ([]*Scan, error) {
	scans, err := s.db.ListScans()
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	return scans, nil
}

// DeleteScan removes a scan and its stored file
func (s *Service) DeleteScan(id string) error {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return fmt.Errorf("getting scan for deletion: %w", err)
	}

	if err := s.storage.Delete(scan.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", scan.Filename, "error", err)
	}

	if err := s.db.DeleteScan(id); err != nil {
		return fmt.Errorf("deleting scan from database: %w", err)
	}
	return nil
}

// GetScanFile retrieves the stored receipt file for a scan
func (s *Service) GetScanFile(id string) ([]byte, string, error) {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting scan: %w", err)
	}

	data, err := s.storage.Get(scan.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting scan file: %w", err)
	}

	return data, scan.ContentType, nil
}

// StartCheckout quotes a commission on the scan's savings and creates a
// payment session for it. ErrNoGateway and ErrNoSavings report why no
// session could be created.
func (s *Service) StartCheckout(ctx context.Context, id string) (string, *CommissionQuote, error) {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return "", nil, fmt.Errorf("getting scan: %w", err)
	}

	if !s.gateway.Configured() {
		return "", nil, ErrNoGateway
	}

	quote := QuoteCommission(scan.Summary, s.commissionRate, true)
	if quote == nil {
		return "", nil, ErrNoSavings
	}

	checkoutURL, err := s.gateway.CreateCheckoutSession(ctx, quote.Amount, scan.ID)
	if err != nil {
		return "", nil, fmt.Errorf("creating checkout session: %w", err)
	}

	return checkoutURL, quote, nil
}
