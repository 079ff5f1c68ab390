package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/refundqueen/refundqueen/internal/extract"
	"github.com/refundqueen/refundqueen/internal/payment"
	"github.com/refundqueen/refundqueen/internal/pricing"
	"github.com/refundqueen/refundqueen/internal/refund"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("refundqueen")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		dbPath         = fs.StringLong("db", "refundqueen.db", "Database file path")
		storagePath    = fs.StringLong("storage", "./receipts", "Storage directory path")
		extractorType  = fs.StringLong("extractor", "ocrspace", "Text extractor: 'ocrspace' or 'gemini'")
		ocrKey         = fs.StringLong("ocr-key", "", "OCR.space API key (or set OCR_SPACE_API_KEY env var)")
		ocrURL         = fs.StringLong("ocr-url", "", "OCR.space API base URL (default https://api.ocr.space)")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		pricingURL     = fs.StringLong("pricing-url", "", "Shopping-results API base URL (default https://serpapi.com)")
		pricingKey     = fs.StringLong("pricing-key", "", "Shopping-results API key (or set SERPAPI_API_KEY env var)")
		commissionRate = fs.Float64Long("commission-rate", refund.DefaultCommissionRate, "Fraction of found savings charged at checkout")
		stripeKey      = fs.StringLong("stripe-key", "", "Stripe secret key; payments are disabled when empty (or set STRIPE_SECRET_KEY env var)")
		successURL     = fs.StringLong("checkout-success-url", "", "URL Stripe redirects to after a successful payment")
		cancelURL      = fs.StringLong("checkout-cancel-url", "", "URL Stripe redirects to when a payment is cancelled")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("REFUNDQUEEN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := refund.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize text extractor based on type
	var extractor extract.Extractor
	switch *extractorType {
	case "ocrspace":
		apiKey := *ocrKey
		if apiKey == "" {
			apiKey = os.Getenv("OCR_SPACE_API_KEY")
		}
		if apiKey == "" {
			slog.Error("OCR.space API key is required. Set --ocr-key flag or OCR_SPACE_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing OCR.space extractor...")
		extractor, err = extract.NewOCRSpace(apiKey, *ocrURL)
		if err != nil {
			slog.Error("Failed to initialize OCR.space", "error", err)
			os.Exit(1)
		}
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini extractor...", "model", *geminiModel)
		extractor, err = extract.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid extractor type", "type", *extractorType, "valid", "ocrspace or gemini")
		os.Exit(1)
	}
	defer extractor.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := refund.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Initialize price lookup
	lookupKey := *pricingKey
	if lookupKey == "" {
		lookupKey = os.Getenv("SERPAPI_API_KEY")
	}
	prices := pricing.NewClient(*pricingURL, lookupKey)

	// Initialize payment gateway; an empty key leaves checkout disabled
	secretKey := *stripeKey
	if secretKey == "" {
		secretKey = os.Getenv("STRIPE_SECRET_KEY")
	}
	gateway := payment.NewStripeGateway(secretKey, "", *successURL, *cancelURL)

	// Initialize service
	refundService := refund.NewService(db, extractor, store, prices, gateway, *commissionRate)

	// Initialize server
	basicAuth := refund.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := refund.NewServer(refundService, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}
	if !gateway.Configured() {
		slog.Warn("No Stripe key configured; refund checkout is disabled")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
