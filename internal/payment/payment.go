// Package payment starts paid checkout sessions for commission charges.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Gateway defines the interface for the payment collaborator
type Gateway interface {
	// Configured reports whether the gateway can actually take payments.
	Configured() bool
	// CreateCheckoutSession creates a hosted checkout session for the
	// given commission amount and returns its redirect URL.
	CreateCheckoutSession(ctx context.Context, amount float64, scanID string) (string, error)
}

// StripeGateway implements Gateway against the Stripe Checkout API
type StripeGateway struct {
	secretKey  string
	baseURL    string
	successURL string
	cancelURL  string
	client     *http.Client
}

// NewStripeGateway creates a new Stripe gateway. An empty secret key yields
// an unconfigured gateway; callers are expected to check Configured before
// starting a checkout.
func NewStripeGateway(secretKey, baseURL, successURL, cancelURL string) *StripeGateway {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}

	return &StripeGateway{
		secretKey:  secretKey,
		baseURL:    baseURL,
		successURL: successURL,
		cancelURL:  cancelURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether a secret key is present
func (g *StripeGateway) Configured() bool {
	return g.secretKey != ""
}

// checkoutSessionResponse represents the session object Stripe returns
type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession creates a Stripe Checkout session charging the
// commission amount and returns the hosted payment page URL.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, amount float64, scanID string) (string, error) {
	if !g.Configured() {
		return "", fmt.Errorf("payment gateway is not configured")
	}
	if amount <= 0 {
		return "", fmt.Errorf("checkout amount must be positive, got %.2f", amount)
	}

	amountCents := int64(math.Round(amount * 100))

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][product_data][name]", "Refund finder commission")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(amountCents, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("client_reference_id", scanID)
	if g.successURL != "" {
		form.Set("success_url", g.successURL)
	}
	if g.cancelURL != "" {
		form.Set("cancel_url", g.cancelURL)
	}

	endpoint := fmt.Sprintf("%s/v1/checkout/sessions", g.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling stripe API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("stripe API error (status %d): %s", resp.StatusCode, string(body))
	}

	var session checkoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("stripe returned no checkout URL")
	}

	return session.URL, nil
}
