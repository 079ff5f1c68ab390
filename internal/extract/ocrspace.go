package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

// OCRSpace implements the Extractor interface using the OCR.space API
type OCRSpace struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOCRSpace creates a new OCR.space Extractor instance
func NewOCRSpace(apiKey string, baseURL string) (*OCRSpace, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ocr.space api key is required")
	}
	if baseURL == "" {
		baseURL = "https://api.ocr.space"
	}

	return &OCRSpace{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// ocrSpaceResponse represents the response from the OCR.space parse endpoint
type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
	ErrorDetails          string          `json:"ErrorDetails"`
}

// ExtractText uploads a receipt document to OCR.space and returns the text it
// found. Provider-side OCR failures yield empty text rather than an error so
// the caller can degrade to a "no items found" outcome.
func (o *OCRSpace) ExtractText(imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Prepare image data (convert PDFs and HEIC to PNG)
	finalImageData, _, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return "", err
	}

	// Build the multipart form
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "receipt.png")
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(finalImageData); err != nil {
		return "", fmt.Errorf("writing form file: %w", err)
	}
	fields := map[string]string{
		"apikey":    o.apiKey,
		"language":  "eng",
		"OCREngine": "2",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", fmt.Errorf("writing form field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing form writer: %w", err)
	}

	// Make the request
	url := fmt.Sprintf("%s/parse/image", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ocr.space API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ocr.space API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	// Parse response
	var ocrResp ocrSpaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&ocrResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if ocrResp.IsErroredOnProcessing {
		slog.Warn("OCR provider reported a processing error",
			"message", string(ocrResp.ErrorMessage),
			"details", ocrResp.ErrorDetails,
		)
		return "", nil
	}

	if len(ocrResp.ParsedResults) == 0 {
		return "", nil
	}

	return ocrResp.ParsedResults[0].ParsedText, nil
}

// Close closes the OCR.space client (no-op for HTTP client)
func (o *OCRSpace) Close() error {
	return nil
}
