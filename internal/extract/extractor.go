package extract

// Extractor defines the interface for pulling raw text out of a receipt
// image or PDF.
type Extractor interface {
	// ExtractText returns the multi-line text found in the document. An
	// empty string with a nil error means the provider found nothing
	// usable; only transport and decoding problems are errors.
	ExtractText(imageData []byte, contentType string) (string, error)
	// Close closes the extractor and releases resources
	Close() error
}
