// Copyright Neuromechanist Labs, 2025. All rights reserved.

package types

// PageImage is one embedded image in an OCR page. The ID is assigned by
// the OCR provider and is unique within a single response but not across
// documents.
type PageImage struct {
	// ID is the provider-assigned image identifier (e.g. "img-0.jpeg").
	ID string `json:"id"`

	// Base64 holds the image bytes as base64, optionally with a data URI
	// prefix depending on provider version.
	Base64 string `json:"image_base64"`
}

// Page is one unit of OCR output corresponding to one document page.
// Pages are immutable inputs to the formatting pipeline. A page may carry
// no markdown at all; callers must check for the empty string rather than
// assume content.
type Page struct {
	// Index is the 0-based page ordinal; document order is fixed by the
	// OCR response.
	Index int `json:"index"`

	// Markdown is the recognized page text, possibly empty.
	Markdown string `json:"markdown"`

	// Images lists the embedded images on this page, possibly empty.
	Images []PageImage `json:"images"`
}

// UsageInfo reports what the OCR provider charged for a response.
type UsageInfo struct {
	PagesProcessed int  `json:"pages_processed"`
	DocSizeBytes   *int `json:"doc_size_bytes"`
}

// OCRResponse is the ordered page list returned by the OCR provider.
// A response with zero pages is valid and yields an empty document.
type OCRResponse struct {
	Pages     []Page    `json:"pages"`
	Model     string    `json:"model"`
	UsageInfo UsageInfo `json:"usage_info"`
}
