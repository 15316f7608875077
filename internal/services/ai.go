package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// InvoiceExtractor turns an uploaded invoice document into structured data.
type InvoiceExtractor interface {
	ExtractText(ctx context.Context, file []byte) (string, error)
	ExtractInvoiceData(ctx context.Context, text string) (*ExtractedInvoice, error)
}

// ExtractedInvoice is the structured result of AI invoice analysis.
type ExtractedInvoice struct {
	InvoiceNumber   string  `json:"invoice_number"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	ContractorName  string  `json:"contractor_name"`
	ContractorEmail string  `json:"contractor_email"`
	ContractorPhone string  `json:"contractor_phone"`
}

const (
	deepSeekChatModel   = "deepseek-chat"
	deepSeekVisionModel = "deepseek-vision"
)

// AIService extracts invoice data via a DeepSeek chat model through the
// OpenAI-compatible API.
type AIService struct {
	client *openai.Client
}

// NewAIService creates an AIService. baseURL points at the
// OpenAI-compatible endpoint, e.g. https://api.deepseek.com/v1.
func NewAIService(apiKey, baseURL string) *AIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
	}
}

// ExtractText recovers the text content of an invoice document. The file
// is sent base64-encoded as an image_url data URL so the vision model can
// read binary formats like PDF.
func (s *AIService) ExtractText(ctx context.Context, file []byte) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("AI client not initialized")
	}

	prompt := `Extract all the text content from this invoice document.
Output only the raw text content without any additional commentary.`

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: deepSeekVisionModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: prompt,
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL: documentDataURL(file),
							},
						},
					},
				},
			},
			Temperature: 0.1,
		},
	)

	if err != nil {
		return "", fmt.Errorf("AI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI model")
	}

	return resp.Choices[0].Message.Content, nil
}

// ExtractInvoiceData parses invoice text into structured fields. Missing
// fields come back with fallback values rather than an error.
func (s *AIService) ExtractInvoiceData(ctx context.Context, text string) (*ExtractedInvoice, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("AI client not initialized")
	}

	prompt := fmt.Sprintf(`You are an invoice data extraction assistant. Extract the following fields from the invoice text below.

Invoice text:
%s

Return a single JSON object in exactly this format:
{
  "invoice_number": "the invoice number",
  "description": "a short description of the work invoiced",
  "amount": 0.0,
  "contractor_name": "the name of the company or person issuing the invoice",
  "contractor_email": "the issuer's email address",
  "contractor_phone": "the issuer's phone number"
}

Rules:
- amount must be a number, not a string
- if a field cannot be determined, use "" for strings and 0 for amount
- return JSON only, with no explanation`, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: deepSeekChatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.1,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)

	if err != nil {
		return nil, fmt.Errorf("AI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI model")
	}

	content := resp.Choices[0].Message.Content

	var extracted ExtractedInvoice
	if err := json.Unmarshal([]byte(content), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	applyExtractionDefaults(&extracted)
	return &extracted, nil
}

// documentDataURL encodes a document as a base64 data URL, sniffing the
// media type from the file's leading bytes.
func documentDataURL(file []byte) string {
	mediaType := http.DetectContentType(file)
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(file))
}

func applyExtractionDefaults(e *ExtractedInvoice) {
	if strings.TrimSpace(e.InvoiceNumber) == "" {
		e.InvoiceNumber = "Unknown"
	}
	if strings.TrimSpace(e.Description) == "" {
		e.Description = "No description"
	}
	if strings.TrimSpace(e.ContractorName) == "" {
		e.ContractorName = "Unknown Vendor"
	}
}
