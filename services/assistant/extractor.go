// File: services/assistant/extractor.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jetset/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const extractionInstructions = `You read one customer message from a desert tour booking chat and reply with a single JSON object, nothing else.

Schema:
{"intent": "...", "updates": [{"field": "...", "value": "..."}], "date_expression": "..."}

Intents: greeting, help, book, price, confirm, cancel, summary, packages, location, faq, about, chat.
Fields: activity, vehicle_model, safari_mode, quantity, duration, date_time, pickup, payment_method, customer_name.

Rules:
- "book" whenever the message carries booking details, even mid-sentence.
- Copy field values as the customer said them; do not normalize or translate.
- date_time only for absolute dates ("2026-08-25 16:00"). Relative expressions ("tomorrow at 4pm", "friday afternoon") go in date_expression instead, verbatim.
- A seat count like "2-seater" is a vehicle_model, never a quantity.
- Omit updates and date_expression when the message carries none.`

// GeminiExtractor runs the language-understanding step on Gemini.
type GeminiExtractor struct {
	model *genai.GenerativeModel
}

func NewGeminiExtractor(apiKey string) *GeminiExtractor {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiExtractor{model: model}
}

func (g *GeminiExtractor) Extract(ctx context.Context, history []models.Turn, message string) (*Extraction, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildExtractionPrompt(history, message)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return parseExtraction(sb.String())
}

func buildExtractionPrompt(history []models.Turn, message string) string {
	var sb strings.Builder
	sb.WriteString(extractionInstructions)
	sb.WriteString("\n\nConversation so far:\n")
	for _, turn := range history {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("\nCustomer message:\n")
	sb.WriteString(message)
	return sb.String()
}

// parseExtraction reads the model reply, tolerating markdown code fences
// around the JSON.
func parseExtraction(raw string) (*Extraction, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var ex Extraction
	if err := json.Unmarshal([]byte(cleaned), &ex); err != nil {
		return nil, fmt.Errorf("unparseable extraction %q: %w", raw, err)
	}
	if ex.Intent == "" {
		ex.Intent = IntentChat
	}
	return &ex, nil
}
