package scanning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// transcribePrompt asks the vision model for a plain transcript only.
// Receipts in scope are printed in English or Indonesian; downstream
// parsing depends on line breaks being preserved.
const transcribePrompt = `Transcribe every line of text visible in this receipt image exactly as printed. The receipt may be in English or Indonesian.

Rules:
- Output the raw text only, one receipt line per output line, top to bottom
- Keep amounts, currency markers (Rp, IDR) and punctuation exactly as printed
- Do not summarize, translate, reformat or add any commentary
- Do not use markdown code blocks`

// Gemini implements the Scanner interface using Google Gemini as a
// hosted OCR engine.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Scanner instance.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Scan transcribes the receipt document and returns the raw text.
func (g *Gemini) Scan(imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	finalImageData, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return "", err
	}

	// genai.ImageData wants the format suffix, not the full MIME type;
	// prepareImageData guarantees PNG.
	parts := []genai.Part{
		genai.ImageData("png", finalImageData),
		genai.Text(transcribePrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var transcript strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			transcript.WriteString(string(text))
		}
	}

	return stripCodeFences(transcript.String()), nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// stripCodeFences removes markdown fences some models wrap output in
// despite instructions.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
