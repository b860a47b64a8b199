package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/cleared-dev/plsense/internal/taxonomy"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.5-flash"

// Gemini categorizes account names with a Google GenAI model.
type Gemini struct {
	model    string
	taxonomy *taxonomy.Taxonomy
	generate func(ctx context.Context, prompt string) (string, error)
}

// NewGemini creates a Gemini categorizer. An empty apiKey lets the SDK read
// GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func NewGemini(ctx context.Context, modelName, apiKey string, tax *taxonomy.Taxonomy) (*Gemini, error) {
	if modelName == "" {
		modelName = DefaultModelName
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := &Gemini{model: modelName, taxonomy: tax}
	g.generate = func(ctx context.Context, prompt string) (string, error) {
		contents := []*genai.Content{
			{
				Role:  "user",
				Parts: []*genai.Part{{Text: prompt}},
			},
		}
		resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		return resp.Text(), nil
	}
	return g, nil
}

// Categorize sends all names in one prompt and decodes the JSON object the
// model returns.
func (g *Gemini) Categorize(ctx context.Context, names []string, _ Options) (map[string]Suggestion, error) {
	if len(names) == 0 {
		return map[string]Suggestion{}, nil
	}

	raw, err := g.generate(ctx, buildPrompt(g.taxonomy, names))
	if err != nil {
		return nil, fmt.Errorf("gemini categorize: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("gemini categorize: empty response from model")
	}
	out, err := parseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("gemini categorize: %w", err)
	}
	return out, nil
}

func buildPrompt(tax *taxonomy.Taxonomy, names []string) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst mapping profit and loss account names to a standard taxonomy.\n\n")
	b.WriteString("Categories and their standard accounts:\n")
	for _, cat := range tax.Categories() {
		fmt.Fprintf(&b, "- %s: %s\n", cat, strings.Join(tax.Accounts(cat), ", "))
	}
	b.WriteString("\nAccounts to map:\n")
	for _, n := range names {
		fmt.Fprintf(&b, "- %s\n", n)
	}
	b.WriteString("\nFor each account return:\n" +
		"- \"category\": one of the categories above\n" +
		"- \"subcategory\": the closest standard account\n" +
		"- \"is_subtotal\": true if the row is a total or subtotal\n" +
		"- \"confidence\": number between 0 and 1\n\n" +
		"Return ONLY a raw JSON object keyed by the exact account name.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Output must begin with \"{\" and end with \"}\".\n")
	return b.String()
}

type geminiEntry struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	IsSubtotal  bool     `json:"is_subtotal"`
	Confidence  *float64 `json:"confidence"`
}

func parseResponse(raw string) (map[string]Suggestion, error) {
	clean := cleanModelJSON(raw)
	var entries map[string]geminiEntry
	if err := json.Unmarshal([]byte(clean), &entries); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	out := make(map[string]Suggestion, len(entries))
	for name, e := range entries {
		conf := DefaultConfidence
		if e.Confidence != nil {
			conf = clamp(*e.Confidence)
		}
		out[strings.TrimSpace(name)] = Suggestion{
			Category:    e.Category,
			Subcategory: e.Subcategory,
			IsSubtotal:  e.IsSubtotal,
			Confidence:  conf,
		}
	}
	return out, nil
}

// cleanModelJSON strips Markdown fences and surrounding chatter, keeping the
// outermost JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
