package googleai

import (
	"context"
	"creatorlink/internal/observability"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const analysisModel = "gemini-2.0-flash"

// Analysis is the model's verdict on one piece of submitted content.
type Analysis struct {
	Score    float64  `json:"score"`
	Summary  string   `json:"summary"`
	Issues   []string `json:"issues"`
	Strength []string `json:"strengths"`
}

type Client struct {
	apiKey string
	logger *observability.Logger
}

func New(apiKey string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	return &Client{apiKey: apiKey, logger: logger}, nil
}

const analysisPrompt = `You are a brand-safety and quality reviewer for influencer content.
Score the submission below against the content requirements on a 0-100 scale.
Respond with a single JSON object: {"score": number, "summary": string,
"issues": [string], "strengths": [string]}.

Content requirements:
%s

Submission caption:
%s

Submission hashtags:
%s
`

// AnalyzeContent scores an upload's caption and hashtags against the shared
// content requirements.
func (c *Client) AnalyzeContent(ctx context.Context, requirements, caption, hashtags string) (Analysis, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		c.logger.Error(ctx, "failed to create Gemini client", err)
		return Analysis{}, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	prompt := fmt.Sprintf(analysisPrompt, requirements, caption, hashtags)

	model := client.GenerativeModel(analysisModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error(ctx, "failed to analyze content", err)
		return Analysis{}, fmt.Errorf("gemini analysis failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return Analysis{}, fmt.Errorf("gemini analysis failed: no response")
	}

	part, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return Analysis{}, fmt.Errorf("gemini analysis failed: unexpected response format")
	}

	raw := strings.TrimSpace(string(part))
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		c.logger.Error(ctx, "failed to parse analysis response", err)
		return Analysis{}, fmt.Errorf("gemini analysis failed: unparsable response: %w", err)
	}

	c.logger.Info(ctx, "content analysis completed")
	return analysis, nil
}
