package ai

import (
	"context"
	"creatorlink/internal/observability"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

// Deliverables is the fixed-category requirement set generated for a task.
// The categories are stable; the entries inside each are opaque suggestions.
type Deliverables struct {
	ContentThemes    []string `json:"content_themes"`
	KeyMessages      []string `json:"key_messages"`
	ContentFormats   []string `json:"content_formats"`
	Hashtags         []string `json:"hashtags"`
	Captions         []string `json:"captions"`
	PostingSchedule  []string `json:"posting_schedule"`
	VisualGuidelines []string `json:"visual_guidelines"`
	Dos              []string `json:"dos"`
	Donts            []string `json:"donts"`
	CTASuggestions   []string `json:"cta_suggestions"`
}

// Brief is the campaign context fed to the model.
type Brief struct {
	CampaignName    string
	BrandName       string
	TaskTitle       string
	TaskDescription string
	TaskType        string
}

type Client struct {
	apiKey string
	logger *observability.Logger
}

func New(apiKey string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &Client{apiKey: apiKey, logger: logger}, nil
}

const deliverablesPrompt = `You are a content strategist for influencer marketing campaigns.
Generate content requirements for the task below. Respond with a single JSON object
containing exactly these keys, each an array of short strings:
content_themes, key_messages, content_formats, hashtags, captions, posting_schedule,
visual_guidelines, dos, donts, cta_suggestions.

Campaign: %s
Brand: %s
Task: %s (%s)
Description: %s
`

// GenerateDeliverables asks the model for the ten-category requirement set.
func (c *Client) GenerateDeliverables(ctx context.Context, brief Brief) (Deliverables, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_title", Value: brief.TaskTitle})

	options := []openaiOption.RequestOption{
		openaiOption.WithAPIKey(c.apiKey),
	}
	client := openai.NewClient(options...)

	prompt := fmt.Sprintf(deliverablesPrompt,
		brief.CampaignName,
		brief.BrandName,
		brief.TaskTitle,
		brief.TaskType,
		brief.TaskDescription)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModelGPT4o,
	})
	if err != nil {
		c.logger.Error(ctx, "failed to generate deliverables", err)
		return Deliverables{}, fmt.Errorf("openai generation failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return Deliverables{}, fmt.Errorf("openai generation failed: empty response")
	}

	// Models sometimes wrap JSON answers in markdown fences.
	raw := strings.TrimSpace(completion.Choices[0].Message.Content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var deliverables Deliverables
	if err := json.Unmarshal([]byte(raw), &deliverables); err != nil {
		c.logger.Error(ctx, "failed to parse deliverables response", err)
		return Deliverables{}, fmt.Errorf("openai generation failed: unparsable response: %w", err)
	}

	c.logger.Info(ctx, "deliverables generated")
	return deliverables, nil
}
