package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"google.golang.org/genai"

	"github.com/healthners/healthners/internal/domain"
)

const DefaultModelName = "gemini-2.0-flash"

// GeminiConfig selects the backend. With UseVertex the client authenticates
// with application default credentials against Project/Location, otherwise
// APIKey is used against the Gemini API.
type GeminiConfig struct {
	APIKey    string
	UseVertex bool
	Project   string
	Location  string
	ModelName string
}

type GeminiModel struct {
	client    *genai.Client
	modelName string
	config    *genai.GenerateContentConfig
}

// NewGeminiModel creates a domain.ChatModel backed by Gemini.
func NewGeminiModel(ctx context.Context, cfg GeminiConfig) (*GeminiModel, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.UseVertex {
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("project and location are required for Vertex AI")
		}
		cc = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required for the Gemini API backend")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = DefaultModelName
	}

	return &GeminiModel{
		client:    client,
		modelName: modelName,
		config:    generationConfig(),
	}, nil
}

// generationConfig is fixed: sampling and safety thresholds are not
// negotiated at runtime. The instructions travel in seedHistory, not as a
// SystemInstruction.
func generationConfig() *genai.GenerateContentConfig {
	threshold := genai.HarmBlockThresholdBlockMediumAndAbove

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		TopK:            genai.Ptr[float32](40),
		TopP:            genai.Ptr[float32](0.95),
		MaxOutputTokens: 1024,
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: threshold},
			{Category: genai.HarmCategoryHateSpeech, Threshold: threshold},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: threshold},
			{Category: genai.HarmCategoryDangerousContent, Threshold: threshold},
		},
	}
}

// StartChat implements domain.ChatModel.
func (g *GeminiModel) StartChat(ctx context.Context) (domain.ChatHandle, error) {
	chat, err := g.client.Chats.Create(ctx, g.modelName, g.config, seedHistory())
	if err != nil {
		return nil, domain.NewModelError(domain.ModelErrorUnknown, fmt.Errorf("create chat: %w", err))
	}
	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

// Send implements domain.ChatHandle. The genai chat records the turn in its
// own history only when the response is valid.
func (c *geminiChat) Send(ctx context.Context, prompt string) (string, error) {
	res, err := c.chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", classifyError(err)
	}

	if reason := blockReason(res); reason != "" {
		return "", domain.NewModelError(domain.ModelErrorSafetyBlock, fmt.Errorf("response blocked: %s", reason))
	}

	text := res.Text()
	if text == "" {
		return "", domain.NewModelError(domain.ModelErrorUnknown, errors.New("gemini returned empty text"))
	}

	return text, nil
}

func blockReason(res *genai.GenerateContentResponse) string {
	if res == nil {
		return ""
	}
	if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
		return string(res.PromptFeedback.BlockReason)
	}
	if len(res.Candidates) > 0 && res.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return string(genai.FinishReasonSafety)
	}
	return ""
}

func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return domain.NewModelError(domain.ModelErrorRateLimit, err)
		case apiErr.Code >= http.StatusInternalServerError:
			return domain.NewModelError(domain.ModelErrorNetwork, err)
		default:
			return domain.NewModelError(domain.ModelErrorUnknown, err)
		}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return domain.NewModelError(domain.ModelErrorNetwork, err)
	}

	return domain.NewModelError(domain.ModelErrorUnknown, err)
}
