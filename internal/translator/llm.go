package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// DefaultLLMModel is the chat model used when none is configured.
const DefaultLLMModel = "gpt-4o-mini"

// llmSeparator joins batch segments in one prompt so a batch costs one
// request. The model is instructed to echo it between translations.
const llmSeparator = "\n<<<SEG>>>\n"

// LLMClient translates through an OpenAI-compatible chat model. It
// carries a strict system prompt so marker characters from the
// paragraph-reconstruction protocol survive the round trip.
type LLMClient struct {
	chatModel model.BaseChatModel
	srcLang   string
	tgtLang   string
	cache     *Cache
}

// LLMConfig configures the chat backend.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewLLMClient builds a chat-model client for one language pair. A nil
// cache disables caching.
func NewLLMClient(ctx context.Context, srcLang, tgtLang string, cache *Cache, cfg LLMConfig) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, types.NewAppError(types.ErrConfig, "LLM API key is not configured", nil)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if srcLang == "" {
		srcLang = "auto"
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
	}
	if cfg.BaseURL != "" {
		chatModelConfig.BaseURL = cfg.BaseURL
	}
	chatModel, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, types.NewAppError(types.ErrConfig, "failed to create chat model", err)
	}

	if cache != nil {
		if err := cache.Connect(); err != nil {
			return nil, err
		}
	}

	logger.Info("LLM translation backend ready",
		logger.String("model", cfg.Model),
		logger.String("srcLang", srcLang),
		logger.String("tgtLang", tgtLang))
	return &LLMClient{chatModel: chatModel, srcLang: srcLang, tgtLang: tgtLang, cache: cache}, nil
}

// Close closes the attached cache, if any.
func (l *LLMClient) Close() error {
	if l.cache == nil {
		return nil
	}
	return l.cache.Close()
}

// TranslateText translates a single segment.
func (l *LLMClient) TranslateText(ctx context.Context, text string) (string, error) {
	out, err := l.TranslateBatch(ctx, []string{text})
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", nil
	}
	return out[0], nil
}

// TranslateBatch translates segments preserving order. Pending
// segments are joined with the separator into one prompt; if the model
// returns the wrong number of parts the batch is retried one segment
// per request.
func (l *LLMClient) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	results := make([]string, len(texts))
	var pendingIdx []int
	var pendingTexts []string

	for i, original := range texts {
		value := strings.TrimSpace(original)
		if value == "" {
			continue
		}
		if l.cache != nil {
			if cached, ok := l.cache.Lookup(value, l.srcLang, l.tgtLang); ok {
				results[i] = cached
				continue
			}
		}
		pendingIdx = append(pendingIdx, i)
		pendingTexts = append(pendingTexts, value)
	}

	if len(pendingTexts) == 0 {
		return results, nil
	}

	translated, err := l.translateJoined(ctx, pendingTexts)
	if err != nil {
		return nil, err
	}
	for j, out := range translated {
		results[pendingIdx[j]] = out
		if l.cache != nil {
			l.cache.Store(pendingTexts[j], l.srcLang, l.tgtLang, out)
		}
	}
	return results, nil
}

func (l *LLMClient) translateJoined(ctx context.Context, texts []string) ([]string, error) {
	joined := strings.Join(texts, llmSeparator)
	response, err := l.generate(ctx, joined)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(response, strings.TrimSpace(llmSeparator))
	if len(parts) == len(texts) {
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}

	logger.Warn("LLM batch split mismatch, retrying per segment",
		logger.Int("expected", len(texts)),
		logger.Int("got", len(parts)))
	out := make([]string, len(texts))
	for i, text := range texts {
		single, err := l.generate(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = strings.TrimSpace(single)
	}
	return out, nil
}

func (l *LLMClient) generate(ctx context.Context, content string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(l.buildSystemPrompt()),
		schema.UserMessage(content),
	}
	response, err := l.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", types.NewAppError(types.ErrTranslation, "chat model request failed", err)
	}
	if response == nil {
		return "", types.NewAppError(types.ErrTranslation, "chat model returned no response", nil)
	}
	return response.Content, nil
}

func (l *LLMClient) buildSystemPrompt() string {
	src := l.srcLang
	if src == "auto" {
		src = "the source language"
	}
	return fmt.Sprintf(`You are a professional document translator. Translate the user's text from %s to %s.

RULES:
1. Output ONLY the translation, no explanations, no labels, no markdown.
2. The input may contain segment separators that look like <<<SEG>>>. Keep every separator exactly where it is and translate each segment independently. The output must contain the same number of separators as the input.
3. The input may contain control characters from the Unicode private use area (U+E000..U+F8FF). These are structural markers. Copy each one to the output unchanged, in the same relative position around the text it wraps. Never drop, reorder, duplicate or translate them.
4. Preserve line breaks.
5. Keep numbers, identifiers, URLs and code fragments untranslated.`, src, l.tgtLang)
}
