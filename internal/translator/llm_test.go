package translator

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeChatModel answers every prompt through reply.
type fakeChatModel struct {
	reply func(string) string
	calls int
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	user := input[len(input)-1]
	return schema.AssistantMessage(f.reply(user.Content), nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

func newFakeLLMClient(reply func(string) string, cache *Cache) (*LLMClient, *fakeChatModel) {
	fake := &fakeChatModel{reply: reply}
	return &LLMClient{chatModel: fake, srcLang: "en", tgtLang: "fa", cache: cache}, fake
}

func TestLLMBatchSingleRequest(t *testing.T) {
	client, fake := newFakeLLMClient(func(prompt string) string {
		// Segment structure comes back intact.
		return strings.ReplaceAll(prompt, "hello", "سلام")
	}, nil)

	out, err := client.TranslateBatch(context.Background(), []string{"hello", "hello again"})
	if err != nil {
		t.Fatalf("TranslateBatch: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("requests = %d, want 1 joined request", fake.calls)
	}
	if out[0] != "سلام" || out[1] != "سلام again" {
		t.Errorf("outputs = %q", out)
	}
}

func TestLLMBatchSplitMismatchFallsBack(t *testing.T) {
	client, fake := newFakeLLMClient(func(prompt string) string {
		// Separators are swallowed, forcing per-segment retry.
		return strings.ReplaceAll(prompt, strings.TrimSpace(llmSeparator), "")
	}, nil)

	out, err := client.TranslateBatch(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("TranslateBatch: %v", err)
	}
	// One joined attempt plus one request per segment.
	if fake.calls != 3 {
		t.Errorf("requests = %d, want 3", fake.calls)
	}
	if out[0] != "one" || out[1] != "two" {
		t.Errorf("outputs = %q", out)
	}
}

func TestLLMBatchUsesCache(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "translations.db"))
	if err := cache.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer cache.Close()
	cache.Store("hello", "en", "fa", "سلام")

	client, fake := newFakeLLMClient(func(string) string {
		t.Error("model called for a cached segment")
		return ""
	}, cache)

	out, err := client.TranslateBatch(context.Background(), []string{"hello", ""})
	if err != nil {
		t.Fatalf("TranslateBatch: %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("requests = %d, want 0", fake.calls)
	}
	if out[0] != "سلام" || out[1] != "" {
		t.Errorf("outputs = %q", out)
	}
}

func TestLLMSystemPromptNamesLanguages(t *testing.T) {
	client, _ := newFakeLLMClient(nil, nil)
	prompt := client.buildSystemPrompt()
	if !strings.Contains(prompt, "en") || !strings.Contains(prompt, "fa") {
		t.Errorf("prompt does not name the language pair:\n%s", prompt)
	}

	client.srcLang = "auto"
	if !strings.Contains(client.buildSystemPrompt(), "the source language") {
		t.Error("auto source not spelled out")
	}
}
