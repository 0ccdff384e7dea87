package docx

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// stubClient records calls and applies transform to every request.
type stubClient struct {
	transform  func(string) string
	textCalls  []string
	batchCalls [][]string
	textErr    error
}

func (s *stubClient) TranslateText(ctx context.Context, text string) (string, error) {
	s.textCalls = append(s.textCalls, text)
	if s.textErr != nil {
		return "", s.textErr
	}
	return s.transform(text), nil
}

func (s *stubClient) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	s.batchCalls = append(s.batchCalls, append([]string(nil), texts...))
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = s.transform(t)
	}
	return out, nil
}

func (s *stubClient) Close() error { return nil }

func identity(text string) string { return text }

func TestAggregateTranslatePacksByItemBudget(t *testing.T) {
	texts := make([]string, 40)
	for i := range texts {
		texts[i] = fmt.Sprintf("paragraph %d", i)
	}
	client := &stubClient{transform: identity}

	out, err := AggregateTranslate(context.Background(), client, texts, AggregateOptions{})
	if err != nil {
		t.Fatalf("AggregateTranslate: %v", err)
	}
	// 40 items with the default 32-item cap make two requests.
	if len(client.textCalls) != 2 {
		t.Fatalf("requests = %d, want 2", len(client.textCalls))
	}
	for i, got := range out {
		if got != texts[i] {
			t.Errorf("output %d = %q, want %q", i, got, texts[i])
		}
	}
}

func TestAggregateTranslateRespectsCharBudget(t *testing.T) {
	long := strings.Repeat("x", 90)
	texts := []string{long, long, long}
	client := &stubClient{transform: identity}

	// Each item costs ~110 chars, so a 250-char budget fits two at most.
	_, err := AggregateTranslate(context.Background(), client, texts, AggregateOptions{MaxChars: 250})
	if err != nil {
		t.Fatalf("AggregateTranslate: %v", err)
	}
	if len(client.textCalls) != 2 {
		t.Errorf("requests = %d, want 2", len(client.textCalls))
	}
}

func TestAggregateTranslateEmptyItems(t *testing.T) {
	client := &stubClient{transform: identity}
	out, err := AggregateTranslate(context.Background(), client, []string{"", "text", ""}, AggregateOptions{})
	if err != nil {
		t.Fatalf("AggregateTranslate: %v", err)
	}
	if out[0] != "" || out[2] != "" {
		t.Errorf("empty inputs produced output: %q", out)
	}
	if out[1] != "text" {
		t.Errorf("out[1] = %q", out[1])
	}
}

func TestAggregateTranslateFallsBackWhenMarkersLost(t *testing.T) {
	strip := func(text string) string {
		text = strings.ReplaceAll(text, ParOpen, "")
		return strings.ToUpper(strings.ReplaceAll(text, ParClose, ""))
	}
	client := &stubClient{transform: strip}

	out, err := AggregateTranslate(context.Background(), client, []string{"one", "two"}, AggregateOptions{})
	if err != nil {
		t.Fatalf("AggregateTranslate: %v", err)
	}
	if len(client.batchCalls) != 1 {
		t.Fatalf("expected one per-item fallback batch, got %d", len(client.batchCalls))
	}
	if out[0] != "ONE" || out[1] != "TWO" {
		t.Errorf("outputs = %q", out)
	}
}

func TestAggregateTranslateFallsBackOnRequestError(t *testing.T) {
	client := &stubClient{transform: identity, textErr: fmt.Errorf("rate limited")}

	out, err := AggregateTranslate(context.Background(), client, []string{"one", "two"}, AggregateOptions{})
	if err != nil {
		t.Fatalf("AggregateTranslate: %v", err)
	}
	if len(client.batchCalls) != 1 {
		t.Fatalf("expected fallback batch, got %d", len(client.batchCalls))
	}
	if out[0] != "one" || out[1] != "two" {
		t.Errorf("outputs = %q", out)
	}
}

func TestAggregateTranslateMarkedPayloadShape(t *testing.T) {
	client := &stubClient{transform: identity}
	if _, err := AggregateTranslate(context.Background(), client, []string{"alpha", "beta"}, AggregateOptions{}); err != nil {
		t.Fatalf("AggregateTranslate: %v", err)
	}
	if len(client.textCalls) != 1 {
		t.Fatalf("requests = %d, want 1", len(client.textCalls))
	}
	payload := client.textCalls[0]
	want := ParOpen + "0" + ParOpen + "alpha" + ParClose + "0" + ParClose + "\n" +
		ParOpen + "1" + ParOpen + "beta" + ParClose + "1" + ParClose
	if payload != want {
		t.Errorf("payload = %q, want %q", payload, want)
	}
}
