package translator

import (
	"context"
	"errors"
	"testing"

	"doc-translator/internal/types"
)

func TestNewUnknownBackend(t *testing.T) {
	cfg := &types.Config{Backend: "carrier-pigeon", TargetLang: "fa"}
	_, err := New(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrConfig {
		t.Errorf("code = %v, want %v", appErr.Code, types.ErrConfig)
	}
}

func TestNewDefaultsToGoogle(t *testing.T) {
	cfg := &types.Config{TargetLang: "fa"}
	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()
	if _, ok := client.(*GoogleClient); !ok {
		t.Errorf("expected *GoogleClient, got %T", client)
	}
}

func TestNewLLMRequiresAPIKey(t *testing.T) {
	cfg := &types.Config{Backend: BackendLLM, TargetLang: "fa"}
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("expected error when LLM backend has no API key")
	}
}
