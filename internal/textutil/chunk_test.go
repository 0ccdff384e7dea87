package textutil

import (
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := ChunkText("hello world", 450)
		if len(chunks) != 1 || chunks[0] != "hello world" {
			t.Errorf("got %q", chunks)
		}
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		if chunks := ChunkText("", 450); len(chunks) != 0 {
			t.Errorf("got %q", chunks)
		}
	})

	t.Run("splits on line boundaries", func(t *testing.T) {
		text := "first line\nsecond line\nthird line"
		chunks := ChunkText(text, 22)
		if len(chunks) < 2 {
			t.Fatalf("expected multiple chunks, got %q", chunks)
		}
		for _, chunk := range chunks {
			if n := len([]rune(chunk)); n > 22 {
				t.Errorf("chunk %q has %d chars, limit 22", chunk, n)
			}
		}
	})

	t.Run("never splits a rune", func(t *testing.T) {
		// Persian text: every rune is multi-byte, so a byte-based
		// splitter would corrupt it.
		text := strings.Repeat("سلام دنیا ", 30)
		chunks := ChunkText(text, 40)
		for _, chunk := range chunks {
			if strings.ContainsRune(chunk, '�') {
				t.Errorf("chunk contains replacement char: %q", chunk)
			}
			if n := len([]rune(chunk)); n > 40 {
				t.Errorf("chunk has %d chars, limit 40", n)
			}
		}
	})

	t.Run("long unbreakable line is split at spaces or hard limit", func(t *testing.T) {
		text := strings.Repeat("x", 100)
		chunks := ChunkText(text, 30)
		if len(chunks) < 4 {
			t.Fatalf("expected at least 4 chunks, got %d", len(chunks))
		}
		var total int
		for _, chunk := range chunks {
			total += len([]rune(chunk))
		}
		if total != 100 {
			t.Errorf("chunks lost content: total %d chars", total)
		}
	})
}

func TestJoinChunks(t *testing.T) {
	joined := JoinChunks([]string{"a", "b", "c"})
	if joined != "a\nb\nc" {
		t.Errorf("JoinChunks = %q", joined)
	}
	if JoinChunks(nil) != "" {
		t.Error("JoinChunks(nil) should be empty")
	}
}
