package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"doc-translator/internal/types"
)

const minimalDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:body><w:p><w:r><w:t>Hello</w:t></w:r></w:p></w:body></w:document>`

func writeTestDocx(t *testing.T, entries map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(data)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	path := filepath.Join(t.TempDir(), "input.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return path
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.docx"))
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrFileNotFound {
		t.Errorf("err = %v, want ErrFileNotFound", err)
	}
}

func TestOpenRequiresDocumentPart(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
	})
	_, err := Open(path)
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrInvalidInput {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestOpenParsesTextParts(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		"[Content_Types].xml":   `<Types/>`,
		"word/document.xml":     minimalDocumentXML,
		"word/header1.xml":      `<w:hdr><w:p><w:r><w:t>Head</w:t></w:r></w:p></w:hdr>`,
		"word/footer1.xml":      `<w:ftr><w:p><w:r><w:t>Foot</w:t></w:r></w:p></w:ftr>`,
		"word/styles.xml":       `<w:styles/>`,
		"word/media/image1.png": "\x89PNG fake bytes",
	})

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	parts := doc.Parts()
	if len(parts) != 3 {
		t.Fatalf("text parts = %d, want 3", len(parts))
	}
	if parts[0].Name != documentPart {
		t.Errorf("first part = %s, want %s", parts[0].Name, documentPart)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		"[Content_Types].xml":   `<Types/>`,
		"word/document.xml":     minimalDocumentXML,
		"word/media/image1.png": "\x89PNG fake bytes",
	})

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	units := CollectUnits(doc, DefaultWalkOptions())
	if len(units) != 1 {
		t.Fatalf("units = %d, want 1", len(units))
	}
	SetRunText(units[0].Runs[0], "سلام")

	outPath := filepath.Join(t.TempDir(), "out.docx")
	if err := doc.Save(outPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reader, err := zip.OpenReader(outPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reader.Close()

	contents := make(map[string]string)
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry: %v", err)
		}
		data := new(bytes.Buffer)
		data.ReadFrom(rc)
		rc.Close()
		contents[f.Name] = data.String()
	}

	if !strings.Contains(contents["word/document.xml"], "سلام") {
		t.Error("translated text missing from saved document")
	}
	// Untouched entries survive byte for byte.
	if contents["word/media/image1.png"] != "\x89PNG fake bytes" {
		t.Error("binary entry was not preserved")
	}
	if contents["[Content_Types].xml"] != `<Types/>` {
		t.Error("content types entry was not preserved")
	}
}
