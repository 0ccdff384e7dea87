// Package docx translates the text of a Word document in place while
// preserving structure and inline formatting. The document is treated
// as a ZIP of XML parts; only the parts carrying text are parsed and
// rewritten, every other entry is copied through byte for byte.
package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path"
	"strings"

	"github.com/beevik/etree"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

const documentPart = "word/document.xml"

// Part is one parsed XML part of the package: the main document body
// or a header/footer.
type Part struct {
	Name string
	Tree *etree.Document
}

// Document is an open DOCX package. Parsed parts are mutated through
// their trees; unparsed entries are kept verbatim for the save.
type Document struct {
	entries []zipEntry
	parts   []*Part
}

type zipEntry struct {
	name string
	data []byte
}

// Open reads a DOCX file, parses the main document and any header or
// footer parts, and keeps the remaining entries untouched.
func Open(filePath string) (*Document, error) {
	reader, err := zip.OpenReader(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound, "input DOCX not found", filePath, err)
		}
		return nil, types.NewAppError(types.ErrExtract, "failed to open DOCX archive", err)
	}
	defer reader.Close()

	doc := &Document{}
	sawDocument := false
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, types.NewAppError(types.ErrExtract, "failed to read DOCX entry", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, types.NewAppError(types.ErrExtract, "failed to read DOCX entry", err)
		}
		doc.entries = append(doc.entries, zipEntry{name: file.Name, data: data})

		if isTextPart(file.Name) {
			tree := etree.NewDocument()
			if err := tree.ReadFromBytes(data); err != nil {
				return nil, types.NewAppErrorWithDetails(types.ErrExtract, "failed to parse DOCX part", file.Name, err)
			}
			doc.parts = append(doc.parts, &Part{Name: file.Name, Tree: tree})
			if file.Name == documentPart {
				sawDocument = true
			}
		}
	}

	if !sawDocument {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput, "not a DOCX document", "missing "+documentPart, nil)
	}

	logger.Debug("DOCX opened",
		logger.String("path", filePath),
		logger.Int("entries", len(doc.entries)),
		logger.Int("textParts", len(doc.parts)))
	return doc, nil
}

// isTextPart reports whether a package entry carries paragraph text.
func isTextPart(name string) bool {
	if name == documentPart {
		return true
	}
	base := path.Base(name)
	if path.Dir(name) != "word" {
		return false
	}
	return (strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")) &&
		strings.HasSuffix(base, ".xml")
}

// Parts returns the parsed text-bearing parts, the main document
// first.
func (d *Document) Parts() []*Part {
	ordered := make([]*Part, 0, len(d.parts))
	for _, p := range d.parts {
		if p.Name == documentPart {
			ordered = append(ordered, p)
		}
	}
	for _, p := range d.parts {
		if p.Name != documentPart {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// Save serializes the mutated parts back over their entries and writes
// the package to outputPath.
func (d *Document) Save(outputPath string) error {
	serialized := make(map[string][]byte, len(d.parts))
	for _, part := range d.parts {
		data, err := part.Tree.WriteToBytes()
		if err != nil {
			return types.NewAppErrorWithDetails(types.ErrRender, "failed to serialize DOCX part", part.Name, err)
		}
		serialized[part.Name] = data
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, entry := range d.entries {
		w, err := writer.Create(entry.name)
		if err != nil {
			writer.Close()
			return types.NewAppError(types.ErrRender, "failed to write DOCX entry", err)
		}
		data := entry.data
		if updated, ok := serialized[entry.name]; ok {
			data = updated
		}
		if _, err := w.Write(data); err != nil {
			writer.Close()
			return types.NewAppError(types.ErrRender, "failed to write DOCX entry", err)
		}
	}
	if err := writer.Close(); err != nil {
		return types.NewAppError(types.ErrRender, "failed to finalize DOCX archive", err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return types.NewAppError(types.ErrRender, "failed to write output DOCX", err)
	}
	logger.Info("translated DOCX saved", logger.String("path", outputPath))
	return nil
}
