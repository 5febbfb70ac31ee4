package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

var kindByExtension = map[string]string{
	"pdf":  "PDF Document",
	"docx": "Word Document",
	"txt":  "Text File",
}

// fileKind describes a file by its extension
func fileKind(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if kind, ok := kindByExtension[ext]; ok {
		return kind
	}
	return "Unknown File Type"
}

func unsupportedPlaceholder(doc entities.Document) string {
	size := doc.Size
	if size == 0 {
		size = int64(len(doc.Data))
	}
	return fmt.Sprintf("[Unsupported file type: %s]\n\nFile Details:\nName: %s\nSize: %s\nType: %s",
		fileKind(doc.Name), doc.Name, entities.FormatFileSize(size), doc.DeclaredType)
}

func errorPlaceholder(doc entities.Document) string {
	switch doc.Format() {
	case entities.FormatPDF:
		return fmt.Sprintf("[Error extracting content from %s. The PDF might be encrypted, damaged, or uses unsupported features.]", doc.Name)
	case entities.FormatDOCX:
		return fmt.Sprintf("[Error extracting content from %s. The DOCX file might be damaged or uses unsupported features.]", doc.Name)
	default:
		return fmt.Sprintf("[Error extracting content from %s]", doc.Name)
	}
}

func pageErrorPlaceholder(doc entities.Document, pageNr int) string {
	return fmt.Sprintf("[Error extracting page %d of %s]", pageNr, doc.Name)
}

func emptyPDFPlaceholder(doc entities.Document) string {
	return fmt.Sprintf("[PDF content extraction completed: %s]", doc.Name)
}

func emptyDOCXPlaceholder(doc entities.Document) string {
	return fmt.Sprintf("[DOCX content extracted from %s]", doc.Name)
}
