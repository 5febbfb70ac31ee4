package services

import (
	"fmt"
	"strings"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// ValidateUpload rejects documents that must not reach extraction: declared
// types outside the supported set and files larger than maxBytes.
// A non-positive maxBytes uses the default upload ceiling.
func ValidateUpload(doc entities.Document, maxBytes int64) error {
	if doc.Format() == entities.FormatUnsupported {
		return entities.NewUploadError(entities.CategoryInvalidFileType,
			fmt.Sprintf("%q has unsupported type %q (supported: %s)",
				doc.Name, doc.DeclaredType, strings.Join(entities.SupportedMimeTypes(), ", ")))
	}

	if maxBytes <= 0 {
		maxBytes = entities.UploadConfig{}.GetMaxBytes()
	}

	size := max(doc.Size, int64(len(doc.Data)))
	if size > maxBytes {
		return entities.NewUploadError(entities.CategoryFileTooLarge,
			fmt.Sprintf("%q is %s, maximum is %s",
				doc.Name, entities.FormatFileSize(size), entities.FormatFileSize(maxBytes)))
	}

	return nil
}
