package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

func TestValidateUpload(t *testing.T) {
	const mb = 1024 * 1024

	tests := []struct {
		name     string
		doc      entities.Document
		maxBytes int64
		category entities.ErrorCategory
		sentinel error
	}{
		{name: "pdf", doc: entities.Document{Name: "a.pdf", DeclaredType: entities.MimePDF, Size: 100}},
		{name: "docx", doc: entities.Document{Name: "a.docx", DeclaredType: entities.MimeDOCX, Size: 100}},
		{name: "text", doc: entities.Document{Name: "a.txt", DeclaredType: entities.MimeText, Size: 100}},
		{name: "exactly at limit", doc: entities.Document{Name: "a.txt", DeclaredType: entities.MimeText, Size: 10 * mb}},
		{
			name:     "png rejected",
			doc:      entities.Document{Name: "a.png", DeclaredType: "image/png", Size: 100},
			category: entities.CategoryInvalidFileType,
			sentinel: entities.ErrInvalidFileType,
		},
		{
			name:     "missing type rejected",
			doc:      entities.Document{Name: "a.pdf", Size: 100},
			category: entities.CategoryInvalidFileType,
			sentinel: entities.ErrInvalidFileType,
		},
		{
			name:     "too large for default",
			doc:      entities.Document{Name: "big.pdf", DeclaredType: entities.MimePDF, Size: 10*mb + 1},
			category: entities.CategoryFileTooLarge,
			sentinel: entities.ErrFileTooLarge,
		},
		{
			name:     "too large for configured limit",
			doc:      entities.Document{Name: "a.txt", DeclaredType: entities.MimeText, Data: make([]byte, 2048)},
			maxBytes: 1024,
			category: entities.CategoryFileTooLarge,
			sentinel: entities.ErrFileTooLarge,
		},
		{
			name:     "type checked before size",
			doc:      entities.Document{Name: "a.png", DeclaredType: "image/png", Size: 50 * mb},
			category: entities.CategoryInvalidFileType,
			sentinel: entities.ErrInvalidFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.doc, tt.maxBytes)
			if tt.sentinel == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var uploadErr *entities.UploadError
			require.True(t, errors.As(err, &uploadErr))
			assert.Equal(t, tt.category, uploadErr.Category)
			assert.Contains(t, uploadErr.Message, tt.doc.Name)
		})
	}
}
