package pdfvalidation

import (
	"bytes"
	"testing"

	"github.com/disserto/disserto-api/utils/pdfvalidation/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		limits   PDFLimits
		valid    bool
		pages    int
		errMsg   string
	}{
		{
			name:     "valid dissertation",
			filename: "thesis.PDF",
			content:  pdftest.Minimal(3),
			limits:   DissertationLimits,
			valid:    true,
			pages:    3,
		},
		{
			name:     "wrong extension",
			filename: "thesis.docx",
			content:  pdftest.Minimal(1),
			limits:   DissertationLimits,
			errMsg:   "Only PDF files are supported",
		},
		{
			name:     "missing header",
			filename: "thesis.pdf",
			content:  []byte("just some text pretending to be a pdf"),
			limits:   DissertationLimits,
			errMsg:   "Invalid PDF file: missing PDF header",
		},
		{
			name:     "too many pages",
			filename: "thesis.pdf",
			content:  pdftest.Minimal(4),
			limits:   PDFLimits{MaxFileSizeMB: 1, MaxPages: 2, DocumentTypeName: "dissertation"},
			pages:    4,
			errMsg:   "PDF has 4 pages, which exceeds the maximum of 2 pages for dissertation",
		},
		{
			name:     "too large",
			filename: "thesis.pdf",
			content:  append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 21*1024*1024)...),
			limits:   DissertationLimits,
			errMsg:   "File size exceeds maximum allowed size of 20MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateUpload(tt.filename, tt.content, tt.limits)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.pages, result.PageCount)
			assert.Equal(t, tt.errMsg, result.Error)
		})
	}
}

func TestValidatePDFBytes_TruncatedPDF(t *testing.T) {
	content := pdftest.Minimal(2)
	result, err := ValidatePDFBytes(content[:len(content)/2], DissertationLimits)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Error)
}

func TestSanitizePDF_DropsTrailingGarbage(t *testing.T) {
	content := append(pdftest.Minimal(1), []byte("garbage after eof")...)
	result, err := ValidatePDFBytes(content, DissertationLimits)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.PageCount)
}
