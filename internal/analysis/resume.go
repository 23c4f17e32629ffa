package analysis

import (
	"fmt"
	"strings"
)

type PayloadKind string

const (
	PayloadText   PayloadKind = "text"
	PayloadBinary PayloadKind = "binary"
)

// ResumePayload is a tagged union: exactly one of Content (text) or
// MIMEType+Data (binary) is populated.
type ResumePayload struct {
	Kind     PayloadKind `json:"kind"`
	Content  string      `json:"content,omitempty"`
	MIMEType string      `json:"mimeType,omitempty"`
	Data     []byte      `json:"base64,omitempty"`
}

const (
	mimeText = "text/plain"
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// imageMIMEs are forwarded to the model as inline data parts. Declared types
// are trusted; magic-byte sniffing is out of scope.
var imageMIMEs = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// NormalizeText wraps pasted or pre-extracted résumé text.
func NormalizeText(text string) (ResumePayload, error) {
	if strings.TrimSpace(text) == "" {
		return ResumePayload{}, newError(KindValidation, "empty resume", nil)
	}
	return ResumePayload{Kind: PayloadText, Content: text}, nil
}

// NormalizeBinary converts raw file bytes plus a declared MIME type into a
// payload. Document types are extracted to text locally; image types stay
// binary and ride along as model attachments.
func NormalizeBinary(mimeType string, data []byte) (ResumePayload, error) {
	if len(data) == 0 {
		return ResumePayload{}, newError(KindValidation, "empty resume file", nil)
	}

	switch mimeType {
	case mimeText:
		return NormalizeText(string(data))

	case mimePDF:
		text, err := extractPDFText(data)
		if err != nil {
			return ResumePayload{}, newError(KindValidation, "unreadable pdf resume", err)
		}
		return NormalizeText(text)

	case mimeDocx:
		text, err := extractDocxText(data)
		if err != nil {
			return ResumePayload{}, newError(KindValidation, "unreadable docx resume", err)
		}
		return NormalizeText(text)
	}

	if imageMIMEs[mimeType] {
		return ResumePayload{Kind: PayloadBinary, MIMEType: mimeType, Data: data}, nil
	}
	return ResumePayload{}, newError(KindValidation, fmt.Sprintf("unsupported file type: %s", mimeType), nil)
}
