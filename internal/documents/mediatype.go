package documents

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	mediaPDF  = "application/pdf"
	mediaDOC  = "application/msword"
	mediaDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mediaTXT  = "text/plain"
	mediaPNG  = "image/png"
	mediaJPEG = "image/jpeg"
	mediaTIFF = "image/tiff"
)

var allowedMediaTypes = map[string]struct{}{
	mediaPDF:  {},
	mediaDOC:  {},
	mediaDOCX: {},
	mediaTXT:  {},
	mediaPNG:  {},
	mediaJPEG: {},
	mediaTIFF: {},
}

var extensionMediaTypes = map[string]string{
	".pdf":  mediaPDF,
	".doc":  mediaDOC,
	".docx": mediaDOCX,
	".txt":  mediaTXT,
	".png":  mediaPNG,
	".jpg":  mediaJPEG,
	".jpeg": mediaJPEG,
	".tif":  mediaTIFF,
	".tiff": mediaTIFF,
}

// ResolveMediaType picks the canonical media type for an upload from the
// caller-declared type, the multipart header, and the file extension, in that
// order. Anything outside the allowed set fails validation.
func ResolveMediaType(declared, headerType, fileName string) (string, error) {
	for _, candidate := range []string{declared, headerType} {
		clean := normalizeMediaType(candidate)
		if clean == "" {
			continue
		}
		if _, ok := allowedMediaTypes[clean]; ok {
			return clean, nil
		}
		// A browser-supplied octet-stream says nothing; fall through to the
		// extension. Any other explicit type is a rejection.
		if clean != "application/octet-stream" {
			return "", fmt.Errorf("%w: unsupported media type %q", ErrInvalidInput, clean)
		}
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if mapped, ok := extensionMediaTypes[ext]; ok {
		return mapped, nil
	}
	return "", fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, ext)
}

func normalizeMediaType(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}
