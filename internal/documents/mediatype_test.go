package documents

import (
	"errors"
	"testing"
)

func TestResolveMediaType(t *testing.T) {
	tests := []struct {
		name       string
		declared   string
		headerType string
		fileName   string
		want       string
		wantErr    bool
	}{
		{name: "declared pdf", declared: "application/pdf", fileName: "a.bin", want: "application/pdf"},
		{name: "header wins when declared empty", headerType: "text/plain; charset=utf-8", fileName: "a.bin", want: "text/plain"},
		{name: "octet stream falls back to extension", headerType: "application/octet-stream", fileName: "lease.docx", want: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{name: "extension only", fileName: "scan.TIFF", want: "image/tiff"},
		{name: "jpeg variants", fileName: "photo.jpg", want: "image/jpeg"},
		{name: "explicit unsupported type", declared: "application/zip", fileName: "a.docx", wantErr: true},
		{name: "unsupported extension", fileName: "malware.exe", wantErr: true},
		{name: "no extension", fileName: "README", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMediaType(tt.declared, tt.headerType, tt.fileName)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected validation error, got %v (%q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
