package summarizer

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPClientSummarizeStructured(t *testing.T) {
	var gotContentType, gotPartName, gotPartType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		files := r.MultipartForm.File["file"]
		if len(files) == 1 {
			gotPartName = files[0].Filename
			gotPartType = files[0].Header.Get("Content-Type")
			f, err := files[0].Open()
			if err == nil {
				data, _ := io.ReadAll(f)
				gotBody = string(data)
				f.Close()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"summary":{"key_points":["point"],"tables":[],"highlights":[]},"error":null}`)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	result, err := client.Summarize(context.Background(), bytes.NewReader([]byte("contract text")), "contract.txt", "text/plain")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if result.Structured == nil || len(result.Structured.KeyPoints) != 1 {
		t.Fatalf("expected structured result, got %+v", result)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Fatalf("expected multipart request, got %q", gotContentType)
	}
	if gotPartName != "contract.txt" {
		t.Fatalf("expected filename contract.txt, got %q", gotPartName)
	}
	if gotPartType != "text/plain" {
		t.Fatalf("expected part content type text/plain, got %q", gotPartType)
	}
	if gotBody != "contract text" {
		t.Fatalf("expected streamed body, got %q", gotBody)
	}
}

func TestHTTPClientSummarizePlainString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"summary":"Short summary.","error":null}`)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	result, err := client.Summarize(context.Background(), strings.NewReader("x"), "a.txt", "text/plain")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if result.Structured != nil || result.Plain != "Short summary." {
		t.Fatalf("expected plain result, got %+v", result)
	}
}

func TestHTTPClientSummarizeReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"summary":null,"error":"OCR failed: unreadable scan"}`)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	_, err = client.Summarize(context.Background(), strings.NewReader("x"), "a.pdf", "application/pdf")
	if err == nil {
		t.Fatalf("expected error")
	}
	sumErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !strings.Contains(sumErr.Cause, "OCR failed") {
		t.Fatalf("expected collaborator cause, got %q", sumErr.Cause)
	}
}

func TestHTTPClientSummarizeNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	_, err = client.Summarize(context.Background(), strings.NewReader("x"), "a.txt", "text/plain")
	if err == nil {
		t.Fatalf("expected error on 500")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
}

func TestHTTPClientSummarizeTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client, err := NewHTTPClient(srv.URL, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	_, err = client.Summarize(context.Background(), strings.NewReader("x"), "a.txt", "text/plain")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	sumErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !strings.Contains(sumErr.Cause, "timeout") {
		t.Fatalf("expected timeout cause, got %q", sumErr.Cause)
	}
}
