package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"legaldocs-backend/internal/bootstrap"
	"legaldocs-backend/internal/pollwait"
	"legaldocs-backend/internal/shared/config"
)

func stubSummarizerServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"summary": map[string]any{
				"keyPoints":  []string{"point one"},
				"tables":     []any{},
				"highlights": []string{},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func buildTestApp(t *testing.T, maxUploadBytes int64) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:              "0",
		Env:               "dev",
		CORSAllowOrigin:   []string{"http://localhost:5173"},
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		SummarizerURL:     stubSummarizerServer(t).URL,
		SummarizerTimeout: 5 * time.Second,
		MaxUploadBytes:    maxUploadBytes,
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func multipartUpload(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("document", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, router *gin.Engine, guestID, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload(t, fileName, content)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func getDocument(t *testing.T, router *gin.Engine, guestID, documentID string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+documentID, nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var decoded map[string]any
	if resp.Code == http.StatusOK {
		var envelope struct {
			Success  bool           `json:"success"`
			Document map[string]any `json:"document"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode document response: %v", err)
		}
		if !envelope.Success {
			t.Fatalf("expected success=true fetching document %s", documentID)
		}
		if envelope.Document == nil {
			t.Fatalf("expected record nested under \"document\" fetching %s", documentID)
		}
		decoded = envelope.Document
	}
	return resp, decoded
}

func TestUploadProcessesToCompleted(t *testing.T) {
	app := buildTestApp(t, 0)

	resp := doUpload(t, app.Router, "alice", "note.txt", []byte("a"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Success    bool   `json:"success"`
		DocumentID string `json:"documentId"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !created.Success || created.DocumentID == "" {
		t.Fatalf("unexpected create response: %+v", created)
	}
	if created.Status != "uploaded" {
		t.Fatalf("initial status must be uploaded, got %q", created.Status)
	}

	// Processing runs detached; poll the fetch endpoint until terminal.
	var doc map[string]any
	status, err := pollwait.Wait(context.Background(), func(ctx context.Context) (string, bool, error) {
		_, doc = getDocument(t, app.Router, "alice", created.DocumentID)
		s, _ := doc["status"].(string)
		return s, s == "completed" || s == "failed", nil
	}, 20*time.Millisecond, 5*time.Second)
	if err != nil {
		t.Fatalf("document never reached a terminal state: %v (%v)", doc, err)
	}

	if status != "completed" {
		t.Fatalf("expected completed, got %v (error=%v)", status, doc["error"])
	}
	summary, ok := doc["summary"].(map[string]any)
	if !ok {
		t.Fatalf("completed document missing summary: %v", doc)
	}
	keyPoints, _ := summary["keyPoints"].([]any)
	if len(keyPoints) == 0 {
		t.Fatalf("expected non-empty keyPoints: %v", summary)
	}
	if doc["processedAt"] == nil {
		t.Fatal("expected processedAt on completed document")
	}
}

func TestGetDocumentNestsRecordUnderDocumentKey(t *testing.T) {
	app := buildTestApp(t, 0)

	resp := doUpload(t, app.Router, "alice", "note.txt", []byte("hello"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID, nil)
	req.Header.Set("X-Guest-Id", "alice")
	fetch := httptest.NewRecorder()
	app.Router.ServeHTTP(fetch, req)
	if fetch.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", fetch.Code, fetch.Body.String())
	}

	var envelope map[string]any
	if err := json.NewDecoder(fetch.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode fetch response: %v", err)
	}
	if envelope["success"] != true {
		t.Fatalf("expected success=true, got %v", envelope["success"])
	}
	doc, ok := envelope["document"].(map[string]any)
	if !ok {
		t.Fatalf("expected record nested under \"document\", got %v", envelope)
	}
	if doc["id"] != created.DocumentID {
		t.Fatalf("nested record id mismatch: got %v want %s", doc["id"], created.DocumentID)
	}
	if _, leaked := envelope["id"]; leaked {
		t.Fatal("record fields must not appear at the top level of the envelope")
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	app := buildTestApp(t, 0)

	resp := doUpload(t, app.Router, "alice", "malware.exe", []byte("MZ"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}

	var decoded struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if decoded.Success || decoded.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error envelope: %+v", decoded)
	}

	// No record may exist for a rejected upload.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summaries", nil)
	req.Header.Set("X-Guest-Id", "alice")
	listResp := httptest.NewRecorder()
	app.Router.ServeHTTP(listResp, req)
	var list struct {
		Summaries []any `json:"summaries"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Summaries) != 0 {
		t.Fatalf("rejected upload must not create records: %v", list.Summaries)
	}
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	app := buildTestApp(t, 8)

	resp := doUpload(t, app.Router, "alice", "big.txt", bytes.Repeat([]byte("x"), 64))
	if resp.Code != http.StatusBadRequest && resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected rejection, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCrossOwnerReadIsNotFound(t *testing.T) {
	app := buildTestApp(t, 0)

	resp := doUpload(t, app.Router, "alice", "note.txt", []byte("hello"))
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	other, _ := getDocument(t, app.Router, "bob", created.DocumentID)
	if other.Code != http.StatusNotFound {
		t.Fatalf("cross-owner read must be 404, got %d", other.Code)
	}
}

func TestStatusPollIsRateLimited(t *testing.T) {
	app := buildTestApp(t, 0)

	resp := doUpload(t, app.Router, "alice", "note.txt", []byte("hello"))
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	poll := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID+"/status", nil)
		req.Header.Set("X-Guest-Id", "alice")
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		return rec
	}

	first := poll()
	if first.Code != http.StatusOK {
		t.Fatalf("first poll must pass, got %d", first.Code)
	}
	second := poll()
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("immediate second poll must be limited, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestDeleteDocument(t *testing.T) {
	app := buildTestApp(t, 0)

	resp := doUpload(t, app.Router, "alice", "note.txt", []byte("hello"))
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.DocumentID, nil)
	req.Header.Set("X-Guest-Id", "alice")
	delResp := httptest.NewRecorder()
	app.Router.ServeHTTP(delResp, req)
	if delResp.Code != http.StatusOK {
		t.Fatalf("delete: got %d: %s", delResp.Code, delResp.Body.String())
	}

	after, _ := getDocument(t, app.Router, "alice", created.DocumentID)
	if after.Code != http.StatusNotFound {
		t.Fatalf("deleted document must be gone, got %d", after.Code)
	}
}
