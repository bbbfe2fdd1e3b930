package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const summarizePath = "/summarize"

// HTTPClient implements Client against the external NLP service's multipart
// /summarize endpoint.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient constructs a summarizer client for the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("SUMMARIZER_URL is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type summarizeResponse struct {
	Success bool            `json:"success"`
	Summary json.RawMessage `json:"summary"`
	Error   *string         `json:"error"`
}

// Summarize streams the file to the collaborator as multipart form data and
// decodes the returned summary. The file is never buffered whole in memory.
func (c *HTTPClient) Summarize(ctx context.Context, file io.Reader, fileName, mediaType string) (Result, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreatePart(filePartHeader(fileName, mediaType))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if closeErr := mw.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+summarizePath, pr)
	if err != nil {
		return Result{}, &Error{Cause: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return Result{}, &Error{Cause: "summarizer request timeout"}
		}
		return Result{}, &Error{Cause: fmt.Sprintf("summarizer request: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Result{}, &Error{Cause: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &Error{Cause: fmt.Sprintf("summarizer status %d: %s", resp.StatusCode, truncate(string(body), 200))}
	}

	var decoded summarizeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, &Error{Cause: fmt.Sprintf("decode response: %v", err)}
	}
	if !decoded.Success {
		cause := "summarizer reported failure"
		if decoded.Error != nil && strings.TrimSpace(*decoded.Error) != "" {
			cause = *decoded.Error
		}
		return Result{}, &Error{Cause: cause}
	}
	if len(decoded.Summary) == 0 || string(decoded.Summary) == "null" {
		return Result{}, &Error{Cause: "summarizer returned no summary"}
	}

	var result Result
	if err := json.Unmarshal(decoded.Summary, &result); err != nil {
		return Result{}, &Error{Cause: fmt.Sprintf("decode summary: %v", err)}
	}
	return result, nil
}

func filePartHeader(fileName, mediaType string) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	if strings.TrimSpace(mediaType) == "" {
		mediaType = "application/octet-stream"
	}
	h.Set("Content-Type", mediaType)
	return h
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ Client = (*HTTPClient)(nil)
