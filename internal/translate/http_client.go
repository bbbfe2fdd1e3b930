package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const translatePath = "/translate"

// HTTPClient implements Client against the external translation service.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient constructs a translation client for the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("TRANSLATOR_URL is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

type translateResponse struct {
	Success        bool    `json:"success"`
	TranslatedText string  `json:"translatedText"`
	Error          *string `json:"error"`
}

// Translate issues a single call per text leaf. There is no internal retry;
// the adapter treats any failure as fatal for the whole operation.
func (c *HTTPClient) Translate(ctx context.Context, text, locale string) (string, error) {
	payload, err := json.Marshal(translateRequest{Text: text, Target: locale})
	if err != nil {
		return "", &Error{Cause: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+translatePath, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Cause: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", &Error{Cause: "translator request timeout"}
		}
		return "", &Error{Cause: fmt.Sprintf("translator request: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &Error{Cause: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{Cause: fmt.Sprintf("translator status %d", resp.StatusCode)}
	}

	var decoded translateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &Error{Cause: fmt.Sprintf("decode response: %v", err)}
	}
	if !decoded.Success {
		cause := "translator reported failure"
		if decoded.Error != nil && strings.TrimSpace(*decoded.Error) != "" {
			cause = *decoded.Error
		}
		return "", &Error{Cause: cause}
	}
	return decoded.TranslatedText, nil
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

var _ Client = (*HTTPClient)(nil)
