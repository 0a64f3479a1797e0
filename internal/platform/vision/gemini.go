package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

// Classifier extracts supplement product candidates from a label photo. The
// output is advisory: callers must treat it as untrusted user input.
type Classifier interface {
	ClassifyImage(ctx context.Context, image []byte, mimeType string) ([]types.RecognizedProduct, error)
}

type geminiClassifier struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

const classifierPrompt = `Identify the supplement products visible in this image.
Respond with a JSON array only. Each element:
{"name": string, "brand": string|null, "form": string|null,
 "serving_size": string|null, "serving_unit": string|null,
 "per_serving": object|null}
Use null when a field is not readable. Respond with [] when no supplement
product is visible.`

// NewGeminiClassifier configures the client from the environment. A missing
// GEMINI_API_KEY is an error so image endpoints can be disabled cleanly at
// wiring time.
func NewGeminiClassifier(log *logger.Logger) (Classifier, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	timeoutSec := 60
	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("GEMINI_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &geminiClassifier{
		log:        log.With("component", "GeminiClassifier"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type geminiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *geminiHTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func isRetryable(err error) bool {
	var httpErr *geminiHTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.StatusCode == 408 || httpErr.StatusCode == 429 ||
			(httpErr.StatusCode >= 500 && httpErr.StatusCode <= 599)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (gc *geminiClassifier) ClassifyImage(ctx context.Context, image []byte, mimeType string) ([]types.RecognizedProduct, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image payload is empty", errors.ErrInvalidArgument)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: classifierPrompt},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", gc.baseURL, gc.model)

	var lastErr error
	for attempt := 0; attempt <= gc.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			backoff += time.Duration(rand.Int63n(int64(250 * time.Millisecond)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			gc.log.Warn("retrying gemini call", "attempt", attempt, "error", lastErr)
		}

		text, err := gc.call(ctx, url, body)
		if err == nil {
			return parseProducts(text)
		}
		lastErr = err
		if ctx.Err() != nil || !isRetryable(err) {
			break
		}
	}
	return nil, fmt.Errorf("gemini classify: %w", lastErr)
}

func (gc *geminiClassifier) call(ctx context.Context, url string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", gc.apiKey)

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &geminiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	var text strings.Builder
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

// parseProducts tolerates markdown fencing and leading prose around the JSON
// array the prompt asks for.
func parseProducts(text string) ([]types.RecognizedProduct, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in classifier output")
	}

	var products []types.RecognizedProduct
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &products); err != nil {
		return nil, fmt.Errorf("decode classifier output: %w", err)
	}

	filtered := products[:0]
	for _, product := range products {
		product.Name = strings.TrimSpace(product.Name)
		if product.Name == "" {
			continue
		}
		filtered = append(filtered, product)
	}
	return filtered, nil
}
