package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
)

const (
	deeplProURL  = "https://api.deepl.com"
	deeplFreeURL = "https://api-free.deepl.com"
)

// DeepL translates through the DeepL v2 REST API
type DeepL struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDeepL creates a DeepL client. An empty baseURL picks the free or pro
// endpoint from the key (free keys end in ":fx").
func NewDeepL(apiKey, baseURL string, timeout time.Duration) (*DeepL, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperror.New(apperror.KindConfiguration, "DeepL API key is required")
	}

	if baseURL == "" {
		baseURL = deeplProURL
		if strings.HasSuffix(apiKey, ":fx") {
			baseURL = deeplFreeURL
		}
	}

	return &DeepL{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(timeout),
	}, nil
}

// Name implements Translator
func (d *DeepL) Name() string {
	return "deepl"
}

type deeplRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	SourceLang string   `json:"source_lang,omitempty"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate implements Translator with a single POST /v2/translate
func (d *DeepL) Translate(ctx context.Context, texts []string, target, source string) ([]string, error) {
	if len(texts) == 0 {
		return nil, unavailable(d.Name(), target, fmt.Errorf("no texts to translate"))
	}

	payload := deeplRequest{
		Text:       texts,
		TargetLang: deeplTarget(target),
		SourceLang: strings.ToUpper(source),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, unavailable(d.Name(), target, fmt.Errorf("marshaling payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v2/translate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, unavailable(d.Name(), target, fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, unavailable(d.Name(), target, fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, unavailable(d.Name(), target, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable(d.Name(), target, statusError(resp.StatusCode, body))
	}

	var result deeplResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, unavailable(d.Name(), target, fmt.Errorf("parsing response: %w", err))
	}

	out := make([]string, 0, len(result.Translations))
	for _, tr := range result.Translations {
		out = append(out, tr.Text)
	}

	if err := checkResults(texts, out); err != nil {
		return nil, unavailable(d.Name(), target, err)
	}

	return out[:len(texts)], nil
}

// deeplTarget maps table codes onto DeepL target codes; EN and PT need a
// regional variant as targets.
func deeplTarget(code string) string {
	code = strings.ToUpper(code)
	switch code {
	case "EN":
		return "EN-US"
	case "PT":
		return "PT-BR"
	default:
		return code
	}
}

func statusError(status int, body []byte) error {
	var apiErr struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &apiErr)

	switch status {
	case http.StatusForbidden:
		return fmt.Errorf("DeepL API error (status %d): authorization failed", status)
	case http.StatusTooManyRequests:
		return fmt.Errorf("DeepL API error (status %d): too many requests", status)
	case 456:
		return fmt.Errorf("DeepL API error (status %d): quota exceeded", status)
	}

	if apiErr.Message != "" {
		return fmt.Errorf("DeepL API error (status %d): %s", status, apiErr.Message)
	}
	return fmt.Errorf("DeepL API error (status %d)", status)
}
