package translate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const googleWebURL = "https://translate.google.com/m"

// GoogleWeb translates by reading the result off Google Translate's
// lightweight mobile page. It needs no API key, but each text is a separate
// page request.
type GoogleWeb struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleWeb creates a Google web translator. An empty baseURL uses the
// public mobile endpoint.
func NewGoogleWeb(baseURL string, timeout time.Duration) *GoogleWeb {
	if baseURL == "" {
		baseURL = googleWebURL
	}
	return &GoogleWeb{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// Name implements Translator
func (g *GoogleWeb) Name() string {
	return "google-web"
}

// Translate implements Translator
func (g *GoogleWeb) Translate(ctx context.Context, texts []string, target, source string) ([]string, error) {
	if len(texts) == 0 {
		return nil, unavailable(g.Name(), target, fmt.Errorf("no texts to translate"))
	}

	out := make([]string, 0, len(texts))
	for _, text := range texts {
		translated, err := g.translateOne(ctx, text, target, source)
		if err != nil {
			return nil, unavailable(g.Name(), target, err)
		}
		out = append(out, translated)
	}

	if err := checkResults(texts, out); err != nil {
		return nil, unavailable(g.Name(), target, err)
	}
	return out, nil
}

func (g *GoogleWeb) translateOne(ctx context.Context, text, target, source string) (string, error) {
	params := url.Values{}
	params.Set("sl", googleCode(source))
	params.Set("tl", googleCode(target))
	params.Set("hl", "en")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return parseResult(io.LimitReader(resp.Body, maxResponseSize))
}

// parseResult extracts the translated text from the mobile result page
func parseResult(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	sel := doc.Find("div.result-container").First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("result container not found")
	}

	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return "", fmt.Errorf("result container is empty")
	}
	return text, nil
}

// googleCode lowercases a table code; an empty source means auto-detect
func googleCode(code string) string {
	if code == "" {
		return "auto"
	}
	return strings.ToLower(code)
}
