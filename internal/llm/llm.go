// Package llm handles model provider communication, response extraction, and
// failure classification. Two wire shapes are spoken by the providers here:
// a flat system/user message list with a bearer credential (OpenAI,
// Anthropic) and a single concatenated prompt with an inline credential
// parameter (Gemini). Both produce the same schema.RawResponse.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/kaptinlin/jsonrepair"
	openai "github.com/openai/openai-go"
	"google.golang.org/api/googleapi"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/config"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// ErrMalformedResponse is returned when no parseable JSON object can be
// extracted from the provider payload.
var ErrMalformedResponse = errors.New("llm: malformed provider response")

// Invocation parameters. Temperature is pinned to 0 to minimize
// non-reproducibility; the response ceiling bounds provider cost and the
// validator's input size.
const (
	Temperature    = 0.0
	MaxTokens      = 4096
	DefaultTimeout = 30 * time.Second
)

// Provider is the interface for model backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call
// site. Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(settings config.Settings) (Provider, error) = defaultNewProvider

// defaultNewProvider dispatches on the provider selector.
func defaultNewProvider(settings config.Settings) (Provider, error) {
	if err := settings.CheckCredential(); err != nil {
		return nil, err
	}
	switch strings.ToLower(settings.Provider) {
	case "openai", "":
		return newOpenAIProvider(settings)
	case "gemini", "google":
		return newGeminiProvider(settings)
	case "anthropic":
		return newAnthropicProvider(settings)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", settings.Provider)
	}
}

// Invoke creates a provider, performs the single call attempt under the
// timeout, and extracts the structured response. There is no retry and no
// provider racing: one evaluation request is one call attempt. The raw text
// payload is returned alongside for diagnostics.
func Invoke(ctx context.Context, settings config.Settings, systemPrompt, userPrompt string) (*schema.RawResponse, string, error) {
	provider, err := NewProvider(settings)
	if err != nil {
		return nil, "", err
	}

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := provider.Complete(ctx, systemPrompt, userPrompt, MaxTokens, Temperature)
	if err != nil {
		return nil, "", fmt.Errorf("llm: complete: %w", err)
	}

	resp, err := Extract(raw)
	if err != nil {
		return nil, raw, err
	}
	return resp, raw, nil
}

// fenceRe matches a markdown code fence block (``` or ~~~) with an optional
// language tag and captures the content between the fences. The content
// group uses `.*?` (not `.+?`) to allow empty bodies inside fences.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line. Used to strip orphaned
// opening fences from truncated responses.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// stripMarkdownFences removes leading/trailing markdown code fences that
// models sometimes wrap around JSON output. If only an opening fence is
// present the opening line is stripped so the content can still be parsed.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// firstJSONObject returns the first balanced curly-brace region of s, or ""
// when none exists. Brace counting skips string literals and escapes so a
// brace inside justification text does not unbalance the scan.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// Extract parses the raw provider payload into a RawResponse. Extraction is
// bounded-greedy: direct parse, then fenced-block stripping, then the first
// balanced brace region, then a one-shot repair of the brace region. Anything
// past that is a hard parse failure.
func Extract(raw string) (*schema.RawResponse, error) {
	trimmed := strings.TrimSpace(raw)
	if r, err := schema.Decode([]byte(trimmed)); err == nil {
		return r, nil
	}

	stripped := stripMarkdownFences(trimmed)
	if r, err := schema.Decode([]byte(stripped)); err == nil {
		return r, nil
	}

	region := firstJSONObject(stripped)
	if region == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	if r, err := schema.Decode([]byte(region)); err == nil {
		return r, nil
	}

	repaired, err := jsonrepair.JSONRepair(region)
	if err != nil {
		return nil, fmt.Errorf("%w: repair failed: %v", ErrMalformedResponse, err)
	}
	r, err := schema.Decode([]byte(repaired))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return r, nil
}

// FailureKind is the fixed taxonomy of invocation failures. Every kind maps
// to a distinct user-facing message and all of them end in the fallback
// generator; none propagates raw to the caller's UI.
type FailureKind string

const (
	KindCredentialMissing FailureKind = "credential_missing"
	KindUnauthorized      FailureKind = "unauthorized"
	KindQuotaExceeded     FailureKind = "quota_exceeded"
	KindProviderError     FailureKind = "provider_error"
	KindTimeout           FailureKind = "timeout"
	KindNetworkError      FailureKind = "network_error"
	KindMalformed         FailureKind = "malformed_response"
)

// Classify maps an invocation error onto the failure taxonomy.
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, config.ErrCredentialMissing) {
		return KindCredentialMissing
	}
	if errors.Is(err, ErrMalformedResponse) {
		return KindMalformed
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	if code, ok := httpStatus(err); ok {
		switch code {
		case 401, 403:
			return KindUnauthorized
		case 429:
			return KindQuotaExceeded
		default:
			return KindProviderError
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetworkError
	}

	return KindProviderError
}

// httpStatus digs the HTTP status code out of the provider SDK error types.
func httpStatus(err error) (int, bool) {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode, true
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode, true
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	return 0, false
}

// RawPrefix returns the first n bytes of a payload for diagnostic logging.
// Raw payloads are logged prefix-only; they can be large and may embed the
// whole narrative.
func RawPrefix(raw string, n int) string {
	if len(raw) <= n {
		return raw
	}
	return raw[:n]
}
