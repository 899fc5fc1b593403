package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cavanpasek/ouray-info/internal/adapters/observability"
)

// Failure messages are user-facing; handlers render them verbatim on
// the form. No error from this package carries internal detail.
var (
	ErrNotConfigured = errors.New("submissions are disabled: CAPTCHA is not configured")
	ErrMissingToken  = errors.New("please complete the CAPTCHA check")
	ErrFailed        = errors.New("CAPTCHA verification failed, please try again")
)

const defaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

type Verifier struct {
	siteKey  string
	secret   string
	endpoint string
	hc       *http.Client
}

func New(siteKey, secret string, timeout time.Duration) *Verifier {
	return &Verifier{
		siteKey:  siteKey,
		secret:   secret,
		endpoint: defaultEndpoint,
		hc:       &http.Client{Timeout: timeout},
	}
}

// WithEndpoint overrides the verification URL (tests).
func (v *Verifier) WithEndpoint(u string) *Verifier {
	v.endpoint = u
	return v
}

func (v *Verifier) Configured() bool { return v.siteKey != "" && v.secret != "" }

// SiteKey is exposed to templates so the widget renders with the
// matching public key.
func (v *Verifier) SiteKey() string { return v.siteKey }

// Verify checks a client token against the verification endpoint.
// Unconfigured keys and a missing token fail without a network call.
// Transport or parse failures count as verification failures.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Configured() {
		return ErrNotConfigured
	}
	if token == "" {
		return ErrMissingToken
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	form.Set("remoteip", remoteIP)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return ErrFailed
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := v.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("captcha", "transport_error", time.Since(start))
		return ErrFailed
	}
	defer resp.Body.Close()

	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		observability.ObserveExternal("captcha", "decode_error", time.Since(start))
		return ErrFailed
	}
	if !payload.Success {
		observability.ObserveExternal("captcha", "rejected", time.Since(start))
		return ErrFailed
	}
	observability.ObserveExternal("captcha", "ok", time.Since(start))
	return nil
}
