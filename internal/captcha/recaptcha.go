package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const siteVerifyEndpoint = "https://www.google.com/recaptcha/api/siteverify"

var ErrVerificationFailed = errors.New("recaptcha verification failed")

type Verifier struct {
	secret     string
	endpoint   string
	httpClient *http.Client
}

// NewVerifier returns nil when no secret is configured, which disables the
// captcha check entirely.
func NewVerifier(secret string) *Verifier {
	if strings.TrimSpace(secret) == "" {
		return nil
	}
	return &Verifier{
		secret:     secret,
		endpoint:   siteVerifyEndpoint,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (v *Verifier) Verify(ctx context.Context, token string) error {
	if v == nil {
		return nil
	}
	if strings.TrimSpace(token) == "" {
		return ErrVerificationFailed
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("recaptcha create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recaptcha request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("recaptcha siteverify: status=%d", resp.StatusCode)
	}

	var out siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("recaptcha decode response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(out.ErrorCodes, ","))
	}
	return nil
}
