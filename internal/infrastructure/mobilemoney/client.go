package mobilemoney

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// HTTPProvider talks to one mobile-money aggregator over JSON/HTTP.
type HTTPProvider struct {
	name     string
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPProvider(name, endpoint, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) Name() string {
	return p.name
}

// Live is false when no endpoint is configured; the payout rail then runs in
// stub mode instead of calling out.
func (p *HTTPProvider) Live() bool {
	return p.endpoint != ""
}

func (p *HTTPProvider) SubmitPayout(ctx context.Context, req domain.MobileMoneyPayoutRequest) (*domain.MobileMoneyPayoutResult, error) {
	if !p.Live() {
		return nil, domain.NewPayoutError(domain.ErrProviderDisabled, domain.CodeProviderDisabled,
			fmt.Sprintf("%s endpoint is not configured", p.name))
	}

	requestBodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/payouts", p.endpoint), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, domain.NewPayoutError(domain.ErrPayoutNotConfigured, domain.CodePayoutNotConfigured,
			fmt.Sprintf("%s endpoint is invalid: %v", p.name, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.Reference)
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	response, err := p.client.Do(httpReq)
	if err != nil {
		return nil, p.transportError("request", err)
	}
	defer response.Body.Close()

	// the client timeout also covers the body, so a 2xx can still end unknown
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, p.transportError("response", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		msg := fmt.Sprintf("%s returned status %d", p.name, response.StatusCode)
		var errResp errorResponse
		if json.Unmarshal(responseBodyBytes, &errResp) == nil {
			if detail := firstNonEmpty(errResp.Message, errResp.Error); detail != "" {
				msg = fmt.Sprintf("%s: %s", msg, detail)
			}
		}
		return nil, &domain.PayoutError{
			Kind:     domain.ErrProviderRejected,
			Code:     domain.CodeProviderRejected,
			Message:  msg,
			Response: responseBodyBytes,
		}
	}

	result := &domain.MobileMoneyPayoutResult{ExternalReference: req.Reference, Raw: responseBodyBytes}
	var payout payoutResponse
	if json.Unmarshal(responseBodyBytes, &payout) == nil && payout.Reference != "" {
		result.ExternalReference = payout.Reference
	}
	return result, nil
}

// transportError classifies a failure after the request may have reached the
// provider. Timeouts leave the outcome unknown.
func (p *HTTPProvider) transportError(stage string, err error) *domain.PayoutError {
	if isTimeout(err) {
		return &domain.PayoutError{
			Kind:    domain.ErrProviderTimeout,
			Code:    domain.CodeProviderTimeout,
			Message: fmt.Sprintf("%s %s timed out, outcome unknown", p.name, stage),
		}
	}
	return &domain.PayoutError{
		Kind:    domain.ErrProviderRejected,
		Code:    domain.CodeProviderRejected,
		Message: fmt.Sprintf("%s %s failed: %v", p.name, stage, err),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
