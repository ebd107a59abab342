package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SettleClient talks to the payment backend that settles an order. The remote
// call is best-effort; callers fall back to a local settlement when it fails.
type SettleClient interface {
	Settle(ctx context.Context, payload SettleInfoPayload) (SettleResult, error)
}

// SettleResult carries whatever the payment backend returned. All fields are
// optional, different backend generations populate different subsets.
type SettleResult struct {
	PaymentSummary json.RawMessage
	PaymentDetails json.RawMessage
	PaidAt         time.Time
	TSC            string
	InvoiceNumber  string
}

type HTTPSettleClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSettleClient(baseURL string) *HTTPSettleClient {
	return &HTTPSettleClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPSettleClient) Settle(ctx context.Context, payload SettleInfoPayload) (SettleResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return SettleResult{}, fmt.Errorf("marshal settle payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return SettleResult{}, fmt.Errorf("build settle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return SettleResult{}, fmt.Errorf("settle request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SettleResult{}, fmt.Errorf("settle request: unexpected status %d", resp.StatusCode)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return SettleResult{}, fmt.Errorf("decode settle response: %w", err)
	}

	return parseSettleResponse(raw), nil
}

// parseSettleResponse digs the settlement fields out of the response. Older
// backends return them at the top level, newer ones nest them under data or
// dataValues; the first source carrying a field wins. The payment blobs are
// keyed orderPaymentSummary/orderPaymentDetails on the wire, with the short
// names kept as a fallback.
func parseSettleResponse(raw map[string]json.RawMessage) SettleResult {
	result := SettleResult{PaidAt: time.Now()}

	sources := []map[string]json.RawMessage{raw}
	for _, key := range []string{"data", "dataValues"} {
		if nested, ok := raw[key]; ok {
			var m map[string]json.RawMessage
			if err := json.Unmarshal(nested, &m); err == nil {
				sources = append(sources, m)
			}
		}
	}

	paidAtFound := false
	for _, source := range sources {
		if result.PaymentSummary == nil {
			if v, ok := firstRaw(source, "orderPaymentSummary", "paymentSummary"); ok {
				result.PaymentSummary = v
			}
		}
		if result.PaymentDetails == nil {
			if v, ok := firstRaw(source, "orderPaymentDetails", "paymentDetails"); ok {
				result.PaymentDetails = v
			}
		}
		if result.TSC == "" {
			if v, ok := source["tsc"]; ok {
				_ = json.Unmarshal(v, &result.TSC)
			}
		}
		if result.InvoiceNumber == "" {
			if v, ok := source["invoiceNumber"]; ok {
				_ = json.Unmarshal(v, &result.InvoiceNumber)
			}
		}
		if !paidAtFound {
			if v, ok := source["paidAt"]; ok {
				var paidAt time.Time
				if err := json.Unmarshal(v, &paidAt); err == nil && !paidAt.IsZero() {
					result.PaidAt = paidAt
					paidAtFound = true
				}
			}
		}
	}

	return result
}

func firstRaw(source map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if v, ok := source[key]; ok {
			return v, true
		}
	}
	return nil, false
}
