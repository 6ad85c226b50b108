package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Gateway is the provider API client used to start and verify transactions.
type Gateway interface {
	// Initialize creates a checkout session at the provider and returns the
	// URL the shopper is redirected to.
	Initialize(ctx context.Context, req GatewayInitRequest) (*GatewayInitResponse, error)
	// Verify queries the provider for the current status of a transaction.
	Verify(ctx context.Context, reference string) (*GatewayVerifyResponse, error)
}

// GatewayInitRequest is what Initialize sends to the provider.
type GatewayInitRequest struct {
	Reference   string `json:"reference"`
	Email       string `json:"email"`
	AmountMinor int64  `json:"amount"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type GatewayInitResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type GatewayVerifyResponse struct {
	Status      string `json:"status"` // success | failed | abandoned | pending
	AmountMinor int64  `json:"amount"`
	Reference   string `json:"reference"`
}

// ── Paystack adapter ─────────────────────────────────────────────────────────

type paystackGateway struct {
	client *resty.Client
}

// NewPaystackGateway builds a Gateway against the Paystack REST API.
// API docs: https://paystack.com/docs/api/transaction/
func NewPaystackGateway(baseURL, secretKey string) Gateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetHeader("Content-Type", "application/json")
	return &paystackGateway{client: client}
}

// paystackEnvelope wraps every Paystack response body.
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *paystackGateway) Initialize(ctx context.Context, req GatewayInitRequest) (*GatewayInitResponse, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/transaction/initialize")
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	data, err := unwrap(resp)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	var out GatewayInitResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("paystack initialize: decode: %w", err)
	}
	return &out, nil
}

func (g *paystackGateway) Verify(ctx context.Context, reference string) (*GatewayVerifyResponse, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("reference", reference).
		Get("/transaction/verify/{reference}")
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	data, err := unwrap(resp)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	var out GatewayVerifyResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("paystack verify: decode: %w", err)
	}
	return &out, nil
}

func unwrap(resp *resty.Response) (json.RawMessage, error) {
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	var env paystackEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("provider error: %s", env.Message)
	}
	return env.Data, nil
}
