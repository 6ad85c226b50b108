package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// stubService lets handler tests dictate the orchestrator outcome.
type stubService struct {
	handleErr error
	handled   []*PaymentEvent
}

func (s *stubService) Initiate(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	return nil, nil
}
func (s *stubService) HandleEvent(ctx context.Context, ev *PaymentEvent) error {
	s.handled = append(s.handled, ev)
	return s.handleErr
}
func (s *stubService) VerifyAndSettle(ctx context.Context, reference string) (*PaymentRecord, error) {
	return nil, ErrPaymentNotFound
}
func (s *stubService) GetByReference(ctx context.Context, reference string) (*PaymentRecord, error) {
	return nil, ErrPaymentNotFound
}
func (s *stubService) ListReconciliationPending(ctx context.Context) ([]*PaymentRecord, error) {
	return nil, nil
}
func (s *stubService) Reconcile(ctx context.Context, reference string) (*PaymentRecord, error) {
	return nil, ErrNotReconcilable
}

const testSecret = "sk_test_secret"

func newWebhookServer(stub *stubService) *httptest.Server {
	router := chi.NewRouter()
	noAuth := func(next http.Handler) http.Handler { return next }
	NewHandler(stub, testSecret).RegisterRoutes(router, noAuth)
	return httptest.NewServer(router)
}

func postWebhook(t *testing.T, url string, body []byte, signature string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/api/v1/webhooks/paystack", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Paystack-Signature", signature)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestWebhookAcceptsSignedEvent(t *testing.T) {
	stub := &stubService{}
	srv := newWebhookServer(stub)
	defer srv.Close()

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-001","amount":500}}`)
	resp := postWebhook(t, srv.URL, body, sign(body, testSecret))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.True(t, out["success"])

	require.Len(t, stub.handled, 1)
	require.Equal(t, "ref-001", stub.handled[0].Reference)
	require.Equal(t, int64(500), stub.handled[0].AmountMinor)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	stub := &stubService{}
	srv := newWebhookServer(stub)
	defer srv.Close()

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-001","amount":500}}`)

	resp := postWebhook(t, srv.URL, body, sign(body, "not-the-secret"))
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postWebhook(t, srv.URL, body, "")
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.Empty(t, stub.handled, "unsigned requests never reach the orchestrator")
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	stub := &stubService{}
	srv := newWebhookServer(stub)
	defer srv.Close()

	body := []byte(`{"event":"charge.success","data":{"amount":500}}`)
	resp := postWebhook(t, srv.URL, body, sign(body, testSecret))
	resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Empty(t, stub.handled)
}

func TestWebhookSurfacesTransientFailureAsRetryable(t *testing.T) {
	stub := &stubService{
		handleErr: &PartialReconciliationError{
			Reference: "ref-001",
			OrderID:   uuid.New(),
			Step:      "inventory decrement",
			Err:       context.DeadlineExceeded,
		},
	}
	srv := newWebhookServer(stub)
	defer srv.Close()

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-001","amount":500}}`)
	resp := postWebhook(t, srv.URL, body, sign(body, testSecret))
	resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode,
		"5xx invites provider redelivery")
}

func TestWebhookDoesNotInviteRetryForConflicts(t *testing.T) {
	stub := &stubService{handleErr: ErrAlreadySettled}
	srv := newWebhookServer(stub)
	defer srv.Close()

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-001","amount":500}}`)
	resp := postWebhook(t, srv.URL, body, sign(body, testSecret))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode,
		"redelivery cannot fix a conflicting outcome")
}
