package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// VerifySignature checks the provider's HMAC-SHA512 signature over the raw
// request body. Paystack signs with the account secret key and sends the hex
// digest in the X-Paystack-Signature header.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// webhookBody is the wire shape of a provider notification.
type webhookBody struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// ParseEvent turns a raw notification body into a canonical PaymentEvent.
// Unrecognized event kinds are not an error here; the orchestrator decides
// what to ignore. A payload without event or data.reference is malformed.
func ParseEvent(body []byte) (*PaymentEvent, error) {
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if wb.Event == "" {
		return nil, fmt.Errorf("%w: missing event", ErrMalformedPayload)
	}
	if wb.Data.Reference == "" {
		return nil, fmt.Errorf("%w: missing data.reference", ErrMalformedPayload)
	}
	return &PaymentEvent{
		Kind:        wb.Event,
		Reference:   wb.Data.Reference,
		AmountMinor: wb.Data.Amount,
		RawPayload:  json.RawMessage(body),
	}, nil
}
