package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)
	secret := "sk_test_secret"

	require.True(t, VerifySignature(body, sign(body, secret), secret))
	require.False(t, VerifySignature(body, sign(body, "wrong-secret"), secret))
	require.False(t, VerifySignature(body, "", secret))
	require.False(t, VerifySignature(body, sign(body, secret), ""), "empty configured secret never verifies")
	require.False(t, VerifySignature([]byte(`tampered`), sign(body, secret), secret))
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"event":"charge.success","data":{"reference":"ref-001","amount":500,"channel":"card"}}`))
	require.NoError(t, err)
	require.Equal(t, EventChargeSuccess, ev.Kind)
	require.Equal(t, "ref-001", ev.Reference)
	require.Equal(t, int64(500), ev.AmountMinor)
	require.JSONEq(t, `{"event":"charge.success","data":{"reference":"ref-001","amount":500,"channel":"card"}}`, string(ev.RawPayload))
}

func TestParseEventUnknownKindIsNotAnError(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"event":"subscription.create","data":{"reference":"ref-002","amount":0}}`))
	require.NoError(t, err)
	require.Equal(t, "subscription.create", ev.Kind)
}

func TestParseEventMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"event":`,
		"missing event":     `{"data":{"reference":"ref-001","amount":500}}`,
		"missing reference": `{"event":"charge.success","data":{"amount":500}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEvent([]byte(body))
			require.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}
