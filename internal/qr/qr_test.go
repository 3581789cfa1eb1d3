package qr

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	signer := NewSigner("test-secret")

	token, err := signer.Generate("participant-123")
	require.NoError(t, err)

	id, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "participant-123", id)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewSigner("secret-a").Generate("participant-123")
	require.NoError(t, err)

	_, err = NewSigner("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_TamperedParticipantID(t *testing.T) {
	signer := NewSigner("test-secret")

	token, err := signer.Generate("participant-123")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	var p payload
	require.NoError(t, json.Unmarshal(raw, &p))

	p.ParticipantID = "someone-else"
	tampered, err := json.Marshal(p)
	require.NoError(t, err)

	_, err = signer.Verify(base64.RawURLEncoding.EncodeToString(tampered))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Malformed(t *testing.T) {
	signer := NewSigner("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"not json", base64.RawURLEncoding.EncodeToString([]byte("plain text"))},
		{"empty payload", base64.RawURLEncoding.EncodeToString([]byte("{}"))},
		{"empty token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Verify(tt.token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestVerify_WrongType(t *testing.T) {
	signer := NewSigner("test-secret")

	p := payload{
		ParticipantID: "participant-123",
		Type:          "temporary",
		Signature:     signer.signature("participant-123"),
	}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	_, err = signer.Verify(base64.RawURLEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestVerify_PaddedToken(t *testing.T) {
	signer := NewSigner("test-secret")

	p := payload{
		ParticipantID: "participant-123",
		Type:          tokenType,
		Signature:     signer.signature("participant-123"),
	}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	id, err := signer.Verify(base64.URLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "participant-123", id)
}
