package media

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "foundry/pkg/domain-errors"
)

func testConfig() Config {
	return Config{
		CloudName: "foundry-test",
		APIKey:    "123456789",
		APISecret: "very-secret",
	}
}

func TestNewSignerRequiresCredentials(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{CloudName: "foundry-test"},
		{CloudName: "foundry-test", APIKey: "123456789"},
	} {
		_, err := NewSigner(cfg)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	}
}

func TestSignUpload(t *testing.T) {
	signer, err := NewSigner(testConfig())
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	params := signer.SignUpload("logos", now)

	assert.Equal(t, "foundry-test", params.CloudName)
	assert.Equal(t, "123456789", params.APIKey)
	assert.Equal(t, int64(1700000000), params.Timestamp)
	assert.Equal(t, "logos", params.Folder)

	// The host verifies by recomputing the HMAC over the sorted params.
	mac := hmac.New(sha1.New, []byte("very-secret"))
	mac.Write([]byte("folder=logos&timestamp=1700000000"))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), params.Signature)
}

func TestSignUploadIsDeterministic(t *testing.T) {
	signer, err := NewSigner(testConfig())
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	assert.Equal(t, signer.SignUpload("logos", now), signer.SignUpload("logos", now))
	assert.NotEqual(t,
		signer.SignUpload("logos", now).Signature,
		signer.SignUpload("logos", now.Add(time.Second)).Signature,
	)
}

func TestDeliveryURL(t *testing.T) {
	signer, err := NewSigner(testConfig())
	require.NoError(t, err)
	assert.Equal(t,
		"https://res.cloudinary.com/foundry-test/image/upload/logos/acme.png",
		signer.DeliveryURL("logos/acme.png"),
	)
}
