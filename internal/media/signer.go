// Package media signs direct-to-host upload requests so browsers can push
// logos to the media CDN without the API secret ever leaving the server.
package media

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	dErrors "foundry/pkg/domain-errors"
)

// Config carries the media host credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Signer produces upload signatures and delivery URLs.
type Signer struct {
	cfg Config
}

func NewSigner(cfg Config) (*Signer, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "media credentials are not configured")
	}
	return &Signer{cfg: cfg}, nil
}

// UploadParams is what the browser needs to POST an upload directly to
// the media host.
type UploadParams struct {
	CloudName string `json:"cloud_name"`
	APIKey    string `json:"api_key"`
	Timestamp int64  `json:"timestamp"`
	Folder    string `json:"folder"`
	Signature string `json:"signature"`
}

// SignUpload signs the (folder, timestamp) pair. The host recomputes the
// same HMAC to verify the upload was authorized by us.
func (s *Signer) SignUpload(folder string, now time.Time) UploadParams {
	timestamp := now.Unix()
	params := map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(timestamp, 10),
	}
	return UploadParams{
		CloudName: s.cfg.CloudName,
		APIKey:    s.cfg.APIKey,
		Timestamp: timestamp,
		Folder:    folder,
		Signature: s.sign(params),
	}
}

// sign serializes params sorted by key, appends the secret, and hashes.
func (s *Signer) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload := strings.Join(pairs, "&")

	mac := hmac.New(sha1.New, []byte(s.cfg.APISecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// DeliveryURL builds the public URL for a stored asset.
func (s *Signer) DeliveryURL(publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", s.cfg.CloudName, publicID)
}
