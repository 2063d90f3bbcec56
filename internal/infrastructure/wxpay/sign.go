package wxpay

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

type SignType string

const (
	SignTypeMD5        SignType = "MD5"
	SignTypeHMACSHA256 SignType = "HMAC-SHA256"
)

func ParseSignType(s string) (SignType, error) {
	switch SignType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", SignTypeMD5:
		return SignTypeMD5, nil
	case SignTypeHMACSHA256:
		return SignTypeHMACSHA256, nil
	default:
		return "", fmt.Errorf("unsupported sign type %q", s)
	}
}

// Verifier checks notification signatures with a shared secret.
type Verifier struct {
	secret   string
	signType SignType
}

func NewVerifier(secret string, signType SignType) *Verifier {
	return &Verifier{secret: secret, signType: signType}
}

func (v *Verifier) Verify(fields map[string]string) (bool, error) {
	return Verify(fields, v.secret, v.signType)
}

// Verify recomputes the signature over fields and compares it with fields["sign"].
// The notification's own sign_type wins over fallback when present.
// A mismatch is (false, nil); only a missing secret is an error.
func Verify(fields map[string]string, secret string, fallback SignType) (bool, error) {
	if secret == "" {
		return false, domain.ErrMissingSecret
	}

	supplied := strings.ToUpper(strings.TrimSpace(fields[domain.FieldSign]))
	if supplied == "" {
		return false, nil
	}

	signType := fallback
	if st, ok := fields[domain.FieldSignType]; ok && st != "" {
		parsed, err := ParseSignType(st)
		if err != nil {
			return false, nil
		}
		signType = parsed
	}

	expected, err := Sign(fields, secret, signType)
	if err != nil {
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(supplied), []byte(expected)) == 1, nil
}

// Sign returns the uppercase hex signature of fields.
func Sign(fields map[string]string, secret string, signType SignType) (string, error) {
	if secret == "" {
		return "", domain.ErrMissingSecret
	}

	payload := CanonicalString(fields) + "&key=" + secret

	var sum []byte
	switch signType {
	case SignTypeMD5, "":
		h := md5.Sum([]byte(payload))
		sum = h[:]
	case SignTypeHMACSHA256:
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(payload))
		sum = mac.Sum(nil)
	default:
		return "", fmt.Errorf("unsupported sign type %q", signType)
	}

	return strings.ToUpper(hex.EncodeToString(sum)), nil
}

// CanonicalString joins non-empty fields except sign as sorted key=value pairs.
func CanonicalString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == domain.FieldSign || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return b.String()
}
