package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const csrfSaltBytes = 8

// MintCSRFToken derives an anti-forgery token from the per-session secret held
// in the client's cookie. The token is "<salt>.<mac>" where the MAC covers the
// salt, so every mint yields a distinct token verifiable against the same secret.
func MintCSRFToken(secret string) (string, error) {
	salt, err := GenerateSecureToken(csrfSaltBytes)
	if err != nil {
		return "", err
	}
	return salt + "." + csrfMAC(secret, salt), nil
}

// VerifyCSRFToken recomputes the MAC from the cookie secret and compares it in
// constant time against the presented token.
func VerifyCSRFToken(secret, token string) bool {
	if secret == "" || token == "" {
		return false
	}

	salt, mac, ok := strings.Cut(token, ".")
	if !ok || salt == "" || mac == "" {
		return false
	}

	return hmac.Equal([]byte(mac), []byte(csrfMAC(secret, salt)))
}

func csrfMAC(secret, salt string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(salt))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
