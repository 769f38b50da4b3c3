package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"
)

var (
	// ErrMissingHash means the payload carries no hash field at all.
	ErrMissingHash = errors.New("init data has no hash field")
	// ErrBadSignature means the hash does not match the signed fields.
	ErrBadSignature = errors.New("init data signature mismatch")
	// ErrMalformedUser means the user field is absent or not valid JSON.
	ErrMalformedUser = errors.New("init data user is missing or malformed")
)

// WebAppUser is the user object embedded as JSON in the signed payload.
type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// InitData holds the verified fields of a mini app login payload.
type InitData struct {
	Fields map[string]string
	User   WebAppUser
}

// VerifyInitData validates the signature of a Telegram WebApp initData string
// against the bot token and returns the verified fields.
//
// The check string is built from all fields except hash, sorted by key and
// joined as "key=value" lines. The signing key is SHA-256 of the bot token;
// the signature is the hex HMAC-SHA256 of the check string under that key.
// The function is pure: no I/O, nothing is logged.
func VerifyInitData(rawInitData, botToken string) (*InitData, error) {
	if rawInitData == "" || botToken == "" {
		return nil, ErrBadSignature
	}

	fields, err := parsePairs(rawInitData)
	if err != nil {
		return nil, ErrBadSignature
	}

	recvHash, ok := fields["hash"]
	if !ok || recvHash == "" {
		return nil, ErrMissingHash
	}
	delete(fields, "hash")

	decodedSig, err := hex.DecodeString(strings.ToLower(recvHash))
	if err != nil {
		return nil, ErrBadSignature
	}

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString(fields)))
	if !hmac.Equal(mac.Sum(nil), decodedSig) {
		return nil, ErrBadSignature
	}

	userRaw, ok := fields["user"]
	if !ok || userRaw == "" {
		return nil, ErrMalformedUser
	}
	var user WebAppUser
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil || user.ID == 0 {
		return nil, ErrMalformedUser
	}

	return &InitData{Fields: fields, User: user}, nil
}

// checkString joins all fields as "key=value" lines in key order,
// without a trailing newline.
func checkString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return b.String()
}

// parsePairs decodes the URL-encoded payload, keeping blank values.
// Duplicate keys keep the first occurrence.
func parsePairs(raw string) (map[string]string, error) {
	fields := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	return fields, nil
}
