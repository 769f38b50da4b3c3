package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testBotToken = "1234567890:TEST-TOKEN-abcdef"

// signInitData builds a correctly signed payload the way the platform does.
func signInitData(fields map[string]string, botToken string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func validFields() map[string]string {
	return map[string]string{
		"auth_date": "1756600000",
		"query_id":  "AAF03QIrAAAAAHTdAis5xyz",
		"user":      `{"id":424242,"username":"lena_k","first_name":"Lena","last_name":"K"}`,
	}
}

func TestVerifyInitData_Valid(t *testing.T) {
	raw := signInitData(validFields(), testBotToken)

	data, err := VerifyInitData(raw, testBotToken)
	assert.NoError(t, err)
	assert.Equal(t, int64(424242), data.User.ID)
	assert.Equal(t, "lena_k", data.User.Username)
	assert.Equal(t, "Lena", data.User.FirstName)
	assert.Equal(t, "1756600000", data.Fields["auth_date"])
	assert.NotContains(t, data.Fields, "hash")
}

func TestVerifyInitData_Deterministic(t *testing.T) {
	raw := signInitData(validFields(), testBotToken)

	first, err1 := VerifyInitData(raw, testBotToken)
	second, err2 := VerifyInitData(raw, testBotToken)
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestVerifyInitData_MissingHash(t *testing.T) {
	fields := validFields()
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}

	_, err := VerifyInitData(values.Encode(), testBotToken)
	assert.ErrorIs(t, err, ErrMissingHash)
}

func TestVerifyInitData_TamperedField(t *testing.T) {
	fields := validFields()
	raw := signInitData(fields, testBotToken)

	// Alter the signed user id after signing.
	tampered := strings.Replace(raw, "424242", "424243", 1)
	assert.NotEqual(t, raw, tampered)

	_, err := VerifyInitData(tampered, testBotToken)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyInitData_TamperedHash(t *testing.T) {
	raw := signInitData(validFields(), testBotToken)

	idx := strings.Index(raw, "hash=")
	flip := byte('0')
	if raw[idx+5] == '0' {
		flip = '1'
	}
	tampered := raw[:idx+5] + string(flip) + raw[idx+6:]

	_, err := VerifyInitData(tampered, testBotToken)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyInitData_WrongSecret(t *testing.T) {
	raw := signInitData(validFields(), testBotToken)

	_, err := VerifyInitData(raw, "other-token")
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyInitData_MalformedUser(t *testing.T) {
	fields := validFields()
	fields["user"] = "{not json"
	raw := signInitData(fields, testBotToken)

	_, err := VerifyInitData(raw, testBotToken)
	assert.ErrorIs(t, err, ErrMalformedUser)

	delete(fields, "user")
	raw = signInitData(fields, testBotToken)

	_, err = VerifyInitData(raw, testBotToken)
	assert.ErrorIs(t, err, ErrMalformedUser)
}

func TestVerifyInitData_EmptyInput(t *testing.T) {
	_, err := VerifyInitData("", testBotToken)
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = VerifyInitData(signInitData(validFields(), testBotToken), "")
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyInitData_BlankValueKept(t *testing.T) {
	fields := validFields()
	fields["start_param"] = ""
	raw := signInitData(fields, testBotToken)

	data, err := VerifyInitData(raw, testBotToken)
	assert.NoError(t, err)
	val, ok := data.Fields["start_param"]
	assert.True(t, ok)
	assert.Equal(t, "", val)
}
