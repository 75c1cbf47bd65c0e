package service

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

// TelegramUser is the user payload carried inside Telegram WebApp init data.
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName joins first and last name for the profile record.
func (u *TelegramUser) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// ValidateTelegramInitData verifies the HMAC signature of Telegram WebApp
// init data against the bot token. Returns the parsed values on success.
func ValidateTelegramInitData(initData, botToken string) (url.Values, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, false
	}

	var parts []string
	for k := range values {
		if k == "hash" {
			continue
		}
		parts = append(parts, k+"="+values.Get(k))
	}
	sort.Strings(parts)
	dataCheckString := strings.Join(parts, "\n")

	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	expected := hex.EncodeToString(hmacSHA256(secret, []byte(dataCheckString)))

	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return nil, false
	}
	return values, true
}

// ParseInitDataUser extracts the Telegram user from validated init data.
func ParseInitDataUser(values url.Values) (*TelegramUser, error) {
	raw := values.Get("user")
	if raw == "" {
		return nil, errors.New("init data has no user field")
	}

	var u TelegramUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, errors.New("init data user has no id")
	}
	return &u, nil
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
