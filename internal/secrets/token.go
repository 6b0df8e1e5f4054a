package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "jobalert"
)

var ErrTokenNotFound = errors.New("telegram token not found (set TELEGRAM_TOKEN or run `jobalert token set`)")

// TokenAccount names the keychain entry for a chat.
func TokenAccount(chatID int64) string {
	return fmt.Sprintf("jobalert:telegram:%d", chatID)
}

func GetTelegramToken(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", ErrTokenNotFound
	}
	tok, err := keyring.Get(KeyringService, account)
	if err == nil && strings.TrimSpace(tok) != "" {
		return tok, nil
	}
	return "", ErrTokenNotFound
}

func SetTelegramToken(account, token string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, account, strings.TrimSpace(token))
}

func DeleteTelegramToken(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// ResolveToken prefers an explicit token (from the environment) and falls
// back to the keychain.
func ResolveToken(explicit string, chatID int64) (string, error) {
	if t := strings.TrimSpace(explicit); t != "" {
		return t, nil
	}
	return GetTelegramToken(TokenAccount(chatID))
}
