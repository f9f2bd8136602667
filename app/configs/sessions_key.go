package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
	CSRFKey []byte
}

// LoadSessionKeys decodes APP_AUTH_KEY, APP_ENC_KEY and CSRF_KEY. Outside
// production, missing keys are replaced by random ones, which invalidates
// admin sessions on every restart.
func LoadSessionKeys(env ENV, logger *slog.Logger) (*SessionKeys, error) {
	authKey, err := decodeKey("APP_AUTH_KEY", env.AppAuthKey, 64, env.IsProduction(), logger)
	if err != nil {
		return nil, err
	}
	encKey, err := decodeKey("APP_ENC_KEY", env.AppEncKey, 32, env.IsProduction(), logger)
	if err != nil {
		return nil, err
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}
	csrfKey, err := decodeKey("CSRF_KEY", env.CSRFKey, 32, env.IsProduction(), logger)
	if err != nil {
		return nil, err
	}
	if len(csrfKey) != 32 {
		return nil, fmt.Errorf("CSRF_KEY has invalid length %d after decoding. Must be 32 bytes", len(csrfKey))
	}

	logger.Info("Session keys loaded")
	return &SessionKeys{AuthKey: authKey, EncKey: encKey, CSRFKey: csrfKey}, nil
}

func decodeKey(name, encoded string, size int, required bool, logger *slog.Logger) ([]byte, error) {
	if encoded == "" {
		if required {
			return nil, fmt.Errorf("%s environment variable not set", name)
		}
		logger.Warn("Key not set, generating an ephemeral one", "key", name)
		key := securecookie.GenerateRandomKey(size)
		if key == nil {
			return nil, fmt.Errorf("could not generate %s", name)
		}
		return key, nil
	}

	key, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from Base64: %w", name, err)
	}
	return key, nil
}

// GenerateSessionKeys writes a fresh set of base64 keys in .env format.
func GenerateSessionKeys(w io.Writer) error {
	authKey := securecookie.GenerateRandomKey(64)
	if authKey == nil {
		return fmt.Errorf("could not generate authentication key")
	}
	encKey := securecookie.GenerateRandomKey(32)
	if encKey == nil {
		return fmt.Errorf("could not generate encryption key")
	}
	csrfKey := securecookie.GenerateRandomKey(32)
	if csrfKey == nil {
		return fmt.Errorf("could not generate csrf key")
	}

	_, err := fmt.Fprintf(w, "APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\nCSRF_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey),
		base64.URLEncoding.EncodeToString(csrfKey),
	)
	if err != nil {
		return fmt.Errorf("failed to write keys: %w", err)
	}
	return nil
}
