package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "ctg-talents"
	keyringAccount = "api-signing-key"

	envSigningKey = "CTG_SIGNING_KEY"
)

// SigningKey resolves the token signing key: env override first, then the OS
// keychain, else a fresh random key that is stored for next start. If the
// keychain is unavailable (headless box) the generated key is used as-is and
// tokens simply won't survive a restart.
func SigningKey() ([]byte, error) {
	if v := strings.TrimSpace(os.Getenv(envSigningKey)); v != "" {
		return []byte(v), nil
	}

	if pw, err := keyring.Get(KeyringService, keyringAccount); err == nil && strings.TrimSpace(pw) != "" {
		return []byte(pw), nil
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	key := hex.EncodeToString(b)

	if err := keyring.Set(KeyringService, keyringAccount, key); err != nil {
		log.Printf("level=warn msg=\"keychain unavailable, using ephemeral signing key\" err=%v", err)
	}
	return []byte(key), nil
}

func DeleteSigningKey() error {
	return keyring.Delete(KeyringService, keyringAccount)
}
