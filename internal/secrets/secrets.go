// Package secrets encrypts credentials at rest with an age identity kept
// in the data directory. Values stored as ENC[age:...] blobs (for example
// the enrichment api_key in config.yaml) are decrypted on use.
package secrets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

const encPrefix = "ENC[age:"
const encSuffix = "]"

// KeyPath returns the identity file path inside the data directory.
func KeyPath(dataDir string) string {
	return filepath.Join(dataDir, ".age-key")
}

// GenerateIdentity creates an X25519 key pair at path with mode 0600.
// It is idempotent: an existing file is left untouched.
func GenerateIdentity(path string) error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generate identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	// O_EXCL makes the existence check and the create one step, so two
	// concurrent inits cannot clobber each other's key.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("create age key: %w", err)
	}

	_, err = fmt.Fprintf(f, "# taskdeck identity\n# public key: %s\n%s\n",
		identity.Recipient(), identity.String())
	if err != nil {
		f.Close()
		return fmt.Errorf("write age key: %w", err)
	}
	return f.Close()
}

// LoadIdentity reads the age private key from path. Comment lines in the
// key file are skipped by the parser; the first X25519 identity wins.
func LoadIdentity(path string) (*age.X25519Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read age key: %w", err)
	}

	ids, err := age.ParseIdentities(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse age key %s: %w", path, err)
	}
	for _, id := range ids {
		if x, ok := id.(*age.X25519Identity); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("no X25519 identity in %s", path)
}

// Encrypt seals plaintext for the recipient into an ENC[age:...] blob.
func Encrypt(plaintext string, recipient *age.X25519Recipient) (string, error) {
	var sealed bytes.Buffer
	w, err := age.Encrypt(&sealed, recipient)
	if err != nil {
		return "", fmt.Errorf("seal value: %w", err)
	}
	if _, err := w.Write([]byte(plaintext)); err != nil {
		return "", fmt.Errorf("seal value: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("seal value: %w", err)
	}
	return armor(sealed.Bytes()), nil
}

// Decrypt opens an ENC[age:...] blob with the identity.
func Decrypt(blob string, identity *age.X25519Identity) (string, error) {
	ciphertext, err := unarmor(blob)
	if err != nil {
		return "", err
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	var plain strings.Builder
	if _, err := io.Copy(&plain, r); err != nil {
		return "", fmt.Errorf("read sealed value: %w", err)
	}
	return plain.String(), nil
}

// IsEncrypted reports whether the string is an ENC[age:...] blob.
func IsEncrypted(s string) bool {
	return strings.HasPrefix(s, encPrefix) && strings.HasSuffix(s, encSuffix)
}

// Resolve returns the value as-is unless it is an ENC[age:...] blob, in
// which case it is decrypted with the identity at keyPath.
func Resolve(value, keyPath string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	identity, err := LoadIdentity(keyPath)
	if err != nil {
		return "", err
	}
	return Decrypt(value, identity)
}

func armor(ciphertext []byte) string {
	return encPrefix + base64.StdEncoding.EncodeToString(ciphertext) + encSuffix
}

func unarmor(blob string) ([]byte, error) {
	if !IsEncrypted(blob) {
		return nil, fmt.Errorf("value is not an %s...%s blob", encPrefix, encSuffix)
	}
	payload := strings.TrimSuffix(strings.TrimPrefix(blob, encPrefix), encSuffix)
	ciphertext, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode sealed value: %w", err)
	}
	return ciphertext, nil
}
