package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/awnumar/memguard"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
)

const (
	// KeySize is the length of the protecting key (AES-256).
	KeySize = 32

	// IVSize is the length of the random GCM nonce stored in every envelope.
	IVSize = 16

	// TagSize is the length of the GCM authentication tag.
	TagSize = 16

	envelopeOpen  = "{"
	envelopeClose = "}"
)

// KeySource supplies the protecting key for a single operation. The
// returned buffer is destroyed by the caller once the operation finishes.
type KeySource interface {
	ResolveKey() (*memguard.LockedBuffer, error)
}

// CreateSymmetricKey generates a new random key in guarded memory.
func CreateSymmetricKey() (*memguard.LockedBuffer, error) {
	key := memguard.NewBufferRandom(KeySize)
	if key.Size() != KeySize {
		return nil, fmt.Errorf("failed to generate symmetric key: got %d bytes", key.Size())
	}
	return key, nil
}

// Envelope is the decoded form of an encrypted value.
type Envelope struct {
	IV         []byte
	Ciphertext []byte
	Tag        []byte
}

// String renders the envelope as {base64(IV || ciphertext || tag)}.
func (e Envelope) String() string {
	payload := make([]byte, 0, len(e.IV)+len(e.Ciphertext)+len(e.Tag))
	payload = append(payload, e.IV...)
	payload = append(payload, e.Ciphertext...)
	payload = append(payload, e.Tag...)
	return envelopeOpen + base64.StdEncoding.EncodeToString(payload) + envelopeClose
}

// sealed returns ciphertext || tag, the layout cipher.AEAD.Open expects.
func (e Envelope) sealed() []byte {
	out := make([]byte, 0, len(e.Ciphertext)+len(e.Tag))
	out = append(out, e.Ciphertext...)
	return append(out, e.Tag...)
}

// IsEnvelope reports whether value is wrapped in curly braces. It is a
// syntax check only; the content is verified when it is decrypted.
func IsEnvelope(value string) bool {
	return strings.HasPrefix(value, envelopeOpen) && strings.HasSuffix(value, envelopeClose)
}

// ParseEnvelope splits an encrypted value into IV, ciphertext and tag.
func ParseEnvelope(value string) (Envelope, error) {
	if !IsEnvelope(value) {
		return Envelope{}, fmt.Errorf("%w: value must be surrounded by curly brackets", kerrors.ErrMalformedEnvelope)
	}

	encoded := value[len(envelopeOpen) : len(value)-len(envelopeClose)]
	payload, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: invalid base64: %v", kerrors.ErrMalformedEnvelope, err)
	}
	if len(payload) < IVSize+TagSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes is shorter than IV and tag", kerrors.ErrMalformedEnvelope, len(payload))
	}

	return Envelope{
		IV:         payload[:IVSize],
		Ciphertext: payload[IVSize : len(payload)-TagSize],
		Tag:        payload[len(payload)-TagSize:],
	}, nil
}

// Cipher encrypts and decrypts strings with AES-256-GCM. It asks its key
// source for the key on every call and never keeps it.
type Cipher struct {
	keys KeySource
}

// NewCipher returns a Cipher that takes its key from keys.
func NewCipher(keys KeySource) *Cipher {
	return &Cipher{keys: keys}
}

// Encrypt seals the UTF-8 bytes of plaintext under a fresh random IV and
// returns the envelope.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	key, err := c.keys.ResolveKey()
	if err != nil {
		return "", err
	}
	defer key.Destroy()

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	envelope := Envelope{
		IV:         iv,
		Ciphertext: sealed[:len(sealed)-TagSize],
		Tag:        sealed[len(sealed)-TagSize:],
	}
	return envelope.String(), nil
}

// Decrypt opens an envelope produced by Encrypt.
//
// Returns ErrMalformedEnvelope if value is not a well formed envelope and
// ErrAuthenticationFailed if the tag does not verify. No plaintext is
// returned on failure.
func (c *Cipher) Decrypt(value string) (string, error) {
	envelope, err := ParseEnvelope(value)
	if err != nil {
		return "", err
	}

	key, err := c.keys.ResolveKey()
	if err != nil {
		return "", err
	}
	defer key.Destroy()

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, envelope.IV, envelope.sealed(), nil)
	if err != nil {
		return "", kerrors.ErrAuthenticationFailed
	}
	return string(plaintext), nil
}

func newAEAD(key *memguard.LockedBuffer) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
