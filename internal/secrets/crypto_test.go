package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/awnumar/memguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
	logger "github.com/PolarWolf314/spps/internal/logging"
)

var envelopePattern = regexp.MustCompile(`^\{[A-Za-z0-9+/=]+\}$`)

// staticKeys hands out copies of a fixed key and counts lookups.
type staticKeys struct {
	key     []byte
	err     error
	lookups int
}

func (s *staticKeys) ResolveKey() (*memguard.LockedBuffer, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	raw := make([]byte, len(s.key))
	copy(raw, s.key)
	return memguard.NewBufferFromBytes(raw), nil
}

func newStaticKeys(fill byte) *staticKeys {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = fill
	}
	return &staticKeys{key: key}
}

func TestIsEnvelope(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"{abc}", true},
		{"{}", true},
		{"abc}", false},
		{"{abc", false},
		{"abc", false},
		{"", false},
		{" {abc}", false},
		{"{abc} ", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsEnvelope(tt.value), "IsEnvelope(%q)", tt.value)
	}
}

func TestCipherRoundTrip(t *testing.T) {
	c := NewCipher(newStaticKeys(7))

	for _, plaintext := range []string{"secret", "secretäöüß", "", strings.Repeat("x", 4096), "line1\nline2\t{}"} {
		envelope, err := c.Encrypt(plaintext)
		require.NoError(t, err)
		assert.Regexp(t, envelopePattern, envelope)

		decrypted, err := c.Decrypt(envelope)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestCipherLayout(t *testing.T) {
	c := NewCipher(newStaticKeys(1))
	plaintext := "secretäöüß"

	envelope, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	payload, err := base64.StdEncoding.DecodeString(envelope[1 : len(envelope)-1])
	require.NoError(t, err)
	assert.Len(t, payload, IVSize+len([]byte(plaintext))+TagSize)

	parsed, err := ParseEnvelope(envelope)
	require.NoError(t, err)
	assert.Len(t, parsed.IV, IVSize)
	assert.Len(t, parsed.Ciphertext, len([]byte(plaintext)))
	assert.Len(t, parsed.Tag, TagSize)
	assert.Equal(t, envelope, parsed.String())
}

func TestCipherFreshIV(t *testing.T) {
	c := NewCipher(newStaticKeys(3))

	first, err := c.Encrypt("secret")
	require.NoError(t, err)
	second, err := c.Encrypt("secret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	firstParsed, err := ParseEnvelope(first)
	require.NoError(t, err)
	secondParsed, err := ParseEnvelope(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstParsed.IV, secondParsed.IV)
}

func TestCipherResolvesKeyPerCall(t *testing.T) {
	keys := newStaticKeys(5)
	c := NewCipher(keys)

	envelope, err := c.Encrypt("value")
	require.NoError(t, err)
	_, err = c.Decrypt(envelope)
	require.NoError(t, err)
	_, err = c.Decrypt(envelope)
	require.NoError(t, err)

	assert.Equal(t, 3, keys.lookups)
}

func TestCipherTamperedTag(t *testing.T) {
	c := NewCipher(newStaticKeys(9))
	envelope, err := c.Encrypt("secret")
	require.NoError(t, err)

	parsed, err := ParseEnvelope(envelope)
	require.NoError(t, err)
	parsed.Tag[0] ^= 0x01

	plaintext, err := c.Decrypt(parsed.String())
	assert.ErrorIs(t, err, kerrors.ErrAuthenticationFailed)
	assert.Empty(t, plaintext)
}

func TestCipherEveryBitFlipFails(t *testing.T) {
	c := NewCipher(newStaticKeys(11))
	envelope, err := c.Encrypt("abc")
	require.NoError(t, err)

	payload, err := base64.StdEncoding.DecodeString(envelope[1 : len(envelope)-1])
	require.NoError(t, err)

	for i := 0; i < len(payload)*8; i++ {
		tampered := make([]byte, len(payload))
		copy(tampered, payload)
		tampered[i/8] ^= 1 << (i % 8)

		plaintext, err := c.Decrypt("{" + base64.StdEncoding.EncodeToString(tampered) + "}")
		require.ErrorIs(t, err, kerrors.ErrAuthenticationFailed, "bit %d", i)
		require.Empty(t, plaintext)
	}
}

func TestCipherWrongKey(t *testing.T) {
	envelope, err := NewCipher(newStaticKeys(1)).Encrypt("secret")
	require.NoError(t, err)

	_, err = NewCipher(newStaticKeys(2)).Decrypt(envelope)
	assert.ErrorIs(t, err, kerrors.ErrAuthenticationFailed)
}

func TestCipherMalformedEnvelope(t *testing.T) {
	keys := newStaticKeys(4)
	c := NewCipher(keys)

	tests := []struct {
		name  string
		value string
	}{
		{"no braces", "abc"},
		{"missing closing brace", "{abc"},
		{"empty payload", "{}"},
		{"invalid base64", "{not*base64}"},
		{"whitespace inside", "{ AAAA }"},
		{"shorter than iv and tag", "{" + base64.StdEncoding.EncodeToString(make([]byte, IVSize+TagSize-1)) + "}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.value)
			assert.ErrorIs(t, err, kerrors.ErrMalformedEnvelope)
		})
	}
	assert.Zero(t, keys.lookups, "malformed input must be rejected before the key is read")
}

func TestCipherKeySourceError(t *testing.T) {
	keys := &staticKeys{err: kerrors.ErrNotInitialized}
	c := NewCipher(keys)

	_, err := c.Encrypt("secret")
	assert.ErrorIs(t, err, kerrors.ErrNotInitialized)

	_, err = c.Decrypt("{" + base64.StdEncoding.EncodeToString(make([]byte, IVSize+TagSize)) + "}")
	assert.ErrorIs(t, err, kerrors.ErrNotInitialized)
}

// TestCipherHandBuiltEnvelope decrypts an envelope assembled by hand from
// the documented IV || ciphertext || tag layout.
func TestCipherHandBuiltEnvelope(t *testing.T) {
	keys := newStaticKeys(0)
	c := NewCipher(keys)

	iv := make([]byte, IVSize)
	for i := range iv {
		iv[i] = byte(i)
	}
	key, err := keys.ResolveKey()
	require.NoError(t, err)
	aead, err := newAEAD(key)
	key.Destroy()
	require.NoError(t, err)
	sealed := aead.Seal(nil, iv, []byte("hello"), nil)
	envelope := "{" + base64.StdEncoding.EncodeToString(append(append([]byte{}, iv...), sealed...)) + "}"

	plaintext, err := c.Decrypt(envelope)
	require.NoError(t, err)
	assert.Equal(t, "hello", plaintext)
}

func TestCipherWithKeyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".spps", "settings")
	store := NewKeyStore(path, logger.Logger{})
	c := NewCipher(store)

	_, err := c.Encrypt("secret")
	require.True(t, errors.Is(err, kerrors.ErrNotInitialized))

	require.NoError(t, store.InitializeKey(context.Background(), true, ""))

	envelope, err := c.Encrypt("secretäöüß")
	require.NoError(t, err)
	assert.Regexp(t, envelopePattern, envelope)

	plaintext, err := c.Decrypt(envelope)
	require.NoError(t, err)
	assert.Equal(t, "secretäöüß", plaintext)
	assert.True(t, utf8.ValidString(plaintext))

	// A forced re-initialization makes old values undecryptable.
	require.NoError(t, store.InitializeKey(context.Background(), true, ""))
	_, err = c.Decrypt(envelope)
	assert.ErrorIs(t, err, kerrors.ErrAuthenticationFailed)
}
