// Package spps protects short configuration secrets with a locally stored
// key.
//
// A Protector is built from a Config naming the key record. CreatePrivateKey
// writes the record once; Encrypt and DecryptString then convert between
// plaintext and "{base64}" envelopes. The nullable string of the original
// API is a *string here: nil goes in, nil comes out, and the key is not
// touched.
//
//	p := spps.New(spps.Config{SettingsPath: "/home/alice/.spps/settings"})
//	if err := p.CreatePrivateKey(ctx, false); err != nil && !errors.Is(err, spps.ErrAlreadyExists) {
//		return err
//	}
//	enc, err := p.EncryptString("hunter2")
package spps

import (
	"context"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
	logger "github.com/PolarWolf314/spps/internal/logging"
	"github.com/PolarWolf314/spps/internal/secrets"
)

// Errors returned by a Protector. Use errors.Is to test for them.
var (
	ErrNotInitialized       = kerrors.ErrNotInitialized
	ErrAlreadyExists        = kerrors.ErrAlreadyExists
	ErrRelocationCycle      = kerrors.ErrRelocationCycle
	ErrInvalidKeyRecord     = kerrors.ErrInvalidKeyRecord
	ErrMalformedEnvelope    = kerrors.ErrMalformedEnvelope
	ErrAuthenticationFailed = kerrors.ErrAuthenticationFailed
	ErrIO                   = kerrors.ErrIO
)

// ChainLink is one record on the way from the settings record to the key.
type ChainLink = secrets.ChainLink

// Config selects the key record a Protector works with.
type Config struct {
	// SettingsPath is the key record resolution starts from.
	SettingsPath string

	// Relocation, when set, makes CreatePrivateKey store the key at this
	// path and leave a pointer at SettingsPath. A relative value is taken
	// relative to the directory of SettingsPath.
	Relocation string

	// Logger receives debug output. The zero value is quiet.
	Logger logger.Logger
}

// Protector exposes the spps operations for one key record. It holds no key
// material: each call reads the key from disk and wipes it afterwards, so a
// Protector is safe for concurrent use.
type Protector struct {
	config Config
	store  *secrets.KeyStore
	cipher *secrets.Cipher
}

// New returns a Protector for config.
func New(config Config) *Protector {
	store := secrets.NewKeyStore(config.SettingsPath, config.Logger)
	return &Protector{
		config: config,
		store:  store,
		cipher: secrets.NewCipher(store),
	}
}

// SettingsPath returns the key record the Protector starts from.
func (p *Protector) SettingsPath() string {
	return p.config.SettingsPath
}

// IsEncryptedValue reports whether value looks like an envelope. It checks
// the braces only and never touches the key.
func IsEncryptedValue(value *string) bool {
	return value != nil && secrets.IsEnvelope(*value)
}

// IsEncryptedValue is the method form of the package level function.
func (p *Protector) IsEncryptedValue(value *string) bool {
	return IsEncryptedValue(value)
}

// CreatePrivateKey writes a new key record, honouring Config.Relocation.
// Without force an existing record yields ErrAlreadyExists and is left as
// it was.
func (p *Protector) CreatePrivateKey(ctx context.Context, force bool) error {
	return p.store.InitializeKey(ctx, force, p.config.Relocation)
}

// Encrypt returns the envelope for value, or nil for a nil value.
func (p *Protector) Encrypt(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	envelope, err := p.EncryptString(*value)
	if err != nil {
		return nil, err
	}
	return &envelope, nil
}

// DecryptString returns the plaintext of value, or nil for a nil value.
func (p *Protector) DecryptString(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	plaintext, err := p.Decrypt(*value)
	if err != nil {
		return nil, err
	}
	return &plaintext, nil
}

// EncryptString is Encrypt for a value that is known to be present.
func (p *Protector) EncryptString(plaintext string) (string, error) {
	return p.cipher.Encrypt(plaintext)
}

// Decrypt is DecryptString for a value that is known to be present.
func (p *Protector) Decrypt(envelope string) (string, error) {
	return p.cipher.Decrypt(envelope)
}

// Chain returns the records visited while resolving the key.
func (p *Protector) Chain() ([]ChainLink, error) {
	return p.store.Chain()
}
