// Package secrets provides the key store and envelope cipher for spps.
//
// # Key Records
//
// The protecting key lives in a small settings file, by default
// ~/.spps/settings, with two entries:
//
//	key=<base64 of 32 random bytes>
//	relocation=
//
// A record may instead point at another record that holds the key:
//
//	key=
//	relocation=/mnt/secure/spps/settings
//
// KeyStore.ResolveKey follows pointers in a loop and rejects a chain that
// reaches the same file twice (ErrRelocationCycle). Reading never creates a
// key; KeyStore.InitializeKey must be called first.
//
// Records are written with 0600 permissions inside a 0700 directory. Writes
// go through a temp file so a reader never sees half a record, and
// initialization holds an advisory lock next to the record.
//
// # Envelopes
//
// Encrypted values are AES-256-GCM with a 16 byte random IV and no
// associated data, rendered as
//
//	{ base64( IV[16] || ciphertext[N] || tag[16] ) }
//
// The base64 alphabet is the standard one with padding. The format is
// stable: values written by earlier versions must keep decrypting.
//
// # Key Handling
//
// Keys are returned in memguard LockedBuffers. Cipher resolves the key once
// per Encrypt or Decrypt call and destroys the buffer before returning, so
// no key material outlives a single operation.
package secrets
