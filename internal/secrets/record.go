package secrets

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/awnumar/memguard"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
)

const (
	recordKeyField        = "key"
	recordRelocationField = "relocation"
)

// KeyRecord is the parsed content of a settings file. A record either holds
// the protecting key itself or points at another record that does.
type KeyRecord struct {
	// Key is the base64 encoded protecting key. Empty for pointer records.
	Key string

	// Relocation is the path of the authoritative record. Empty when this
	// record holds the key. Relative paths are taken relative to the
	// directory of the record that contains them.
	Relocation string
}

// IsAuthoritative reports whether the record holds the key itself.
func (r KeyRecord) IsAuthoritative() bool {
	return r.Key != "" && r.Relocation == ""
}

// IsPointer reports whether the record only redirects to another record.
func (r KeyRecord) IsPointer() bool {
	return r.Key == "" && r.Relocation != ""
}

// Validate checks that the record is exactly one of authoritative or pointer.
func (r KeyRecord) Validate() error {
	switch {
	case r.IsAuthoritative(), r.IsPointer():
		return nil
	case r.Key == "" && r.Relocation == "":
		return fmt.Errorf("%w: neither key nor relocation is set", kerrors.ErrInvalidKeyRecord)
	default:
		return fmt.Errorf("%w: both key and relocation are set", kerrors.ErrInvalidKeyRecord)
	}
}

// Marshal renders the record in the line oriented settings format. Both
// entries are always written, the unused one with an empty value.
func (r KeyRecord) Marshal() []byte {
	var b bytes.Buffer
	b.WriteString(recordKeyField + "=" + r.Key + "\n")
	b.WriteString(recordRelocationField + "=" + r.Relocation + "\n")
	return b.Bytes()
}

// ParseKeyRecord reads `key=VALUE` and `relocation=VALUE` lines. Blank lines
// and lines starting with '#' or '!' are skipped, unknown entries are
// ignored, and a repeated entry keeps its last value.
func ParseKeyRecord(data []byte) (KeyRecord, error) {
	var record KeyRecord

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		name, value, found := strings.Cut(line, "=")
		if !found {
			return KeyRecord{}, fmt.Errorf("%w: line %d is not a name=value pair", kerrors.ErrInvalidKeyRecord, lineNo)
		}

		switch strings.TrimSpace(name) {
		case recordKeyField:
			record.Key = strings.TrimSpace(value)
		case recordRelocationField:
			record.Relocation = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return KeyRecord{}, fmt.Errorf("%w: %w", kerrors.ErrInvalidKeyRecord, err)
	}

	return record, nil
}

// decodeKey turns the record's base64 key into a guarded buffer. The
// intermediate slice is wiped by memguard when the buffer is created.
func (r KeyRecord) decodeKey() (*memguard.LockedBuffer, error) {
	raw, err := base64.StdEncoding.DecodeString(r.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: key is not valid base64", kerrors.ErrInvalidKeyRecord)
	}
	if len(raw) != KeySize {
		memguard.WipeBytes(raw)
		return nil, fmt.Errorf("%w: expected a %d byte key, got %d bytes", kerrors.ErrInvalidKeyRecord, KeySize, len(raw))
	}
	return memguard.NewBufferFromBytes(raw), nil
}

// newAuthoritativeRecord generates a fresh protecting key and wraps it in a record.
func newAuthoritativeRecord() (KeyRecord, error) {
	key, err := CreateSymmetricKey()
	if err != nil {
		return KeyRecord{}, err
	}
	defer key.Destroy()

	return KeyRecord{Key: base64.StdEncoding.EncodeToString(key.Bytes())}, nil
}

// validateRelocation rejects relocations that would not read back as the
// same value: line breaks would split the record, and surrounding spaces
// are trimmed by ParseKeyRecord.
func validateRelocation(relocation string) error {
	if strings.ContainsAny(relocation, "\r\n") {
		return fmt.Errorf("%w: relocation %q contains a line break", kerrors.ErrInvalidKeyRecord, relocation)
	}
	if strings.TrimSpace(relocation) != relocation {
		return fmt.Errorf("%w: relocation %q has surrounding spaces", kerrors.ErrInvalidKeyRecord, relocation)
	}
	return nil
}
