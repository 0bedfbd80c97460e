package secrets

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
)

func TestParseKeyRecord(t *testing.T) {
	tests := []struct {
		name string
		data string
		want KeyRecord
	}{
		{
			name: "authoritative",
			data: "key=abc=\nrelocation=\n",
			want: KeyRecord{Key: "abc="},
		},
		{
			name: "pointer",
			data: "key=\nrelocation=/srv/spps/settings\n",
			want: KeyRecord{Relocation: "/srv/spps/settings"},
		},
		{
			name: "comments blank lines and unknown entries",
			data: "# written by spps\n\n! legacy comment\nversion=2\nkey=abc\nrelocation=\n",
			want: KeyRecord{Key: "abc"},
		},
		{
			name: "windows line endings and spaces",
			data: "key = abc\r\nrelocation = \r\n",
			want: KeyRecord{Key: "abc"},
		},
		{
			name: "last entry wins",
			data: "key=old\nkey=new\n",
			want: KeyRecord{Key: "new"},
		},
		{
			name: "relocation keeps equals signs",
			data: "relocation=/tmp/a=b\n",
			want: KeyRecord{Relocation: "/tmp/a=b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyRecord([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeyRecordRejectsGarbage(t *testing.T) {
	_, err := ParseKeyRecord([]byte("key=abc\nthis line has no separator\n"))
	assert.ErrorIs(t, err, kerrors.ErrInvalidKeyRecord)
}

func TestKeyRecordMarshal(t *testing.T) {
	assert.Equal(t, "key=abc\nrelocation=\n", string(KeyRecord{Key: "abc"}.Marshal()))
	assert.Equal(t, "key=\nrelocation=/x/settings\n", string(KeyRecord{Relocation: "/x/settings"}.Marshal()))

	parsed, err := ParseKeyRecord(KeyRecord{Relocation: "../shared/settings"}.Marshal())
	require.NoError(t, err)
	assert.True(t, parsed.IsPointer())
	assert.Equal(t, "../shared/settings", parsed.Relocation)
}

func TestKeyRecordValidate(t *testing.T) {
	assert.NoError(t, KeyRecord{Key: "k"}.Validate())
	assert.NoError(t, KeyRecord{Relocation: "/r"}.Validate())
	assert.ErrorIs(t, KeyRecord{}.Validate(), kerrors.ErrInvalidKeyRecord)
	assert.ErrorIs(t, KeyRecord{Key: "k", Relocation: "/r"}.Validate(), kerrors.ErrInvalidKeyRecord)
}

func TestKeyRecordDecodeKey(t *testing.T) {
	raw := make([]byte, KeySize)
	for i := range raw {
		raw[i] = byte(i)
	}

	key, err := KeyRecord{Key: base64.StdEncoding.EncodeToString(raw)}.decodeKey()
	require.NoError(t, err)
	defer key.Destroy()
	assert.Equal(t, raw, key.Bytes())

	_, err = KeyRecord{Key: "not base64!"}.decodeKey()
	assert.ErrorIs(t, err, kerrors.ErrInvalidKeyRecord)

	_, err = KeyRecord{Key: base64.StdEncoding.EncodeToString(raw[:16])}.decodeKey()
	assert.ErrorIs(t, err, kerrors.ErrInvalidKeyRecord)
}

func TestNewAuthoritativeRecord(t *testing.T) {
	first, err := newAuthoritativeRecord()
	require.NoError(t, err)
	second, err := newAuthoritativeRecord()
	require.NoError(t, err)

	assert.True(t, first.IsAuthoritative())
	assert.NotEqual(t, first.Key, second.Key)

	raw, err := base64.StdEncoding.DecodeString(first.Key)
	require.NoError(t, err)
	assert.Len(t, raw, KeySize)
}
