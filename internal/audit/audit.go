package audit

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/spps/internal/utils"
)

// Operation names recorded in the log.
const (
	OpInit    = "init"
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
)

// TimestampFormat is RFC3339 with microseconds in UTC.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry. It never holds plaintext,
// envelopes or key material.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`
	User      string `json:"user,omitempty"` // OS user performing the action.
	Host      string `json:"host,omitempty"`
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Settings   string `json:"settings,omitempty"`   // Key record the operation started from.
	Relocation string `json:"relocation,omitempty"` // For init with a relocation target.
	Forced     bool   `json:"forced,omitempty"`     // For init with --force.
	Error      string `json:"error,omitempty"`      // Set when the operation failed.
}

// NewEntry returns an entry for op with identity fields filled in.
func NewEntry(op string) Entry {
	entry := Entry{
		ID:        uuid.New().String(),
		Operation: op,
	}

	if username, err := utils.GetUsername(); err == nil {
		entry.User = username
	}
	if hostname, err := utils.GetHostname(); err == nil {
		entry.Host = hostname
	}

	return entry
}

// Recorder appends entries to an audit log file.
type Recorder struct {
	path    string
	enabled bool
}

// NewRecorder returns a recorder writing to path. A disabled recorder drops
// every entry.
func NewRecorder(path string, enabled bool) *Recorder {
	return &Recorder{path: path, enabled: enabled}
}

// Path returns the audit log location.
func (r *Recorder) Path() string {
	return r.path
}

// Record appends an entry to the audit log.
// If logging fails the entry is dropped without returning an error.
// Operations should not fail just because audit logging failed.
func (r *Recorder) Record(entry Entry) {
	if r == nil || !r.enabled || r.path == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
