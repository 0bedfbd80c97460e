package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/spps/internal/audit"
	kerrors "github.com/PolarWolf314/spps/internal/errors"
	"github.com/PolarWolf314/spps/internal/utils"
)

const dateFormat = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by OS user (case-insensitive).
	User string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string

	// FailedOnly keeps only entries recording an error.
	FailedOnly bool
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Path is the audit log that was read.
	Path string

	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log kept next to the settings record.
//
// Returns ErrNoAuditLog if no audit log exists.
// Returns ErrInvalidDateFormat if the date format is invalid.
func Log(ctx context.Context, env *Environment, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	since, until, err := parseDateRange(opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	logPath := env.Settings.AuditLogPath()
	if _, err := os.Stat(logPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", kerrors.ErrNoAuditLog, logPath)
	}

	entries, err := audit.ReadEntries(logPath)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{
		Path:                     logPath,
		TotalEntriesBeforeFilter: len(entries),
	}

	filtered := entries

	if opts.User != "" {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			return strings.EqualFold(e.User, opts.User)
		})
	}

	if ops := utils.SplitList(opts.Operations); len(ops) > 0 {
		opSet := make(map[string]bool)
		for _, op := range ops {
			opSet[strings.ToLower(op)] = true
		}
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			return opSet[strings.ToLower(e.Operation)]
		})
	}

	if opts.FailedOnly {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			return e.Error != ""
		})
	}

	if !since.IsZero() {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			t, ok := parseTimestamp(e.Timestamp)
			return ok && !t.Before(since)
		})
	}

	if !until.IsZero() {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			t, ok := parseTimestamp(e.Timestamp)
			return ok && !t.After(until)
		})
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// The limit always keeps the most recent entries.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func parseDateRange(sinceValue, untilValue string) (since, until time.Time, err error) {
	if sinceValue != "" {
		since, err = time.Parse(dateFormat, sinceValue)
		if err != nil {
			return since, until, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
	}
	if untilValue != "" {
		until, err = time.Parse(dateFormat, untilValue)
		if err != nil {
			return since, until, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Include the entire day.
		until = until.Add(24*time.Hour - time.Nanosecond)
	}
	return since, until, nil
}

func filterEntries(entries []audit.Entry, keep func(audit.Entry) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}

func parseTimestamp(ts string) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// FormatDate formats a timestamp string to YYYY-MM-DD format.
func FormatDate(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		if len(ts) >= 10 {
			return ts[:10]
		}
		return ts
	}
	return t.Format(dateFormat)
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails formats the details for a log entry in the default format.
func FormatDetails(e audit.Entry) string {
	var parts []string
	if e.Operation == audit.OpInit {
		if e.Relocation != "" {
			parts = append(parts, "relocated to "+e.Relocation)
		}
		if e.Forced {
			parts = append(parts, "forced")
		}
	}
	if e.Error != "" {
		parts = append(parts, "failed: "+e.Error)
	}
	return strings.Join(parts, ", ")
}

// FormatDetailsOneline formats the details for a log entry in oneline format.
func FormatDetailsOneline(e audit.Entry) string {
	switch {
	case e.Error != "":
		return "failed"
	case e.Operation == audit.OpInit && e.Forced:
		return "forced"
	case e.Operation == audit.OpInit && e.Relocation != "":
		return "relocated"
	default:
		return ""
	}
}
