package cmd

import (
	"errors"
	"io/fs"

	kerrors "github.com/PolarWolf314/spps/internal/errors"
	"github.com/PolarWolf314/spps/internal/ui"
)

// reportedError marks a failure whose message has already been printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return reportedError{err: err}
}

// IsReported reports whether err was already shown to the user, so the
// caller only has to set the exit status.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

var errNotEncrypted = errors.New("value is not encrypted")

// formatError turns a workflow error into the message shown to the user.
func formatError(err error) string {
	run := func(command string) string {
		return ui.Info.Sprint("→") + " Run " + ui.Code.Sprint(command)
	}

	switch {
	case errors.Is(err, kerrors.ErrNotInitialized):
		return ui.Failure("No key has been initialized") +
			run("spps init") + " first"

	case errors.Is(err, kerrors.ErrAlreadyExists):
		return ui.Failure("A key record already exists at %s", ui.Path.Sprint(existingRecord(err))) +
			run("spps init --force") + " to replace it. Values encrypted with the old key will no longer decrypt"

	case errors.Is(err, kerrors.ErrRelocationCycle):
		return ui.Failure("The key records point at each other: %v", err) +
			run("spps status") + " to inspect the chain"

	case errors.Is(err, kerrors.ErrInvalidKeyRecord):
		return ui.Failure("The key record is invalid: %v", err)

	case errors.Is(err, kerrors.ErrMalformedEnvelope):
		return ui.Failure("The value is not an encrypted value. Expected %s", ui.Code.Sprint("{base64}"))

	case errors.Is(err, kerrors.ErrAuthenticationFailed):
		return ui.Failure("The value could not be decrypted. It was changed or encrypted with a different key")

	case errors.Is(err, fs.ErrPermission):
		return ui.Failure("Permission denied: %v", err)

	case errors.Is(err, kerrors.ErrNoInput):
		return ui.Failure("No value given. Pass it as an argument or pipe it with %s", ui.Flag.Sprint("--stdin"))

	case errors.Is(err, kerrors.ErrNoAuditLog):
		return ui.Info.Sprint("ℹ") + " No audit log found. Operations are logged once a key is used.\n"

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Failure("%v", err)

	default:
		return ui.Failure("%v", err)
	}
}

// existingRecord returns the record an ErrAlreadyExists refers to, which is
// the relocation target when that is the one already present.
func existingRecord(err error) string {
	var recordErr *kerrors.RecordError
	if errors.As(err, &recordErr) {
		return recordErr.Path
	}
	return env.Settings.SettingsPath
}
