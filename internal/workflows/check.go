package workflows

import "github.com/PolarWolf314/spps/pkg/spps"

// CheckResult reports whether a value is an encrypted envelope.
type CheckResult struct {
	Encrypted bool
}

// Check inspects value syntactically. It never reads the key and is not
// audited.
func Check(value string) CheckResult {
	return CheckResult{Encrypted: spps.IsEncryptedValue(&value)}
}
