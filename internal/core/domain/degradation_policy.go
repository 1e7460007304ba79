package domain

import "strings"

// DegradationPolicyMode enumerates how session validation behaves when the
// revocation store cannot be reached.
type DegradationPolicyMode string

const (
	// DegradationPolicyModeStrict rejects requests whenever revocation state cannot be confirmed.
	DegradationPolicyModeStrict DegradationPolicyMode = "strict"
	// DegradationPolicyModeLenient lets signature-valid tokens through when the store is down.
	DegradationPolicyModeLenient DegradationPolicyMode = "lenient"
)

// DegradationPolicy centralises the fail-open versus fail-closed decision so it
// is configured once instead of being chosen ad hoc per call site.
type DegradationPolicy struct {
	mode DegradationPolicyMode
}

// NewDegradationPolicy constructs a policy with the provided mode, defaulting to strict.
func NewDegradationPolicy(mode DegradationPolicyMode) DegradationPolicy {
	if mode != DegradationPolicyModeLenient {
		mode = DegradationPolicyModeStrict
	}
	return DegradationPolicy{mode: mode}
}

// ParseDegradationPolicyMode normalises textual input into a supported policy mode.
func ParseDegradationPolicyMode(value string) DegradationPolicyMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(DegradationPolicyModeLenient):
		return DegradationPolicyModeLenient
	default:
		return DegradationPolicyModeStrict
	}
}

// Mode returns the underlying policy mode.
func (p DegradationPolicy) Mode() DegradationPolicyMode {
	return p.mode
}

// IsStrict indicates whether unavailable revocation data denies access.
func (p DegradationPolicy) IsStrict() bool {
	return p.mode != DegradationPolicyModeLenient
}
