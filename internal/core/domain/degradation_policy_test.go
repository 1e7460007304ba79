package domain

import (
	"testing"
	"time"
)

func TestParseDegradationPolicyMode(t *testing.T) {
	cases := []struct {
		in   string
		want DegradationPolicyMode
	}{
		{"strict", DegradationPolicyModeStrict},
		{"lenient", DegradationPolicyModeLenient},
		{" Lenient ", DegradationPolicyModeLenient},
		{"", DegradationPolicyModeStrict},
		{"bogus", DegradationPolicyModeStrict},
	}

	for _, tc := range cases {
		if got := ParseDegradationPolicyMode(tc.in); got != tc.want {
			t.Fatalf("ParseDegradationPolicyMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewDegradationPolicyDefaultsToStrict(t *testing.T) {
	if !NewDegradationPolicy("unknown").IsStrict() {
		t.Fatalf("unknown modes must fall back to strict")
	}
	if NewDegradationPolicy(DegradationPolicyModeLenient).IsStrict() {
		t.Fatalf("lenient policy must not report strict")
	}
}

func TestSessionTokenTTLFor(t *testing.T) {
	if got := SessionTokenTTLFor(false); got != time.Hour {
		t.Fatalf("expected standard lifetime of one hour, got %v", got)
	}
	if got := SessionTokenTTLFor(true); got != 7*24*time.Hour {
		t.Fatalf("expected remember-me lifetime of seven days, got %v", got)
	}
}
