package enums

import "fmt"

// CloseReason explains why a claims window was closed.
type CloseReason string

const (
	CloseReasonOwnerConfirmed  CloseReason = "owner_confirmed"
	CloseReasonNoValidOffers   CloseReason = "no_valid_offers"
	CloseReasonPolicyDecision  CloseReason = "policy_decision"
	CloseReasonDeadlineElapsed CloseReason = "deadline_elapsed"
)

var validCloseReasons = []CloseReason{
	CloseReasonOwnerConfirmed,
	CloseReasonNoValidOffers,
	CloseReasonPolicyDecision,
	CloseReasonDeadlineElapsed,
}

// String implements fmt.Stringer.
func (c CloseReason) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CloseReason.
func (c CloseReason) IsValid() bool {
	for _, candidate := range validCloseReasons {
		if candidate == c {
			return true
		}
	}
	return false
}

// RequiresDetails reports whether the reason must carry free-text details.
func (c CloseReason) RequiresDetails() bool {
	return c == CloseReasonPolicyDecision
}

// ParseCloseReason converts raw input into a CloseReason.
func ParseCloseReason(value string) (CloseReason, error) {
	for _, candidate := range validCloseReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid close reason %q", value)
}
