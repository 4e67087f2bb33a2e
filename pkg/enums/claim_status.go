package enums

import "fmt"

// ClaimStatus tracks the lifecycle of an owner's claim on a booking.
type ClaimStatus string

const (
	ClaimStatusPending    ClaimStatus = "pending"
	ClaimStatusReviewing  ClaimStatus = "reviewing"
	ClaimStatusAccepted   ClaimStatus = "accepted"
	ClaimStatusRejected   ClaimStatus = "rejected"
	ClaimStatusWithdrawn  ClaimStatus = "withdrawn"
	ClaimStatusSuperseded ClaimStatus = "superseded"
)

var validClaimStatuses = []ClaimStatus{
	ClaimStatusPending,
	ClaimStatusReviewing,
	ClaimStatusAccepted,
	ClaimStatusRejected,
	ClaimStatusWithdrawn,
	ClaimStatusSuperseded,
}

// String implements fmt.Stringer.
func (c ClaimStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ClaimStatus.
func (c ClaimStatus) IsValid() bool {
	for _, candidate := range validClaimStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status can never change again.
func (c ClaimStatus) IsTerminal() bool {
	switch c {
	case ClaimStatusAccepted, ClaimStatusRejected, ClaimStatusWithdrawn, ClaimStatusSuperseded:
		return true
	default:
		return false
	}
}

// IsLive reports whether the claim still competes for the booking.
func (c ClaimStatus) IsLive() bool {
	return c == ClaimStatusPending || c == ClaimStatusReviewing
}

// ParseClaimStatus converts raw input into a ClaimStatus.
func ParseClaimStatus(value string) (ClaimStatus, error) {
	for _, candidate := range validClaimStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid claim status %q", value)
}
