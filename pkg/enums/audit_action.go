package enums

import "fmt"

// AuditAction identifies which lifecycle or claim transition an audit entry records.
type AuditAction string

const (
	AuditActionOpened          AuditAction = "opened"
	AuditActionReAdvertised    AuditAction = "re_advertised"
	AuditActionClosed          AuditAction = "closed"
	AuditActionSettingsUpdated AuditAction = "settings_updated"
	AuditActionClaimSubmitted  AuditAction = "claim_submitted"
	AuditActionClaimAccepted   AuditAction = "claim_accepted"
	AuditActionClaimRejected   AuditAction = "claim_rejected"
	AuditActionClaimWithdrawn  AuditAction = "claim_withdrawn"
	AuditActionClaimSuperseded AuditAction = "claim_superseded"
)

var validAuditActions = []AuditAction{
	AuditActionOpened,
	AuditActionReAdvertised,
	AuditActionClosed,
	AuditActionSettingsUpdated,
	AuditActionClaimSubmitted,
	AuditActionClaimAccepted,
	AuditActionClaimRejected,
	AuditActionClaimWithdrawn,
	AuditActionClaimSuperseded,
}

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuditAction.
func (a AuditAction) IsValid() bool {
	for _, candidate := range validAuditActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuditAction converts raw input into an AuditAction.
func ParseAuditAction(value string) (AuditAction, error) {
	for _, candidate := range validAuditActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid audit action %q", value)
}
