package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateBooking OutboxAggregateType = "booking"
	AggregateClaim   OutboxAggregateType = "claim"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateBooking,
	AggregateClaim,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventAuctionOpened       OutboxEventType = "auction_opened"
	EventAuctionReAdvertised OutboxEventType = "auction_re_advertised"
	EventAuctionClosed       OutboxEventType = "auction_closed"
	EventClaimSubmitted      OutboxEventType = "claim_submitted"
	EventClaimAccepted       OutboxEventType = "claim_accepted"
	EventClaimRejected       OutboxEventType = "claim_rejected"
	EventClaimWithdrawn      OutboxEventType = "claim_withdrawn"
)

var validOutboxEventTypes = []OutboxEventType{
	EventAuctionOpened,
	EventAuctionReAdvertised,
	EventAuctionClosed,
	EventClaimSubmitted,
	EventClaimAccepted,
	EventClaimRejected,
	EventClaimWithdrawn,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxEventStatus tracks relay progress for an outbox row.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusPublished OutboxEventStatus = "published"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// IsValid reports whether the value is a known OutboxEventStatus.
func (s OutboxEventStatus) IsValid() bool {
	switch s {
	case OutboxEventStatusPending, OutboxEventStatusPublished, OutboxEventStatusFailed:
		return true
	default:
		return false
	}
}
