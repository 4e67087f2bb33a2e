package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuctionMetrics counts claim and lifecycle activity across bookings.
type AuctionMetrics struct {
	claimsSubmitted *prometheus.CounterVec
	claimsDecided   *prometheus.CounterVec
	auctionsOpened  prometheus.Counter
	auctionsClosed  *prometheus.CounterVec
}

// NewAuctionMetrics registers the auction metrics on the provided registerer.
func NewAuctionMetrics(reg prometheus.Registerer) *AuctionMetrics {
	if reg == nil {
		return &AuctionMetrics{}
	}
	claimsSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "claims_submitted_total",
		Help: "Claims accepted for persistence, by outcome.",
	}, []string{"outcome"})
	claimsDecided := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "claims_decided_total",
		Help: "Claim decisions recorded, by resulting status.",
	}, []string{"status"})
	auctionsOpened := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auctions_opened_total",
		Help: "Claims windows opened (including re-advertisements).",
	})
	auctionsClosed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auctions_closed_total",
		Help: "Claims windows closed, by reason code.",
	}, []string{"reason"})
	reg.MustRegister(claimsSubmitted, claimsDecided, auctionsOpened, auctionsClosed)
	return &AuctionMetrics{
		claimsSubmitted: claimsSubmitted,
		claimsDecided:   claimsDecided,
		auctionsOpened:  auctionsOpened,
		auctionsClosed:  auctionsClosed,
	}
}

// IncClaimSubmitted records a submission attempt outcome ("created" or "conflict").
func (a *AuctionMetrics) IncClaimSubmitted(outcome string) {
	if a == nil || a.claimsSubmitted == nil {
		return
	}
	a.claimsSubmitted.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncClaimDecided records a claim reaching a terminal status.
func (a *AuctionMetrics) IncClaimDecided(status string) {
	if a == nil || a.claimsDecided == nil {
		return
	}
	a.claimsDecided.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncAuctionOpened records a claims window opening.
func (a *AuctionMetrics) IncAuctionOpened() {
	if a == nil || a.auctionsOpened == nil {
		return
	}
	a.auctionsOpened.Inc()
}

// IncAuctionClosed records a claims window closing with the given reason code.
func (a *AuctionMetrics) IncAuctionClosed(reason string) {
	if a == nil || a.auctionsClosed == nil {
		return
	}
	a.auctionsClosed.WithLabelValues(normalizeLabel(reason)).Inc()
}
