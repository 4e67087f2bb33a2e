package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/safarilink/groupstay-backend/api/controllers"
	"github.com/safarilink/groupstay-backend/api/middleware"
	"github.com/safarilink/groupstay-backend/internal/audit"
	"github.com/safarilink/groupstay-backend/internal/auction"
	"github.com/safarilink/groupstay-backend/internal/claims"
	"github.com/safarilink/groupstay-backend/pkg/config"
	"github.com/safarilink/groupstay-backend/pkg/db"
	"github.com/safarilink/groupstay-backend/pkg/logger"
	"github.com/safarilink/groupstay-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	claimsService claims.Service,
	auctionService auction.Service,
	auditService audit.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(logg))
		r.Use(middleware.Idempotency(redisClient, logg, cfg.Auction.SubmitIdempotencyTTL))

		r.Route("/owner", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, "owner"))
			r.Get("/claims/available", controllers.OwnerAvailableBookings(claimsService, logg))
			r.Post("/claims", controllers.OwnerSubmitClaim(claimsService, logg))
			r.Post("/claims/{claimID}/withdraw", controllers.OwnerWithdrawClaim(claimsService, logg))
			r.Get("/bookings/{bookingID}/claims", controllers.OwnerBookingClaims(claimsService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, "admin"))
			r.Route("/assignments/{bookingID}", func(r chi.Router) {
				r.Patch("/open-for-claims", controllers.AdminOpenForClaims(auctionService, logg))
				r.Patch("/claim-settings", controllers.AdminUpdateClaimSettings(auctionService, logg))
				r.Get("/claims", controllers.AdminBookingClaims(claimsService, logg))
				r.Post("/claims/{claimID}/accept", controllers.AdminAcceptClaim(claimsService, logg))
				r.Post("/claims/{claimID}/reject", controllers.AdminRejectClaim(claimsService, logg))
				r.Get("/audits", controllers.AdminBookingAudits(auditService, logg))
			})
		})
	})

	return r
}
