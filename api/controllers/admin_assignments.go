package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safarilink/groupstay-backend/api/middleware"
	"github.com/safarilink/groupstay-backend/api/responses"
	"github.com/safarilink/groupstay-backend/api/validators"
	"github.com/safarilink/groupstay-backend/internal/audit"
	"github.com/safarilink/groupstay-backend/internal/auction"
	"github.com/safarilink/groupstay-backend/internal/claims"
	"github.com/safarilink/groupstay-backend/pkg/enums"
	pkgerrors "github.com/safarilink/groupstay-backend/pkg/errors"
	"github.com/safarilink/groupstay-backend/pkg/logger"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

type openForClaimsRequest struct {
	Open               bool             `json:"open"`
	Deadline           *time.Time       `json:"deadline"`
	MinDiscountPercent *decimal.Decimal `json:"minDiscountPercent"`
	Notes              *string          `json:"notes"`
	ReAdvertise        bool             `json:"reAdvertise"`
	ReasonCode         *string          `json:"reasonCode"`
	ReasonDetails      *string          `json:"reasonDetails"`
}

type claimSettingsRequest struct {
	Deadline           *time.Time       `json:"deadline"`
	MinDiscountPercent *decimal.Decimal `json:"minDiscountPercent"`
	Notes              *string          `json:"notes"`
}

type rejectClaimRequest struct {
	Reason *string `json:"reason"`
}

// AdminOpenForClaims toggles the claims window: open:true opens (or
// re-advertises) it, open:false closes it with a mandatory reason.
func AdminOpenForClaims(svc auction.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req openForClaimsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := middleware.RoleFromContext(r.Context())
		if req.Open {
			if req.Deadline == nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "deadline required to open claims"))
				return
			}
			cfg, err := svc.Open(r.Context(), auction.OpenInput{
				BookingID:          bookingID,
				ActorID:            actorID,
				ActorRole:          role,
				Deadline:           *req.Deadline,
				MinDiscountPercent: req.MinDiscountPercent,
				Notes:              req.Notes,
				ReAdvertise:        req.ReAdvertise,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, cfg)
			return
		}

		if req.ReasonCode == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "close reason required"))
			return
		}
		reason, err := enums.ParseCloseReason(*req.ReasonCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid close reason"))
			return
		}
		if err := svc.Close(r.Context(), auction.CloseInput{
			BookingID:     bookingID,
			ActorID:       actorID,
			ActorRole:     role,
			ReasonCode:    reason,
			ReasonDetails: req.ReasonDetails,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "closed"})
	}
}

// AdminUpdateClaimSettings mutates a live window's deadline, discount
// floor, or notes.
func AdminUpdateClaimSettings(svc auction.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req claimSettingsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := svc.UpdateSettings(r.Context(), auction.SettingsInput{
			BookingID:          bookingID,
			ActorID:            actorID,
			ActorRole:          middleware.RoleFromContext(r.Context()),
			Deadline:           req.Deadline,
			MinDiscountPercent: req.MinDiscountPercent,
			Notes:              req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// AdminBookingClaims lists every claim on a booking for triage.
func AdminBookingClaims(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForBooking(r.Context(), bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AdminAcceptClaim picks the winning claim and confirms the booking.
func AdminAcceptClaim(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		claimID, err := pathUUID(r, "claimID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Accept(r.Context(), claims.DecisionInput{
			BookingID: bookingID,
			ClaimID:   claimID,
			ActorID:   actorID,
			ActorRole: middleware.RoleFromContext(r.Context()),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "accepted"})
	}
}

// AdminRejectClaim declines a claim without affecting its siblings.
func AdminRejectClaim(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		claimID, err := pathUUID(r, "claimID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req rejectClaimRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reject(r.Context(), claims.RejectInput{
			BookingID: bookingID,
			ClaimID:   claimID,
			ActorID:   actorID,
			ActorRole: middleware.RoleFromContext(r.Context()),
			Reason:    req.Reason,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "rejected"})
	}
}

// AdminBookingAudits returns the booking's append-only audit trail in
// chronological order.
func AdminBookingAudits(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		page, err := svc.ListForBooking(r.Context(), bookingID, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
