package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/safarilink/groupstay-backend/api/middleware"
	"github.com/safarilink/groupstay-backend/api/responses"
	"github.com/safarilink/groupstay-backend/api/validators"
	"github.com/safarilink/groupstay-backend/internal/claims"
	pkgerrors "github.com/safarilink/groupstay-backend/pkg/errors"
	"github.com/safarilink/groupstay-backend/pkg/logger"
	"github.com/safarilink/groupstay-backend/pkg/pagination"
)

type submitClaimRequest struct {
	BookingID            uuid.UUID        `json:"bookingId" validate:"required"`
	PropertyID           uuid.UUID        `json:"propertyId" validate:"required"`
	OfferedPricePerNight decimal.Decimal  `json:"offeredPricePerNight" validate:"required"`
	DiscountPercent      *decimal.Decimal `json:"discountPercent"`
	SpecialOffers        *string          `json:"specialOffers"`
	Notes                *string          `json:"notes"`
}

type withdrawClaimRequest struct {
	BookingID uuid.UUID `json:"bookingId" validate:"required"`
}

// OwnerAvailableBookings lists open bookings the owner can claim, with
// the owner's properties ranked per booking.
func OwnerAvailableBookings(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := actorUUID(r)
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

		list, err := svc.ListAvailable(r.Context(), ownerID, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OwnerSubmitClaim places a priced offer against an open booking.
func OwnerSubmitClaim(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req submitClaimRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claim, err := svc.Submit(r.Context(), claims.SubmitInput{
			BookingID:            req.BookingID,
			OwnerID:              ownerID,
			PropertyID:           req.PropertyID,
			OfferedPricePerNight: req.OfferedPricePerNight,
			DiscountPercent:      req.DiscountPercent,
			SpecialOffers:        req.SpecialOffers,
			Notes:                req.Notes,
			ActorRole:            middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, claim)
	}
}

// OwnerWithdrawClaim retracts a live claim the owner placed.
func OwnerWithdrawClaim(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		claimID, err := pathUUID(r, "claimID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req withdrawClaimRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Withdraw(r.Context(), claims.WithdrawInput{
			BookingID: req.BookingID,
			ClaimID:   claimID,
			OwnerID:   ownerID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "withdrawn"})
	}
}

// OwnerBookingClaims lists the owner's own claims on a booking.
func OwnerBookingClaims(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForOwner(r.Context(), bookingID, ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func actorUUID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ActorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor id")
	}
	return id, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, param+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
