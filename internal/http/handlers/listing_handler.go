// README: Listing handlers; agents only ever see masked coordinates.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/http/middleware"
	"courier/internal/modules/location"
	"courier/internal/types"
)

const defaultNearbyRadiusKm = 5.0

type ListingHandler struct {
	location *location.Service
}

func NewListingHandler(svc *location.Service) *ListingHandler {
	return &ListingHandler{location: svc}
}

type publishListingReq struct {
	DeliveryID     string       `json:"delivery_id" binding:"required"`
	Pickup         *types.Point `json:"pickup" binding:"required"`
	Dropoff        *types.Point `json:"dropoff" binding:"required"`
	EstimatedPrice float64      `json:"estimated_price"`
}

func (h *ListingHandler) Publish(c *gin.Context) {
	var req publishListingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "delivery_id, pickup and dropoff are required")
		return
	}
	if !isValidID(req.DeliveryID) {
		writeError(c, http.StatusBadRequest, "invalid delivery_id")
		return
	}
	l, err := h.location.PublishListing(c.Request.Context(), location.PublishRequest{
		DeliveryID:     types.ID(req.DeliveryID),
		PublishedBy:    middleware.CallerUID(c),
		Pickup:         *req.Pickup,
		Dropoff:        *req.Dropoff,
		EstimatedPrice: req.EstimatedPrice,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, l)
}

type nearbyQuery struct {
	Lat      *float64 `form:"lat" binding:"required"`
	Lng      *float64 `form:"lng" binding:"required"`
	RadiusKm *float64 `form:"radius_km"`
}

func (h *ListingHandler) Nearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "lat and lng are required numbers")
		return
	}
	radius := defaultNearbyRadiusKm
	if q.RadiusKm != nil {
		radius = *q.RadiusKm
	}
	listings, err := h.location.NearbyListings(c.Request.Context(), types.Point{Lat: *q.Lat, Lng: *q.Lng}, radius)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if listings == nil {
		listings = []location.NearbyListing{}
	}
	writeJSON(c, http.StatusOK, gin.H{"listings": listings})
}

func (h *ListingHandler) Withdraw(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	publisher := middleware.CallerUID(c)
	switch {
	case middleware.CallerRole(c) == middleware.RoleAdmin:
		publisher = location.AnyPublisher
	case publisher == "":
		writeError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.location.WithdrawListing(c.Request.Context(), types.ID(id), publisher); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
