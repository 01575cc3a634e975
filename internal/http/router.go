// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/http/handlers"
	"courier/internal/http/middleware"
	"courier/internal/infra"
	"courier/internal/modules/location"
	"courier/internal/modules/pricing"
)

type RouterDeps struct {
	Pricing  *pricing.Service
	Location *location.Service
	Verifier infra.TokenVerifier
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	quoteHandler := handlers.NewQuoteHandler(deps.Pricing)
	api.POST("/quotes", quoteHandler.Create)
	api.GET("/pricing/config", quoteHandler.GetConfig)
	api.PATCH("/admin/pricing/config", middleware.RequireRole(middleware.RoleAdmin), quoteHandler.UpdateConfig)

	listingHandler := handlers.NewListingHandler(deps.Location)
	api.POST("/listings", listingHandler.Publish)
	api.DELETE("/listings/:id", listingHandler.Withdraw)
	api.GET("/listings/nearby", middleware.RequireRole(middleware.RoleAgent), listingHandler.Nearby)

	return r
}
