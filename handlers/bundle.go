// File: jetset/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Chat endpoint.
	ChatHandler gin.HandlerFunc

	// Session endpoints.
	StartSessionHandler gin.HandlerFunc
	EndSessionHandler   gin.HandlerFunc

	// Booking endpoints.
	GetDraftHandler     gin.HandlerFunc
	UpdateDraftHandler  gin.HandlerFunc
	PriceDraftHandler   gin.HandlerFunc
	ConfirmDraftHandler gin.HandlerFunc
	CancelDraftHandler  gin.HandlerFunc
	GetBookingsHandler  gin.HandlerFunc

	// Knowledge endpoints.
	PackagesHandler gin.HandlerFunc
	LocationHandler gin.HandlerFunc
	FAQHandler      gin.HandlerFunc
	AboutHandler    gin.HandlerFunc
}
