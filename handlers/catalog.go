package handlers

import (
	"errors"
	"net/http"

	"fixly/config"
	"fixly/models"
	"fixly/services/assign"
	"fixly/services/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public service catalog and provider browse.
type CatalogHandler struct {
	Catalog *catalog.Catalog
	Engine  *assign.DefaultEngine
}

func NewCatalogHandler(cat *catalog.Catalog, engine *assign.DefaultEngine) *CatalogHandler {
	return &CatalogHandler{Catalog: cat, Engine: engine}
}

func (h *CatalogHandler) Services(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.Catalog.Services()})
}

func (h *CatalogHandler) NearbyProviders(c *gin.Context) {
	var req struct {
		ServiceType string           `json:"serviceType"`
		Location    *models.Location `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ServiceType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "serviceType is required"})
		return
	}

	location := catalog.FallbackLocation
	if req.Location != nil {
		location = *req.Location
	}

	candidates, err := h.Engine.Nearby(req.ServiceType, location, config.AppConfig.AvgSpeedKmh)
	if err != nil {
		var noProvider *assign.NoProviderError
		if errors.As(err, &noProvider) {
			c.JSON(http.StatusNotFound, gin.H{
				"message":   "No providers available for this service right now",
				"providers": []assign.Candidate{},
			})
			return
		}
		respondError(c, err)
		return
	}

	providers := make([]gin.H, 0, len(candidates))
	for _, cand := range candidates {
		providers = append(providers, gin.H{
			"id":          cand.Provider.ID,
			"name":        cand.Provider.Name,
			"serviceType": cand.Provider.ServiceType,
			"rating":      cand.Provider.Rating,
			"imageUrl":    cand.Provider.ImageURL,
			"location":    cand.Provider.Location,
			"distanceKm":  cand.DistanceKm,
			"etaMinutes":  cand.EtaMinutes,
		})
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}
