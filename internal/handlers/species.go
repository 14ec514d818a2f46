package handlers

import (
	"strconv"

	"github.com/croptrack/croptrack/internal/middleware"
	"github.com/croptrack/croptrack/internal/services"
	"github.com/gin-gonic/gin"
)

type SpeciesHandler struct {
	speciesService *services.SpeciesService
}

func NewSpeciesHandler(speciesService *services.SpeciesService) *SpeciesHandler {
	return &SpeciesHandler{speciesService: speciesService}
}

type CreateSpeciesRequest struct {
	Name        string   `json:"name" binding:"required"`
	Code        string   `json:"code" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	MinHeight   float64  `json:"min_height"`
	HarvestDays int      `json:"harvest_days" binding:"required"`
	Climate     string   `json:"climate"`
	Soil        string   `json:"soil"`
	Water       string   `json:"water"`
	Sunlight    string   `json:"sunlight"`
	MaxHeight   *float64 `json:"max_height"`
	MaxDiameter *float64 `json:"max_diameter"`
}

// Create godoc
// @Summary Register a plant species
// @Description Register a species with its growth thresholds
// @Tags species
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSpeciesRequest true "Species registration"
// @Success 201 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /species [post]
func (h *SpeciesHandler) Create(c *gin.Context) {
	var req CreateSpeciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	species, err := h.speciesService.Register(services.RegisterSpeciesInput{
		Name:        req.Name,
		Code:        req.Code,
		Category:    req.Category,
		MinHeight:   req.MinHeight,
		HarvestDays: req.HarvestDays,
		Climate:     req.Climate,
		Soil:        req.Soil,
		Water:       req.Water,
		Sunlight:    req.Sunlight,
		MaxHeight:   req.MaxHeight,
		MaxDiameter: req.MaxDiameter,
	}, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, species)
}

// List godoc
// @Summary List species
// @Description List species, optionally filtered by category
// @Tags species
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter"
// @Param active query bool false "Only active species" default(true)
// @Success 200 {object} APIResponse
// @Router /species [get]
func (h *SpeciesHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"

	list, err := h.speciesService.ListByCategory(c.Query("category"), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

// GetByCode godoc
// @Summary Look up a species by code
// @Tags species
// @Produce json
// @Security BearerAuth
// @Param code path string true "Species code"
// @Success 200 {object} APIResponse
// @Failure 404 {object} ErrorResponse
// @Router /species/code/{code} [get]
func (h *SpeciesHandler) GetByCode(c *gin.Context) {
	species, err := h.speciesService.GetByCode(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, species)
}

type UpdateSpeciesRequest struct {
	Climate  string `json:"climate"`
	Soil     string `json:"soil"`
	Water    string `json:"water"`
	Sunlight string `json:"sunlight"`
}

// Update godoc
// @Summary Update species descriptive fields
// @Description Name, code and growth thresholds are immutable; only descriptive preferences change
// @Tags species
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Species ID"
// @Param request body UpdateSpeciesRequest true "Descriptive fields"
// @Success 200 {object} APIResponse
// @Failure 404 {object} ErrorResponse
// @Router /species/{id} [put]
func (h *SpeciesHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, 400, "invalid species ID")
		return
	}

	var req UpdateSpeciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	species, err := h.speciesService.UpdateDescriptive(uint(id), req.Climate, req.Soil, req.Water, req.Sunlight)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, species)
}

// Deactivate godoc
// @Summary Deactivate a species
// @Description Soft-deactivate a species; existing lots are unaffected
// @Tags species
// @Produce json
// @Security BearerAuth
// @Param id path int true "Species ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /species/{id} [delete]
func (h *SpeciesHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, 400, "invalid species ID")
		return
	}

	if err := h.speciesService.Deactivate(uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deactivated": true})
}
