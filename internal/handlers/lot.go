package handlers

import (
	"strconv"
	"time"

	"github.com/croptrack/croptrack/internal/middleware"
	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
	"github.com/croptrack/croptrack/internal/services"
	"github.com/gin-gonic/gin"
)

type LotHandler struct {
	lotService *services.LotService
}

func NewLotHandler(lotService *services.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

type CreateLotRequest struct {
	Code        string    `json:"code" binding:"required"`
	SpeciesID   uint      `json:"species_id" binding:"required"`
	PlantedDate time.Time `json:"planted_date" binding:"required"`
	Zone        string    `json:"zone" binding:"required"`
	LocationID  string    `json:"location_id" binding:"required"`
	PlantCount  int       `json:"plant_count" binding:"required"`
	Notes       string    `json:"notes"`
}

type UpdateLotRequest struct {
	Zone         *string `json:"zone"`
	LocationID   *string `json:"location_id"`
	Notes        *string `json:"notes"`
	AssignedToID *uint   `json:"assigned_to_id"`
}

type MeasurementRequest struct {
	Height   float64  `json:"height" binding:"required"`
	Diameter *float64 `json:"diameter"`
	Notes    string   `json:"notes"`
}

type HealthObservationRequest struct {
	Status    string `json:"status" binding:"required"`
	Symptoms  string `json:"symptoms"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes"`
}

type PhotoRequest struct {
	URL     string `json:"url" binding:"required"`
	Caption string `json:"caption"`
}

type HarvestRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
	Unit     string  `json:"unit" binding:"required"`
	Quality  string  `json:"quality" binding:"required"`
}

// LotResponse wraps the stored lot with its derived read-time fields.
type LotResponse struct {
	*models.Lot
	AgeInDays           int        `json:"age_in_days"`
	ReadyForHarvest     *bool      `json:"ready_for_harvest,omitempty"`
	ExpectedHarvestDate *time.Time `json:"expected_harvest_date,omitempty"`
}

func toLotResponse(lot *models.Lot) *LotResponse {
	now := time.Now()
	resp := &LotResponse{
		Lot:       lot,
		AgeInDays: lot.AgeDays(now),
	}
	if lot.Species != nil {
		if ready, err := lot.ReadyForHarvest(lot.Species, now); err == nil {
			resp.ReadyForHarvest = &ready
		}
		if expected, err := lot.ExpectedHarvestDate(lot.Species); err == nil {
			resp.ExpectedHarvestDate = &expected
		}
	}
	return resp
}

func toLotResponses(lots []models.Lot) []*LotResponse {
	responses := make([]*LotResponse, len(lots))
	for i := range lots {
		responses[i] = toLotResponse(&lots[i])
	}
	return responses
}

// Create godoc
// @Summary Create a plant lot
// @Description Create a lot referencing a registered species
// @Tags lots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLotRequest true "Lot creation"
// @Success 201 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /lots [post]
func (h *LotHandler) Create(c *gin.Context) {
	var req CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	lot, err := h.lotService.CreateLot(services.CreateLotInput{
		Code:        req.Code,
		SpeciesID:   req.SpeciesID,
		PlantedDate: req.PlantedDate,
		Zone:        req.Zone,
		LocationID:  req.LocationID,
		PlantCount:  req.PlantCount,
		Notes:       req.Notes,
	}, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toLotResponse(lot))
}

// List godoc
// @Summary List lots
// @Description Paginated lot listing with zone/health/species filters
// @Tags lots
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param zone query string false "Zone filter"
// @Param healthStatus query string false "Health status filter"
// @Param speciesId query int false "Species filter"
// @Param unharvested query bool false "Only unharvested lots"
// @Param sortBy query string false "Sort column"
// @Param order query string false "asc or desc"
// @Success 200 {object} APIResponse
// @Router /lots [get]
func (h *LotHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	speciesID, _ := strconv.ParseUint(c.Query("speciesId"), 10, 32)

	filter := repository.LotFilter{
		Zone:         c.Query("zone"),
		HealthStatus: c.Query("healthStatus"),
		SpeciesID:    uint(speciesID),
		Unharvested:  c.Query("unharvested") == "true",
	}

	lots, total, err := h.lotService.ListLots(filter, page, limit, c.Query("sortBy"), c.Query("order"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	respondPaginated(c, toLotResponses(lots), page, limit, total)
}

// Get godoc
// @Summary Get a lot by ID
// @Tags lots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} ErrorResponse
// @Router /lots/{id} [get]
func (h *LotHandler) Get(c *gin.Context) {
	id, ok := lotID(c)
	if !ok {
		return
	}

	lot, err := h.lotService.GetLot(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toLotResponse(lot))
}

// GetByCode godoc
// @Summary Get a lot by its code
// @Tags lots
// @Produce json
// @Security BearerAuth
// @Param code path string true "Lot code"
// @Success 200 {object} APIResponse
// @Failure 404 {object} ErrorResponse
// @Router /lots/code/{code} [get]
func (h *LotHandler) GetByCode(c *gin.Context) {
	lot, err := h.lotService.GetLotByCode(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toLotResponse(lot))
}

// Update godoc
// @Summary Update lot fields
// @Description Update zone, location, notes or assignment
// @Tags lots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Param request body UpdateLotRequest true "Fields to update"
// @Success 200 {object} APIResponse
// @Failure 404 {object} ErrorResponse
// @Router /lots/{id} [put]
func (h *LotHandler) Update(c *gin.Context) {
	id, ok := lotID(c)
	if !ok {
		return
	}

	var req UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	lot, err := h.lotService.UpdateLot(id, services.UpdateLotInput{
		Zone:         req.Zone,
		LocationID:   req.LocationID,
		Notes:        req.Notes,
		AssignedToID: req.AssignedToID,
	}, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toLotResponse(lot))
}

// Delete godoc
// @Summary Delete a lot
// @Description Manager-only soft delete
// @Tags lots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lots/{id} [delete]
func (h *LotHandler) Delete(c *gin.Context) {
	id, ok := lotID(c)
	if !ok {
		return
	}

	if err := h.lotService.DeleteLot(id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// AddMeasurement godoc
// @Summary Record a growth measurement
// @Description Append a measurement; the lot's current height/diameter follow it
// @Tags lots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Param request body MeasurementRequest true "Measurement"
// @Success 200 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lots/{id}/measurements [post]
func (h *LotHandler) AddMeasurement(c *gin.Context) {
	id, ok := lotID(c)
	if !ok {
		return
	}

	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	lot, err := h.lotService.RecordGrowthMeasurement(id, req.Height, req.Diameter, req.Notes, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toLotResponse(lot))
}

// AddHealthObservation godoc
// @Summary Record a health observation
// @Description Append a health record; the lot's current status follows it
// @Tags lots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Param request body HealthObservationRequest true "Observation"
// @Success 200 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lots/{id}/health [post]
func (h *LotHandler) AddHealthObservation(c *gin.Context) {
	id, ok := lotID(c)
	if !ok {
		return
	}

	var req HealthObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	lot, err := h.lotService.RecordHealthObservation(id, req.Status, req.Symptoms, req.Treatment, req.Notes, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toLotResponse(lot))
}

// AddPhoto godoc
// @Summary Attach a photo
// @Tags lots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Param request body PhotoRequest true "Photo"
// @Success 200 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lots/{id}/photos [post]
func (h *LotHandler) AddPhoto(c *gin.Context) {
	id, ok := lotID(c)
	if !ok {
		return
	}

	var req PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	lot, err := h.lotService.AttachPhoto(id, req.URL, req.Caption, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toLotResponse(lot))
}

// Harvest godoc
// @Summary Record a harvest
// @Description Mark the lot harvested with quantity, unit and quality grade
// @Tags lots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Param request body HarvestRequest true "Harvest record"
// @Success 200 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lots/{id}/harvest [post]
func (h *LotHandler) Harvest(c *gin.Context) {
	id, ok := lotID(c)
	if !ok {
		return
	}

	var req HarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	lot, err := h.lotService.Harvest(id, req.Quantity, req.Unit, req.Quality, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toLotResponse(lot))
}

// Ready godoc
// @Summary List lots ready for harvest
// @Description Evaluates readiness per lot against its species thresholds
// @Tags lots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /lots/ready [get]
func (h *LotHandler) Ready(c *gin.Context) {
	lots, err := h.lotService.FindReadyForHarvest()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toLotResponses(lots))
}

// Stats godoc
// @Summary Lot statistics
// @Description Counts by health status and zone, harvested totals, average height
// @Tags lots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /lots/stats [get]
func (h *LotHandler) Stats(c *gin.Context) {
	stats, err := h.lotService.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

func lotID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, 400, "invalid lot ID")
		return 0, false
	}
	return uint(id), true
}
