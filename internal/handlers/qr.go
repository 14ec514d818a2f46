package handlers

import (
	"net/http"
	"strconv"

	"github.com/croptrack/croptrack/internal/services"
	"github.com/gin-gonic/gin"
)

type QRHandler struct {
	qrService *services.QRService
}

func NewQRHandler(qrService *services.QRService) *QRHandler {
	return &QRHandler{qrService: qrService}
}

type QRBatchRequest struct {
	Codes []string `json:"codes" binding:"required"`
	Size  int      `json:"size"`
}

// GenerateFull godoc
// @Summary Generate a full-metadata QR code for a lot
// @Description Encodes lot code, species, planted date, zone and lookup URL
// @Tags qr
// @Produce json
// @Security BearerAuth
// @Param code path string true "Lot code"
// @Param format query string false "base64 or png" default(base64)
// @Param size query int false "Pixel size" default(200)
// @Success 200 {object} APIResponse
// @Failure 404 {object} ErrorResponse
// @Router /qr/lots/{code} [get]
func (h *QRHandler) GenerateFull(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	format := c.DefaultQuery("format", services.QRFormatBase64)

	img, err := h.qrService.EncodeFull(c.Param("code"), size, format)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.respondImage(c, img)
}

// GenerateReference godoc
// @Summary Generate a reference-only QR code for a lot
// @Description Encodes only the canonical lookup URL, no embedded metadata
// @Tags qr
// @Produce json
// @Security BearerAuth
// @Param code path string true "Lot code"
// @Param format query string false "base64 or png" default(base64)
// @Param size query int false "Pixel size" default(200)
// @Success 200 {object} APIResponse
// @Failure 404 {object} ErrorResponse
// @Router /qr/lots/{code}/ref [get]
func (h *QRHandler) GenerateReference(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	format := c.DefaultQuery("format", services.QRFormatBase64)

	img, err := h.qrService.EncodeReference(c.Param("code"), size, format)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.respondImage(c, img)
}

// GenerateBatch godoc
// @Summary Generate QR codes for up to 50 lots
// @Description One result per input code; failed items carry an error marker
// @Tags qr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body QRBatchRequest true "Lot codes"
// @Success 200 {object} APIResponse
// @Failure 400 {object} ErrorResponse
// @Router /qr/batch [post]
func (h *QRHandler) GenerateBatch(c *gin.Context) {
	var req QRBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request: "+err.Error())
		return
	}

	results, err := h.qrService.EncodeBatch(req.Codes, req.Size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, results)
}

// Stats godoc
// @Summary QR availability statistics
// @Tags qr
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /qr/stats [get]
func (h *QRHandler) Stats(c *gin.Context) {
	stats, err := h.qrService.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

func (h *QRHandler) respondImage(c *gin.Context, img *services.QRImage) {
	if img.Format == services.QRFormatPNG {
		c.Data(http.StatusOK, "image/png", img.PNG)
		return
	}
	respondOK(c, img)
}
