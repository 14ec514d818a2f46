package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	QRDefaultSize = 200
	QRMinSize     = 100
	QRMaxSize     = 1000
	QRBatchLimit  = 50

	QRFormatBase64 = "base64"
	QRFormatPNG    = "png"
)

// LotQRPayload is the full metadata document embedded in a lot QR code.
type LotQRPayload struct {
	LotCode     string `json:"lotCode"`
	SpeciesName string `json:"speciesName"`
	SpeciesCode string `json:"speciesCode"`
	PlantedDate string `json:"plantedDate"`
	Zone        string `json:"zone"`
	LocationID  string `json:"locationId"`
	URL         string `json:"url"`
}

// QRImage is one encoded code in the caller's requested output format.
// PNG holds raw image bytes; Base64 holds a self-contained data URI.
type QRImage struct {
	LotCode string `json:"lot_code"`
	Format  string `json:"format"`
	Size    int    `json:"size"`
	PNG     []byte `json:"-"`
	Base64  string `json:"data,omitempty"`
}

type QRBatchItem struct {
	LotCode string  `json:"lot_code"`
	Success bool    `json:"success"`
	Data    *string `json:"data,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type QRStats struct {
	TotalLots     int64  `json:"total_lots"`
	EncodableLots int64  `json:"encodable_lots"`
	BaseURL       string `json:"base_url"`
}

type QRService struct {
	lotRepo *repository.LotRepository
	baseURL string
}

func NewQRService(lotRepo *repository.LotRepository, baseURL string) *QRService {
	return &QRService{
		lotRepo: lotRepo,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *QRService) LookupURL(lotCode string) string {
	return fmt.Sprintf("%s/lots/%s", s.baseURL, lotCode)
}

// BuildPayload assembles the full metadata document for a lot. The species
// must be resolved; this is the same explicit dependency readiness has.
func (s *QRService) BuildPayload(lot *models.Lot, species *models.Species) (*LotQRPayload, error) {
	if species == nil {
		return nil, models.ErrSpeciesRequired
	}
	return &LotQRPayload{
		LotCode:     lot.Code,
		SpeciesName: species.Name,
		SpeciesCode: species.Code,
		PlantedDate: lot.PlantedDate.Format(time.RFC3339),
		Zone:        lot.Zone,
		LocationID:  lot.LocationID,
		URL:         s.LookupURL(lot.Code),
	}, nil
}

// EncodeFull renders the full metadata payload as a QR image. Error
// correction is fixed at medium; size is clamped to sane pixel bounds.
func (s *QRService) EncodeFull(lotCode string, size int, format string) (*QRImage, error) {
	lot, err := s.findLot(lotCode)
	if err != nil {
		return nil, err
	}

	payload, err := s.BuildPayload(lot, lot.Species)
	if err != nil {
		return nil, err
	}

	content, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return s.encode(lot.Code, string(content), size, format)
}

// EncodeReference renders only the canonical lookup URL, producing a
// smaller, more scan-tolerant code with no embedded metadata.
func (s *QRService) EncodeReference(lotCode string, size int, format string) (*QRImage, error) {
	lot, err := s.findLot(lotCode)
	if err != nil {
		return nil, err
	}
	return s.encode(lot.Code, s.LookupURL(lot.Code), size, format)
}

// EncodeBatch encodes up to QRBatchLimit lots. Each input code yields one
// result; a bad code or encoder failure marks that item and the loop
// continues.
func (s *QRService) EncodeBatch(lotCodes []string, size int) ([]QRBatchItem, error) {
	if len(lotCodes) == 0 {
		return nil, validationf("at least one lot code is required")
	}
	if len(lotCodes) > QRBatchLimit {
		return nil, validationf(fmt.Sprintf("batch size exceeds the maximum of %d", QRBatchLimit))
	}

	results := make([]QRBatchItem, 0, len(lotCodes))
	for _, code := range lotCodes {
		img, err := s.EncodeFull(code, size, QRFormatBase64)
		if err != nil {
			results = append(results, QRBatchItem{
				LotCode: strings.ToUpper(strings.TrimSpace(code)),
				Success: false,
				Error:   err.Error(),
			})
			continue
		}
		results = append(results, QRBatchItem{
			LotCode: img.LotCode,
			Success: true,
			Data:    &img.Base64,
		})
	}
	return results, nil
}

func (s *QRService) Stats() (*QRStats, error) {
	total, err := s.lotRepo.Count(repository.LotFilter{})
	if err != nil {
		return nil, err
	}
	// Every active lot carries the fields a code needs; harvested lots
	// stay encodable for traceability.
	return &QRStats{
		TotalLots:     total,
		EncodableLots: total,
		BaseURL:       s.baseURL,
	}, nil
}

func (s *QRService) encode(lotCode, content string, size int, format string) (*QRImage, error) {
	if size <= 0 {
		size = QRDefaultSize
	}
	if size < QRMinSize {
		size = QRMinSize
	}
	if size > QRMaxSize {
		size = QRMaxSize
	}
	if format == "" {
		format = QRFormatBase64
	}
	if format != QRFormatBase64 && format != QRFormatPNG {
		return nil, validationf(fmt.Sprintf("unsupported format %q", format))
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}

	img := &QRImage{
		LotCode: lotCode,
		Format:  format,
		Size:    size,
		PNG:     png,
	}
	if format == QRFormatBase64 {
		img.Base64 = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	}
	return img, nil
}

func (s *QRService) findLot(lotCode string) (*models.Lot, error) {
	lot, err := s.lotRepo.FindByCode(strings.ToUpper(strings.TrimSpace(lotCode)))
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, ErrLotNotFound
	}
	return lot, nil
}
