package cotas

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Mavegui/API-Investimentos/internal/models"
	"github.com/Mavegui/API-Investimentos/internal/store"
	"github.com/Mavegui/API-Investimentos/internal/valuation"
	"github.com/gin-gonic/gin"
)

// CotaHandler handles HTTP operations for cota records.
type CotaHandler struct {
	store *store.CotaStore // Record store backing every operation.
}

// NewCotaHandler wires a cota handler with its store dependency.
func NewCotaHandler(s *store.CotaStore) *CotaHandler {
	return &CotaHandler{store: s}
}

// cotaRequest captures the payload for creating or replacing a cota.
type cotaRequest struct {
	Name           string  `json:"name"`            // Display name, 3 to 50 characters.
	Amount         float64 `json:"amount"`          // Invested principal.
	InterestRate   float64 `json:"interest_rate"`   // Percent per month.
	DurationMonths int     `json:"duration_months"` // Term in months.
}

func (r cotaRequest) input() store.CotaInput {
	return store.CotaInput{
		Name:           r.Name,
		Amount:         r.Amount,
		InterestRate:   r.InterestRate,
		DurationMonths: r.DurationMonths,
	}
}

// cotaResponse is the explicit projection of a cota record. Only the fields
// listed here are ever forwarded to clients.
type cotaResponse struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	InterestRate   float64 `json:"interest_rate"`
	DurationMonths int     `json:"duration_months"`
	Tax            float64 `json:"tax"`
	GrossValue     float64 `json:"gross_value"`
	NetValue       float64 `json:"net_value"`
	Profitability  float64 `json:"profitability"`
	CreatedAt      string  `json:"created_at"`
}

func formatCota(cota *models.Cota) cotaResponse {
	return cotaResponse{
		ID:             cota.ID,
		Name:           cota.Name,
		Amount:         cota.Amount,
		InterestRate:   cota.InterestRate,
		DurationMonths: cota.DurationMonths,
		Tax:            cota.Tax,
		GrossValue:     cota.GrossValue,
		NetValue:       cota.NetValue,
		Profitability:  cota.Profitability,
		CreatedAt:      cota.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// profitResponse carries the on-demand valuation of a cota.
type profitResponse struct {
	CotaID        uint64  `json:"cota_id"`
	GrossValue    float64 `json:"gross_value"`
	NetValue      float64 `json:"net_value"`
	Profitability float64 `json:"profitability"`
}

// parseID extracts the numeric cota ID from the route.
func parseID(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respondValidation(c, []store.FieldError{{Field: "id", Message: "must be a positive integer"}})
		return 0, false
	}
	return id, true
}

// Create validates the payload and persists a new cota with computed values.
func (h *CotaHandler) Create(c *gin.Context) {
	var body cotaRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detailBadBody})
		return
	}
	in := body.input()
	if errValidate := in.Validate(); errValidate != nil {
		respondError(c, errValidate)
		return
	}

	cota, errCreate := h.store.Create(c.Request.Context(), in)
	if errCreate != nil {
		respondError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, formatCota(cota))
}

// Get fetches a single cota by ID.
func (h *CotaHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cota, errGet := h.store.Get(c.Request.Context(), id)
	if errGet != nil {
		respondError(c, errGet)
		return
	}
	c.JSON(http.StatusOK, formatCota(cota))
}

// List returns cotas in insertion order with skip/limit pagination.
func (h *CotaHandler) List(c *gin.Context) {
	skip, okSkip := parsePagingParam(c, "skip", 0)
	if !okSkip {
		return
	}
	limit, okLimit := parsePagingParam(c, "limit", store.DefaultListLimit)
	if !okLimit {
		return
	}

	cotas, errList := h.store.List(c.Request.Context(), skip, limit)
	if errList != nil {
		respondError(c, errList)
		return
	}
	out := make([]cotaResponse, 0, len(cotas))
	for i := range cotas {
		out = append(out, formatCota(&cotas[i]))
	}
	c.JSON(http.StatusOK, out)
}

// parsePagingParam reads a non-negative integer query parameter.
func parsePagingParam(c *gin.Context, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	value, errParse := strconv.Atoi(raw)
	if errParse != nil || value < 0 {
		respondValidation(c, []store.FieldError{{Field: name, Message: "must be a non-negative integer"}})
		return 0, false
	}
	return value, true
}

// Update replaces the mutable fields of a cota and recomputes its values.
func (h *CotaHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body cotaRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detailBadBody})
		return
	}
	in := body.input()
	if errValidate := in.Validate(); errValidate != nil {
		respondError(c, errValidate)
		return
	}

	cota, errUpdate := h.store.Update(c.Request.Context(), id, in)
	if errUpdate != nil {
		respondError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, formatCota(cota))
}

// Delete removes a cota by ID.
func (h *CotaHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, errDelete := h.store.Delete(c.Request.Context(), id); errDelete != nil {
		respondError(c, errDelete)
		return
	}
	c.Status(http.StatusNoContent)
}

// Profit recomputes the valuation of a cota from its current fields. The
// stored derived columns are not echoed back here so that the response always
// reflects the record as it stands.
func (h *CotaHandler) Profit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cota, errGet := h.store.Get(c.Request.Context(), id)
	if errGet != nil {
		respondError(c, errGet)
		return
	}
	res, errCompute := valuation.Compute(cota.Amount, cota.InterestRate, cota.DurationMonths, cota.Tax)
	if errCompute != nil {
		respondError(c, errCompute)
		return
	}
	c.JSON(http.StatusOK, profitResponse{
		CotaID:        cota.ID,
		GrossValue:    res.GrossValue,
		NetValue:      res.NetValue,
		Profitability: res.Profitability,
	})
}
