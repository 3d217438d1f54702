package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "riskhub/internal/errors"
	"riskhub/internal/models"
	"riskhub/internal/pagination"
	"riskhub/internal/services"
)

// RiskHandler handles risk-related requests.
type RiskHandler struct {
	riskService  services.RiskServicer
	auditService services.AuditServicer
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskService services.RiskServicer, auditService services.AuditServicer) *RiskHandler {
	return &RiskHandler{riskService: riskService, auditService: auditService}
}

// CreateRiskRequest represents the request payload for creating a risk.
type CreateRiskRequest struct {
	Category    models.RiskCategory `json:"risk_category" binding:"required,risk_category"`
	Description string              `json:"risk_description" binding:"required,min=20,max=1000"`
	Source      models.RiskSource   `json:"risk_source" binding:"required,risk_source"`
	Trigger     string              `json:"risk_trigger" binding:"omitempty,max=1000"`
	Status      models.RiskStatus   `json:"status" binding:"omitempty,risk_status"`
}

// UpdateRiskRequest represents the request payload for a partial risk update.
// Omitted fields keep their stored value.
type UpdateRiskRequest struct {
	Category    *models.RiskCategory `json:"risk_category" binding:"omitempty,risk_category"`
	Description *string              `json:"risk_description" binding:"omitempty,min=20,max=1000"`
	Source      *models.RiskSource   `json:"risk_source" binding:"omitempty,risk_source"`
	Trigger     *string              `json:"risk_trigger" binding:"omitempty,max=1000"`
	Status      *models.RiskStatus   `json:"status" binding:"omitempty,risk_status"`
}

// CreateRisk handles the creation of a new risk.
// @Summary     Create a risk
// @Description Register a new risk in the Identified state
// @Tags        risks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRiskRequest true "Risk details"
// @Success     201 {object} models.Risk "Risk created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /risks [post]
func (h *RiskHandler) CreateRisk(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	risk, err := h.riskService.CreateRisk(c.Request.Context(),
		userID, req.Category, req.Description, req.Source, req.Trigger, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"risk": risk})
}

// GetRisks handles listing risks.
// @Summary     List risks
// @Description Get a paginated list of risks, optionally filtered by status and category
// @Tags        risks
// @Produce     json
// @Security    BearerAuth
// @Param       status        query string false "Filter by lifecycle status"
// @Param       risk_category query string false "Filter by category"
// @Param       page          query int    false "Page number (default 1)"
// @Param       page_size     query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Risk] "Paginated risks"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /risks [get]
func (h *RiskHandler) GetRisks(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.RiskFilter
	if v := c.Query("status"); v != "" {
		status := models.RiskStatus(v)
		if !models.ValidRiskStatus(status) {
			respondWithError(c, apperrors.ErrInvalidRiskStatus)
			return
		}
		filter.Status = &status
	}
	if v := c.Query("risk_category"); v != "" {
		category := models.RiskCategory(v)
		if !models.ValidRiskCategory(category) {
			respondWithError(c, apperrors.ErrInvalidRiskCategory)
			return
		}
		filter.Category = &category
	}

	result, err := h.riskService.ListRisks(c.Request.Context(), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRisk handles retrieving a single risk.
// @Summary     Get risk by ID
// @Tags        risks
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Risk ID (UUID)"
// @Success     200 {object} models.Risk "Risk"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /risks/{id} [get]
func (h *RiskHandler) GetRisk(c *gin.Context) {
	riskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	risk, err := h.riskService.GetRiskByID(c.Request.Context(), riskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"risk": risk})
}

// UpdateRisk handles a partial update of a risk. A status change appends a
// "Status Change" record to the risk's timeline.
// @Summary     Update a risk
// @Tags        risks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Risk ID (UUID)"
// @Param       request body UpdateRiskRequest true "Fields to update"
// @Success     200 {object} models.Risk "Updated risk"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /risks/{id} [put]
func (h *RiskHandler) UpdateRisk(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	riskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	risk, err := h.riskService.UpdateRisk(c.Request.Context(), riskID, userID, services.RiskUpdateInput{
		Category:    req.Category,
		Description: req.Description,
		Source:      req.Source,
		Trigger:     req.Trigger,
		Status:      req.Status,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"risk": risk})
}

// DeleteRisk handles deletion of a risk without active assignments.
// @Summary     Delete a risk
// @Tags        risks
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Risk ID (UUID)"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Risk has active assignments"
// @Router      /risks/{id} [delete]
func (h *RiskHandler) DeleteRisk(c *gin.Context) {
	riskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.riskService.DeleteRisk(c.Request.Context(), riskID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Risk deleted"})
}

// GetRiskUpdates returns the risk's audit timeline, newest first.
// @Summary     Get risk timeline
// @Tags        risks
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Risk ID (UUID)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.RiskUpdate] "Paginated updates"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /risks/{id}/updates [get]
func (h *RiskHandler) GetRiskUpdates(c *gin.Context) {
	riskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.auditService.ListRiskUpdates(c.Request.Context(), riskID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
