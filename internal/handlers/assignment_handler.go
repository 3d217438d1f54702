package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "riskhub/internal/errors"
	"riskhub/internal/models"
	"riskhub/internal/pagination"
	"riskhub/internal/services"
)

// AssignmentHandler handles assignment-related requests.
type AssignmentHandler struct {
	assignmentService services.AssignmentServicer
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService services.AssignmentServicer) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// CreateAssignmentRequest represents the request payload for creating an assignment.
type CreateAssignmentRequest struct {
	RiskID     string                  `json:"risk_id" binding:"required,uuid"`
	AssignedTo string                  `json:"assigned_to" binding:"required,uuid"`
	Priority   models.PriorityLevel    `json:"priority_level" binding:"required,priority_level"`
	Deadline   time.Time               `json:"deadline_date" binding:"required"`
	Notes      string                  `json:"notes" binding:"omitempty,max=2000"`
	Status     models.AssignmentStatus `json:"assignment_status" binding:"omitempty,assignment_status"`
}

// UpdateAssignmentRequest represents the request payload for a partial
// assignment update. Omitted fields keep their stored value.
type UpdateAssignmentRequest struct {
	Status   *models.AssignmentStatus `json:"assignment_status" binding:"omitempty,assignment_status"`
	Priority *models.PriorityLevel    `json:"priority_level" binding:"omitempty,priority_level"`
	Deadline *time.Time               `json:"deadline_date"`
	Notes    *string                  `json:"notes" binding:"omitempty,max=2000"`
}

// CreateAssignment handles the creation of a new assignment.
// @Summary     Create an assignment
// @Description Assign a risk to a user; advances the risk from Identified to Assigned
// @Tags        assignments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssignmentRequest true "Assignment details"
// @Success     201 {object} models.Assignment "Assignment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Risk not found"
// @Router      /assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(c.Request.Context(),
		req.RiskID, req.AssignedTo, userID, req.Priority, req.Deadline, req.Notes, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// GetAssignments handles listing assignments.
// @Summary     List assignments
// @Tags        assignments
// @Produce     json
// @Security    BearerAuth
// @Param       risk_id           query string false "Filter by owning risk (UUID)"
// @Param       assignment_status query string false "Filter by status"
// @Param       priority_level    query string false "Filter by priority"
// @Param       assigned_to       query string false "Filter by assignee (UUID)"
// @Param       page              query int    false "Page number (default 1)"
// @Param       page_size         query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Assignment] "Paginated assignments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /assignments [get]
func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.AssignmentFilter
	if v := c.Query("risk_id"); v != "" {
		filter.RiskID = &v
	}
	if v := c.Query("assignment_status"); v != "" {
		status := models.AssignmentStatus(v)
		if !models.ValidAssignmentStatus(status) {
			respondWithError(c, apperrors.ErrInvalidAssignmentStatus)
			return
		}
		filter.Status = &status
	}
	if v := c.Query("priority_level"); v != "" {
		priority := models.PriorityLevel(v)
		if !models.ValidPriorityLevel(priority) {
			respondWithError(c, apperrors.ErrInvalidPriority)
			return
		}
		filter.Priority = &priority
	}
	if v := c.Query("assigned_to"); v != "" {
		filter.AssignedTo = &v
	}

	result, err := h.assignmentService.ListAssignments(c.Request.Context(), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAssignment handles retrieving a single assignment.
// @Summary     Get assignment by ID
// @Tags        assignments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Assignment ID (UUID)"
// @Success     200 {object} models.Assignment "Assignment"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /assignments/{id} [get]
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	assignmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	assignment, err := h.assignmentService.GetAssignmentByID(c.Request.Context(), assignmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// UpdateAssignment handles a partial update of an assignment. A status
// change appends an "Assignment Status Change" record to the owning risk's
// timeline. The deadline is not re-validated against the clock.
// @Summary     Update an assignment
// @Tags        assignments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Assignment ID (UUID)"
// @Param       request body UpdateAssignmentRequest true "Fields to update"
// @Success     200 {object} models.Assignment "Updated assignment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /assignments/{id} [put]
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assignmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	assignment, err := h.assignmentService.UpdateAssignment(c.Request.Context(), assignmentID, userID,
		services.AssignmentUpdateInput{
			Status:   req.Status,
			Priority: req.Priority,
			Deadline: req.Deadline,
			Notes:    req.Notes,
		})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// DeleteAssignment handles unconditional deletion of an assignment.
// @Summary     Delete an assignment
// @Tags        assignments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Assignment ID (UUID)"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /assignments/{id} [delete]
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	assignmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assignmentService.DeleteAssignment(c.Request.Context(), assignmentID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}
