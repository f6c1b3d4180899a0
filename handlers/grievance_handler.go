package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"grievancedesk-backend/models"
	"grievancedesk-backend/repository"
	"grievancedesk-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Attachment caps for a single submission
const (
	maxAttachments    = 5
	maxAttachmentSize = 200 * 1024 // 200KB per image
)

var allowedAttachmentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// GrievanceHandler handles HTTP requests for grievances
type GrievanceHandler struct {
	grievanceService *service.GrievanceService
}

// NewGrievanceHandler creates a new grievance handler
func NewGrievanceHandler(grievanceService *service.GrievanceService) *GrievanceHandler {
	return &GrievanceHandler{grievanceService: grievanceService}
}

// SubmitGrievanceRequest represents the request body for a submission
type SubmitGrievanceRequest struct {
	StudentName  string             `json:"studentName"`
	StudentEmail string             `json:"studentEmail"`
	Complaint    string             `json:"complaint"`
	Attachments  models.Attachments `json:"attachments"`
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SubmitGrievance handles POST /api/grievances
func (h *GrievanceHandler) SubmitGrievance(c *gin.Context) {
	var req SubmitGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if req.StudentName == "" || req.StudentEmail == "" || req.Complaint == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: studentName, studentEmail, complaint",
		})
		return
	}

	if msg := validateAttachments(req.Attachments); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	result, err := h.grievanceService.SubmitGrievance(c.Request.Context(), service.SubmitGrievanceRequest{
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		Complaint:    req.Complaint,
		Attachments:  req.Attachments,
	})
	if err != nil {
		log.Printf("Error submitting grievance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit grievance",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"grievanceId": result.Grievance.ID,
		"analysis":    result.Analysis,
	})
}

// validateAttachments enforces the submission caps; it returns an empty
// string when the list is acceptable
func validateAttachments(attachments models.Attachments) string {
	if len(attachments) > maxAttachments {
		return fmt.Sprintf("Maximum %d attachments allowed", maxAttachments)
	}
	for _, attachment := range attachments {
		if !allowedAttachmentTypes[attachment.MimeType] {
			return "Only JPG, PNG and GIF attachments are supported"
		}
		if attachment.SizeBytes > maxAttachmentSize {
			return fmt.Sprintf("%s is too large, attachments must be under %dKB", attachment.Name, maxAttachmentSize/1024)
		}
	}
	return ""
}

// GetGrievances handles GET /api/grievances with optional filters
func (h *GrievanceHandler) GetGrievances(c *gin.Context) {
	filter, errMsg := parseListFilter(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	result, err := h.grievanceService.ListGrievances(c.Request.Context(), service.ListGrievancesRequest{Filter: filter})
	if err != nil {
		log.Printf("Error fetching grievances: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch grievances",
		})
		return
	}

	grievances := result.Grievances
	if grievances == nil {
		grievances = []*models.Grievance{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(grievances),
		"grievances": grievances,
	})
}

// parseListFilter reads the filter query parameters, validating
// enumerated values and date formats
func parseListFilter(c *gin.Context) (repository.ListFilter, string) {
	var filter repository.ListFilter

	if raw := c.Query("category"); raw != "" {
		category := models.Category(raw)
		if !models.ValidCategory(category) {
			return filter, "Invalid category filter: " + raw
		}
		filter.Category = &category
	}

	if raw := c.Query("urgency"); raw != "" {
		urgency := models.Urgency(raw)
		if !models.ValidUrgency(urgency) {
			return filter, "Invalid urgency filter: " + raw
		}
		filter.Urgency = &urgency
	}

	if raw := c.Query("status"); raw != "" {
		status := models.Status(raw)
		if !models.ValidStatus(status) {
			return filter, "Invalid status filter: " + raw
		}
		filter.Status = &status
	}

	if raw := c.Query("startDate"); raw != "" {
		start, err := parseDate(raw)
		if err != nil {
			return filter, "Invalid startDate: " + raw
		}
		filter.StartDate = &start
	}

	if raw := c.Query("endDate"); raw != "" {
		end, err := parseDate(raw)
		if err != nil {
			return filter, "Invalid endDate: " + raw
		}
		// A bare date means the whole day inclusive
		if len(raw) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &end
	}

	return filter, ""
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// GetGrievanceByID handles GET /api/grievances/:id
func (h *GrievanceHandler) GetGrievanceByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grievance not found"})
		return
	}

	result, err := h.grievanceService.GetGrievance(c.Request.Context(), service.GetGrievanceRequest{ID: id})
	if err != nil {
		if errors.Is(err, repository.ErrGrievanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Grievance not found"})
			return
		}
		log.Printf("Error fetching grievance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grievance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"grievance": result.Grievance})
}

// SearchGrievanceByID handles GET /api/grievances/search/:id
func (h *GrievanceHandler) SearchGrievanceByID(c *gin.Context) {
	idParam := strings.TrimSpace(c.Param("id"))
	if idParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Grievance ID is required"})
		return
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":       fmt.Sprintf("Grievance with ID %q not found", idParam),
			"grievanceId": idParam,
		})
		return
	}

	result, err := h.grievanceService.GetGrievance(c.Request.Context(), service.GetGrievanceRequest{ID: id})
	if err != nil {
		if errors.Is(err, repository.ErrGrievanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":       fmt.Sprintf("Grievance with ID %q not found", idParam),
				"grievanceId": idParam,
			})
			return
		}
		log.Printf("Error searching grievance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search grievance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"grievance": result.Grievance,
	})
}

// UpdateGrievanceStatus handles PATCH /api/grievances/:id/status
func (h *GrievanceHandler) UpdateGrievanceStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grievance ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.grievanceService.UpdateStatus(c.Request.Context(), service.UpdateStatusRequest{
		ID:      id,
		Status:  models.Status(req.Status),
		Message: req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be either 'viewed' or 'cleared'"})
		case errors.Is(err, service.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status transition not allowed"})
		case errors.Is(err, repository.ErrGrievanceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Grievance not found"})
		default:
			log.Printf("Error updating grievance status: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update grievance status"})
		}
		return
	}

	deliveryNote := "Email notification could not be sent."
	if result.NotificationSent {
		deliveryNote = "Email notification sent."
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"grievance":             result.Grievance,
		"emailNotificationSent": result.NotificationSent,
		"message":               fmt.Sprintf("Grievance marked as %s. %s", result.Grievance.Status, deliveryNote),
	})
}

// DeleteGrievance handles DELETE /api/grievances/:id
func (h *GrievanceHandler) DeleteGrievance(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grievance not found"})
		return
	}

	err = h.grievanceService.DeleteGrievance(c.Request.Context(), service.DeleteGrievanceRequest{ID: id})
	if err != nil {
		if errors.Is(err, repository.ErrGrievanceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Grievance not found"})
			return
		}
		log.Printf("Error deleting grievance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete grievance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "Grievance deleted successfully",
		"deletedGrievanceId": idParam,
	})
}

// GetGrievanceStats handles GET /api/grievances/stats
func (h *GrievanceHandler) GetGrievanceStats(c *gin.Context) {
	stats, err := h.grievanceService.GetStats(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching statistics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
