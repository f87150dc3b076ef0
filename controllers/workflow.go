package controllers

import (
	"net/http"

	"tally-pipeline-api/config"
	"tally-pipeline-api/middleware"
	"tally-pipeline-api/models"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type workflowRequestInput struct {
	ResultFormID int                  `json:"result_form_id" binding:"required"`
	RequestType  models.RequestType   `json:"request_type"`
	Reason       models.RequestReason `json:"request_reason"`
	Comment      string               `json:"request_comment" binding:"required"`
}

// CreateWorkflowRequest opens a pending request against an archived form.
// The comment is mandatory; approval is a separate, manager-only step.
func CreateWorkflowRequest(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var input workflowRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := services.CreateWorkflowRequest(config.DB, input.ResultFormID, user, input.RequestType, input.Reason, input.Comment)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workflow_request": request})
}

// ListPendingWorkflowRequests returns the pending requests for the
// caller's tally.
func ListPendingWorkflowRequests(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil || user.TallyID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not assigned to a tally"})
		return
	}

	requests, err := services.PendingWorkflowRequests(config.DB, *user.TallyID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workflow_requests": requests,
		"count":             len(requests),
	})
}

type workflowDecisionInput struct {
	Comment string `json:"approval_comment" binding:"required"`
}

// ApproveWorkflowRequest approves a pending request and carries out the
// movement it asks for.
func ApproveWorkflowRequest(c *gin.Context) {
	decideWorkflowRequest(c, services.ApproveWorkflowRequest)
}

// RejectWorkflowRequest closes a pending request without moving the form.
func RejectWorkflowRequest(c *gin.Context) {
	decideWorkflowRequest(c, services.RejectWorkflowRequest)
}

func decideWorkflowRequest(c *gin.Context, decide func(db *gorm.DB, requestID int, approver *models.User, comment string) (*models.WorkflowRequest, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var input workflowDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := decide(config.DB, id, user, input.Comment)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workflow_request": request})
}
