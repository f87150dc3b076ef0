package controllers

import (
	"net/http"

	"tally-pipeline-api/config"
	"tally-pipeline-api/middleware"
	"tally-pipeline-api/models"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
)

// ListAuditForms returns the forms currently sitting in audit for the
// caller's tally.
func ListAuditForms(c *gin.Context) {
	listFormsInState(c, models.FormStateAudit)
}

// GetAudit returns the active audit review of a form, including the
// quarantine checks it failed.
func GetAudit(c *gin.Context) {
	form, _, ok := scopedForm(c)
	if !ok {
		return
	}

	audit, err := services.ActiveAudit(config.DB, form.ResultFormID)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := gin.H{"audit": audit}
	if audit != nil {
		resp["problems"] = audit.Problems()
	}
	c.JSON(http.StatusOK, resp)
}

// FlagForAudit pulls a form into audit by hand, outside the quarantine
// checks.
func FlagForAudit(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var req struct {
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audit, err := services.FlagForAudit(config.DB, form.ResultFormID, user, req.Comment)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": audit})
}

// AuditTeamReview records the audit team's findings and recommendation.
func AuditTeamReview(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var input services.AuditReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audit, err := services.AuditTeamReview(config.DB, form.ResultFormID, user, &input)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": audit})
}

type auditSupervisorRequest struct {
	services.AuditReviewInput
	Action string `json:"action" binding:"required,oneof=team forward implement"`
}

// AuditSupervisorReview applies the supervisor's decision: return the
// form to the team, forward it, or implement the recommended resolution.
func AuditSupervisorReview(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var req auditSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := services.AuditSupervisorReview(config.DB, form.ResultFormID, user, &req.AuditReviewInput, req.Action)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_form": form})
}

// listFormsInState lists the caller's tally forms in one workflow state.
func listFormsInState(c *gin.Context, state models.FormState) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	query := config.DB.Where("form_state = ?", state).
		Preload("Center").Preload("Ballot").
		Order("modified_date DESC")
	if !user.IsSuperAdministrator() {
		if user.TallyID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not assigned to a tally"})
			return
		}
		query = query.Where("tally_id = ?", *user.TallyID)
	}

	var forms []models.ResultForm
	if err := query.Find(&forms).Error; err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result_forms": forms,
		"count":        len(forms),
	})
}
