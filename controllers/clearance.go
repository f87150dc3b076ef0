package controllers

import (
	"net/http"

	"tally-pipeline-api/config"
	"tally-pipeline-api/models"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
)

// ListClearanceForms returns the forms currently in clearance for the
// caller's tally.
func ListClearanceForms(c *gin.Context) {
	listFormsInState(c, models.FormStateClearance)
}

// GetClearance returns the active clearance review of a form.
func GetClearance(c *gin.Context) {
	form, _, ok := scopedForm(c)
	if !ok {
		return
	}

	clearance, err := services.ActiveClearance(config.DB, form.ResultFormID)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := gin.H{"clearance": clearance}
	if clearance != nil {
		resp["problems"] = clearance.Problems()
	}
	c.JSON(http.StatusOK, resp)
}

// ClearanceTeamReview records the clearance team's findings.
func ClearanceTeamReview(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var input services.ClearanceReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clearance, err := services.ClearanceTeamReview(config.DB, form.ResultFormID, user, &input)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clearance": clearance})
}

// PrintClearanceCover marks the clearance cover sheet printed; the form
// stays in clearance.
func PrintClearanceCover(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	form, err := services.PrintClearanceCover(config.DB, form.ResultFormID, user)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_form": form})
}

// CreateReplacementForm issues a fresh form for a paper stuck in clearance.
func CreateReplacementForm(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var req struct {
		Barcode string `json:"barcode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	replacement, err := services.CreateReplacementForm(config.DB, form.ResultFormID, req.Barcode, user)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"result_form": replacement})
}

type clearanceSupervisorRequest struct {
	services.ClearanceReviewInput
	OkToPass bool `json:"ok_to_pass"`
}

// ClearanceSupervisorReview applies the supervisor's decision. Passing
// releases the form back to data entry; the resolution may instead reset
// it to pre-intake or hold it for the administrator.
func ClearanceSupervisorReview(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var req clearanceSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := services.ClearanceSupervisorReview(config.DB, form.ResultFormID, user, &req.ClearanceReviewInput, req.OkToPass)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_form": form})
}
