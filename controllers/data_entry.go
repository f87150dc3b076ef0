package controllers

import (
	"net/http"

	"tally-pipeline-api/config"
	"tally-pipeline-api/models"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
)

type dataEntryRequest struct {
	Reconciliation services.ReconciliationInput  `json:"reconciliation" binding:"required"`
	Results        []services.CandidateVoteInput `json:"results" binding:"required,min=1,dive"`
}

// SaveDataEntry records one transcription pass. The form's state decides
// which pass this is; the second pass must come from a different clerk.
func SaveDataEntry(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var req dataEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := services.SaveDataEntry(config.DB, form.ResultFormID, user, &req.Reconciliation, req.Results)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_form": form})
}

// GetEntry returns the active reconciliation and candidate results for
// one entry version of a form.
func GetEntry(c *gin.Context) {
	form, _, ok := scopedForm(c)
	if !ok {
		return
	}

	version := models.EntryVersionFinal
	switch c.Query("version") {
	case "1":
		version = models.EntryVersionDataEntry1
	case "2":
		version = models.EntryVersionDataEntry2
	case "", "final":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "version must be 1, 2 or final"})
		return
	}

	recon, err := services.ActiveReconciliation(config.DB, form.ResultFormID, version)
	if err != nil {
		serviceError(c, err)
		return
	}

	results, err := services.ActiveResults(config.DB, form.ResultFormID, version)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := gin.H{
		"reconciliation": recon,
		"results":        results,
	}
	if recon != nil && version == models.EntryVersionFinal {
		total, err := services.TotalFinalVotes(config.DB, form.ResultFormID)
		if err != nil {
			serviceError(c, err)
			return
		}
		resp["number_ballots_used"] = recon.NumberBallotsUsed(total)
		resp["number_ballots_expected"] = recon.NumberBallotsExpected()
	}
	c.JSON(http.StatusOK, resp)
}
