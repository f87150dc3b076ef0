package controllers

import (
	"net/http"

	"tally-pipeline-api/config"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
)

// MatchEntries compares the two transcription passes of a form field by
// field without changing anything.
func MatchEntries(c *gin.Context) {
	form, _, ok := scopedForm(c)
	if !ok {
		return
	}

	outcome, err := services.MatchEntries(config.DB, form.ResultFormID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": outcome})
}

// PassCorrections promotes the second entry to the final version when the
// two passes agree. On disagreement the outcome lists the differing
// candidates and the form stays in correction.
func PassCorrections(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	outcome, form, err := services.PassCorrections(config.DB, form.ResultFormID, user)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"match":       outcome,
		"result_form": form,
	})
}

// SaveCorrections records the clerk's resolved values as the final entry
// and releases the form to quality control.
func SaveCorrections(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var req dataEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := services.SaveCorrections(config.DB, form.ResultFormID, user, &req.Reconciliation, req.Results)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_form": form})
}
