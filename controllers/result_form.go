package controllers

import (
	"net/http"
	"strconv"

	"tally-pipeline-api/config"
	"tally-pipeline-api/models"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
)

// GetResultForm returns one form with its center, ballot and station
// context.
func GetResultForm(c *gin.Context) {
	form, _, ok := scopedForm(c)
	if !ok {
		return
	}

	if err := config.DB.Preload("Center").Preload("Ballot").Preload("Tally").
		First(form, form.ResultFormID).Error; err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_form": form})
}

// ListResultForms lists the caller's tally forms, optionally filtered by
// workflow state.
func ListResultForms(c *gin.Context) {
	raw, given := c.GetQuery("state")
	if !given {
		listAllForms(c)
		return
	}

	code, err := strconv.Atoi(raw)
	state := models.FormState(code)
	if err != nil || !state.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown form state"})
		return
	}
	listFormsInState(c, state)
}

func listAllForms(c *gin.Context) {
	user := currentTallyUser(c)
	if user == nil {
		return
	}

	query := config.DB.Preload("Center").Preload("Ballot").
		Order("barcode ASC")
	if !user.IsSuperAdministrator() {
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

// FormHistory returns the form's revision trail in the order it was
// written, with the state each snapshot would replay to.
func FormHistory(c *gin.Context) {
	form, _, ok := scopedForm(c)
	if !ok {
		return
	}

	revisions, err := services.FormHistory(config.DB, form.ResultFormID)
	if err != nil {
		serviceError(c, err)
		return
	}

	replayed, err := services.ReplayFormState(revisions)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revisions":      revisions,
		"replayed_state": replayed,
		"current_state":  form.FormState,
	})
}
