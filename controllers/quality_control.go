package controllers

import (
	"net/http"

	"tally-pipeline-api/config"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
)

// CompleteQualityControl runs the quarantine checks on a form. A clean
// form is archived; failures open an audit and the failed checks are
// returned so the clerk sees why.
func CompleteQualityControl(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	form, failed, err := services.CompleteQualityControl(config.DB, form.ResultFormID, user)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result_form":   form,
		"failed_checks": failed,
	})
}
