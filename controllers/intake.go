package controllers

import (
	"errors"
	"net/http"

	"tally-pipeline-api/config"
	"tally-pipeline-api/middleware"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
)

type intakeScanRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

type intakeConfirmRequest struct {
	CenterCode    int    `json:"center_code" binding:"required"`
	CenterName    string `json:"center_name"`
	StationNumber int    `json:"station_number" binding:"required,min=1"`
}

// IntakeScan receives a scanned barcode and moves the form into intake.
// A form that already passed intake is returned alongside a conflict so
// the clerk can see where it currently sits.
func IntakeScan(c *gin.Context) {
	var req intakeScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	if user == nil || user.TallyID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not assigned to a tally"})
		return
	}

	form, err := services.IntakeScan(config.DB, *user.TallyID, req.Barcode, user)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyIntaken) && form != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":       err.Error(),
				"result_form": form,
			})
			return
		}
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_form": form})
}

// ConfirmIntake verifies the center and station written on the form. A
// mismatch or an existing form for the same station routes the form to
// clearance instead of failing.
func ConfirmIntake(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	var req intakeConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, clearance, err := services.ConfirmIntake(config.DB, form.ResultFormID, req.CenterCode, req.CenterName, req.StationNumber, user)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := gin.H{"result_form": form}
	if clearance != nil {
		resp["clearance"] = clearance
	}
	c.JSON(http.StatusOK, resp)
}

// PrintCover marks the intake cover sheet printed and releases the form
// to first data entry.
func PrintCover(c *gin.Context) {
	form, user, ok := scopedForm(c)
	if !ok {
		return
	}

	form, err := services.PrintCover(config.DB, form.ResultFormID, user)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result_form": form})
}
