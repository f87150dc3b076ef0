package controllers

import (
	"net/http"

	"tally-pipeline-api/config"
	"tally-pipeline-api/models"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
)

// ListQuarantineChecks returns the check configuration for the caller's
// tally.
func ListQuarantineChecks(c *gin.Context) {
	user := currentTallyUser(c)
	if user == nil {
		return
	}

	query := config.DB.Order("quarantine_check_id ASC")
	if !user.IsSuperAdministrator() {
		query = query.Where("tally_id = ?", *user.TallyID)
	}

	var checks []models.QuarantineCheck
	if err := query.Find(&checks).Error; err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quarantine_checks": checks})
}

// SeedQuarantineChecks creates the default checks for a tally, skipping
// any method that is already configured.
func SeedQuarantineChecks(c *gin.Context) {
	user := currentTallyUser(c)
	if user == nil {
		return
	}
	if user.TallyID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not assigned to a tally"})
		return
	}

	if err := services.CreateQuarantineChecks(config.DB, *user.TallyID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quarantine checks created"})
}

type quarantineCheckUpdate struct {
	Value      *float64 `json:"value"`
	Percentage *float64 `json:"percentage"`
	Active     *bool    `json:"active"`
}

// UpdateQuarantineCheck adjusts the tolerance or active flag of one
// check. Tolerances apply from the next quality control run onward.
func UpdateQuarantineCheck(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user := currentTallyUser(c)
	if user == nil {
		return
	}

	var req quarantineCheckUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var check models.QuarantineCheck
	if err := config.DB.First(&check, id).Error; err != nil {
		serviceError(c, err)
		return
	}
	if !user.IsSuperAdministrator() && *user.TallyID != check.TallyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Quarantine check belongs to a different tally"})
		return
	}

	updates := map[string]any{}
	if req.Value != nil {
		if *req.Value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "value must not be negative"})
			return
		}
		updates["value"] = *req.Value
	}
	if req.Percentage != nil {
		if *req.Percentage < 0 || *req.Percentage > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percentage must be between 0 and 100"})
			return
		}
		updates["percentage"] = *req.Percentage
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&check).Updates(updates).Error; err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quarantine_check": check})
}
