package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"tally-pipeline-api/config"
	"tally-pipeline-api/middleware"
	"tally-pipeline-api/models"
	"tally-pipeline-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// serviceError translates service sentinel errors into client responses.
// Unmatched errors are logged and reported as a generic 500.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrSuspiciousOperation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyIntaken),
		errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrRequestNotPending),
		errors.Is(err, services.ErrNoDoubleEntry),
		errors.Is(err, services.ErrBallotReleased),
		errors.Is(err, services.ErrBarcodeTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSameUserDoubleEntry),
		errors.Is(err, services.ErrEntryOwnedByOther),
		errors.Is(err, services.ErrNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// currentTallyUser returns the authenticated user, requiring a tally
// assignment for everyone below super administrator. Writes the error
// response itself and returns nil on failure.
func currentTallyUser(c *gin.Context) *models.User {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil
	}
	if !user.IsSuperAdministrator() && user.TallyID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not assigned to a tally"})
		return nil
	}
	return user
}

// scopedForm loads a result form by the :id route param and checks that
// it belongs to the caller's tally. Super administrators see every tally.
func scopedForm(c *gin.Context) (*models.ResultForm, *models.User, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, nil, false
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, nil, false
	}

	var form models.ResultForm
	if err := config.DB.First(&form, id).Error; err != nil {
		serviceError(c, err)
		return nil, nil, false
	}

	if !user.IsSuperAdministrator() {
		if user.TallyID == nil || *user.TallyID != form.TallyID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Result form belongs to a different tally"})
			return nil, nil, false
		}
	}

	return &form, user, true
}
