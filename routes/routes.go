package routes

import (
	"tally-pipeline-api/controllers"
	"tally-pipeline-api/middleware"
	"tally-pipeline-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Tally Pipeline API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)
			protected.POST("/refresh", controllers.RefreshToken)
			protected.POST("/logout", controllers.Logout)

			// Result forms
			forms := protected.Group("/result-forms")
			{
				forms.GET("", controllers.ListResultForms)
				forms.GET("/:id", controllers.GetResultForm)
				forms.GET("/:id/history", controllers.FormHistory)
				forms.GET("/:id/entry", controllers.GetEntry)
			}

			// Intake
			intake := protected.Group("/intake")
			intake.Use(middleware.RequireRole(models.RoleIntakeClerk, models.RoleIntakeSupervisor, models.RoleTallyManager))
			{
				intake.POST("/scan", controllers.IntakeScan)
				intake.POST("/:id/confirm", controllers.ConfirmIntake)
				intake.POST("/:id/print-cover", controllers.PrintCover)
			}

			// Data entry, both passes share the endpoint; the form state
			// decides which pass is being recorded
			entry := protected.Group("/data-entry")
			entry.Use(middleware.RequireRole(models.RoleDataEntry1Clerk, models.RoleDataEntry2Clerk, models.RoleTallyManager))
			{
				entry.POST("/:id", controllers.SaveDataEntry)
			}

			// Corrections
			corrections := protected.Group("/corrections")
			corrections.Use(middleware.RequireRole(models.RoleCorrectionsClerk, models.RoleTallyManager))
			{
				corrections.GET("/:id/match", controllers.MatchEntries)
				corrections.POST("/:id/pass", controllers.PassCorrections)
				corrections.POST("/:id/save", controllers.SaveCorrections)
			}

			// Quality control
			qc := protected.Group("/quality-control")
			qc.Use(middleware.RequireRole(models.RoleQualityControlClerk, models.RoleQualityControlSupervisor, models.RoleTallyManager))
			{
				qc.POST("/:id/complete", controllers.CompleteQualityControl)
			}

			// Audit
			audit := protected.Group("/audit")
			{
				audit.GET("/forms", middleware.RequireRole(models.RoleAuditClerk, models.RoleAuditSupervisor, models.RoleTallyManager), controllers.ListAuditForms)
				audit.GET("/:id", middleware.RequireRole(models.RoleAuditClerk, models.RoleAuditSupervisor, models.RoleTallyManager), controllers.GetAudit)
				audit.POST("/:id/flag", middleware.RequireRole(models.RoleQualityControlSupervisor, models.RoleAuditSupervisor, models.RoleTallyManager), controllers.FlagForAudit)
				audit.POST("/:id/team-review", middleware.RequireRole(models.RoleAuditClerk, models.RoleAuditSupervisor), controllers.AuditTeamReview)
				audit.POST("/:id/supervisor-review", middleware.RequireRole(models.RoleAuditSupervisor), controllers.AuditSupervisorReview)
			}

			// Clearance
			clearance := protected.Group("/clearance")
			{
				clearance.GET("/forms", middleware.RequireRole(models.RoleClearanceClerk, models.RoleClearanceSupervisor, models.RoleTallyManager), controllers.ListClearanceForms)
				clearance.GET("/:id", middleware.RequireRole(models.RoleClearanceClerk, models.RoleClearanceSupervisor, models.RoleTallyManager), controllers.GetClearance)
				clearance.POST("/:id/team-review", middleware.RequireRole(models.RoleClearanceClerk, models.RoleClearanceSupervisor), controllers.ClearanceTeamReview)
				clearance.POST("/:id/supervisor-review", middleware.RequireRole(models.RoleClearanceSupervisor), controllers.ClearanceSupervisorReview)
				clearance.POST("/:id/print-cover", middleware.RequireRole(models.RoleClearanceClerk, models.RoleClearanceSupervisor), controllers.PrintClearanceCover)
				clearance.POST("/:id/replacement", middleware.RequireRole(models.RoleClearanceSupervisor), controllers.CreateReplacementForm)
			}

			// Workflow requests
			requests := protected.Group("/workflow-requests")
			{
				requests.POST("", middleware.RequireRole(models.RoleAuditSupervisor, models.RoleTallyManager), controllers.CreateWorkflowRequest)
				requests.GET("/pending", controllers.ListPendingWorkflowRequests)

				// Only tally managers decide
				requests.POST("/:id/approve", middleware.RequireRole(models.RoleTallyManager), controllers.ApproveWorkflowRequest)
				requests.POST("/:id/reject", middleware.RequireRole(models.RoleTallyManager), controllers.RejectWorkflowRequest)
			}

			// Quarantine check administration
			checks := protected.Group("/quarantine-checks")
			{
				checks.GET("", controllers.ListQuarantineChecks)
				checks.POST("/seed", middleware.RequireRole(models.RoleTallyManager), controllers.SeedQuarantineChecks)
				checks.PUT("/:id", middleware.RequireRole(models.RoleTallyManager), controllers.UpdateQuarantineCheck)
			}
		}
	}
}
