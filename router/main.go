package router

import (
	"github.com/disserto/disserto-api/database"
	"github.com/disserto/disserto-api/handlers"
	admin_handlers "github.com/disserto/disserto-api/handlers/admin"
	auth_handlers "github.com/disserto/disserto-api/handlers/auth"
	faculty_handlers "github.com/disserto/disserto-api/handlers/faculty"
	hod_handlers "github.com/disserto/disserto-api/handlers/hod"
	meeting_handlers "github.com/disserto/disserto-api/handlers/meeting"
	notification_handlers "github.com/disserto/disserto-api/handlers/notification"
	project_handlers "github.com/disserto/disserto-api/handlers/project"
	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/utils"
	"github.com/disserto/disserto-api/utils/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers every endpoint. bruteForce may be nil, in which case
// login attempts are not throttled.
func SetupRoutes(app *fiber.App, store database.Storage, svc *Services, bruteForce *middleware.BruteForceProtection) {
	authMiddleware := middleware.NewAuthMiddleware(svc.JWT, svc.Blacklist, svc.Repos.Users)
	auditLogs := svc.Repos.AuditLogs

	authHandler := auth_handlers.NewAuthHandler(svc.Auth, svc.Users, bruteForce)
	projectHandler := project_handlers.NewProjectHandler(svc.Projects)
	meetingHandler := meeting_handlers.NewMeetingHandler(svc.Meetings)
	facultyHandler := faculty_handlers.NewFacultyHandler(svc.Users, svc.Evaluations)
	hodHandler := hod_handlers.NewHODHandler(svc.Users)
	adminUserHandler := admin_handlers.NewUserHandler(svc.Users)
	auditHandler := admin_handlers.NewAuditHandler(svc.Repos.AuditLogs, svc.Repos.JobLogs)
	notificationHandler := notification_handlers.NewNotificationHandler(svc.Notifications)

	student := middleware.RequireRole(model.RoleStudent)
	faculty := middleware.RequireRole(model.RoleFaculty)
	hod := middleware.RequireRole(model.RoleHOD)
	admin := middleware.RequireRole(model.RoleAdmin)
	hodOrAdmin := middleware.RequireRole(model.RoleHOD, model.RoleAdmin)
	reviewers := middleware.RequireRole(model.RoleFaculty, model.RoleHOD, model.RoleAdmin)

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth(bruteForce), store))

	api := app.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", bruteForce.CheckAndRecordAttempt(), authHandler.Login)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.GetProfile)
	authGroup.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Projects
	projects := api.Group("/projects", authMiddleware.Required())
	projects.Post("/proposal", student, projectHandler.SubmitProposal)
	projects.Post("/final-submission", student, projectHandler.SubmitFinal)
	projects.Get("/my", student, projectHandler.ListMine)
	projects.Get("/", projectHandler.ListProjects)
	projects.Get("/:id", projectHandler.GetProject)
	projects.Patch("/:id/status", hodOrAdmin, projectHandler.UpdateStatus)
	projects.Put("/:id/guide", hodOrAdmin, projectHandler.AssignGuide)
	projects.Patch("/:id/progress", faculty, projectHandler.UpdateProgress)
	projects.Post("/:id/progress-updates", student, projectHandler.AddProgressUpdate)
	projects.Get("/:id/progress-updates", projectHandler.ListProgressUpdates)
	projects.Get("/:id/submissions", projectHandler.ListSubmissions)
	projects.Delete("/:id", admin, middleware.AdminAuditLog(auditLogs, string(authz.ProjectDelete), authz.KindProject), projectHandler.DeleteProject)

	api.Patch("/submissions/:id/status", authMiddleware.Required(), reviewers, projectHandler.ReviewSubmission)

	// Meetings
	meetings := api.Group("/meetings", authMiddleware.Required())
	meetings.Post("/", faculty, meetingHandler.Upsert)
	meetings.Get("/", meetingHandler.List)
	meetings.Get("/:id", meetingHandler.Get)
	meetings.Put("/:id/status", faculty, meetingHandler.UpdateStatus)
	meetings.Put("/:id/student-points", student, meetingHandler.UpdateStudentPoints)

	// Faculty dashboard and evaluations
	facultyGroup := api.Group("/faculty", authMiddleware.Required(), faculty)
	facultyGroup.Get("/students", facultyHandler.ListAssignedStudents)
	facultyGroup.Post("/evaluations/:studentId", facultyHandler.UpsertEvaluation)
	facultyGroup.Get("/evaluations", facultyHandler.ListEvaluations)

	api.Get("/evaluations/my", authMiddleware.Required(), student, facultyHandler.ListMyEvaluations)

	// Head of department views
	hodGroup := api.Group("/hod", authMiddleware.Required(), hod)
	hodGroup.Get("/faculty", hodHandler.ListFaculty)
	hodGroup.Get("/projects", projectHandler.ListProjects)
	hodGroup.Get("/meetings", meetingHandler.List)

	// Admin
	adminGroup := api.Group("/admin", authMiddleware.Required(), admin)
	adminGroup.Get("/users", adminUserHandler.ListUsers)
	adminGroup.Get("/users/:id", adminUserHandler.GetUser)
	adminGroup.Put("/users/:id", middleware.AdminAuditLog(auditLogs, string(authz.UserUpdate), authz.KindUser), adminUserHandler.UpdateUser)
	adminGroup.Delete("/users/:id", middleware.AdminAuditLog(auditLogs, string(authz.UserDelete), authz.KindUser), adminUserHandler.DeleteUser)
	adminGroup.Get("/projects", projectHandler.ListProjects)
	adminGroup.Put("/projects/:id/panel", middleware.AdminAuditLog(auditLogs, string(authz.ProjectAssignPanel), authz.KindProject), projectHandler.AssignPanel)
	adminGroup.Get("/audit-logs", auditHandler.ListAuditLogs)
	adminGroup.Get("/job-logs", auditHandler.ListJobLogs)

	// Notifications
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.GetNotifications)
	notifications.Get("/unread-count", notificationHandler.GetUnreadCount)
	notifications.Patch("/read-all", notificationHandler.MarkAllAsRead)
	notifications.Patch("/:id", notificationHandler.MarkAsRead)
	notifications.Delete("/", notificationHandler.DeleteAllNotifications)
	notifications.Delete("/:id", notificationHandler.DeleteNotification)
}
