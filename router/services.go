package router

import (
	"github.com/disserto/disserto-api/database"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/services/events"
	"github.com/disserto/disserto-api/services/storage"
	"github.com/disserto/disserto-api/utils/auth"
)

// Services bundles the application services built over one store
type Services struct {
	Repos      *repository.Repositories
	JWT        *auth.JWTManager
	Blacklist  *auth.BlacklistService
	Authorizer *authz.Authorizer
	Events     *events.Dispatcher

	Auth          *services.AuthService
	Users         *services.UserService
	Projects      *services.ProjectService
	Meetings      *services.MeetingService
	Evaluations   *services.EvaluationService
	Notifications *services.NotificationService
}

// NewServices wires the services over store. Authorization denials are
// written to the audit log and notifications are persisted through the
// notification service.
func NewServices(store database.Storage, files storage.FileStorage, jwtManager *auth.JWTManager) *Services {
	repos := store.Repositories()
	blacklist := auth.NewBlacklistService(repos.Tokens, repos.Users)
	authorizer := authz.NewAuthorizer(authz.NewAuditHook(repos.AuditLogs))
	notifications := services.NewNotificationService(repos.Notifications, authorizer)
	dispatcher := events.NewDispatcher(notifications)

	return &Services{
		Repos:      repos,
		JWT:        jwtManager,
		Blacklist:  blacklist,
		Authorizer: authorizer,
		Events:     dispatcher,

		Auth:          services.NewAuthService(repos.Users, jwtManager, blacklist),
		Users:         services.NewUserService(repos, authorizer),
		Projects:      services.NewProjectService(repos, authorizer, dispatcher, files),
		Meetings:      services.NewMeetingService(repos, authorizer, dispatcher),
		Evaluations:   services.NewEvaluationService(repos, authorizer, dispatcher),
		Notifications: notifications,
	}
}
