package authz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// DenialHook observes every denied decision. Hooks must not block for long
// and their failures never change the decision.
type DenialHook interface {
	OnDenied(ctx context.Context, actor Actor, resource Resource, d Decision)
}

// hidden actions report a failed ownership check as not found, so callers
// cannot discover records that belong to someone else
var hidden = map[Action]string{
	NotificationRead:   "Notification not found",
	NotificationUpdate: "Notification not found",
	NotificationDelete: "Notification not found",
	EvaluationUpsert:   "Student not found or not assigned to you",
}

// Authorizer wraps Authorize with denial logging and the denial hook
type Authorizer struct {
	hook DenialHook
	log  zerolog.Logger
}

// NewAuthorizer creates an authorizer. hook may be nil.
func NewAuthorizer(hook DenialHook) *Authorizer {
	return &Authorizer{hook: hook, log: logger.With("authz")}
}

// Decide evaluates the request and reports denials.
func (z *Authorizer) Decide(ctx context.Context, actor Actor, action Action, resource Resource) Decision {
	d := Authorize(actor, action, resource)
	if d.Allowed {
		return d
	}

	z.log.Info().
		Str("action", string(action)).
		Uint("actor_id", actor.ID).
		Str("actor_role", actor.Role.String()).
		Str("resource_kind", resource.Kind).
		Uint("resource_id", resource.ID).
		Str("reason", d.Reason.String()).
		Msg("authorization denied")

	if z.hook != nil {
		z.hook.OnDenied(ctx, actor, resource, d)
	}
	return d
}

// Check is Decide converted to an error: nil when allowed, otherwise a
// forbidden or not-found application error.
func (z *Authorizer) Check(ctx context.Context, actor Actor, action Action, resource Resource) error {
	d := z.Decide(ctx, actor, action, resource)
	if d.Allowed {
		return nil
	}
	return DecisionError(d)
}

// DecisionError converts a denied decision into the error returned to clients.
func DecisionError(d Decision) error {
	if msg, ok := hidden[d.Action]; ok && d.Reason != ReasonRoleNotPermitted && d.Reason != ReasonInvalidActor {
		return apperrors.NotFound(msg)
	}
	msg := "Access forbidden"
	if d.Reason != ReasonRoleNotPermitted && d.Reason != ReasonUnknownAction {
		msg = fmt.Sprintf("Access denied: %s", d.Reason)
	}
	return apperrors.Forbidden(msg, d.ActorRole, d.RequiredRoles)
}

// AuditHook records denials in the audit log
type AuditHook struct {
	logs repository.AuditLogRepository
}

// NewAuditHook creates a hook writing to logs.
func NewAuditHook(logs repository.AuditLogRepository) *AuditHook {
	return &AuditHook{logs: logs}
}

// OnDenied implements DenialHook.
func (h *AuditHook) OnDenied(ctx context.Context, actor Actor, resource Resource, d Decision) {
	client := ClientFrom(ctx)
	entry := &model.AuditLog{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       string(d.Action),
		ResourceKind: resource.Kind,
		ResourceID:   resource.ID,
		Decision:     model.AuditDeny,
		Reason:       d.Reason.String(),
		IPAddress:    client.IP,
		UserAgent:    client.UserAgent,
	}
	if details, err := json.Marshal(map[string]interface{}{"requiredRoles": d.RequiredRoles}); err == nil {
		entry.Details = datatypes.JSON(details)
	}

	if err := h.logs.Create(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("action", string(d.Action)).Msg("failed to write authorization audit log")
	}
}

// Client identifies the remote end of a request for audit purposes
type Client struct {
	IP        string
	UserAgent string
}

type clientKey struct{}

// WithClient attaches client details to ctx.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFrom returns the client attached to ctx, or the zero Client.
func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}
