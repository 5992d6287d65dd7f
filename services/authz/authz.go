// Package authz decides who may do what to which record.
//
// Every rule lives in one table keyed by Action. A request is allowed when
// any rule for the action names the actor's role and its ownership check
// passes. Actions missing from the table are always denied.
package authz

import (
	"sort"

	"github.com/disserto/disserto-api/model"
)

// Action is a closed set of operations subject to authorization
type Action string

const (
	ProjectCreate         Action = "project:create"
	ProjectRead           Action = "project:read"
	ProjectUpdateStatus   Action = "project:update-status"
	ProjectAssignGuide    Action = "project:assign-guide"
	ProjectUpdateProgress Action = "project:update-progress"
	ProjectDelete         Action = "project:delete"
	ProjectAssignPanel    Action = "project:assign-panel"

	ProgressCreate   Action = "progress:create"
	SubmissionCreate Action = "submission:create"
	SubmissionReview Action = "submission:review"

	MeetingCreate       Action = "meeting:create"
	MeetingRead         Action = "meeting:read"
	MeetingUpdateStatus Action = "meeting:update-status"
	MeetingUpdatePoints Action = "meeting:update-points"

	EvaluationUpsert Action = "evaluation:upsert"
	EvaluationRead   Action = "evaluation:read"

	StudentListAssigned   Action = "student:list-assigned"
	FacultyListDepartment Action = "faculty:list-department"

	UserRead   Action = "user:read"
	UserList   Action = "user:list"
	UserUpdate Action = "user:update"
	UserDelete Action = "user:delete"

	ProfileRead   Action = "profile:read"
	ProfileUpdate Action = "profile:update"

	NotificationRead   Action = "notification:read"
	NotificationUpdate Action = "notification:update"
	NotificationDelete Action = "notification:delete"
)

// Resource kinds
const (
	KindProject      = "project"
	KindSubmission   = "submission"
	KindMeeting      = "meeting"
	KindEvaluation   = "evaluation"
	KindUser         = "user"
	KindNotification = "notification"
)

// Actor is the authenticated caller
type Actor struct {
	ID         uint
	Role       model.Role
	Department string
	Branch     string
}

// ActorFrom builds an Actor from a loaded user record.
func ActorFrom(u *model.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, Department: u.Department, Branch: u.Branch}
}

// Resource carries the ownership facts the rules look at. Unused fields stay zero.
type Resource struct {
	Kind string
	ID   uint

	// OwnerID is the student of a project or meeting, or the recipient of a notification.
	OwnerID uint
	// GuideID is the faculty guide of the project.
	GuideID uint
	// FacultyID is the faculty running a meeting or the evaluator of an evaluation.
	FacultyID uint
	// AssignedGuideID is the assigned guide of the target student.
	AssignedGuideID uint
	PanelIDs        []uint
	Department      string
	Branch          string
}

// ProjectResource describes p for authorization.
func ProjectResource(p *model.Project) Resource {
	r := Resource{
		Kind:       KindProject,
		ID:         p.ID,
		OwnerID:    p.StudentID,
		GuideID:    p.Guide(),
		Department: p.Department,
		Branch:     p.Branch,
	}
	for _, m := range p.PanelMembers {
		r.PanelIDs = append(r.PanelIDs, uint(m))
	}
	return r
}

// MeetingResource describes m. The project supplies the department.
func MeetingResource(m *model.Meeting, p *model.Project) Resource {
	r := Resource{Kind: KindMeeting, ID: m.ID, OwnerID: m.StudentID, FacultyID: m.FacultyID}
	if p != nil {
		r.GuideID = p.Guide()
		r.Department = p.Department
		r.Branch = p.Branch
	}
	return r
}

// DenyReason describes why an authorization check was denied
type DenyReason int

const (
	ReasonNone DenyReason = iota
	ReasonUnknownAction
	ReasonInvalidActor
	ReasonRoleNotPermitted
	ReasonNotOwner
	ReasonNotGuide
	ReasonNotMeetingFaculty
	ReasonNotAssignedGuide
	ReasonDepartmentMismatch
)

// String returns a human-readable reason.
func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnknownAction:
		return "no rule for action"
	case ReasonInvalidActor:
		return "invalid actor"
	case ReasonRoleNotPermitted:
		return "role not permitted"
	case ReasonNotOwner:
		return "not the owner"
	case ReasonNotGuide:
		return "not the project's guide"
	case ReasonNotMeetingFaculty:
		return "not the meeting's faculty"
	case ReasonNotAssignedGuide:
		return "student is not assigned to this faculty member"
	case ReasonDepartmentMismatch:
		return "outside your department"
	default:
		return "unknown"
	}
}

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Action  Action
	// ActorRole is the role that was checked
	ActorRole model.Role
	// RequiredRoles is the sorted set of roles any rule for the action names
	RequiredRoles []model.Role
}

type check func(a Actor, r Resource) DenyReason

type rule struct {
	roles []model.Role
	check check
}

func anyone(Actor, Resource) DenyReason { return ReasonNone }

func owner(a Actor, r Resource) DenyReason {
	if r.OwnerID != 0 && r.OwnerID == a.ID {
		return ReasonNone
	}
	return ReasonNotOwner
}

func guide(a Actor, r Resource) DenyReason {
	if r.GuideID != 0 && r.GuideID == a.ID {
		return ReasonNone
	}
	return ReasonNotGuide
}

func guideOrPanel(a Actor, r Resource) DenyReason {
	if guide(a, r) == ReasonNone {
		return ReasonNone
	}
	for _, id := range r.PanelIDs {
		if id == a.ID {
			return ReasonNone
		}
	}
	return ReasonNotGuide
}

func meetingFaculty(a Actor, r Resource) DenyReason {
	if r.FacultyID != 0 && r.FacultyID == a.ID {
		return ReasonNone
	}
	return ReasonNotMeetingFaculty
}

func meetingFacultyOrGuide(a Actor, r Resource) DenyReason {
	if guide(a, r) == ReasonNone {
		return ReasonNone
	}
	return meetingFaculty(a, r)
}

func assignedGuide(a Actor, r Resource) DenyReason {
	if r.AssignedGuideID != 0 && r.AssignedGuideID == a.ID {
		return ReasonNone
	}
	return ReasonNotAssignedGuide
}

func sameDepartment(a Actor, r Resource) DenyReason {
	if DepartmentsMatch(a.Department, a.Branch, r.Department, r.Branch) {
		return ReasonNone
	}
	return ReasonDepartmentMismatch
}

var (
	student = []model.Role{model.RoleStudent}
	faculty = []model.Role{model.RoleFaculty}
	hod     = []model.Role{model.RoleHOD}
	admin   = []model.Role{model.RoleAdmin}
	all     = model.AllRoles
)

var rules = map[Action][]rule{
	ProjectCreate: {{student, anyone}},
	ProjectRead: {
		{student, owner},
		{faculty, guideOrPanel},
		{hod, sameDepartment},
		{admin, anyone},
	},
	ProjectUpdateStatus:   {{hod, sameDepartment}, {admin, anyone}},
	ProjectAssignGuide:    {{hod, sameDepartment}, {admin, anyone}},
	ProjectUpdateProgress: {{faculty, guide}},
	ProjectDelete:         {{admin, anyone}},
	ProjectAssignPanel:    {{admin, anyone}},

	ProgressCreate:   {{student, owner}},
	SubmissionCreate: {{student, owner}},
	SubmissionReview: {
		{faculty, guide},
		{hod, sameDepartment},
		{admin, anyone},
	},

	MeetingCreate: {{faculty, guide}},
	MeetingRead: {
		{student, owner},
		{faculty, meetingFacultyOrGuide},
		{hod, sameDepartment},
		{admin, anyone},
	},
	MeetingUpdateStatus: {{faculty, guide}},
	MeetingUpdatePoints: {{student, owner}},

	EvaluationUpsert: {{faculty, assignedGuide}},
	EvaluationRead: {
		{student, owner},
		{faculty, meetingFaculty},
		{hod, sameDepartment},
		{admin, anyone},
	},

	StudentListAssigned:   {{faculty, anyone}},
	FacultyListDepartment: {{hod, anyone}, {admin, anyone}},

	UserRead:   {{admin, anyone}},
	UserList:   {{admin, anyone}},
	UserUpdate: {{admin, anyone}},
	UserDelete: {{admin, anyone}},

	ProfileRead:   {{all, owner}},
	ProfileUpdate: {{all, owner}},

	NotificationRead:   {{all, owner}},
	NotificationUpdate: {{all, owner}},
	NotificationDelete: {{all, owner}},
}

// Authorize evaluates action for actor against resource. It never has side effects.
func Authorize(actor Actor, action Action, resource Resource) Decision {
	d := Decision{Action: action, ActorRole: actor.Role}

	actionRules, ok := rules[action]
	if !ok {
		d.Reason = ReasonUnknownAction
		return d
	}
	d.RequiredRoles = requiredRoles(actionRules)

	if !actor.Role.Valid() || actor.ID == 0 {
		d.Reason = ReasonInvalidActor
		return d
	}

	d.Reason = ReasonRoleNotPermitted
	for _, rl := range actionRules {
		if !hasRole(rl.roles, actor.Role) {
			continue
		}
		reason := rl.check(actor, resource)
		if reason == ReasonNone {
			d.Allowed = true
			d.Reason = ReasonNone
			return d
		}
		d.Reason = reason
	}
	return d
}

// Allows reports whether role is named by any rule for action.
func Allows(role model.Role, action Action) bool {
	for _, rl := range rules[action] {
		if hasRole(rl.roles, role) {
			return true
		}
	}
	return false
}

// DepartmentsMatch compares {department, branch} of two parties. Values are
// trimmed and case-folded, empty values are ignored and any pair matching is enough.
func DepartmentsMatch(aDept, aBranch, bDept, bBranch string) bool {
	for _, x := range model.DepartmentKeys(aDept, aBranch) {
		for _, y := range model.DepartmentKeys(bDept, bBranch) {
			if x == y {
				return true
			}
		}
	}
	return false
}

func hasRole(roles []model.Role, r model.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func requiredRoles(rs []rule) []model.Role {
	seen := map[model.Role]bool{}
	var out []model.Role
	for _, rl := range rs {
		for _, r := range rl.roles {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
