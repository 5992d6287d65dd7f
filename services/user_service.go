package services

import (
	"context"
	"errors"
	"strings"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/disserto/disserto-api/utils/validation"
	"github.com/rs/zerolog"
)

// UserService covers profiles, admin user management and the faculty/HOD
// views of related users.
type UserService struct {
	repos     *repository.Repositories
	authz     *authz.Authorizer
	validator *validation.Validator
	log       zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(repos *repository.Repositories, authorizer *authz.Authorizer) *UserService {
	return &UserService{
		repos:     repos,
		authz:     authorizer,
		validator: validation.NewValidator(),
		log:       logger.With("users"),
	}
}

// ProfileUpdateRequest is a user's update of their own profile. Nil fields are left alone.
type ProfileUpdateRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=120"`
	Department      *string `json:"department" validate:"omitempty,max=100"`
	Branch          *string `json:"branch" validate:"omitempty,max=100"`
	Course          *string `json:"course" validate:"omitempty,max=100"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" validate:"omitempty,min=8"`
}

// AdminUserUpdateRequest is an admin's update of any user. Nil fields are left alone.
type AdminUserUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Role       *string `json:"role" validate:"omitempty,oneof=student faculty hod admin"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Branch     *string `json:"branch" validate:"omitempty,max=100"`
	Course     *string `json:"course" validate:"omitempty,max=100"`
	Password   *string `json:"password" validate:"omitempty,min=8"`
}

// UserListOptions narrows the admin user listing
type UserListOptions struct {
	Role       string
	Department string
	Page
}

// AssignedStudent is a student assigned to a faculty member with their current project
type AssignedStudent struct {
	model.User
	Project *model.Project `json:"project,omitempty"`
}

// GetProfile returns the actor's own record.
func (s *UserService) GetProfile(ctx context.Context, actor *model.User) (*model.User, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.ProfileRead, s.self(actor)); err != nil {
		return nil, err
	}
	user, err := s.repos.Users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return user, nil
}

// UpdateProfile applies the actor's profile changes. Changing the password
// requires the current one.
func (s *UserService) UpdateProfile(ctx context.Context, actor *model.User, req ProfileUpdateRequest) (*model.User, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.ProfileUpdate, s.self(actor)); err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.repos.Users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, lookup(err, "User not found")
	}

	setString(&user.Name, req.Name)
	setString(&user.Department, req.Department)
	setString(&user.Branch, req.Branch)
	setString(&user.Course, req.Course)

	if req.NewPassword != "" {
		if err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
			return nil, apperrors.Validation("Current password is incorrect", map[string]string{"currentPassword": "current password is incorrect"})
		}
		if err := s.setPassword(user, req.NewPassword); err != nil {
			return nil, err
		}
	}

	if err := NormalizeRoleFields(user); err != nil {
		return nil, err
	}
	if err := s.repos.Users.Save(ctx, user); err != nil {
		return nil, internal(err)
	}
	return user, nil
}

// AdminList lists users, optionally filtered by role and department.
func (s *UserService) AdminList(ctx context.Context, actor *model.User, opts UserListOptions) ([]model.User, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.UserList, authz.Resource{Kind: authz.KindUser}); err != nil {
		return nil, err
	}

	page := opts.Page.normalize()
	filter := repository.UserFilter{Limit: page.Limit, Offset: page.Offset}
	if opts.Role != "" {
		role, err := model.ParseRole(opts.Role)
		if err != nil {
			return nil, apperrors.Validation("Invalid role filter", nil)
		}
		filter.Role = role
	}
	if opts.Department != "" {
		filter.Departments = []string{opts.Department}
	}

	users, err := s.repos.Users.List(ctx, filter)
	if err != nil {
		return nil, internal(err)
	}
	return users, nil
}

// AdminGet returns any user.
func (s *UserService) AdminGet(ctx context.Context, actor *model.User, id uint) (*model.User, error) {
	return s.loadForAdmin(ctx, actor, id, authz.UserRead)
}

// AdminUpdate edits any user. A role or password change revokes the user's
// existing tokens.
func (s *UserService) AdminUpdate(ctx context.Context, actor *model.User, id uint, req AdminUserUpdateRequest) (*model.User, error) {
	user, err := s.loadForAdmin(ctx, actor, id, authz.UserUpdate)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	revoke := false
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if other, err := s.repos.Users.FindByEmail(ctx, email); err == nil && other.ID != user.ID {
				return nil, apperrors.Duplicate("Email already registered")
			} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, internal(err)
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		if role != user.Role {
			if user.ID == actor.ID {
				return nil, apperrors.Conflict("You cannot change your own role")
			}
			user.Role = role
			revoke = true
		}
	}
	setString(&user.Name, req.Name)
	setString(&user.Department, req.Department)
	setString(&user.Branch, req.Branch)
	setString(&user.Course, req.Course)
	if req.Password != nil {
		if err := s.setPassword(user, *req.Password); err != nil {
			return nil, err
		}
		revoke = true
	}

	if err := NormalizeRoleFields(user); err != nil {
		return nil, err
	}
	if err := s.repos.Users.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Duplicate("Email already registered")
		}
		return nil, internal(err)
	}

	if revoke {
		if err := s.repos.Users.IncrementTokenVersion(ctx, user.ID); err != nil {
			return nil, internal(err)
		}
		user.TokenVersion++
	}

	s.log.Info().Uint("user_id", user.ID).Uint("actor_id", actor.ID).Bool("tokens_revoked", revoke).Msg("user updated by admin")
	return user, nil
}

// AdminDelete soft-deletes a user and detaches every reference to them.
func (s *UserService) AdminDelete(ctx context.Context, actor *model.User, id uint) error {
	user, err := s.loadForAdmin(ctx, actor, id, authz.UserDelete)
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return apperrors.Conflict("You cannot delete your own account")
	}

	if err := s.detach(ctx, user); err != nil {
		return internal(err)
	}
	if err := s.repos.Users.Delete(ctx, user.ID); err != nil {
		return lookup(err, "User not found")
	}

	s.log.Info().Uint("user_id", user.ID).Uint("actor_id", actor.ID).Str("role", user.Role.String()).Msg("user deleted")
	return nil
}

// detach clears guide, panel and assignment references to user and removes
// their notifications. Meetings and evaluations keep the id as history.
func (s *UserService) detach(ctx context.Context, user *model.User) error {
	guided, err := s.repos.Projects.List(ctx, repository.ProjectFilter{GuideID: user.ID})
	if err != nil {
		return err
	}
	for i := range guided {
		guided[i].GuideID = nil
		if err := s.repos.Projects.Save(ctx, &guided[i]); err != nil {
			return err
		}
	}

	paneled, err := s.repos.Projects.List(ctx, repository.ProjectFilter{PanelMemberID: user.ID})
	if err != nil {
		return err
	}
	for i := range paneled {
		kept := paneled[i].PanelMembers[:0]
		for _, m := range paneled[i].PanelMembers {
			if uint(m) != user.ID {
				kept = append(kept, m)
			}
		}
		paneled[i].PanelMembers = kept
		if err := s.repos.Projects.Save(ctx, &paneled[i]); err != nil {
			return err
		}
	}

	switch user.Role {
	case model.RoleFaculty:
		students, err := s.repos.Users.List(ctx, repository.UserFilter{Role: model.RoleStudent})
		if err != nil {
			return err
		}
		for i := range students {
			if students[i].AssignedGuideID == nil || *students[i].AssignedGuideID != user.ID {
				continue
			}
			students[i].AssignedGuideID = nil
			if err := s.repos.Users.Save(ctx, &students[i]); err != nil {
				return err
			}
		}
	case model.RoleStudent:
		if user.AssignedGuideID != nil {
			guide, err := s.repos.Users.FindByID(ctx, *user.AssignedGuideID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if guide != nil && guide.RemoveAssignedStudent(user.ID) {
				if err := s.repos.Users.Save(ctx, guide); err != nil {
					return err
				}
			}
		}
	}

	_, err = s.repos.Notifications.DeleteAll(ctx, user.ID)
	return err
}

// ListDepartmentFaculty returns the faculty of an HOD's department, or all
// faculty for an admin.
func (s *UserService) ListDepartmentFaculty(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.FacultyListDepartment, authz.Resource{Kind: authz.KindUser}); err != nil {
		return nil, err
	}

	filter := repository.UserFilter{Role: model.RoleFaculty}
	if actor.Role == model.RoleHOD {
		filter.Departments = actor.DepartmentKeys()
		if len(filter.Departments) == 0 {
			return []model.User{}, nil
		}
	}
	faculty, err := s.repos.Users.List(ctx, filter)
	if err != nil {
		return nil, internal(err)
	}
	return faculty, nil
}

// ListAssignedStudents returns the students assigned to the calling faculty
// member together with the project each is working on.
func (s *UserService) ListAssignedStudents(ctx context.Context, actor *model.User) ([]AssignedStudent, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.StudentListAssigned, authz.Resource{Kind: authz.KindUser}); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(actor.AssignedStudents))
	for _, id := range actor.AssignedStudents {
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return []AssignedStudent{}, nil
	}

	students, err := s.repos.Users.List(ctx, repository.UserFilter{Role: model.RoleStudent, IDs: ids})
	if err != nil {
		return nil, internal(err)
	}

	out := make([]AssignedStudent, 0, len(students))
	for _, student := range students {
		entry := AssignedStudent{User: student}
		projects, err := s.repos.Projects.List(ctx, repository.ProjectFilter{StudentID: student.ID, GuideID: actor.ID, Limit: 1})
		if err != nil {
			return nil, internal(err)
		}
		if len(projects) > 0 {
			entry.Project = &projects[0]
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *UserService) loadForAdmin(ctx context.Context, actor *model.User, id uint, action authz.Action) (*model.User, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), action, authz.Resource{Kind: authz.KindUser, ID: id}); err != nil {
		return nil, err
	}
	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return user, nil
}

func (s *UserService) self(actor *model.User) authz.Resource {
	return authz.Resource{Kind: authz.KindUser, ID: actor.ID, OwnerID: actor.ID}
}

func (s *UserService) setPassword(user *model.User, password string) error {
	if ok, problems := validation.ValidatePassword(password); !ok {
		return apperrors.Validation("Password does not meet requirements", map[string]string{"password": strings.Join(problems, "; ")})
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.Internal("Failed to process password", err)
	}
	user.PasswordHash = hash
	return nil
}

// NormalizeRoleFields enforces the per-role profile requirements: students
// need a department (or branch) and a course, HODs a department. A legacy
// branch is copied into department when department is empty.
func NormalizeRoleFields(user *model.User) error {
	user.Department = strings.TrimSpace(user.Department)
	user.Branch = strings.TrimSpace(user.Branch)
	user.Course = strings.TrimSpace(user.Course)

	details := map[string]string{}
	switch user.Role {
	case model.RoleStudent:
		if user.Department == "" && user.Branch == "" {
			details["department"] = "department or branch is required for students"
		}
		if user.Course == "" {
			details["course"] = "course is required for students"
		}
	case model.RoleHOD:
		if user.Department == "" && user.Branch == "" {
			details["department"] = "department is required for HODs"
		}
	}
	if len(details) > 0 {
		return apperrors.Validation("Validation failed", details)
	}

	if user.Department == "" && user.Branch != "" && user.Role != model.RoleAdmin {
		user.Department = user.Branch
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
