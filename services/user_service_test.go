package services

import (
	"testing"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, model.RoleStudent, "Student A", "CSE")

	updated, err := f.users.UpdateProfile(f.ctx, student, ProfileUpdateRequest{Name: strPtr("Student Alpha")})
	require.NoError(t, err)
	assert.Equal(t, "Student Alpha", updated.Name)
	assert.Equal(t, "CSE", updated.Department)

	_, err = f.users.UpdateProfile(f.ctx, student, ProfileUpdateRequest{NewPassword: "newpassword1", CurrentPassword: "wrong"})
	requireKind(t, err, apperrors.KindValidation)
	assert.Equal(t, "Current password is incorrect", apperrors.As(err).Message)

	_, err = f.users.UpdateProfile(f.ctx, student, ProfileUpdateRequest{NewPassword: "newpassword1", CurrentPassword: "password123"})
	require.NoError(t, err)
	stored := f.reload(t, student)
	assert.NoError(t, auth.VerifyPassword(stored.PasswordHash, "newpassword1"))

	_, err = f.users.UpdateProfile(f.ctx, student, ProfileUpdateRequest{Course: strPtr("  ")})
	requireKind(t, err, apperrors.KindValidation)

	profile, err := f.users.GetProfile(f.ctx, student)
	require.NoError(t, err)
	assert.Equal(t, "M.Tech", profile.Course)
}

func TestAdminUpdate_RoleChangeRevokesTokens(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, model.RoleAdmin, "Admin", "")
	faculty := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")

	updated, err := f.users.AdminUpdate(f.ctx, admin, faculty.ID, AdminUserUpdateRequest{Role: strPtr("hod")})
	require.NoError(t, err)
	assert.Equal(t, model.RoleHOD, updated.Role)
	assert.Equal(t, 1, updated.TokenVersion)
	assert.Equal(t, 1, f.reload(t, faculty).TokenVersion)

	renamed, err := f.users.AdminUpdate(f.ctx, admin, faculty.ID, AdminUserUpdateRequest{Name: strPtr("Dr Rao K")})
	require.NoError(t, err)
	assert.Equal(t, 1, renamed.TokenVersion)

	_, err = f.users.AdminUpdate(f.ctx, admin, admin.ID, AdminUserUpdateRequest{Role: strPtr("faculty")})
	requireKind(t, err, apperrors.KindConflict)

	_, err = f.users.AdminUpdate(f.ctx, admin, faculty.ID, AdminUserUpdateRequest{Email: strPtr("ADMIN@example.edu")})
	requireKind(t, err, apperrors.KindDuplicate)

	_, err = f.users.AdminUpdate(f.ctx, faculty, admin.ID, AdminUserUpdateRequest{Name: strPtr("x y")})
	requireKind(t, err, apperrors.KindForbidden)

	_, err = f.users.AdminUpdate(f.ctx, admin, 999, AdminUserUpdateRequest{})
	requireKind(t, err, apperrors.KindNotFound)
}

func TestAdminDelete_DetachesReferences(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, model.RoleAdmin, "Admin", "")
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.approved(t, student, hod, guide)

	_, err := f.projects.AssignPanel(f.ctx, admin, project.ID, []uint{guide.ID})
	require.NoError(t, err)
	require.NotEmpty(t, f.inbox(t, guide.ID))

	requireKind(t, f.users.AdminDelete(f.ctx, admin, admin.ID), apperrors.KindConflict)
	require.NoError(t, f.users.AdminDelete(f.ctx, admin, guide.ID))

	_, err = f.repos.Users.FindByID(f.ctx, guide.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := f.repos.Projects.FindByID(f.ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.GuideID)
	assert.Empty(t, stored.PanelMembers)
	assert.Nil(t, f.reload(t, student).AssignedGuideID)
	assert.Empty(t, f.inbox(t, guide.ID))

	requireKind(t, f.users.AdminDelete(f.ctx, admin, guide.ID), apperrors.KindNotFound)
}

func TestAdminDelete_StudentLeavesGuideList(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, model.RoleAdmin, "Admin", "")
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	f.approved(t, student, hod, guide)
	require.True(t, f.reload(t, guide).HasAssignedStudent(student.ID))

	require.NoError(t, f.users.AdminDelete(f.ctx, admin, student.ID))
	assert.False(t, f.reload(t, guide).HasAssignedStudent(student.ID))
}

func TestAdminList(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, model.RoleAdmin, "Admin", "")
	f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	f.user(t, model.RoleFaculty, "Dr Iyer", "ECE")
	f.user(t, model.RoleStudent, "Student A", "CSE")

	users, err := f.users.AdminList(f.ctx, admin, UserListOptions{})
	require.NoError(t, err)
	assert.Len(t, users, 4)

	users, err = f.users.AdminList(f.ctx, admin, UserListOptions{Role: "faculty"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = f.users.AdminList(f.ctx, admin, UserListOptions{Role: "faculty", Department: "cse"})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = f.users.AdminList(f.ctx, admin, UserListOptions{Role: "dean"})
	requireKind(t, err, apperrors.KindValidation)

	got, err := f.users.AdminGet(f.ctx, admin, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr Rao", got.Name)
}

func TestListDepartmentFacultyAndAssignedStudents(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	f.user(t, model.RoleFaculty, "Dr Iyer", "ECE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")

	faculty, err := f.users.ListDepartmentFaculty(f.ctx, hod)
	require.NoError(t, err)
	require.Len(t, faculty, 1)
	assert.Equal(t, guide.ID, faculty[0].ID)

	_, err = f.users.ListDepartmentFaculty(f.ctx, guide)
	requireKind(t, err, apperrors.KindForbidden)

	assigned, err := f.users.ListAssignedStudents(f.ctx, guide)
	require.NoError(t, err)
	assert.Empty(t, assigned)

	project := f.approved(t, student, hod, guide)
	assigned, err = f.users.ListAssignedStudents(f.ctx, f.reload(t, guide))
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, student.ID, assigned[0].ID)
	require.NotNil(t, assigned[0].Project)
	assert.Equal(t, project.ID, assigned[0].Project.ID)
}

func TestNormalizeRoleFields(t *testing.T) {
	tests := []struct {
		name    string
		user    model.User
		wantErr bool
		dept    string
	}{
		{"student with branch only", model.User{Role: model.RoleStudent, Branch: " CSE ", Course: "BTech"}, false, "CSE"},
		{"student without course", model.User{Role: model.RoleStudent, Department: "CSE"}, true, ""},
		{"student without department", model.User{Role: model.RoleStudent, Course: "BTech"}, true, ""},
		{"hod without department", model.User{Role: model.RoleHOD}, true, ""},
		{"faculty without department", model.User{Role: model.RoleFaculty}, false, ""},
		{"admin", model.User{Role: model.RoleAdmin}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := NormalizeRoleFields(&u)
			if tt.wantErr {
				requireKind(t, err, apperrors.KindValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dept, u.Department)
		})
	}
}
