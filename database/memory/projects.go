package memory

import (
	"context"
	"sort"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/lib/pq"
)

type projectRepo struct {
	s *Store
}

func cloneProject(p model.Project) model.Project {
	if p.Technologies != nil {
		p.Technologies = append(pq.StringArray(nil), p.Technologies...)
	}
	if p.PanelMembers != nil {
		p.PanelMembers = append(pq.Int64Array(nil), p.PanelMembers...)
	}
	if p.GuideID != nil {
		id := *p.GuideID
		p.GuideID = &id
	}
	if p.HODAssignedID != nil {
		id := *p.HODAssignedID
		p.HODAssignedID = &id
	}
	return p
}

func (r *projectRepo) Create(_ context.Context, project *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	project.ID = r.s.next("projects")
	project.CreatedAt = now
	project.UpdatedAt = now
	r.s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (r *projectRepo) Save(_ context.Context, project *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.projects[project.ID]
	if !ok {
		return repository.ErrNotFound
	}
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = r.s.now()
	r.s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (r *projectRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.projects, id)
	return nil
}

func (r *projectRepo) FindByID(_ context.Context, id uint) (*model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	project, ok := r.s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneProject(project)
	return &out, nil
}

func (r *projectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	projects := []model.Project{}
	for _, p := range r.s.projects {
		if filter.StudentID != 0 && p.StudentID != filter.StudentID {
			continue
		}
		if filter.GuideID != 0 && !p.GuidedBy(filter.GuideID) {
			continue
		}
		if filter.PanelMemberID != 0 && !p.HasPanelMember(filter.PanelMemberID) {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, p.Status) {
			continue
		}
		if !matchesDepartment(filter.Departments, p.Department, p.Branch) {
			continue
		}
		projects = append(projects, cloneProject(p))
	}
	// newest first, matching the gorm ordering
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID > projects[j].ID })
	return page(projects, filter.Limit, filter.Offset), nil
}

func hasStatus(statuses []model.ProjectStatus, s model.ProjectStatus) bool {
	for _, x := range statuses {
		if x == s {
			return true
		}
	}
	return false
}
