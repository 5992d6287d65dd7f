package memory

import (
	"context"
	"sort"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/lib/pq"
)

type progressRepo struct {
	s *Store
}

func (r *progressRepo) Create(_ context.Context, progress *model.Progress) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	progress.ID = r.s.next("progress")
	progress.CreatedAt = r.s.now()
	r.s.progress[progress.ID] = *progress
	return nil
}

func (r *progressRepo) ListByProject(_ context.Context, projectID uint) ([]model.Progress, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	updates := []model.Progress{}
	for _, p := range r.s.progress {
		if p.ProjectID == projectID {
			updates = append(updates, p)
		}
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].ID > updates[j].ID })
	return updates, nil
}

type submissionRepo struct {
	s *Store
}

func cloneSubmission(sub model.Submission) model.Submission {
	if sub.Keywords != nil {
		sub.Keywords = append(pq.StringArray(nil), sub.Keywords...)
	}
	return sub
}

func (r *submissionRepo) Create(_ context.Context, submission *model.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	submission.ID = r.s.next("submissions")
	submission.CreatedAt = now
	submission.UpdatedAt = now
	r.s.submissions[submission.ID] = cloneSubmission(*submission)
	return nil
}

func (r *submissionRepo) Save(_ context.Context, submission *model.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.submissions[submission.ID]
	if !ok {
		return repository.ErrNotFound
	}
	submission.CreatedAt = existing.CreatedAt
	submission.UpdatedAt = r.s.now()
	r.s.submissions[submission.ID] = cloneSubmission(*submission)
	return nil
}

func (r *submissionRepo) FindByID(_ context.Context, id uint) (*model.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.submissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneSubmission(sub)
	return &out, nil
}

func (r *submissionRepo) ListByProject(_ context.Context, projectID uint) ([]model.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	subs := []model.Submission{}
	for _, sub := range r.s.submissions {
		if sub.ProjectID == projectID {
			subs = append(subs, cloneSubmission(sub))
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID > subs[j].ID })
	return subs, nil
}

type evaluationRepo struct {
	s *Store
}

func (r *evaluationRepo) Create(_ context.Context, evaluation *model.Evaluation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.evaluations {
		if e.StudentID == evaluation.StudentID && e.EvaluatorID == evaluation.EvaluatorID &&
			e.EvaluationType == evaluation.EvaluationType {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	evaluation.ID = r.s.next("evaluations")
	evaluation.CreatedAt = now
	evaluation.UpdatedAt = now
	r.s.evaluations[evaluation.ID] = *evaluation
	return nil
}

func (r *evaluationRepo) Save(_ context.Context, evaluation *model.Evaluation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.evaluations[evaluation.ID]
	if !ok {
		return repository.ErrNotFound
	}
	evaluation.CreatedAt = existing.CreatedAt
	evaluation.UpdatedAt = r.s.now()
	r.s.evaluations[evaluation.ID] = *evaluation
	return nil
}

func (r *evaluationRepo) FindByKey(_ context.Context, studentID, evaluatorID uint, evalType model.EvaluationType) (*model.Evaluation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.evaluations {
		if e.StudentID == studentID && e.EvaluatorID == evaluatorID && e.EvaluationType == evalType {
			out := e
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *evaluationRepo) List(_ context.Context, filter repository.EvaluationFilter) ([]model.Evaluation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	evaluations := []model.Evaluation{}
	for _, e := range r.s.evaluations {
		if filter.StudentID != 0 && e.StudentID != filter.StudentID {
			continue
		}
		if filter.EvaluatorID != 0 && e.EvaluatorID != filter.EvaluatorID {
			continue
		}
		if filter.ProjectID != 0 && e.ProjectID != filter.ProjectID {
			continue
		}
		evaluations = append(evaluations, e)
	}
	sort.Slice(evaluations, func(i, j int) bool { return evaluations[i].ID < evaluations[j].ID })
	return evaluations, nil
}
