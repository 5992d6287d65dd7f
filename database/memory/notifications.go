package memory

import (
	"context"
	"sort"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
)

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) Create(_ context.Context, notification *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	notification.ID = r.s.next("notifications")
	notification.CreatedAt = now
	notification.UpdatedAt = now
	r.s.notifications[notification.ID] = *notification
	return nil
}

func (r *notificationRepo) FindByID(_ context.Context, id uint) (*model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (r *notificationRepo) List(_ context.Context, filter repository.NotificationFilter) ([]model.Notification, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Notification{}
	for _, n := range r.s.notifications {
		if n.RecipientID != filter.RecipientID {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	return page(out, filter.Limit, filter.Offset), total, nil
}

func (r *notificationRepo) CountUnread(_ context.Context, recipientID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id, recipientID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return repository.ErrNotFound
	}
	n.Read = true
	n.UpdatedAt = r.s.now()
	r.s.notifications[id] = n
	return nil
}

func (r *notificationRepo) MarkAllRead(_ context.Context, recipientID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for id, n := range r.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			n.UpdatedAt = r.s.now()
			r.s.notifications[id] = n
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) Delete(_ context.Context, id, recipientID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return repository.ErrNotFound
	}
	delete(r.s.notifications, id)
	return nil
}

func (r *notificationRepo) DeleteAll(_ context.Context, recipientID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for id, n := range r.s.notifications {
		if n.RecipientID == recipientID {
			delete(r.s.notifications, id)
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for id, n := range r.s.notifications {
		if n.Read && n.CreatedAt.Before(cutoff) {
			delete(r.s.notifications, id)
			count++
		}
	}
	return count, nil
}
