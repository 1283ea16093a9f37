package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var errNotificationNotFound = fmt.Errorf("memory: notification %w", domain.ErrNotFound)

// Notifications входящие уведомления в памяти
type Notifications struct {
	s *Store
}

// Create сохраняет уведомление
func (r *Notifications) Create(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	created := n
	created.ID = r.s.nextID()
	created.Read = false
	created.CreatedAt = r.s.now()
	r.s.notifications[created.ID] = &created

	copied := created
	return &copied, nil
}

// ListByUser получает уведомления пользователя (сначала новые)
func (r *Notifications) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	list := make([]*domain.Notification, 0)
	for _, n := range r.s.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		copied := *n
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// MarkRead отмечает уведомление прочитанным
func (r *Notifications) MarkRead(ctx context.Context, userID int64, id int64) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end(ctx)

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return errNotificationNotFound
	}
	n.Read = true
	return nil
}
