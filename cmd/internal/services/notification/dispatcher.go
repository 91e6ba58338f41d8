// Package notification доставляет уведомления о смене статуса заявки ответственному.
// Доставка асинхронная: вызывающий код только ставит сообщение в очередь.
package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

type statusChange struct {
	demandID int64
	previous db.DemandStatus
	next     db.DemandStatus
}

// Dispatcher - очередь уведомлений с одним воркером.
// Переполненная очередь отбрасывает сообщение с предупреждением в логе.
type Dispatcher struct {
	store  db.Querier
	logger *logging.Logger

	queue chan statusChange
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(store db.Querier, queueSize int, logger *logging.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		store:  store,
		logger: logger,
		queue:  make(chan statusChange, queueSize),
	}
}

// Start запускает воркер. ctx используется для запросов к БД.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for msg := range d.queue {
			if err := d.deliver(ctx, msg); err != nil {
				d.logger.WithFields(logrus.Fields{
					"method":    "deliver",
					"demand_id": msg.demandID,
				}).Errorf("не удалось доставить уведомление: %v", err)
			}
		}
	}()
}

// Close закрывает очередь и ждет, пока воркер доставит оставшееся
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

// NotifyStatusChange ставит уведомление в очередь и сразу возвращается
func (d *Dispatcher) NotifyStatusChange(ctx context.Context, demandID int64, previous, next db.DemandStatus) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	logger := d.logger.WithFields(logrus.Fields{
		"method":    "NotifyStatusChange",
		"demand_id": demandID,
	})

	if d.closed {
		logger.Warn("диспетчер уведомлений остановлен, сообщение отброшено")
		return
	}

	select {
	case d.queue <- statusChange{demandID: demandID, previous: previous, next: next}:
	default:
		logger.Warn("очередь уведомлений переполнена, сообщение отброшено")
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg statusChange) error {
	demand, err := d.store.GetDemand(ctx, msg.demandID)
	if err != nil {
		return fmt.Errorf("заявка %d: %w", msg.demandID, err)
	}
	if !demand.ResponsibleID.Valid {
		d.logger.WithField("demand_id", msg.demandID).Debug("у заявки нет ответственного, уведомление пропущено")
		return nil
	}

	_, err = d.store.CreateNotification(ctx, db.CreateNotificationParams{
		UserID:   demand.ResponsibleID.Int64,
		DemandID: sql.NullInt64{Int64: demand.ID, Valid: true},
		Message:  fmt.Sprintf("Заявка %s: статус изменен с %s на %s", demand.Code, msg.previous, msg.next),
	})
	return err
}

// ListForUser возвращает уведомления пользователя, новые первыми
func (d *Dispatcher) ListForUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]db.Notification, error) {
	return d.store.ListNotificationsByUser(ctx, db.ListNotificationsByUserParams{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
}

// MarkRead помечает уведомление прочитанным. Чужое уведомление считается не найденным.
func (d *Dispatcher) MarkRead(ctx context.Context, userID, notificationID int64) (db.Notification, error) {
	n, err := d.store.MarkNotificationRead(ctx, db.MarkNotificationReadParams{ID: notificationID, UserID: userID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Notification{}, apierrors.NewNotFoundError("уведомление %d не найдено", notificationID)
		}
		return db.Notification{}, fmt.Errorf("не удалось отметить уведомление: %w", err)
	}
	return n, nil
}
