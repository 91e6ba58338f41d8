// Package audit пишет журнал изменений сущностей.
// Запись журнала никогда не ломает основную операцию: ошибки только логируются.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/sqlc-dev/pqtype"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

// Типы сущностей в журнале
const (
	EntityDemand   = "demand"
	EntityItem     = "item"
	EntityPrice    = "price"
	EntityPlan     = "plan"
	EntitySupplier = "supplier"
	EntityUser     = "user"
)

// Действия
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionStatusChange = "status_change"
	ActionDeactivate   = "deactivate"
)

// Entry - одна запись журнала. ActorID == 0 означает системное действие.
// Previous и New сериализуются в JSONB как есть.
type Entry struct {
	ActorID     int64
	Action      string
	EntityType  string
	EntityID    int64
	Previous    any
	New         any
	Description string
}

type Service struct {
	store  db.Querier
	logger *logging.Logger
}

func NewService(store db.Querier, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Record сохраняет запись журнала. Ошибки не возвращаются.
func (s *Service) Record(ctx context.Context, entry Entry) {
	logger := s.logger.WithFields(logrus.Fields{
		"method":      "Record",
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"entity_id":   entry.EntityID,
	})

	params := db.CreateAuditLogParams{
		ActorID:       sql.NullInt64{Int64: entry.ActorID, Valid: entry.ActorID != 0},
		Action:        entry.Action,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		PreviousValue: toRawMessage(entry.Previous, logger),
		NewValue:      toRawMessage(entry.New, logger),
		Description:   sql.NullString{String: entry.Description, Valid: entry.Description != ""},
	}

	if _, err := s.store.CreateAuditLog(ctx, params); err != nil {
		logger.Errorf("не удалось записать журнал аудита: %v", err)
		return
	}
	logger.Debug("запись аудита сохранена")
}

// List возвращает журнал по сущности, новые записи первыми
func (s *Service) List(ctx context.Context, entityType string, entityID int64, limit, offset int32) ([]db.AuditLog, error) {
	return s.store.ListAuditLogs(ctx, db.ListAuditLogsParams{
		EntityType: entityType,
		EntityID:   entityID,
		Limit:      limit,
		Offset:     offset,
	})
}

func toRawMessage(v any, logger *logrus.Entry) pqtype.NullRawMessage {
	if v == nil {
		return pqtype.NullRawMessage{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Warnf("не удалось сериализовать значение для аудита: %v", err)
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}
