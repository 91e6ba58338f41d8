package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/lifecycle"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

const (
	minYear = 2000
	maxYear = 2100
)

type Service struct {
	store  db.Store
	audit  lifecycle.AuditRecorder
	logger *logging.Logger
}

func NewService(store db.Store, auditRecorder lifecycle.AuditRecorder, logger *logging.Logger) *Service {
	return &Service{store: store, audit: auditRecorder, logger: logger}
}

// CreatePlan создает план закупок на год в статусе RASCUNHO. Один план на год.
func (s *Service) CreatePlan(ctx context.Context, actorID int64, data api_models.NewPlan) (db.Plan, error) {
	logger := s.logger.WithFields(logrus.Fields{"method": "CreatePlan", "year": data.Year})

	if data.Year < minYear || data.Year > maxYear {
		return db.Plan{}, apierrors.NewValidationError("год плана должен быть в диапазоне %d-%d", minYear, maxYear)
	}
	title := strings.TrimSpace(data.Title)
	if title == "" {
		title = fmt.Sprintf("PCA %d", data.Year)
	}

	plan, err := s.store.CreatePlan(ctx, db.CreatePlanParams{
		Year:      data.Year,
		Title:     title,
		CreatedBy: sql.NullInt64{Int64: actorID, Valid: actorID != 0},
	})
	if err != nil {
		if apierrors.IsUniqueViolation(err) {
			return db.Plan{}, apierrors.NewValidationError("план на %d год уже существует", data.Year)
		}
		logger.Errorf("не удалось создать план: %v", err)
		return db.Plan{}, fmt.Errorf("не удалось создать план: %w", err)
	}

	logger.Infof("создан план %d", plan.ID)
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntityPlan,
		EntityID:   plan.ID,
		New:        plan,
	})
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id int64) (db.Plan, error) {
	plan, err := s.store.GetPlan(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Plan{}, apierrors.NewNotFoundError("план с ID %d не найден", id)
		}
		return db.Plan{}, fmt.Errorf("не удалось получить план %d: %w", id, err)
	}
	return plan, nil
}

func (s *Service) ListPlans(ctx context.Context, limit, offset int32) ([]db.Plan, error) {
	return s.store.ListPlans(ctx, db.ListPlansParams{Limit: limit, Offset: offset})
}

// ChangeStatus переводит план по таблице PlanTransitions.
// Переход в EM_REVISAO открывает новую версию плана.
func (s *Service) ChangeStatus(ctx context.Context, actorID, planID int64, target string) (db.Plan, error) {
	logger := s.logger.WithFields(logrus.Fields{"method": "ChangeStatus", "plan_id": planID})

	status := db.PlanStatus(strings.ToUpper(strings.TrimSpace(target)))
	if !status.Valid() {
		return db.Plan{}, apierrors.NewValidationError("неизвестный статус плана: %s", target)
	}

	var before, after db.Plan
	err := s.store.ExecTx(ctx, func(qtx db.Querier) error {
		var err error
		before, err = qtx.GetPlanForUpdate(ctx, planID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apierrors.NewNotFoundError("план с ID %d не найден", planID)
			}
			return fmt.Errorf("не удалось получить план %d: %w", planID, err)
		}
		if !lifecycle.PlanTransitions.Allows(before.Status, status) {
			return apierrors.NewInvalidTransitionError(string(before.Status), string(status))
		}

		version := before.Version
		if status == db.PlanStatusEMREVISAO {
			version++
		}
		after, err = qtx.UpdatePlanStatus(ctx, db.UpdatePlanStatusParams{
			ID:      planID,
			Status:  status,
			Version: version,
		})
		if err != nil {
			return fmt.Errorf("не удалось обновить статус плана: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Warnf("статус плана не изменен: %v", err)
		return db.Plan{}, err
	}

	logger.Infof("план переведен %s -> %s (версия %d)", before.Status, after.Status, after.Version)
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionStatusChange,
		EntityType: audit.EntityPlan,
		EntityID:   planID,
		Previous:   map[string]any{"status": before.Status, "version": before.Version},
		New:        map[string]any{"status": after.Status, "version": after.Version},
	})
	return after, nil
}
