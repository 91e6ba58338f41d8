// Package demand - операции над заявками, их позициями и котировками.
// Каждое изменение позиций и котировок пересчитывает оценку и проверяет статус заявки
// в той же транзакции; аудит и уведомления выполняются после фиксации.
package demand

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/lifecycle"
	"github.com/zhukovvlad/procurement-go/cmd/internal/util"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

// Lifecycle - операции жизненного цикла, которые использует сервис заявок
type Lifecycle interface {
	RequestTransition(ctx context.Context, req lifecycle.TransitionRequest) (db.Demand, error)
	OnFirstItemAdded(ctx context.Context, q db.Querier, demandID, actorID int64) (*lifecycle.Transition, error)
	CheckAutoAdvance(ctx context.Context, q db.Querier, demandID, actorID int64) (*lifecycle.Transition, error)
	CheckRegression(ctx context.Context, q db.Querier, demandID, actorID int64) (*lifecycle.Transition, error)
	Emit(ctx context.Context, transitions ...*lifecycle.Transition)
}

// Valuator пересчитывает оценку позиции внутри транзакции
type Valuator interface {
	RecalculateInTx(ctx context.Context, q db.Querier, itemID, actorID int64) (db.Item, *lifecycle.Transition, error)
}

type Service struct {
	store     db.Store
	lifecycle Lifecycle
	valuation Valuator
	audit     lifecycle.AuditRecorder
	logger    *logging.Logger
	now       func() time.Time
}

func NewService(store db.Store, lc Lifecycle, valuation Valuator, auditRecorder lifecycle.AuditRecorder, logger *logging.Logger) *Service {
	return &Service{
		store:     store,
		lifecycle: lc,
		valuation: valuation,
		audit:     auditRecorder,
		logger:    logger,
		now:       time.Now,
	}
}

// DemandDetails - заявка с позициями и числом активных котировок по каждой
type DemandDetails struct {
	Demand      db.Demand
	Items       []db.Item
	PriceCounts map[int64]int64
}

// DemandCode формирует код заявки: DEM-<год плана>-<номер проекта из 4 цифр>
func DemandCode(planYear int32, projectNumber int32) string {
	return fmt.Sprintf("DEM-%d-%04d", planYear, projectNumber)
}

// CreateDemand создает заявку в статусе CADASTRADA.
// Номер проекта - следующий в плане, план блокируется на время выдачи номера.
func (s *Service) CreateDemand(ctx context.Context, actorID int64, data api_models.NewDemand) (db.Demand, error) {
	logger := s.logger.WithFields(logrus.Fields{"method": "CreateDemand", "plan_id": data.PlanID})

	title := strings.TrimSpace(data.Title)
	if title == "" {
		return db.Demand{}, apierrors.NewValidationError("название заявки не может быть пустым")
	}

	responsible := util.NullableInt64(data.ResponsibleID)
	if !responsible.Valid && actorID != 0 {
		responsible = sql.NullInt64{Int64: actorID, Valid: true}
	}

	var demand db.Demand
	err := s.store.ExecTx(ctx, func(qtx db.Querier) error {
		plan, err := qtx.GetPlanForUpdate(ctx, data.PlanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apierrors.NewNotFoundError("план с ID %d не найден", data.PlanID)
			}
			return fmt.Errorf("не удалось получить план %d: %w", data.PlanID, err)
		}
		if plan.Status != db.PlanStatusRASCUNHO && plan.Status != db.PlanStatusEMREVISAO {
			return apierrors.NewValidationError("в план в статусе %s нельзя добавлять заявки", plan.Status)
		}

		if responsible.Valid {
			if _, err := qtx.GetUserByID(ctx, responsible.Int64); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apierrors.NewValidationError("ответственный с ID %d не найден", responsible.Int64)
				}
				return fmt.Errorf("не удалось проверить ответственного: %w", err)
			}
		}

		number, err := qtx.NextDemandProjectNumber(ctx, plan.ID)
		if err != nil {
			return fmt.Errorf("не удалось получить номер проекта: %w", err)
		}

		demand, err = qtx.CreateDemand(ctx, db.CreateDemandParams{
			PlanID:        plan.ID,
			Code:          DemandCode(plan.Year, number),
			ProjectNumber: number,
			Title:         title,
			Description:   util.NullableString(data.Description),
			ResponsibleID: responsible,
			CreatedBy:     sql.NullInt64{Int64: actorID, Valid: actorID != 0},
		})
		if err != nil {
			if apierrors.IsUniqueViolation(err) {
				return apierrors.NewValidationError("заявка с номером %d уже существует в плане", number)
			}
			return fmt.Errorf("не удалось создать заявку: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Warnf("заявка не создана: %v", err)
		return db.Demand{}, err
	}

	logger.Infof("создана заявка %s", demand.Code)
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntityDemand,
		EntityID:   demand.ID,
		New:        demand,
	})
	return demand, nil
}

// GetDemandDetails читает заявку, позиции и счетчики котировок параллельно
func (s *Service) GetDemandDetails(ctx context.Context, demandID int64) (*DemandDetails, error) {
	var (
		demand db.Demand
		items  []db.Item
		counts []db.ListItemPriceCountsRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		demand, err = s.store.GetDemand(gctx, demandID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apierrors.NewNotFoundError("заявка с ID %d не найдена", demandID)
			}
			return fmt.Errorf("не удалось получить заявку: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.store.ListItemsByDemand(gctx, demandID)
		if err != nil {
			return fmt.Errorf("не удалось получить позиции: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = s.store.ListItemPriceCounts(gctx, demandID)
		if err != nil {
			return fmt.Errorf("не удалось посчитать котировки: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	details := &DemandDetails{
		Demand:      demand,
		Items:       items,
		PriceCounts: make(map[int64]int64, len(counts)),
	}
	for _, c := range counts {
		details.PriceCounts[c.ItemID] = c.ActivePrices
	}
	return details, nil
}

// ListDemands - список заявок с фильтром по плану и статусу
func (s *Service) ListDemands(ctx context.Context, filter api_models.DemandFilter) ([]db.Demand, error) {
	params := db.ListDemandsParams{
		PlanID: util.NullableInt64(filter.PlanID),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.Status != nil && *filter.Status != "" {
		status := db.DemandStatus(strings.ToUpper(*filter.Status))
		if !status.Valid() {
			return nil, apierrors.NewValidationError("неизвестный статус заявки: %s", *filter.Status)
		}
		params.Status = db.NullDemandStatus{DemandStatus: status, Valid: true}
	}
	return s.store.ListDemands(ctx, params)
}

// UpdateDemand меняет описательные поля. Статус здесь не меняется.
func (s *Service) UpdateDemand(ctx context.Context, actorID, demandID int64, patch api_models.DemandPatch) (db.Demand, error) {
	title := strings.TrimSpace(patch.Title)
	if title == "" {
		return db.Demand{}, apierrors.NewValidationError("название заявки не может быть пустым")
	}

	var before, after db.Demand
	err := s.store.ExecTx(ctx, func(qtx db.Querier) error {
		var err error
		before, err = getDemandForUpdate(ctx, qtx, demandID)
		if err != nil {
			return err
		}
		if lifecycle.DemandTransitions.IsTerminal(before.Status) {
			return apierrors.NewValidationError("заявка в статусе %s не редактируется", before.Status)
		}

		responsible := before.ResponsibleID
		if patch.ResponsibleID != nil {
			if _, err := qtx.GetUserByID(ctx, *patch.ResponsibleID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apierrors.NewValidationError("ответственный с ID %d не найден", *patch.ResponsibleID)
				}
				return fmt.Errorf("не удалось проверить ответственного: %w", err)
			}
			responsible = util.NullableInt64(patch.ResponsibleID)
		}

		after, err = qtx.UpdateDemandDetails(ctx, db.UpdateDemandDetailsParams{
			ID:            demandID,
			Title:         title,
			Description:   util.NullableString(patch.Description),
			ResponsibleID: responsible,
		})
		if err != nil {
			return fmt.Errorf("не удалось обновить заявку: %w", err)
		}
		return nil
	})
	if err != nil {
		return db.Demand{}, err
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionUpdate,
		EntityType: audit.EntityDemand,
		EntityID:   demandID,
		Previous:   before,
		New:        after,
	})
	return after, nil
}

// DeleteDemand удаляет заявку вместе с позициями и котировками. Только в CADASTRADA.
func (s *Service) DeleteDemand(ctx context.Context, actorID, demandID int64) error {
	var before db.Demand
	err := s.store.ExecTx(ctx, func(qtx db.Querier) error {
		var err error
		before, err = getDemandForUpdate(ctx, qtx, demandID)
		if err != nil {
			return err
		}
		if before.Status != db.DemandStatusCADASTRADA {
			return apierrors.NewValidationError("удалить можно только заявку в статусе CADASTRADA, текущий статус %s", before.Status)
		}
		return qtx.DeleteDemand(ctx, demandID)
	})
	if err != nil {
		return err
	}

	s.logger.WithField("demand_id", demandID).Infof("заявка %s удалена", before.Code)
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionDelete,
		EntityType: audit.EntityDemand,
		EntityID:   demandID,
		Previous:   before,
	})
	return nil
}

func getDemandForUpdate(ctx context.Context, qtx db.Querier, demandID int64) (db.Demand, error) {
	d, err := qtx.GetDemandForUpdate(ctx, demandID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Demand{}, apierrors.NewNotFoundError("заявка с ID %d не найдена", demandID)
		}
		return db.Demand{}, fmt.Errorf("не удалось получить заявку %d: %w", demandID, err)
	}
	return d, nil
}

func getDemand(ctx context.Context, qtx db.Querier, demandID int64) (db.Demand, error) {
	d, err := qtx.GetDemand(ctx, demandID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Demand{}, apierrors.NewNotFoundError("заявка с ID %d не найдена", demandID)
		}
		return db.Demand{}, fmt.Errorf("не удалось получить заявку %d: %w", demandID, err)
	}
	return d, nil
}

// ensureEditable - позиции и котировки меняются только до начала контрактации
func ensureEditable(d db.Demand) error {
	if !lifecycle.EditableDemandStatuses[d.Status] {
		return apierrors.NewValidationError("позиции заявки %s в статусе %s не редактируются", d.Code, d.Status)
	}
	return nil
}
