// Package lifecycle управляет статусами заявки: явные переходы по запросу
// пользователя и автоматические после изменения позиций и котировок.
package lifecycle

//go:generate mockgen -source=lifecycle_service.go -destination=mocks/mock_lifecycle.go -package=mock_lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

// MinQuotationsPerItem - сколько активных котировок нужно каждой позиции,
// чтобы заявка перешла в ESTIMADA
const MinQuotationsPerItem = 3

// Notifier доставляет уведомление о смене статуса. Не возвращает ошибок.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, demandID int64, previous, next db.DemandStatus)
}

// AuditRecorder пишет журнал аудита. Не возвращает ошибок.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Transition - состоявшийся переход, побочные эффекты которого еще не выполнены
type Transition struct {
	DemandID      int64
	From          db.DemandStatus
	To            db.DemandStatus
	ActorID       int64
	Justification string
	Automatic     bool
}

// TransitionRequest - запрос пользователя на смену статуса.
// Поля контракта заполняются только для соответствующих переходов.
// Если From задан, заявка должна находиться именно в нем.
type TransitionRequest struct {
	DemandID        int64
	From            db.DemandStatus
	Target          db.DemandStatus
	ActorID         int64
	Justification   string
	ProcessNumber   string
	ContractNumber  string
	ContractedValue decimal.NullDecimal
}

type Service struct {
	store         db.Store
	audit         AuditRecorder
	notifier      Notifier
	minQuotations int
	logger        *logging.Logger
	now           func() time.Time
}

func NewService(store db.Store, auditRecorder AuditRecorder, notifier Notifier, minQuotations int, logger *logging.Logger) *Service {
	if minQuotations <= 0 {
		minQuotations = MinQuotationsPerItem
	}
	return &Service{
		store:         store,
		audit:         auditRecorder,
		notifier:      notifier,
		minQuotations: minQuotations,
		logger:        logger,
		now:           time.Now,
	}
}

// RequestTransition выполняет явный переход в собственной транзакции,
// после фиксации пишет аудит и отправляет уведомление.
func (s *Service) RequestTransition(ctx context.Context, req TransitionRequest) (db.Demand, error) {
	var (
		demand     db.Demand
		transition *Transition
	)

	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		var err error
		demand, transition, err = s.Apply(ctx, q, req)
		return err
	})
	if err != nil {
		return db.Demand{}, err
	}

	s.Emit(ctx, transition)
	return demand, nil
}

// Apply проверяет переход по таблице и сохраняет новый статус внутри транзакции q.
// Побочные эффекты не выполняются: их нужно передать в Emit после фиксации.
func (s *Service) Apply(ctx context.Context, q db.Querier, req TransitionRequest) (db.Demand, *Transition, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"method":    "Apply",
		"demand_id": req.DemandID,
		"target":    req.Target,
	})

	current, err := q.GetDemandForUpdate(ctx, req.DemandID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Demand{}, nil, apierrors.NewNotFoundError("заявка с ID %d не найдена", req.DemandID)
		}
		return db.Demand{}, nil, fmt.Errorf("не удалось получить заявку %d: %w", req.DemandID, err)
	}

	if (req.From != "" && current.Status != req.From) || !DemandTransitions.Allows(current.Status, req.Target) {
		logger.Warnf("отклонен переход %s -> %s", current.Status, req.Target)
		return db.Demand{}, nil, apierrors.NewInvalidTransitionError(string(current.Status), string(req.Target))
	}

	if err := requireContractData(current, req); err != nil {
		logger.Warnf("переход %s -> %s без данных контрактации: %v", current.Status, req.Target, err)
		return db.Demand{}, nil, err
	}

	justification := strings.TrimSpace(req.Justification)
	params := db.UpdateDemandStatusParams{
		ID:     current.ID,
		Status: req.Target,
	}
	if req.ProcessNumber != "" {
		params.ProcessNumber = sql.NullString{String: req.ProcessNumber, Valid: true}
	}
	if req.ContractNumber != "" {
		params.ContractNumber = sql.NullString{String: req.ContractNumber, Valid: true}
	}
	params.ContractedValue = req.ContractedValue

	if req.Target == db.DemandStatusCANCELADA {
		if justification == "" {
			return db.Demand{}, nil, apierrors.NewValidationError("для отмены заявки требуется обоснование")
		}
		params.CancellationJustification = sql.NullString{String: justification, Valid: true}
		params.CancelledAt = sql.NullTime{Time: s.now(), Valid: true}
	}

	updated, err := q.UpdateDemandStatus(ctx, params)
	if err != nil {
		return db.Demand{}, nil, fmt.Errorf("не удалось обновить статус заявки %d: %w", req.DemandID, err)
	}

	logger.Infof("заявка переведена %s -> %s", current.Status, updated.Status)
	return updated, &Transition{
		DemandID:      updated.ID,
		From:          current.Status,
		To:            updated.Status,
		ActorID:       req.ActorID,
		Justification: justification,
	}, nil
}

// requireContractData: в EM_CONTRATACAO нельзя попасть без номера процесса,
// в CONTRATADA без номера и суммы контракта
func requireContractData(current db.Demand, req TransitionRequest) error {
	switch req.Target {
	case db.DemandStatusEMCONTRATACAO:
		if req.ProcessNumber == "" && !current.ProcessNumber.Valid {
			return apierrors.NewValidationError("для перехода в %s требуется номер процесса закупки", req.Target)
		}
	case db.DemandStatusCONTRATADA:
		if req.ContractNumber == "" || !req.ContractedValue.Valid {
			return apierrors.NewValidationError("для перехода в %s требуются номер и сумма контракта", req.Target)
		}
	}
	return nil
}

// CheckAutoAdvance переводит заявку EM_ANALISE -> ESTIMADA, если у нее есть позиции
// и у каждой не меньше minQuotations активных котировок. Вызывается внутри транзакции.
func (s *Service) CheckAutoAdvance(ctx context.Context, q db.Querier, demandID, actorID int64) (*Transition, error) {
	demand, err := q.GetDemandForUpdate(ctx, demandID)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить заявку %d: %w", demandID, err)
	}
	if demand.Status != db.DemandStatusEMANALISE {
		return nil, nil
	}

	ready, err := s.IsReady(ctx, q, demandID)
	if err != nil || !ready {
		return nil, err
	}

	return s.advance(ctx, q, demand, db.DemandStatusESTIMADA, actorID, "все позиции имеют достаточное число котировок")
}

// CheckRegression возвращает ESTIMADA -> EM_ANALISE, если заявка перестала быть оцененной
// (новая позиция без котировок или удаленная котировка)
func (s *Service) CheckRegression(ctx context.Context, q db.Querier, demandID, actorID int64) (*Transition, error) {
	demand, err := q.GetDemandForUpdate(ctx, demandID)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить заявку %d: %w", demandID, err)
	}
	if demand.Status != db.DemandStatusESTIMADA {
		return nil, nil
	}

	ready, err := s.IsReady(ctx, q, demandID)
	if err != nil || ready {
		return nil, err
	}

	return s.advance(ctx, q, demand, db.DemandStatusEMANALISE, actorID, "недостаточно котировок после изменения позиций")
}

// OnFirstItemAdded переводит CADASTRADA -> EM_ANALISE, когда у заявки ровно одна позиция
func (s *Service) OnFirstItemAdded(ctx context.Context, q db.Querier, demandID, actorID int64) (*Transition, error) {
	count, err := q.CountItemsByDemand(ctx, demandID)
	if err != nil {
		return nil, fmt.Errorf("не удалось посчитать позиции заявки %d: %w", demandID, err)
	}
	if count != 1 {
		return nil, nil
	}

	demand, err := q.GetDemandForUpdate(ctx, demandID)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить заявку %d: %w", demandID, err)
	}
	if demand.Status != db.DemandStatusCADASTRADA {
		return nil, nil
	}

	return s.advance(ctx, q, demand, db.DemandStatusEMANALISE, actorID, "добавлена первая позиция")
}

// IsReady - у заявки есть позиции и у каждой достаточно активных котировок
func (s *Service) IsReady(ctx context.Context, q db.Querier, demandID int64) (bool, error) {
	counts, err := q.ListItemPriceCounts(ctx, demandID)
	if err != nil {
		return false, fmt.Errorf("не удалось посчитать котировки заявки %d: %w", demandID, err)
	}
	if len(counts) == 0 {
		return false, nil
	}
	for _, c := range counts {
		if c.ActivePrices < int64(s.minQuotations) {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) advance(ctx context.Context, q db.Querier, demand db.Demand, target db.DemandStatus, actorID int64, reason string) (*Transition, error) {
	updated, err := q.UpdateDemandStatus(ctx, db.UpdateDemandStatusParams{ID: demand.ID, Status: target})
	if err != nil {
		return nil, fmt.Errorf("не удалось обновить статус заявки %d: %w", demand.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"method":    "advance",
		"demand_id": demand.ID,
	}).Infof("автоматический переход %s -> %s", demand.Status, updated.Status)

	return &Transition{
		DemandID:      demand.ID,
		From:          demand.Status,
		To:            updated.Status,
		ActorID:       actorID,
		Justification: reason,
		Automatic:     true,
	}, nil
}

// Emit выполняет побочные эффекты переходов: аудит и уведомление ответственному.
// nil-переходы пропускаются. Вызывать после фиксации транзакции.
func (s *Service) Emit(ctx context.Context, transitions ...*Transition) {
	for _, t := range transitions {
		if t == nil {
			continue
		}

		description := t.Justification
		if t.Automatic {
			description = "автоматический переход: " + t.Justification
		}

		s.audit.Record(ctx, audit.Entry{
			ActorID:     t.ActorID,
			Action:      audit.ActionStatusChange,
			EntityType:  audit.EntityDemand,
			EntityID:    t.DemandID,
			Previous:    map[string]any{"status": t.From},
			New:         map[string]any{"status": t.To},
			Description: description,
		})
		s.notifier.NotifyStatusChange(ctx, t.DemandID, t.From, t.To)
	}
}
