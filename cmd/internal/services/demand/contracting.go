package demand

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/lifecycle"
)

// ChangeStatus - явный переход по таблице без дополнительных данных.
// Контрактация идет только через StartContracting/Resume/FinalizeContract.
func (s *Service) ChangeStatus(ctx context.Context, actorID, demandID int64, target, justification string) (db.Demand, error) {
	status := db.DemandStatus(strings.ToUpper(strings.TrimSpace(target)))
	if !status.Valid() {
		return db.Demand{}, apierrors.NewValidationError("неизвестный статус заявки: %s", target)
	}
	switch status {
	case db.DemandStatusEMCONTRATACAO:
		return db.Demand{}, apierrors.NewValidationError("переход в %s выполняется через start-contracting или resume", status)
	case db.DemandStatusCONTRATADA:
		return db.Demand{}, apierrors.NewValidationError("переход в %s выполняется через finalize-contract", status)
	}
	return s.lifecycle.RequestTransition(ctx, lifecycle.TransitionRequest{
		DemandID:      demandID,
		Target:        status,
		ActorID:       actorID,
		Justification: justification,
	})
}

// StartContracting: ESTIMADA -> EM_CONTRATACAO с номером процесса закупки
func (s *Service) StartContracting(ctx context.Context, actorID, demandID int64, processNumber string) (db.Demand, error) {
	processNumber = strings.TrimSpace(processNumber)
	if processNumber == "" {
		return db.Demand{}, apierrors.NewValidationError("номер процесса закупки обязателен")
	}
	return s.lifecycle.RequestTransition(ctx, lifecycle.TransitionRequest{
		DemandID:      demandID,
		From:          db.DemandStatusESTIMADA,
		Target:        db.DemandStatusEMCONTRATACAO,
		ActorID:       actorID,
		ProcessNumber: processNumber,
	})
}

// FinalizeContract: EM_CONTRATACAO -> CONTRATADA с номером и суммой контракта
func (s *Service) FinalizeContract(ctx context.Context, actorID, demandID int64, data api_models.ContractData) (db.Demand, error) {
	number := strings.TrimSpace(data.ContractNumber)
	if number == "" {
		return db.Demand{}, apierrors.NewValidationError("номер контракта обязателен")
	}
	if !data.ContractedValue.IsPositive() {
		return db.Demand{}, apierrors.NewValidationError("сумма контракта должна быть больше нуля")
	}
	return s.lifecycle.RequestTransition(ctx, lifecycle.TransitionRequest{
		DemandID:        demandID,
		Target:          db.DemandStatusCONTRATADA,
		ActorID:         actorID,
		ContractNumber:  number,
		ContractedValue: decimal.NewNullDecimal(data.ContractedValue.Round(2)),
	})
}

// Suspend: EM_CONTRATACAO -> SUSPENSA
func (s *Service) Suspend(ctx context.Context, actorID, demandID int64, justification string) (db.Demand, error) {
	return s.lifecycle.RequestTransition(ctx, lifecycle.TransitionRequest{
		DemandID:      demandID,
		Target:        db.DemandStatusSUSPENSA,
		ActorID:       actorID,
		Justification: justification,
	})
}

// Resume: SUSPENSA -> EM_CONTRATACAO
func (s *Service) Resume(ctx context.Context, actorID, demandID int64) (db.Demand, error) {
	return s.lifecycle.RequestTransition(ctx, lifecycle.TransitionRequest{
		DemandID: demandID,
		From:     db.DemandStatusSUSPENSA,
		Target:   db.DemandStatusEMCONTRATACAO,
		ActorID:  actorID,
	})
}

// Cancel отменяет заявку; обоснование обязательно
func (s *Service) Cancel(ctx context.Context, actorID, demandID int64, justification string) (db.Demand, error) {
	return s.lifecycle.RequestTransition(ctx, lifecycle.TransitionRequest{
		DemandID:      demandID,
		Target:        db.DemandStatusCANCELADA,
		ActorID:       actorID,
		Justification: justification,
	})
}
