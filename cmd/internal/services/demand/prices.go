package demand

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
	"github.com/zhukovvlad/procurement-go/cmd/internal/util"
)

func (s *Service) validateQuotation(q api_models.Quotation) (db.CreatePriceParams, error) {
	if !q.UnitValue.IsPositive() {
		return db.CreatePriceParams{}, apierrors.NewValidationError("цена за единицу должна быть больше нуля, получено %s", q.UnitValue)
	}
	collected, err := util.ParseDate(q.CollectedAt)
	if err != nil {
		return db.CreatePriceParams{}, apierrors.NewValidationError("%s", err.Error())
	}
	if collected.After(s.now()) {
		return db.CreatePriceParams{}, apierrors.NewValidationError("дата сбора котировки %s в будущем", q.CollectedAt)
	}
	source := strings.TrimSpace(q.Source)
	if source == "" {
		return db.CreatePriceParams{}, apierrors.NewValidationError("источник котировки не может быть пустым")
	}

	return db.CreatePriceParams{
		SupplierID:  util.NullableInt64(q.SupplierID),
		UnitValue:   q.UnitValue,
		CollectedAt: collected,
		Source:      source,
	}, nil
}

// AddPrice добавляет одну котировку и пересчитывает позицию
func (s *Service) AddPrice(ctx context.Context, actorID, itemID int64, q api_models.Quotation) (db.Price, error) {
	prices, err := s.AddPricesBatch(ctx, actorID, itemID, []api_models.Quotation{q})
	if err != nil {
		return db.Price{}, err
	}
	return prices[0], nil
}

// AddPricesBatch добавляет котировки одной транзакцией: либо все, либо ни одной.
// Пересчет позиции выполняется один раз после вставки.
func (s *Service) AddPricesBatch(ctx context.Context, actorID, itemID int64, quotations []api_models.Quotation) ([]db.Price, error) {
	logger := s.logger.WithFields(logrus.Fields{"method": "AddPricesBatch", "item_id": itemID})

	if len(quotations) == 0 {
		return nil, apierrors.NewValidationError("список котировок пуст")
	}
	params := make([]db.CreatePriceParams, len(quotations))
	for i, q := range quotations {
		p, err := s.validateQuotation(q)
		if err != nil {
			if len(quotations) > 1 {
				return nil, apierrors.NewValidationError("котировка #%d: %s", i+1, err.Error())
			}
			return nil, err
		}
		p.ItemID = itemID
		p.CreatedBy = sql.NullInt64{Int64: actorID, Valid: actorID != 0}
		params[i] = p
	}

	var (
		created    []db.Price
		transition *lifecycle.Transition
	)
	err := s.store.ExecTx(ctx, func(qtx db.Querier) error {
		// блокировки до вставки: позиция, затем заявка
		item, err := getItemForUpdate(ctx, qtx, itemID)
		if err != nil {
			return err
		}
		demand, err := getDemandForUpdate(ctx, qtx, item.DemandID)
		if err != nil {
			return err
		}
		if err := ensureEditable(demand); err != nil {
			return err
		}

		ids := make([]int64, 0, len(params))
		for _, p := range params {
			if p.SupplierID.Valid {
				if _, err := qtx.GetSupplier(ctx, p.SupplierID.Int64); err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						return apierrors.NewValidationError("поставщик с ID %d не найден", p.SupplierID.Int64)
					}
					return fmt.Errorf("не удалось проверить поставщика: %w", err)
				}
			}
			price, err := qtx.CreatePrice(ctx, p)
			if err != nil {
				return fmt.Errorf("не удалось сохранить котировку: %w", err)
			}
			ids = append(ids, price.ID)
		}

		_, transition, err = s.valuation.RecalculateInTx(ctx, qtx, itemID, actorID)
		if err != nil {
			return err
		}

		// перечитываем, чтобы вернуть классификацию после пересчета
		created = make([]db.Price, 0, len(ids))
		for _, id := range ids {
			price, err := qtx.GetPrice(ctx, id)
			if err != nil {
				return fmt.Errorf("не удалось перечитать котировку %d: %w", id, err)
			}
			created = append(created, price)
		}
		return nil
	})
	if err != nil {
		logger.Warnf("котировки не добавлены: %v", err)
		return nil, err
	}

	logger.Infof("добавлено котировок: %d", len(created))
	for _, p := range created {
		s.audit.Record(ctx, audit.Entry{
			ActorID:    actorID,
			Action:     audit.ActionCreate,
			EntityType: audit.EntityPrice,
			EntityID:   p.ID,
			New:        p,
		})
	}
	s.lifecycle.Emit(ctx, transition)
	return created, nil
}

// RemovePrice деактивирует котировку (hard=false) или удаляет ее совсем,
// затем пересчитывает позицию и проверяет, не потеряла ли заявка готовность
func (s *Service) RemovePrice(ctx context.Context, actorID, priceID int64, hard bool) error {
	var (
		before      db.Price
		transitions []*lifecycle.Transition
	)
	err := s.store.ExecTx(ctx, func(qtx db.Querier) error {
		var err error
		before, err = qtx.GetPrice(ctx, priceID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apierrors.NewNotFoundError("котировка с ID %d не найдена", priceID)
			}
			return fmt.Errorf("не удалось получить котировку: %w", err)
		}

		item, err := getItemForUpdate(ctx, qtx, before.ItemID)
		if err != nil {
			return err
		}
		// под блокировкой позиции котировка могла измениться параллельным запросом
		if before, err = qtx.GetPrice(ctx, priceID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apierrors.NewNotFoundError("котировка с ID %d не найдена", priceID)
			}
			return fmt.Errorf("не удалось получить котировку: %w", err)
		}
		demand, err := getDemandForUpdate(ctx, qtx, item.DemandID)
		if err != nil {
			return err
		}
		if err := ensureEditable(demand); err != nil {
			return err
		}

		if hard {
			err = qtx.DeletePrice(ctx, priceID)
		} else {
			if !before.IsActive {
				return apierrors.NewValidationError("котировка %d уже неактивна", priceID)
			}
			_, err = qtx.DeactivatePrice(ctx, priceID)
		}
		if err != nil {
			return fmt.Errorf("не удалось удалить котировку: %w", err)
		}

		_, recalculated, err := s.valuation.RecalculateInTx(ctx, qtx, item.ID, actorID)
		if err != nil {
			return err
		}
		regression, err := s.lifecycle.CheckRegression(ctx, qtx, demand.ID, actorID)
		if err != nil {
			return err
		}
		transitions = append(transitions, recalculated, regression)
		return nil
	})
	if err != nil {
		return err
	}

	action := audit.ActionDeactivate
	if hard {
		action = audit.ActionDelete
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: audit.EntityPrice,
		EntityID:   priceID,
		Previous:   before,
	})
	s.lifecycle.Emit(ctx, transitions...)
	return nil
}

// ListPrices возвращает котировки позиции; неактивные только по запросу
func (s *Service) ListPrices(ctx context.Context, itemID int64, includeInactive bool) ([]db.Price, error) {
	if _, err := getItem(ctx, s.store, itemID); err != nil {
		return nil, err
	}
	if includeInactive {
		return s.store.ListPricesByItem(ctx, itemID)
	}
	return s.store.ListActivePricesByItem(ctx, itemID)
}
