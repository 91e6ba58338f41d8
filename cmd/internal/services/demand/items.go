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
)

func validateItem(data api_models.ItemData) (api_models.ItemData, error) {
	data.Description = strings.TrimSpace(data.Description)
	data.Unit = strings.ToUpper(strings.TrimSpace(data.Unit))
	if data.Description == "" {
		return data, apierrors.NewValidationError("описание позиции не может быть пустым")
	}
	if data.Unit == "" {
		return data, apierrors.NewValidationError("единица измерения не может быть пустой")
	}
	if !data.Quantity.IsPositive() {
		return data, apierrors.NewValidationError("количество должно быть больше нуля, получено %s", data.Quantity)
	}
	return data, nil
}

// AddItem добавляет позицию. Код берется из счетчика заявки и не переиспользуется.
// Первая позиция переводит заявку в EM_ANALISE, новая позиция без котировок
// возвращает оцененную заявку в EM_ANALISE.
func (s *Service) AddItem(ctx context.Context, actorID, demandID int64, data api_models.ItemData) (db.Item, error) {
	logger := s.logger.WithFields(logrus.Fields{"method": "AddItem", "demand_id": demandID})

	data, err := validateItem(data)
	if err != nil {
		return db.Item{}, err
	}

	var (
		item        db.Item
		transitions []*lifecycle.Transition
	)
	err = s.store.ExecTx(ctx, func(qtx db.Querier) error {
		demand, err := getDemandForUpdate(ctx, qtx, demandID)
		if err != nil {
			return err
		}
		if err := ensureEditable(demand); err != nil {
			return err
		}

		code, err := qtx.IncrementDemandItemSeq(ctx, demandID)
		if err != nil {
			return fmt.Errorf("не удалось получить код позиции: %w", err)
		}

		item, err = qtx.CreateItem(ctx, db.CreateItemParams{
			DemandID:    demandID,
			Code:        code,
			Description: data.Description,
			Unit:        data.Unit,
			Quantity:    data.Quantity,
		})
		if err != nil {
			return fmt.Errorf("не удалось создать позицию: %w", err)
		}

		first, err := s.lifecycle.OnFirstItemAdded(ctx, qtx, demandID, actorID)
		if err != nil {
			return err
		}
		regression, err := s.lifecycle.CheckRegression(ctx, qtx, demandID, actorID)
		if err != nil {
			return err
		}
		transitions = append(transitions, first, regression)
		return nil
	})
	if err != nil {
		logger.Warnf("позиция не добавлена: %v", err)
		return db.Item{}, err
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntityItem,
		EntityID:   item.ID,
		New:        item,
	})
	s.lifecycle.Emit(ctx, transitions...)
	return item, nil
}

// UpdateItem меняет описание, единицу и количество. При смене количества
// оценка пересчитывается.
func (s *Service) UpdateItem(ctx context.Context, actorID, itemID int64, data api_models.ItemData) (db.Item, error) {
	data, err := validateItem(data)
	if err != nil {
		return db.Item{}, err
	}

	var (
		before, after db.Item
		transition    *lifecycle.Transition
	)
	err = s.store.ExecTx(ctx, func(qtx db.Querier) error {
		var err error
		before, err = getItemForUpdate(ctx, qtx, itemID)
		if err != nil {
			return err
		}
		demand, err := getDemand(ctx, qtx, before.DemandID)
		if err != nil {
			return err
		}
		if err := ensureEditable(demand); err != nil {
			return err
		}

		after, err = qtx.UpdateItemDetails(ctx, db.UpdateItemDetailsParams{
			ID:          itemID,
			Description: data.Description,
			Unit:        data.Unit,
			Quantity:    data.Quantity,
		})
		if err != nil {
			return fmt.Errorf("не удалось обновить позицию: %w", err)
		}

		if !before.Quantity.Equal(after.Quantity) {
			after, transition, err = s.valuation.RecalculateInTx(ctx, qtx, itemID, actorID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return db.Item{}, err
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionUpdate,
		EntityType: audit.EntityItem,
		EntityID:   itemID,
		Previous:   before,
		New:        after,
	})
	s.lifecycle.Emit(ctx, transition)
	return after, nil
}

// DeleteItem удаляет позицию с котировками и заново проверяет готовность заявки
func (s *Service) DeleteItem(ctx context.Context, actorID, itemID int64) error {
	var (
		before      db.Item
		transitions []*lifecycle.Transition
	)
	err := s.store.ExecTx(ctx, func(qtx db.Querier) error {
		var err error
		before, err = getItemForUpdate(ctx, qtx, itemID)
		if err != nil {
			return err
		}
		demand, err := getDemand(ctx, qtx, before.DemandID)
		if err != nil {
			return err
		}
		if err := ensureEditable(demand); err != nil {
			return err
		}

		if err := qtx.DeleteItem(ctx, itemID); err != nil {
			return fmt.Errorf("не удалось удалить позицию: %w", err)
		}

		advance, err := s.lifecycle.CheckAutoAdvance(ctx, qtx, demand.ID, actorID)
		if err != nil {
			return err
		}
		regression, err := s.lifecycle.CheckRegression(ctx, qtx, demand.ID, actorID)
		if err != nil {
			return err
		}
		transitions = append(transitions, advance, regression)
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionDelete,
		EntityType: audit.EntityItem,
		EntityID:   itemID,
		Previous:   before,
	})
	s.lifecycle.Emit(ctx, transitions...)
	return nil
}

// GetItem возвращает позицию по ID
func (s *Service) GetItem(ctx context.Context, itemID int64) (db.Item, error) {
	return getItem(ctx, s.store, itemID)
}

func getItem(ctx context.Context, qtx db.Querier, itemID int64) (db.Item, error) {
	item, err := qtx.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Item{}, apierrors.NewNotFoundError("позиция с ID %d не найдена", itemID)
		}
		return db.Item{}, fmt.Errorf("не удалось получить позицию %d: %w", itemID, err)
	}
	return item, nil
}

func getItemForUpdate(ctx context.Context, qtx db.Querier, itemID int64) (db.Item, error) {
	item, err := qtx.GetItemForUpdate(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Item{}, apierrors.NewNotFoundError("позиция с ID %d не найдена", itemID)
		}
		return db.Item{}, fmt.Errorf("не удалось получить позицию %d: %w", itemID, err)
	}
	return item, nil
}
