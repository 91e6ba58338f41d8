// Package valuation пересчитывает оценку позиции по ее активным котировкам.
// Пересчет разбит на шаги: Compute (чистый расчет), persist (запись), signal (проверка заявки).
package valuation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/lifecycle"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/pricing"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

// DemandLifecycle - часть жизненного цикла заявки, нужная пересчету
type DemandLifecycle interface {
	CheckAutoAdvance(ctx context.Context, q db.Querier, demandID, actorID int64) (*lifecycle.Transition, error)
	Emit(ctx context.Context, transitions ...*lifecycle.Transition)
}

// Valuation - результат расчета по позиции
type Valuation struct {
	Stats      pricing.Stats
	Classified []pricing.Classified
	UnitValue  decimal.Decimal
	TotalValue decimal.Decimal
}

// Compute считает статистику, классифицирует котировки относительно медианы
// и оценку позиции. Цена за единицу - медиана, при нулевой медиане - среднее.
func Compute(classifier *pricing.Classifier, prices []db.Price, quantity decimal.Decimal) Valuation {
	values := make([]decimal.Decimal, len(prices))
	observations := make([]pricing.Observation, len(prices))
	for i, p := range prices {
		values[i] = p.UnitValue
		observations[i] = pricing.Observation{ID: p.ID, Value: p.UnitValue, CollectedAt: p.CollectedAt}
	}

	stats := pricing.ComputeStatistics(values)
	unit := stats.Median
	if unit.IsZero() {
		unit = stats.Mean
	}
	unit = unit.Round(4)

	return Valuation{
		Stats:      stats,
		Classified: classifier.Classify(observations, stats.Median),
		UnitValue:  unit,
		TotalValue: unit.Mul(quantity).Round(4),
	}
}

type Service struct {
	store      db.Store
	classifier *pricing.Classifier
	lifecycle  DemandLifecycle
	logger     *logging.Logger
}

func NewService(store db.Store, classifier *pricing.Classifier, lc DemandLifecycle, logger *logging.Logger) *Service {
	return &Service{
		store:      store,
		classifier: classifier,
		lifecycle:  lc,
		logger:     logger,
	}
}

// RecalculateItemStatistics пересчитывает позицию в отдельной транзакции
// и после фиксации выполняет побочные эффекты автоматического перехода заявки.
func (s *Service) RecalculateItemStatistics(ctx context.Context, itemID, actorID int64) (db.Item, error) {
	var (
		item       db.Item
		transition *lifecycle.Transition
	)

	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		var err error
		item, transition, err = s.RecalculateInTx(ctx, q, itemID, actorID)
		return err
	})
	if err != nil {
		return db.Item{}, err
	}

	s.lifecycle.Emit(ctx, transition)
	return item, nil
}

// RecalculateInTx пересчитывает позицию внутри транзакции q.
// Строка позиции блокируется, поэтому пересчеты одной позиции идут последовательно.
// У позиции без активных котировок статистика не пересчитывается, но итог
// приводится к сохраненной цене за единицу и текущему количеству.
func (s *Service) RecalculateInTx(ctx context.Context, q db.Querier, itemID, actorID int64) (db.Item, *lifecycle.Transition, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"method":  "RecalculateInTx",
		"item_id": itemID,
	})

	item, err := q.GetItemForUpdate(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Item{}, nil, apierrors.NewNotFoundError("позиция с ID %d не найдена", itemID)
		}
		return db.Item{}, nil, fmt.Errorf("не удалось получить позицию %d: %w", itemID, err)
	}

	prices, err := q.ListActivePricesByItem(ctx, itemID)
	if err != nil {
		return db.Item{}, nil, fmt.Errorf("не удалось получить котировки позиции %d: %w", itemID, err)
	}
	if len(prices) == 0 {
		return s.rescaleStoredEstimate(ctx, q, item, logger)
	}

	v := Compute(s.classifier, prices, item.Quantity)

	updated, err := s.persist(ctx, q, item.ID, v)
	if err != nil {
		return db.Item{}, nil, err
	}
	logger.Debugf("оценка позиции: медиана %s, цена %s, всего %s", v.Stats.Median, v.UnitValue, v.TotalValue)

	transition, err := s.signal(ctx, q, item.DemandID, actorID)
	if err != nil {
		return db.Item{}, nil, err
	}
	return updated, transition, nil
}

// rescaleStoredEstimate держит total = unit * quantity, когда котировок нет
func (s *Service) rescaleStoredEstimate(ctx context.Context, q db.Querier, item db.Item, logger *logrus.Entry) (db.Item, *lifecycle.Transition, error) {
	if !item.EstimatedUnitValue.Valid {
		logger.Debug("нет активных котировок, пересчет пропущен")
		return item, nil, nil
	}
	total := item.EstimatedUnitValue.Decimal.Mul(item.Quantity).Round(4)
	if item.EstimatedTotalValue.Valid && item.EstimatedTotalValue.Decimal.Equal(total) {
		return item, nil, nil
	}

	updated, err := q.UpdateItemEstimate(ctx, db.UpdateItemEstimateParams{
		ID:                  item.ID,
		EstimatedUnitValue:  item.EstimatedUnitValue,
		EstimatedTotalValue: decimal.NewNullDecimal(total),
	})
	if err != nil {
		return db.Item{}, nil, fmt.Errorf("не удалось сохранить оценку позиции %d: %w", item.ID, err)
	}
	logger.Debugf("нет активных котировок, итог пересчитан по сохраненной цене: %s", total)
	return updated, nil, nil
}

func (s *Service) persist(ctx context.Context, q db.Querier, itemID int64, v Valuation) (db.Item, error) {
	for _, c := range v.Classified {
		params := db.UpdatePriceClassificationParams{
			ID:             c.ID,
			Classification: db.PriceClassification(c.Classification),
		}
		if c.Deviation != nil {
			params.DeviationPct = decimal.NewNullDecimal(*c.Deviation)
		}
		if err := q.UpdatePriceClassification(ctx, params); err != nil {
			return db.Item{}, fmt.Errorf("не удалось сохранить классификацию котировки %d: %w", c.ID, err)
		}
	}

	item, err := q.UpdateItemEstimate(ctx, db.UpdateItemEstimateParams{
		ID:                  itemID,
		EstimatedUnitValue:  decimal.NewNullDecimal(v.UnitValue),
		EstimatedTotalValue: decimal.NewNullDecimal(v.TotalValue),
	})
	if err != nil {
		return db.Item{}, fmt.Errorf("не удалось сохранить оценку позиции %d: %w", itemID, err)
	}
	return item, nil
}

func (s *Service) signal(ctx context.Context, q db.Querier, demandID, actorID int64) (*lifecycle.Transition, error) {
	return s.lifecycle.CheckAutoAdvance(ctx, q, demandID, actorID)
}
