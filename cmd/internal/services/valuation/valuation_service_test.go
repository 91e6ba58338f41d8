package valuation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/lifecycle"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/pricing"
	"github.com/zhukovvlad/procurement-go/cmd/internal/testutil"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

var now = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

// fakeLifecycle запоминает сигналы пересчета
type fakeLifecycle struct {
	checked    []int64
	emitted    []*lifecycle.Transition
	transition *lifecycle.Transition
}

func (f *fakeLifecycle) CheckAutoAdvance(ctx context.Context, q db.Querier, demandID, actorID int64) (*lifecycle.Transition, error) {
	f.checked = append(f.checked, demandID)
	return f.transition, nil
}

func (f *fakeLifecycle) Emit(ctx context.Context, transitions ...*lifecycle.Transition) {
	for _, t := range transitions {
		if t != nil {
			f.emitted = append(f.emitted, t)
		}
	}
}

func newService(t *testing.T) (*Service, *testutil.MemStore, *fakeLifecycle) {
	t.Helper()
	store := testutil.NewMemStore()
	lc := &fakeLifecycle{}
	base, _ := test.NewNullLogger()
	classifier := pricing.NewClassifier(func() time.Time { return now })
	return NewService(store, classifier, lc, logging.NewLogger(logrus.NewEntry(base))), store, lc
}

func prices(values ...string) []db.Price {
	out := make([]db.Price, len(values))
	for i, v := range values {
		out[i] = db.Price{ID: int64(i + 1), UnitValue: decimal.RequireFromString(v), CollectedAt: now}
	}
	return out
}

func TestCompute_ThreeQuotations(t *testing.T) {
	classifier := pricing.NewClassifier(func() time.Time { return now })

	v := Compute(classifier, prices("100", "110", "105"), decimal.NewFromInt(4))

	testutil.AssertDecimal(t, "105", v.Stats.Median)
	testutil.AssertDecimal(t, "105", v.UnitValue)
	testutil.AssertDecimal(t, "420", v.TotalValue)
	require.Len(t, v.Classified, 3)
	for _, c := range v.Classified {
		assert.Equal(t, pricing.Accepted, c.Classification)
	}
}

func TestCompute_ZeroMedianFallsBackToMean(t *testing.T) {
	classifier := pricing.NewClassifier(func() time.Time { return now })

	v := Compute(classifier, prices("0", "0", "3"), decimal.NewFromInt(2))

	assert.True(t, v.Stats.Median.IsZero())
	testutil.AssertDecimal(t, "1", v.UnitValue)
	testutil.AssertDecimal(t, "2", v.TotalValue)
}

func TestCompute_OutliersClassified(t *testing.T) {
	classifier := pricing.NewClassifier(func() time.Time { return now })

	v := Compute(classifier, prices("100", "100", "100", "10", "500"), decimal.NewFromInt(1))

	byID := map[int64]pricing.Classification{}
	for _, c := range v.Classified {
		byID[c.ID] = c.Classification
	}
	assert.Equal(t, pricing.BelowThreshold, byID[4])
	assert.Equal(t, pricing.AboveThreshold, byID[5])
	testutil.AssertDecimal(t, "100", v.UnitValue)
}

func TestRecalculate_ItemNotFound(t *testing.T) {
	svc, _, lc := newService(t)

	_, err := svc.RecalculateItemStatistics(context.Background(), 404, 0)

	var notFound *apierrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, lc.checked)
}

func TestRecalculate_NoActivePricesIsNoop(t *testing.T) {
	// GIVEN: позиция с единственной котировкой, которую деактивировали
	svc, store, lc := newService(t)
	fx := testutil.SeedDemand(t, store)
	item := testutil.SeedItem(t, store, fx.Demand.ID, "2")
	p := testutil.SeedPrice(t, store, item.ID, "50", now)
	_, err := store.DeactivatePrice(context.Background(), p.ID)
	require.NoError(t, err)

	// WHEN
	got, err := svc.RecalculateItemStatistics(context.Background(), item.ID, 0)

	// THEN: позиция не изменена, заявка не проверялась
	require.NoError(t, err)
	assert.False(t, got.EstimatedUnitValue.Valid)
	assert.Empty(t, lc.checked)

	stored, err := store.GetPrice(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, db.PriceClassificationPENDING, stored.Classification)
}

func TestRecalculate_PersistsClassificationAndEstimate(t *testing.T) {
	// GIVEN: три свежие котировки и одна устаревшая
	svc, store, lc := newService(t)
	ctx := context.Background()
	fx := testutil.SeedDemand(t, store)
	item := testutil.SeedItem(t, store, fx.Demand.ID, "3")
	p1 := testutil.SeedPrice(t, store, item.ID, "100", now)
	testutil.SeedPrice(t, store, item.ID, "110", now)
	testutil.SeedPrice(t, store, item.ID, "105", now)
	stale := testutil.SeedPrice(t, store, item.ID, "104", now.AddDate(-2, 0, 0))

	// WHEN
	got, err := svc.RecalculateItemStatistics(ctx, item.ID, fx.Gestor.ID)

	// THEN: медиана по всем активным (100,104,105,110) = 104.5
	require.NoError(t, err)
	testutil.AssertDecimal(t, "104.5", got.EstimatedUnitValue.Decimal)
	testutil.AssertDecimal(t, "313.5", got.EstimatedTotalValue.Decimal)

	first, err := store.GetPrice(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, db.PriceClassificationACCEPTED, first.Classification)
	require.True(t, first.DeviationPct.Valid)
	testutil.AssertDecimal(t, "-4.3062", first.DeviationPct.Decimal)

	old, err := store.GetPrice(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, db.PriceClassificationINVALIDDATE, old.Classification)
	assert.False(t, old.DeviationPct.Valid)

	assert.Equal(t, []int64{fx.Demand.ID}, lc.checked)
}

func TestRecalculate_EmitsTransitionAfterCommit(t *testing.T) {
	svc, store, lc := newService(t)
	fx := testutil.SeedDemand(t, store)
	item := testutil.SeedItem(t, store, fx.Demand.ID, "1")
	testutil.SeedPrice(t, store, item.ID, "10", now)
	lc.transition = &lifecycle.Transition{DemandID: fx.Demand.ID, From: db.DemandStatusEMANALISE, To: db.DemandStatusESTIMADA}

	_, err := svc.RecalculateItemStatistics(context.Background(), item.ID, 0)

	require.NoError(t, err)
	require.Len(t, lc.emitted, 1)
	assert.Equal(t, db.DemandStatusESTIMADA, lc.emitted[0].To)
}

func TestRecalculate_Idempotent(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	fx := testutil.SeedDemand(t, store)
	item := testutil.SeedItem(t, store, fx.Demand.ID, "1")
	for _, v := range []string{"10", "12", "30"} {
		testutil.SeedPrice(t, store, item.ID, v, now)
	}

	_, err := svc.RecalculateItemStatistics(ctx, item.ID, 0)
	require.NoError(t, err)
	before, err := store.ListActivePricesByItem(ctx, item.ID)
	require.NoError(t, err)

	_, err = svc.RecalculateItemStatistics(ctx, item.ID, 0)
	require.NoError(t, err)
	after, err := store.ListActivePricesByItem(ctx, item.ID)
	require.NoError(t, err)

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Classification, after[i].Classification)
		assert.True(t, before[i].DeviationPct.Decimal.Equal(after[i].DeviationPct.Decimal))
	}
}

func TestRecalculate_NoActivePricesRescalesStoredTotal(t *testing.T) {
	// GIVEN: позиция с сохраненной оценкой 20 x 2 = 40, котировок больше нет, количество стало 5
	svc, store, lc := newService(t)
	ctx := context.Background()
	fx := testutil.SeedDemand(t, store)
	item := testutil.SeedItem(t, store, fx.Demand.ID, "2")
	_, err := store.UpdateItemEstimate(ctx, db.UpdateItemEstimateParams{
		ID:                  item.ID,
		EstimatedUnitValue:  decimal.NewNullDecimal(decimal.NewFromInt(20)),
		EstimatedTotalValue: decimal.NewNullDecimal(decimal.NewFromInt(40)),
	})
	require.NoError(t, err)
	_, err = store.UpdateItemDetails(ctx, db.UpdateItemDetailsParams{
		ID: item.ID, Description: item.Description, Unit: item.Unit, Quantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	// WHEN
	got, err := svc.RecalculateItemStatistics(ctx, item.ID, 0)

	// THEN: цена за единицу прежняя, итог соответствует новому количеству
	require.NoError(t, err)
	testutil.AssertDecimal(t, "20", got.EstimatedUnitValue.Decimal)
	testutil.AssertDecimal(t, "100", got.EstimatedTotalValue.Decimal)
	assert.Empty(t, lc.checked)
}
