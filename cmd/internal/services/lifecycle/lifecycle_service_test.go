package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	mock_lifecycle "github.com/zhukovvlad/procurement-go/cmd/internal/services/lifecycle/mocks"
	"github.com/zhukovvlad/procurement-go/cmd/internal/testutil"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

/*
СЦЕНАРИИ ЖИЗНЕННОГО ЦИКЛА ЗАЯВКИ

1. Явный переход по таблице сохраняет статус, пишет аудит и уведомляет ответственного
2. Переход вне таблицы (CONTRATADA -> CADASTRADA) дает InvalidTransition и не меняет статус
3. Отмена требует обоснования и сохраняет обоснование и время
4. CADASTRADA -> EM_ANALISE срабатывает только на первой позиции
5. EM_ANALISE -> ESTIMADA только если позиций >= 1 и у каждой >= 3 активных котировок
6. Заявка без позиций никогда не готова и не ломает проверку
7. ESTIMADA возвращается в EM_ANALISE, если готовность потеряна
*/

type fixture struct {
	svc      *Service
	store    *testutil.MemStore
	audit    *mock_lifecycle.MockAuditRecorder
	notifier *mock_lifecycle.MockNotifier
	seed     testutil.Fixtures
}

var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := testutil.NewMemStore()
	auditMock := mock_lifecycle.NewMockAuditRecorder(ctrl)
	notifierMock := mock_lifecycle.NewMockNotifier(ctrl)
	base, _ := test.NewNullLogger()

	svc := NewService(store, auditMock, notifierMock, MinQuotationsPerItem, logging.NewLogger(logrus.NewEntry(base)))
	svc.now = func() time.Time { return fixedNow }

	return fixture{
		svc:      svc,
		store:    store,
		audit:    auditMock,
		notifier: notifierMock,
		seed:     testutil.SeedDemand(t, store),
	}
}

func (f fixture) expectEffects(from, target db.DemandStatus) {
	f.audit.EXPECT().Record(gomock.Any(), gomock.Cond(func(x any) bool {
		e, ok := x.(audit.Entry)
		return ok && e.Action == audit.ActionStatusChange && e.EntityID == f.seed.Demand.ID
	}))
	f.notifier.EXPECT().NotifyStatusChange(gomock.Any(), f.seed.Demand.ID, from, target)
}

func TestRequestTransition_Allowed(t *testing.T) {
	// GIVEN: заявка в CADASTRADA
	f := setup(t)
	var recorded audit.Entry
	f.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e audit.Entry) { recorded = e })
	f.notifier.EXPECT().NotifyStatusChange(gomock.Any(), f.seed.Demand.ID, db.DemandStatusCADASTRADA, db.DemandStatusEMANALISE)

	// WHEN: пользователь переводит ее в EM_ANALISE
	demand, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
		DemandID: f.seed.Demand.ID,
		Target:   db.DemandStatusEMANALISE,
		ActorID:  f.seed.Gestor.ID,
	})

	// THEN: статус сохранен, аудит содержит оба статуса и автора
	require.NoError(t, err)
	assert.Equal(t, db.DemandStatusEMANALISE, demand.Status)
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMANALISE)
	assert.Equal(t, f.seed.Gestor.ID, recorded.ActorID)
	assert.Equal(t, map[string]any{"status": db.DemandStatusCADASTRADA}, recorded.Previous)
	assert.Equal(t, map[string]any{"status": db.DemandStatusEMANALISE}, recorded.New)
}

func TestRequestTransition_NotInTable(t *testing.T) {
	// GIVEN: заявка в CONTRATADA
	f := setup(t)
	testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusCONTRATADA)

	// WHEN: запрошен возврат в CADASTRADA
	_, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
		DemandID: f.seed.Demand.ID,
		Target:   db.DemandStatusCADASTRADA,
		ActorID:  f.seed.Gestor.ID,
	})

	// THEN: InvalidTransition с обоими статусами, статус прежний, побочных эффектов нет
	var invalid *apierrors.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "CONTRATADA", invalid.Current)
	assert.Equal(t, "CADASTRADA", invalid.Requested)
	assert.Contains(t, err.Error(), "CONTRATADA")
	assert.Contains(t, err.Error(), "CADASTRADA")
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusCONTRATADA)
}

func TestRequestTransition_UnknownDemand(t *testing.T) {
	f := setup(t)

	_, err := f.svc.RequestTransition(context.Background(), TransitionRequest{DemandID: 9999, Target: db.DemandStatusEMANALISE})

	var notFound *apierrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRequestTransition_CancelRequiresJustification(t *testing.T) {
	f := setup(t)

	_, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
		DemandID:      f.seed.Demand.ID,
		Target:        db.DemandStatusCANCELADA,
		Justification: "   ",
	})

	var validation *apierrors.ValidationError
	require.ErrorAs(t, err, &validation)
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusCADASTRADA)
}

func TestRequestTransition_CancelRecordsJustificationAndTime(t *testing.T) {
	f := setup(t)
	f.expectEffects(db.DemandStatusCADASTRADA, db.DemandStatusCANCELADA)

	demand, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
		DemandID:      f.seed.Demand.ID,
		Target:        db.DemandStatusCANCELADA,
		ActorID:       f.seed.Gestor.ID,
		Justification: " Бюджет сокращен ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Бюджет сокращен", demand.CancellationJustification.String)
	assert.True(t, demand.CancelledAt.Valid)
	assert.Equal(t, fixedNow, demand.CancelledAt.Time)
}

func TestRequestTransition_ContractFieldsPersisted(t *testing.T) {
	f := setup(t)
	testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMCONTRATACAO)
	f.expectEffects(db.DemandStatusEMCONTRATACAO, db.DemandStatusCONTRATADA)

	demand, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
		DemandID:        f.seed.Demand.ID,
		Target:          db.DemandStatusCONTRATADA,
		ContractNumber:  "CT-15/2026",
		ContractedValue: decimal.NewNullDecimal(decimal.RequireFromString("1500.50")),
	})

	require.NoError(t, err)
	assert.Equal(t, "CT-15/2026", demand.ContractNumber.String)
	testutil.AssertDecimal(t, "1500.50", demand.ContractedValue.Decimal)
}

func TestRequestTransition_EffectsRunAfterCommit(t *testing.T) {
	// Уведомление видит уже сохраненный статус
	f := setup(t)
	f.audit.EXPECT().Record(gomock.Any(), gomock.Any())
	f.notifier.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, demandID int64, _, _ db.DemandStatus) {
			testutil.AssertDemandStatus(t, f.store, demandID, db.DemandStatusEMANALISE)
		})

	_, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
		DemandID: f.seed.Demand.ID,
		Target:   db.DemandStatusEMANALISE,
	})
	require.NoError(t, err)
}

func TestOnFirstItemAdded_OnlyFirstItem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.expectEffects(db.DemandStatusCADASTRADA, db.DemandStatusEMANALISE)

	// первая позиция
	testutil.SeedItem(t, f.store, f.seed.Demand.ID, "1")
	tr, err := f.svc.OnFirstItemAdded(ctx, f.store, f.seed.Demand.ID, f.seed.Gestor.ID)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.True(t, tr.Automatic)
	f.svc.Emit(ctx, tr)
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMANALISE)

	// вторая позиция: переходов больше нет
	testutil.SeedItem(t, f.store, f.seed.Demand.ID, "2")
	tr, err = f.svc.OnFirstItemAdded(ctx, f.store, f.seed.Demand.ID, f.seed.Gestor.ID)
	require.NoError(t, err)
	assert.Nil(t, tr)
}

func TestOnFirstItemAdded_IgnoresOtherStatuses(t *testing.T) {
	f := setup(t)
	testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMANALISE)
	testutil.SeedItem(t, f.store, f.seed.Demand.ID, "1")

	tr, err := f.svc.OnFirstItemAdded(context.Background(), f.store, f.seed.Demand.ID, 0)

	require.NoError(t, err)
	assert.Nil(t, tr)
}

func TestCheckAutoAdvance_ReadyIffAllItemsPriced(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMANALISE)

	first := testutil.SeedItem(t, f.store, f.seed.Demand.ID, "1")
	second := testutil.SeedItem(t, f.store, f.seed.Demand.ID, "1")
	for _, v := range []string{"100", "110", "105"} {
		testutil.SeedPrice(t, f.store, first.ID, v, fixedNow)
	}
	testutil.SeedPrice(t, f.store, second.ID, "10", fixedNow)
	testutil.SeedPrice(t, f.store, second.ID, "11", fixedNow)

	// у второй позиции только 2 котировки
	tr, err := f.svc.CheckAutoAdvance(ctx, f.store, f.seed.Demand.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, tr)
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMANALISE)

	// третья котировка второй позиции
	third := testutil.SeedPrice(t, f.store, second.ID, "12", fixedNow)
	tr, err = f.svc.CheckAutoAdvance(ctx, f.store, f.seed.Demand.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, db.DemandStatusEMANALISE, tr.From)
	assert.Equal(t, db.DemandStatusESTIMADA, tr.To)
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusESTIMADA)

	// неактивные котировки не считаются
	_, err = f.store.DeactivatePrice(ctx, third.ID)
	require.NoError(t, err)
	ready, err := f.svc.IsReady(ctx, f.store, f.seed.Demand.ID)
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestCheckAutoAdvance_OnlyFromEmAnalise(t *testing.T) {
	f := setup(t)
	item := testutil.SeedItem(t, f.store, f.seed.Demand.ID, "1")
	for _, v := range []string{"1", "2", "3"} {
		testutil.SeedPrice(t, f.store, item.ID, v, fixedNow)
	}

	// заявка еще в CADASTRADA
	tr, err := f.svc.CheckAutoAdvance(context.Background(), f.store, f.seed.Demand.ID, 0)

	require.NoError(t, err)
	assert.Nil(t, tr)
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusCADASTRADA)
}

func TestCheckAutoAdvance_ZeroItemsNeverReady(t *testing.T) {
	f := setup(t)
	testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMANALISE)

	tr, err := f.svc.CheckAutoAdvance(context.Background(), f.store, f.seed.Demand.ID, 0)

	require.NoError(t, err)
	assert.Nil(t, tr)
}

func TestCheckAutoAdvance_ConfiguredThreshold(t *testing.T) {
	f := setup(t)
	f.svc.minQuotations = 1
	testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMANALISE)
	item := testutil.SeedItem(t, f.store, f.seed.Demand.ID, "1")
	testutil.SeedPrice(t, f.store, item.ID, "5", fixedNow)

	tr, err := f.svc.CheckAutoAdvance(context.Background(), f.store, f.seed.Demand.ID, 0)

	require.NoError(t, err)
	assert.NotNil(t, tr)
}

func TestCheckRegression(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusESTIMADA)
	item := testutil.SeedItem(t, f.store, f.seed.Demand.ID, "1")
	for _, v := range []string{"1", "2", "3"} {
		testutil.SeedPrice(t, f.store, item.ID, v, fixedNow)
	}

	// заявка оценена: регрессии нет
	tr, err := f.svc.CheckRegression(ctx, f.store, f.seed.Demand.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, tr)

	// новая позиция без котировок
	testutil.SeedItem(t, f.store, f.seed.Demand.ID, "1")
	tr, err = f.svc.CheckRegression(ctx, f.store, f.seed.Demand.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, db.DemandStatusEMANALISE, tr.To)
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMANALISE)
}

func TestEmit_SkipsNil(t *testing.T) {
	f := setup(t)
	f.expectEffects(db.DemandStatusEMANALISE, db.DemandStatusESTIMADA)

	f.svc.Emit(context.Background(), nil, &Transition{
		DemandID:  f.seed.Demand.ID,
		From:      db.DemandStatusEMANALISE,
		To:        db.DemandStatusESTIMADA,
		Automatic: true,
	}, nil)
}

func TestNewService_DefaultThreshold(t *testing.T) {
	svc := NewService(testutil.NewMemStore(), nil, nil, 0, logging.GetLogger())
	assert.Equal(t, MinQuotationsPerItem, svc.minQuotations)
}

func TestRequestTransition_RequiredSourceStatus(t *testing.T) {
	// GIVEN: заявка в ESTIMADA, а операция возобновления ожидает SUSPENSA
	f := setup(t)
	testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusESTIMADA)

	// WHEN
	_, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
		DemandID: f.seed.Demand.ID,
		From:     db.DemandStatusSUSPENSA,
		Target:   db.DemandStatusEMCONTRATACAO,
	})

	// THEN: переход отклонен, хотя ESTIMADA -> EM_CONTRATACAO есть в таблице
	var invalid *apierrors.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusESTIMADA)
}

func TestRequestTransition_ContractingRequiresData(t *testing.T) {
	// Эффекты не ожидаются: gomock упадет на любом вызове аудита или уведомления
	t.Run("EM_CONTRATACAO без номера процесса", func(t *testing.T) {
		f := setup(t)
		testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusESTIMADA)

		_, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
			DemandID: f.seed.Demand.ID,
			Target:   db.DemandStatusEMCONTRATACAO,
		})

		var vErr *apierrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusESTIMADA)
	})

	t.Run("CONTRATADA без суммы", func(t *testing.T) {
		f := setup(t)
		testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMCONTRATACAO)

		_, err := f.svc.RequestTransition(context.Background(), TransitionRequest{
			DemandID:       f.seed.Demand.ID,
			Target:         db.DemandStatusCONTRATADA,
			ContractNumber: "CT-1",
		})

		var vErr *apierrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		testutil.AssertDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusEMCONTRATACAO)
	})

	t.Run("возобновление использует сохраненный номер процесса", func(t *testing.T) {
		f := setup(t)
		testutil.SetDemandStatus(t, f.store, f.seed.Demand.ID, db.DemandStatusESTIMADA)
		f.expectEffects(db.DemandStatusESTIMADA, db.DemandStatusEMCONTRATACAO)
		f.expectEffects(db.DemandStatusEMCONTRATACAO, db.DemandStatusSUSPENSA)
		f.expectEffects(db.DemandStatusSUSPENSA, db.DemandStatusEMCONTRATACAO)
		ctx := context.Background()

		_, err := f.svc.RequestTransition(ctx, TransitionRequest{
			DemandID: f.seed.Demand.ID, Target: db.DemandStatusEMCONTRATACAO, ProcessNumber: "PE 7/2026",
		})
		require.NoError(t, err)
		_, err = f.svc.RequestTransition(ctx, TransitionRequest{
			DemandID: f.seed.Demand.ID, Target: db.DemandStatusSUSPENSA, Justification: "пауза",
		})
		require.NoError(t, err)

		d, err := f.svc.RequestTransition(ctx, TransitionRequest{
			DemandID: f.seed.Demand.ID, From: db.DemandStatusSUSPENSA, Target: db.DemandStatusEMCONTRATACAO,
		})

		require.NoError(t, err)
		assert.Equal(t, "PE 7/2026", d.ProcessNumber.String)
	})
}
