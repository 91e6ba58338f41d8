package plan

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/testutil"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

func setup(t *testing.T) (*Service, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	base, _ := test.NewNullLogger()
	logger := logging.NewLogger(logrus.NewEntry(base))
	return NewService(store, audit.NewService(store, logger), logger), store
}

func TestCreatePlan(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, 0, api_models.NewPlan{Year: 2027})

	require.NoError(t, err)
	assert.Equal(t, "PCA 2027", plan.Title)
	assert.Equal(t, db.PlanStatusRASCUNHO, plan.Status)
	assert.Equal(t, []string{audit.ActionCreate}, testutil.AuditActions(store.AuditLogs(), audit.EntityPlan, plan.ID))

	// WHEN: второй план на тот же год
	_, err = svc.CreatePlan(ctx, 0, api_models.NewPlan{Year: 2027, Title: "Дубль"})

	// THEN: ошибка валидации, а не 500
	var vErr *apierrors.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.CreatePlan(ctx, 0, api_models.NewPlan{Year: 1999})
	assert.ErrorAs(t, err, &vErr)
}

func TestGetPlan_NotFound(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.GetPlan(context.Background(), 42)

	var nfErr *apierrors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestChangeStatus_FullCycleBumpsVersion(t *testing.T) {
	// GIVEN: новый план версии 1
	svc, _ := setup(t)
	ctx := context.Background()
	plan, err := svc.CreatePlan(ctx, 0, api_models.NewPlan{Year: 2026, Title: "PCA 2026"})
	require.NoError(t, err)
	require.Equal(t, int32(1), plan.Version)

	// WHEN: план проходит утверждение, публикацию и пересмотр
	for _, target := range []string{"EM_APROVACAO", "APROVADO", "publicado", "EM_REVISAO"} {
		plan, err = svc.ChangeStatus(ctx, 0, plan.ID, target)
		require.NoError(t, err, target)
	}

	// THEN: версия увеличена только при входе в EM_REVISAO
	assert.Equal(t, db.PlanStatusEMREVISAO, plan.Status)
	assert.Equal(t, int32(2), plan.Version)

	plan, err = svc.ChangeStatus(ctx, 0, plan.ID, "EM_APROVACAO")
	require.NoError(t, err)
	assert.Equal(t, int32(2), plan.Version)
}

func TestChangeStatus_Rejected(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	plan, err := svc.CreatePlan(ctx, 0, api_models.NewPlan{Year: 2026})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, 0, plan.ID, "PUBLICADO")
	var trErr *apierrors.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, "RASCUNHO", trErr.Current)

	_, err = svc.ChangeStatus(ctx, 0, plan.ID, "ARQUIVADO")
	var vErr *apierrors.ValidationError
	assert.ErrorAs(t, err, &vErr)

	got, err := store.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, db.PlanStatusRASCUNHO, got.Status)
}
