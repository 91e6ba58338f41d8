package supplier

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
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

func TestNormalizeDocument(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "CNPJ с маской", input: "12.345.678/0001-90", expected: "12345678000190"},
		{name: "CPF с маской", input: "123.456.789-09", expected: "12345678909"},
		{name: "только цифры", input: "12345678000190", expected: "12345678000190"},
		{name: "короткий", input: "123", wantErr: true},
		{name: "пустой", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDocument(tt.input)
			if tt.wantErr {
				var vErr *apierrors.ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSupplierCRUD(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	// GIVEN: новый поставщик с маской в документе
	created, err := svc.CreateSupplier(ctx, 0, api_models.SupplierData{
		Name:     " Papelaria Central ",
		Document: "12.345.678/0001-90",
		Email:    strPtr("vendas@central.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Papelaria Central", created.Name)
	assert.Equal(t, "12345678000190", created.Document)
	assert.Equal(t, "vendas@central.com", created.Email.String)
	assert.False(t, created.Phone.Valid)

	// WHEN: тот же документ без маски
	_, err = svc.CreateSupplier(ctx, 0, api_models.SupplierData{Name: "Другой", Document: "12345678000190"})
	var vErr *apierrors.ValidationError
	require.ErrorAs(t, err, &vErr)

	// обновление контактов
	updated, err := svc.UpdateSupplier(ctx, 0, created.ID, api_models.SupplierData{
		Name:  "Papelaria Central Ltda",
		Phone: strPtr("+55 61 3333-0000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Papelaria Central Ltda", updated.Name)
	assert.Equal(t, "+55 61 3333-0000", updated.Phone.String)

	_, err = svc.UpdateSupplier(ctx, 0, created.ID, api_models.SupplierData{Name: "X", Document: "98.765.432/0001-10"})
	require.ErrorAs(t, err, &vErr)

	list, err := svc.ListSuppliers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteSupplier(ctx, 0, created.ID))
	_, err = svc.GetSupplier(ctx, created.ID)
	var nfErr *apierrors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)

	assert.Equal(t,
		[]string{audit.ActionCreate, audit.ActionUpdate, audit.ActionDelete},
		testutil.AuditActions(store.AuditLogs(), audit.EntitySupplier, created.ID))
}

func TestDeleteSupplier_KeepsPrices(t *testing.T) {
	// GIVEN: котировка ссылается на поставщика
	svc, store := setup(t)
	ctx := context.Background()
	seed := testutil.SeedDemand(t, store)
	item := testutil.SeedItem(t, store, seed.Demand.ID, "1")
	sup, err := svc.CreateSupplier(ctx, 0, api_models.SupplierData{Name: "Loja", Document: "123.456.789-09"})
	require.NoError(t, err)
	price, err := store.CreatePrice(ctx, db.CreatePriceParams{
		ItemID:      item.ID,
		SupplierID:  sql.NullInt64{Int64: sup.ID, Valid: true},
		UnitValue:   decimal.NewFromInt(10),
		CollectedAt: time.Now(),
		Source:      "loja",
	})
	require.NoError(t, err)

	// WHEN: поставщик удален
	require.NoError(t, svc.DeleteSupplier(ctx, 0, sup.ID))

	// THEN: котировка осталась без поставщика
	got, err := store.GetPrice(ctx, price.ID)
	require.NoError(t, err)
	assert.False(t, got.SupplierID.Valid)
}

func strPtr(s string) *string { return &s }
