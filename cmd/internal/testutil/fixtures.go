package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
)

const (
	// TestPasswordHash is the bcrypt hash for the password "password"
	// Used in test fixtures for predictable authentication testing
	// Generated with: bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	TestPasswordHash = "$2a$10$j94IoTEXd628/ESukxvscuehNcj11LE80UtkFt3U5FqfNH1dloP.."
	TestPassword     = "password"
)

// CreateTestUser создает тестового пользователя (без записи в хранилище)
func CreateTestUser(email, role string, isActive bool) db.User {
	now := time.Now()
	return db.User{
		ID:           1,
		Email:        email,
		PasswordHash: TestPasswordHash,
		Role:         role,
		IsActive:     isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Fixtures - цепочка план -> заявка, созданная в хранилище
type Fixtures struct {
	Gestor db.User
	Plan   db.Plan
	Demand db.Demand
}

// SeedDemand создает пользователя-менеджера, план и заявку в статусе CADASTRADA
func SeedDemand(t *testing.T, q db.Querier) Fixtures {
	t.Helper()
	ctx := context.Background()

	gestor, err := q.CreateUser(ctx, db.CreateUserParams{
		Email:        fmt.Sprintf("gestor-%d@test.com", time.Now().UnixNano()),
		PasswordHash: TestPasswordHash,
		Role:         "gestor",
		IsActive:     true,
	})
	require.NoError(t, err)

	plan, err := q.CreatePlan(ctx, db.CreatePlanParams{
		Year:      2026,
		Title:     "PCA 2026",
		CreatedBy: sql.NullInt64{Int64: gestor.ID, Valid: true},
	})
	require.NoError(t, err)

	demand, err := q.CreateDemand(ctx, db.CreateDemandParams{
		PlanID:        plan.ID,
		Code:          "DEM-2026-0001",
		ProjectNumber: 1,
		Title:         "Материалы для офиса",
		ResponsibleID: sql.NullInt64{Int64: gestor.ID, Valid: true},
		CreatedBy:     sql.NullInt64{Int64: gestor.ID, Valid: true},
	})
	require.NoError(t, err)

	return Fixtures{Gestor: gestor, Plan: plan, Demand: demand}
}

// SeedItem создает позицию заявки с кодом из item_seq
func SeedItem(t *testing.T, q db.Querier, demandID int64, quantity string) db.Item {
	t.Helper()
	ctx := context.Background()

	code, err := q.IncrementDemandItemSeq(ctx, demandID)
	require.NoError(t, err)

	item, err := q.CreateItem(ctx, db.CreateItemParams{
		DemandID:    demandID,
		Code:        code,
		Description: fmt.Sprintf("Позиция %d", code),
		Unit:        "UN",
		Quantity:    decimal.RequireFromString(quantity),
	})
	require.NoError(t, err)
	return item
}

// SeedPrice создает активную котировку без пересчета
func SeedPrice(t *testing.T, q db.Querier, itemID int64, value string, collectedAt time.Time) db.Price {
	t.Helper()

	price, err := q.CreatePrice(context.Background(), db.CreatePriceParams{
		ItemID:      itemID,
		UnitValue:   decimal.RequireFromString(value),
		CollectedAt: collectedAt,
		Source:      "site",
	})
	require.NoError(t, err)
	return price
}

// SetDemandStatus переводит заявку в статус в обход таблицы переходов
func SetDemandStatus(t *testing.T, q db.Querier, demandID int64, status db.DemandStatus) db.Demand {
	t.Helper()

	d, err := q.UpdateDemandStatus(context.Background(), db.UpdateDemandStatusParams{ID: demandID, Status: status})
	require.NoError(t, err)
	return d
}

// CompareTestPassword compares a password with a bcrypt hash
// Returns nil if password matches the hash
func CompareTestPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
