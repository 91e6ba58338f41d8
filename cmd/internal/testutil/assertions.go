package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
)

// AssertJSONEqual сравнивает два JSON объекта независимо от порядка полей
func AssertJSONEqual(t *testing.T, expected, actual string) {
	t.Helper()

	var expectedJSON, actualJSON interface{}

	err := json.Unmarshal([]byte(expected), &expectedJSON)
	require.NoError(t, err, "Invalid expected JSON")

	err = json.Unmarshal([]byte(actual), &actualJSON)
	require.NoError(t, err, "Invalid actual JSON")

	assert.Equal(t, expectedJSON, actualJSON)
}

// AssertErrorContains проверяет, что ошибка содержит определенную подстроку
func AssertErrorContains(t *testing.T, err error, substring string) {
	t.Helper()

	require.Error(t, err, "Expected an error but got nil")
	assert.Contains(t, err.Error(), substring)
}

// AssertDecimal сравнивает decimal по значению, а не по внутреннему представлению
func AssertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()

	exp := decimal.RequireFromString(expected)
	if !exp.Equal(actual) {
		assert.Fail(t, "decimal mismatch: expected "+exp.String()+", got "+actual.String(), msgAndArgs...)
	}
}

// AssertDemandStatus перечитывает заявку и проверяет ее статус
func AssertDemandStatus(t *testing.T, q db.Querier, demandID int64, expected db.DemandStatus) {
	t.Helper()

	d, err := q.GetDemand(context.Background(), demandID)
	require.NoError(t, err)
	assert.Equal(t, expected, d.Status, "unexpected status of demand %d", demandID)
}

// AuditActions возвращает действия журнала для сущности в порядке записи
func AuditActions(logs []db.AuditLog, entityType string, entityID int64) []string {
	actions := []string{}
	for _, l := range logs {
		if l.EntityType == entityType && l.EntityID == entityID {
			actions = append(actions, l.Action)
		}
	}
	return actions
}
