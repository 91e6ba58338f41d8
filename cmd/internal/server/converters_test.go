package server

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/demand"
	"github.com/zhukovvlad/procurement-go/cmd/internal/testutil"
)

func TestNewDemandDetailsResponse(t *testing.T) {
	t.Run("без оценок итог null", func(t *testing.T) {
		resp := newDemandDetailsResponse(&demand.DemandDetails{
			Demand: db.Demand{ID: 1, Status: db.DemandStatusEMANALISE},
			Items:  []db.Item{{ID: 10, Quantity: decimal.NewFromInt(2)}},
		})

		assert.Nil(t, resp.EstimatedTotalValue)
		require.Len(t, resp.Items, 1)
		assert.Nil(t, resp.Items[0].EstimatedUnitValue)
		assert.Equal(t, int64(0), resp.Items[0].ActivePrices)
	})

	t.Run("итог - сумма оцененных позиций", func(t *testing.T) {
		resp := newDemandDetailsResponse(&demand.DemandDetails{
			Demand: db.Demand{ID: 1},
			Items: []db.Item{
				{ID: 10, EstimatedTotalValue: decimal.NewNullDecimal(decimal.RequireFromString("1050.0000"))},
				{ID: 11, EstimatedTotalValue: decimal.NewNullDecimal(decimal.RequireFromString("30.5"))},
				{ID: 12},
			},
			PriceCounts: map[int64]int64{10: 3, 11: 4},
		})

		require.NotNil(t, resp.EstimatedTotalValue)
		testutil.AssertDecimal(t, "1080.5", *resp.EstimatedTotalValue)
		assert.Equal(t, int64(3), resp.Items[0].ActivePrices)
		assert.Equal(t, int64(4), resp.Items[1].ActivePrices)
	})
}

func TestAuditLogResponse_RawJSON(t *testing.T) {
	resp := newAuditLogResponse(db.AuditLog{ID: 1, Action: "create", EntityType: "demand", EntityID: 5})

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"previous_value":null`)
	assert.Contains(t, string(out), `"actor_id":null`)
}

func TestMapSlice_NilToEmpty(t *testing.T) {
	out, err := json.Marshal(mapSlice([]db.Plan(nil), newPlanResponse))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}
