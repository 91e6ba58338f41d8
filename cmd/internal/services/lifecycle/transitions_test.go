package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
)

func TestDemandTransitions_Table(t *testing.T) {
	allowed := map[db.DemandStatus][]db.DemandStatus{
		db.DemandStatusCADASTRADA:    {db.DemandStatusEMANALISE, db.DemandStatusCANCELADA},
		db.DemandStatusEMANALISE:     {db.DemandStatusESTIMADA, db.DemandStatusCADASTRADA, db.DemandStatusCANCELADA},
		db.DemandStatusESTIMADA:      {db.DemandStatusEMCONTRATACAO, db.DemandStatusEMANALISE, db.DemandStatusCANCELADA},
		db.DemandStatusEMCONTRATACAO: {db.DemandStatusCONTRATADA, db.DemandStatusSUSPENSA, db.DemandStatusCANCELADA},
		db.DemandStatusCONTRATADA:    {},
		db.DemandStatusSUSPENSA:      {db.DemandStatusEMCONTRATACAO, db.DemandStatusCANCELADA},
		db.DemandStatusCANCELADA:     {},
	}

	// Перебираем все пары статусов: таблица должна совпадать ровно
	for _, from := range db.AllDemandStatusValues() {
		for _, target := range db.AllDemandStatusValues() {
			expected := false
			for _, a := range allowed[from] {
				if a == target {
					expected = true
				}
			}
			assert.Equal(t, expected, DemandTransitions.Allows(from, target), "%s -> %s", from, target)
		}
	}
}

func TestDemandTransitions_Terminal(t *testing.T) {
	assert.True(t, DemandTransitions.IsTerminal(db.DemandStatusCONTRATADA))
	assert.True(t, DemandTransitions.IsTerminal(db.DemandStatusCANCELADA))
	assert.False(t, DemandTransitions.IsTerminal(db.DemandStatusSUSPENSA))
	assert.Empty(t, DemandTransitions.Targets(db.DemandStatusCONTRATADA))
}

func TestDemandTransitions_TargetsSorted(t *testing.T) {
	assert.Equal(t,
		[]db.DemandStatus{db.DemandStatusCANCELADA, db.DemandStatusEMANALISE},
		DemandTransitions.Targets(db.DemandStatusCADASTRADA))
}

func TestPlanTransitions_Table(t *testing.T) {
	assert.True(t, PlanTransitions.Allows(db.PlanStatusRASCUNHO, db.PlanStatusEMAPROVACAO))
	assert.True(t, PlanTransitions.Allows(db.PlanStatusEMAPROVACAO, db.PlanStatusRASCUNHO))
	assert.True(t, PlanTransitions.Allows(db.PlanStatusAPROVADO, db.PlanStatusPUBLICADO))
	assert.True(t, PlanTransitions.Allows(db.PlanStatusPUBLICADO, db.PlanStatusEMREVISAO))
	assert.True(t, PlanTransitions.Allows(db.PlanStatusEMREVISAO, db.PlanStatusEMAPROVACAO))

	assert.False(t, PlanTransitions.Allows(db.PlanStatusRASCUNHO, db.PlanStatusPUBLICADO))
	assert.False(t, PlanTransitions.Allows(db.PlanStatusPUBLICADO, db.PlanStatusRASCUNHO))

	for _, s := range db.AllPlanStatusValues() {
		assert.False(t, PlanTransitions.IsTerminal(s), "у плана нет терминальных статусов: %s", s)
	}
}
