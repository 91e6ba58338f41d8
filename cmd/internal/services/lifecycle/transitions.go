package lifecycle

import (
	"sort"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
)

// Table - таблица допустимых переходов: статус -> множество следующих статусов.
// Статус без исходящих переходов терминальный.
type Table[S ~string] map[S]map[S]struct{}

func to[S ~string](targets ...S) map[S]struct{} {
	set := make(map[S]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return set
}

// Allows сообщает, разрешен ли переход from -> target
func (t Table[S]) Allows(from, target S) bool {
	_, ok := t[from][target]
	return ok
}

// Targets возвращает разрешенные статусы из from в стабильном порядке
func (t Table[S]) Targets(from S) []S {
	out := make([]S, 0, len(t[from]))
	for s := range t[from] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsTerminal - из статуса нет переходов
func (t Table[S]) IsTerminal(s S) bool {
	return len(t[s]) == 0
}

var DemandTransitions = Table[db.DemandStatus]{
	db.DemandStatusCADASTRADA:    to(db.DemandStatusEMANALISE, db.DemandStatusCANCELADA),
	db.DemandStatusEMANALISE:     to(db.DemandStatusESTIMADA, db.DemandStatusCADASTRADA, db.DemandStatusCANCELADA),
	db.DemandStatusESTIMADA:      to(db.DemandStatusEMCONTRATACAO, db.DemandStatusEMANALISE, db.DemandStatusCANCELADA),
	db.DemandStatusEMCONTRATACAO: to(db.DemandStatusCONTRATADA, db.DemandStatusSUSPENSA, db.DemandStatusCANCELADA),
	db.DemandStatusCONTRATADA:    to[db.DemandStatus](),
	db.DemandStatusSUSPENSA:      to(db.DemandStatusEMCONTRATACAO, db.DemandStatusCANCELADA),
	db.DemandStatusCANCELADA:     to[db.DemandStatus](),
}

// PlanTransitions - жизненный цикл плана закупок (PCA)
var PlanTransitions = Table[db.PlanStatus]{
	db.PlanStatusRASCUNHO:    to(db.PlanStatusEMAPROVACAO),
	db.PlanStatusEMAPROVACAO: to(db.PlanStatusAPROVADO, db.PlanStatusRASCUNHO),
	db.PlanStatusAPROVADO:    to(db.PlanStatusPUBLICADO, db.PlanStatusRASCUNHO),
	db.PlanStatusPUBLICADO:   to(db.PlanStatusEMREVISAO),
	db.PlanStatusEMREVISAO:   to(db.PlanStatusEMAPROVACAO),
}

// EditableDemandStatuses - статусы, в которых можно менять позиции и котировки
var EditableDemandStatuses = map[db.DemandStatus]bool{
	db.DemandStatusCADASTRADA: true,
	db.DemandStatusEMANALISE:  true,
	db.DemandStatusESTIMADA:   true,
}
