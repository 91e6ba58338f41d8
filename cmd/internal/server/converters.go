package server

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/demand"
	"github.com/zhukovvlad/procurement-go/cmd/internal/util"
)

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

func newUserResponse(u db.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type planResponse struct {
	ID        int64  `json:"id"`
	Year      int32  `json:"year"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Version   int32  `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newPlanResponse(p db.Plan) planResponse {
	return planResponse{
		ID:        p.ID,
		Year:      p.Year,
		Title:     p.Title,
		Status:    string(p.Status),
		Version:   p.Version,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

type demandResponse struct {
	ID                        int64            `json:"id"`
	PlanID                    int64            `json:"plan_id"`
	Code                      string           `json:"code"`
	ProjectNumber             int32            `json:"project_number"`
	Title                     string           `json:"title"`
	Description               *string          `json:"description"`
	Status                    string           `json:"status"`
	ResponsibleID             *int64           `json:"responsible_id"`
	ProcessNumber             *string          `json:"process_number"`
	ContractNumber            *string          `json:"contract_number"`
	ContractedValue           *decimal.Decimal `json:"contracted_value"`
	CancellationJustification *string          `json:"cancellation_justification"`
	CancelledAt               *string          `json:"cancelled_at"`
	CreatedAt                 string           `json:"created_at"`
	UpdatedAt                 string           `json:"updated_at"`
}

func newDemandResponse(d db.Demand) demandResponse {
	return demandResponse{
		ID:                        d.ID,
		PlanID:                    d.PlanID,
		Code:                      d.Code,
		ProjectNumber:             d.ProjectNumber,
		Title:                     d.Title,
		Description:               util.StringPtr(d.Description),
		Status:                    string(d.Status),
		ResponsibleID:             util.Int64Ptr(d.ResponsibleID),
		ProcessNumber:             util.StringPtr(d.ProcessNumber),
		ContractNumber:            util.StringPtr(d.ContractNumber),
		ContractedValue:           util.DecimalPtr(d.ContractedValue),
		CancellationJustification: util.StringPtr(d.CancellationJustification),
		CancelledAt:               util.TimePtr(d.CancelledAt),
		CreatedAt:                 d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                 d.UpdatedAt.Format(time.RFC3339),
	}
}

type itemResponse struct {
	ID                  int64            `json:"id"`
	DemandID            int64            `json:"demand_id"`
	Code                int32            `json:"code"`
	Description         string           `json:"description"`
	Unit                string           `json:"unit"`
	Quantity            decimal.Decimal  `json:"quantity"`
	EstimatedUnitValue  *decimal.Decimal `json:"estimated_unit_value"`
	EstimatedTotalValue *decimal.Decimal `json:"estimated_total_value"`
	ActivePrices        int64            `json:"active_prices"`
}

func newItemResponse(it db.Item, activePrices int64) itemResponse {
	return itemResponse{
		ID:                  it.ID,
		DemandID:            it.DemandID,
		Code:                it.Code,
		Description:         it.Description,
		Unit:                it.Unit,
		Quantity:            it.Quantity,
		EstimatedUnitValue:  util.DecimalPtr(it.EstimatedUnitValue),
		EstimatedTotalValue: util.DecimalPtr(it.EstimatedTotalValue),
		ActivePrices:        activePrices,
	}
}

type demandDetailsResponse struct {
	demandResponse
	Items               []itemResponse   `json:"items"`
	EstimatedTotalValue *decimal.Decimal `json:"estimated_total_value"`
}

// newDemandDetailsResponse суммирует оценки позиций; сумма null, пока не оценена ни одна позиция
func newDemandDetailsResponse(d *demand.DemandDetails) demandDetailsResponse {
	resp := demandDetailsResponse{
		demandResponse: newDemandResponse(d.Demand),
		Items:          make([]itemResponse, 0, len(d.Items)),
	}
	total := decimal.Zero
	estimated := false
	for _, it := range d.Items {
		resp.Items = append(resp.Items, newItemResponse(it, d.PriceCounts[it.ID]))
		if it.EstimatedTotalValue.Valid {
			total = total.Add(it.EstimatedTotalValue.Decimal)
			estimated = true
		}
	}
	if estimated {
		resp.EstimatedTotalValue = &total
	}
	return resp
}

type priceResponse struct {
	ID             int64            `json:"id"`
	ItemID         int64            `json:"item_id"`
	SupplierID     *int64           `json:"supplier_id"`
	UnitValue      decimal.Decimal  `json:"unit_value"`
	CollectedAt    string           `json:"collected_at"`
	Source         string           `json:"source"`
	IsActive       bool             `json:"is_active"`
	Classification string           `json:"classification"`
	DeviationPct   *decimal.Decimal `json:"deviation_pct"`
	CreatedAt      string           `json:"created_at"`
}

func newPriceResponse(p db.Price) priceResponse {
	return priceResponse{
		ID:             p.ID,
		ItemID:         p.ItemID,
		SupplierID:     util.Int64Ptr(p.SupplierID),
		UnitValue:      p.UnitValue,
		CollectedAt:    p.CollectedAt.Format(util.DateLayout),
		Source:         p.Source,
		IsActive:       p.IsActive,
		Classification: string(p.Classification),
		DeviationPct:   util.DecimalPtr(p.DeviationPct),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

type supplierResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Document string  `json:"document"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

func newSupplierResponse(s db.Supplier) supplierResponse {
	return supplierResponse{
		ID:       s.ID,
		Name:     s.Name,
		Document: s.Document,
		Email:    util.StringPtr(s.Email),
		Phone:    util.StringPtr(s.Phone),
	}
}

type auditLogResponse struct {
	ID            int64           `json:"id"`
	ActorID       *int64          `json:"actor_id"`
	Action        string          `json:"action"`
	EntityType    string          `json:"entity_type"`
	EntityID      int64           `json:"entity_id"`
	PreviousValue json.RawMessage `json:"previous_value"`
	NewValue      json.RawMessage `json:"new_value"`
	Description   *string         `json:"description"`
	CreatedAt     string          `json:"created_at"`
}

func rawJSON(m pqtype.NullRawMessage) json.RawMessage {
	if !m.Valid || len(m.RawMessage) == 0 {
		return json.RawMessage("null")
	}
	return m.RawMessage
}

func newAuditLogResponse(l db.AuditLog) auditLogResponse {
	return auditLogResponse{
		ID:            l.ID,
		ActorID:       util.Int64Ptr(l.ActorID),
		Action:        l.Action,
		EntityType:    l.EntityType,
		EntityID:      l.EntityID,
		PreviousValue: rawJSON(l.PreviousValue),
		NewValue:      rawJSON(l.NewValue),
		Description:   util.StringPtr(l.Description),
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
}

type notificationResponse struct {
	ID        int64  `json:"id"`
	DemandID  *int64 `json:"demand_id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func newNotificationResponse(n db.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		DemandID:  util.Int64Ptr(n.DemandID),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// mapSlice применяет конвертер к срезу; nil превращается в пустой массив JSON
func mapSlice[T, R any](rows []T, fn func(T) R) []R {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
