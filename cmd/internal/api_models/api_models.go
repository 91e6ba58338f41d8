package api_models

import (
	"github.com/shopspring/decimal"
)

// NewDemand - данные для создания заявки
type NewDemand struct {
	PlanID        int64   `json:"plan_id"`
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	ResponsibleID *int64  `json:"responsible_id,omitempty"` // по умолчанию - автор заявки
}

// DemandPatch - редактируемые поля заявки
type DemandPatch struct {
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	ResponsibleID *int64  `json:"responsible_id,omitempty"`
}

// DemandFilter - фильтр списка заявок
type DemandFilter struct {
	PlanID *int64
	Status *string
	Limit  int32
	Offset int32
}

// ItemData - позиция заявки
type ItemData struct {
	Description string          `json:"description"`
	Unit        string          `json:"unit"`     // единица измерения: UN, KG, CX...
	Quantity    decimal.Decimal `json:"quantity"` // > 0
}

// Quotation - рыночная котировка по позиции
type Quotation struct {
	UnitValue   decimal.Decimal `json:"unit_value"`
	CollectedAt string          `json:"collected_at"` // YYYY-MM-DD
	Source      string          `json:"source"`       // сайт, поставщик, госзакупки...
	SupplierID  *int64          `json:"supplier_id,omitempty"`
}

// ContractData - данные контракта при финализации
type ContractData struct {
	ContractNumber  string          `json:"contract_number"`
	ContractedValue decimal.Decimal `json:"contracted_value"`
}

// NewPlan - план закупок на год
type NewPlan struct {
	Year  int32  `json:"year"`
	Title string `json:"title"`
}

// SupplierData - поставщик (CNPJ/CPF в Document)
type SupplierData struct {
	Name     string  `json:"name"`
	Document string  `json:"document"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}
