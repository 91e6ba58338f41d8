package testutil

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
)

// MemStore - хранилище в памяти, реализующее db.Store для unit-тестов сервисов.
// ExecTx откатывает все изменения, если функция вернула ошибку.
// Методы, которых нет в MemStore, уходят во встроенный nil Querier и паникуют.
type MemStore struct {
	db.Querier

	txMu sync.Mutex
	mu   sync.Mutex

	nextID int64
	state  memState

	// FailCreateAuditLog заставляет CreateAuditLog возвращать ошибку
	FailCreateAuditLog error
	// FailCreateNotification заставляет CreateNotification возвращать ошибку
	FailCreateNotification error
}

type memState struct {
	users         map[int64]db.User
	plans         map[int64]db.Plan
	demands       map[int64]db.Demand
	items         map[int64]db.Item
	prices        map[int64]db.Price
	suppliers     map[int64]db.Supplier
	auditLogs     map[int64]db.AuditLog
	notifications map[int64]db.Notification
	sessions      map[int64]db.UserSession
}

func newMemState() memState {
	return memState{
		users:         map[int64]db.User{},
		plans:         map[int64]db.Plan{},
		demands:       map[int64]db.Demand{},
		items:         map[int64]db.Item{},
		prices:        map[int64]db.Price{},
		suppliers:     map[int64]db.Supplier{},
		auditLogs:     map[int64]db.AuditLog{},
		notifications: map[int64]db.Notification{},
		sessions:      map[int64]db.UserSession{},
	}
}

func (s memState) clone() memState {
	c := newMemState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.plans {
		c.plans[k] = v
	}
	for k, v := range s.demands {
		c.demands[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.prices {
		c.prices[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.auditLogs {
		c.auditLogs[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	return c
}

func NewMemStore() *MemStore {
	return &MemStore{state: newMemState()}
}

var _ db.Store = (*MemStore)(nil)

func uniqueViolation(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint, Message: "duplicate key value violates unique constraint"}
}

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

func paginate[T any](rows []T, limit, offset int32) []T {
	if offset >= int32(len(rows)) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < int32(len(rows)) {
		rows = rows[:limit]
	}
	return rows
}

// ExecTx выполняет fn последовательно с другими транзакциями
func (m *MemStore) ExecTx(ctx context.Context, fn func(q db.Querier) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.state.clone()
	nextID := m.nextID
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.nextID = nextID
		m.mu.Unlock()
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (m *MemStore) CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.state.users {
		if u.Email == arg.Email {
			return db.User{}, uniqueViolation("users_email_key")
		}
	}
	now := time.Now()
	u := db.User{
		ID:           m.id(),
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Role:         arg.Role,
		IsActive:     arg.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.state.users[u.ID] = u
	return u, nil
}

func (m *MemStore) GetUserByID(ctx context.Context, id int64) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.state.users[id]
	if !ok {
		return db.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *MemStore) GetUserAuthByEmail(ctx context.Context, email string) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.state.users {
		if u.Email == email {
			return u, nil
		}
	}
	return db.User{}, sql.ErrNoRows
}

func (m *MemStore) ListUsers(ctx context.Context, arg db.ListUsersParams) ([]db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]db.User, 0, len(m.state.users))
	for _, u := range m.state.users {
		rows = append(rows, u)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return paginate(rows, arg.Limit, arg.Offset), nil
}

func (m *MemStore) UpdateUserRole(ctx context.Context, arg db.UpdateUserRoleParams) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.state.users[arg.ID]
	if !ok {
		return db.User{}, sql.ErrNoRows
	}
	u.Role = arg.Role
	u.UpdatedAt = time.Now()
	m.state.users[u.ID] = u
	return u, nil
}

func (m *MemStore) CreateUserSession(ctx context.Context, arg db.CreateUserSessionParams) (db.UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.state.sessions {
		if s.RefreshTokenHash == arg.RefreshTokenHash {
			return db.UserSession{}, uniqueViolation("user_sessions_refresh_token_hash_key")
		}
	}
	s := db.UserSession{
		ID:               m.id(),
		UserID:           arg.UserID,
		RefreshTokenHash: arg.RefreshTokenHash,
		UserAgent:        arg.UserAgent,
		IpAddress:        arg.IpAddress,
		ExpiresAt:        arg.ExpiresAt,
		CreatedAt:        time.Now(),
	}
	m.state.sessions[s.ID] = s
	return s, nil
}

func (m *MemStore) GetActiveSessionByRefreshHashForUpdate(ctx context.Context, refreshTokenHash string) (db.UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.state.sessions {
		if s.RefreshTokenHash == refreshTokenHash && !s.RevokedAt.Valid {
			return s, nil
		}
	}
	return db.UserSession{}, sql.ErrNoRows
}

func (m *MemStore) RevokeSessionByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.state.sessions[id]; ok && !s.RevokedAt.Valid {
		s.RevokedAt = sql.NullTime{Time: time.Now(), Valid: true}
		m.state.sessions[id] = s
	}
	return nil
}

func (m *MemStore) RevokeSessionByRefreshHash(ctx context.Context, refreshTokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.state.sessions {
		if s.RefreshTokenHash == refreshTokenHash && !s.RevokedAt.Valid {
			s.RevokedAt = sql.NullTime{Time: time.Now(), Valid: true}
			m.state.sessions[id] = s
		}
	}
	return nil
}

// Sessions возвращает копию всех сессий, включая отозванные
func (m *MemStore) Sessions() []db.UserSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]db.UserSession, 0, len(m.state.sessions))
	for _, s := range m.state.sessions {
		rows = append(rows, s)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// ---------------------------------------------------------------------------
// Plans
// ---------------------------------------------------------------------------

func (m *MemStore) CreatePlan(ctx context.Context, arg db.CreatePlanParams) (db.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.state.plans {
		if p.Year == arg.Year {
			return db.Plan{}, uniqueViolation("plans_year_key")
		}
	}
	now := time.Now()
	p := db.Plan{
		ID:        m.id(),
		Year:      arg.Year,
		Title:     arg.Title,
		Status:    db.PlanStatusRASCUNHO,
		Version:   1,
		CreatedBy: arg.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.state.plans[p.ID] = p
	return p, nil
}

func (m *MemStore) GetPlan(ctx context.Context, id int64) (db.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.plans[id]
	if !ok {
		return db.Plan{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *MemStore) GetPlanForUpdate(ctx context.Context, id int64) (db.Plan, error) {
	return m.GetPlan(ctx, id)
}

func (m *MemStore) ListPlans(ctx context.Context, arg db.ListPlansParams) ([]db.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]db.Plan, 0, len(m.state.plans))
	for _, p := range m.state.plans {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year > rows[j].Year })
	return paginate(rows, arg.Limit, arg.Offset), nil
}

func (m *MemStore) UpdatePlanStatus(ctx context.Context, arg db.UpdatePlanStatusParams) (db.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.plans[arg.ID]
	if !ok {
		return db.Plan{}, sql.ErrNoRows
	}
	p.Status = arg.Status
	p.Version = arg.Version
	p.UpdatedAt = time.Now()
	m.state.plans[p.ID] = p
	return p, nil
}

// ---------------------------------------------------------------------------
// Demands
// ---------------------------------------------------------------------------

func (m *MemStore) CreateDemand(ctx context.Context, arg db.CreateDemandParams) (db.Demand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.state.demands {
		if d.Code == arg.Code {
			return db.Demand{}, uniqueViolation("demands_code_key")
		}
		if d.PlanID == arg.PlanID && d.ProjectNumber == arg.ProjectNumber {
			return db.Demand{}, uniqueViolation("demands_plan_id_project_number_key")
		}
	}
	now := time.Now()
	d := db.Demand{
		ID:            m.id(),
		PlanID:        arg.PlanID,
		Code:          arg.Code,
		ProjectNumber: arg.ProjectNumber,
		Title:         arg.Title,
		Description:   arg.Description,
		Status:        db.DemandStatusCADASTRADA,
		ResponsibleID: arg.ResponsibleID,
		CreatedBy:     arg.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.state.demands[d.ID] = d
	return d, nil
}

func (m *MemStore) GetDemand(ctx context.Context, id int64) (db.Demand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.state.demands[id]
	if !ok {
		return db.Demand{}, sql.ErrNoRows
	}
	return d, nil
}

func (m *MemStore) GetDemandForUpdate(ctx context.Context, id int64) (db.Demand, error) {
	return m.GetDemand(ctx, id)
}

func (m *MemStore) ListDemands(ctx context.Context, arg db.ListDemandsParams) ([]db.Demand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := []db.Demand{}
	for _, d := range m.state.demands {
		if arg.PlanID.Valid && d.PlanID != arg.PlanID.Int64 {
			continue
		}
		if arg.Status.Valid && d.Status != arg.Status.DemandStatus {
			continue
		}
		rows = append(rows, d)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlanID != rows[j].PlanID {
			return rows[i].PlanID < rows[j].PlanID
		}
		return rows[i].ProjectNumber < rows[j].ProjectNumber
	})
	return paginate(rows, arg.Limit, arg.Offset), nil
}

func (m *MemStore) CountDemandsByStatus(ctx context.Context) ([]db.CountDemandsByStatusRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[db.DemandStatus]int64{}
	for _, d := range m.state.demands {
		counts[d.Status]++
	}
	rows := []db.CountDemandsByStatusRow{}
	for status, total := range counts {
		rows = append(rows, db.CountDemandsByStatusRow{Status: status, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Status < rows[j].Status })
	return rows, nil
}

func (m *MemStore) NextDemandProjectNumber(ctx context.Context, planID int64) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last int32
	for _, d := range m.state.demands {
		if d.PlanID == planID && d.ProjectNumber > last {
			last = d.ProjectNumber
		}
	}
	return last + 1, nil
}

func (m *MemStore) UpdateDemandDetails(ctx context.Context, arg db.UpdateDemandDetailsParams) (db.Demand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.state.demands[arg.ID]
	if !ok {
		return db.Demand{}, sql.ErrNoRows
	}
	d.Title = arg.Title
	d.Description = arg.Description
	d.ResponsibleID = arg.ResponsibleID
	d.UpdatedAt = time.Now()
	m.state.demands[d.ID] = d
	return d, nil
}

func (m *MemStore) UpdateDemandStatus(ctx context.Context, arg db.UpdateDemandStatusParams) (db.Demand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.state.demands[arg.ID]
	if !ok {
		return db.Demand{}, sql.ErrNoRows
	}
	d.Status = arg.Status
	if arg.ProcessNumber.Valid {
		d.ProcessNumber = arg.ProcessNumber
	}
	if arg.ContractNumber.Valid {
		d.ContractNumber = arg.ContractNumber
	}
	if arg.ContractedValue.Valid {
		d.ContractedValue = arg.ContractedValue
	}
	if arg.CancellationJustification.Valid {
		d.CancellationJustification = arg.CancellationJustification
	}
	if arg.CancelledAt.Valid {
		d.CancelledAt = arg.CancelledAt
	}
	d.UpdatedAt = time.Now()
	m.state.demands[d.ID] = d
	return d, nil
}

func (m *MemStore) IncrementDemandItemSeq(ctx context.Context, id int64) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.state.demands[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	d.ItemSeq++
	m.state.demands[id] = d
	return d.ItemSeq, nil
}

func (m *MemStore) DeleteDemand(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.demands, id)
	for itemID, it := range m.state.items {
		if it.DemandID == id {
			m.deleteItemLocked(itemID)
		}
	}
	for nID, n := range m.state.notifications {
		if n.DemandID.Valid && n.DemandID.Int64 == id {
			delete(m.state.notifications, nID)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

func (m *MemStore) CreateItem(ctx context.Context, arg db.CreateItemParams) (db.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.state.items {
		if it.DemandID == arg.DemandID && it.Code == arg.Code {
			return db.Item{}, uniqueViolation("items_demand_id_code_key")
		}
	}
	now := time.Now()
	it := db.Item{
		ID:          m.id(),
		DemandID:    arg.DemandID,
		Code:        arg.Code,
		Description: arg.Description,
		Unit:        arg.Unit,
		Quantity:    arg.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.state.items[it.ID] = it
	return it, nil
}

func (m *MemStore) GetItem(ctx context.Context, id int64) (db.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.state.items[id]
	if !ok {
		return db.Item{}, sql.ErrNoRows
	}
	return it, nil
}

func (m *MemStore) GetItemForUpdate(ctx context.Context, id int64) (db.Item, error) {
	return m.GetItem(ctx, id)
}

func (m *MemStore) ListItemsByDemand(ctx context.Context, demandID int64) ([]db.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := []db.Item{}
	for _, it := range m.state.items {
		if it.DemandID == demandID {
			rows = append(rows, it)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return rows, nil
}

func (m *MemStore) CountItemsByDemand(ctx context.Context, demandID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.state.items {
		if it.DemandID == demandID {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) ListItemPriceCounts(ctx context.Context, demandID int64) ([]db.ListItemPriceCountsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := []db.ListItemPriceCountsRow{}
	for _, it := range m.state.items {
		if it.DemandID != demandID {
			continue
		}
		row := db.ListItemPriceCountsRow{ItemID: it.ID}
		for _, p := range m.state.prices {
			if p.ItemID == it.ID && p.IsActive {
				row.ActivePrices++
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ItemID < rows[j].ItemID })
	return rows, nil
}

func (m *MemStore) UpdateItemDetails(ctx context.Context, arg db.UpdateItemDetailsParams) (db.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.state.items[arg.ID]
	if !ok {
		return db.Item{}, sql.ErrNoRows
	}
	it.Description = arg.Description
	it.Unit = arg.Unit
	it.Quantity = arg.Quantity
	it.UpdatedAt = time.Now()
	m.state.items[it.ID] = it
	return it, nil
}

func (m *MemStore) UpdateItemEstimate(ctx context.Context, arg db.UpdateItemEstimateParams) (db.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.state.items[arg.ID]
	if !ok {
		return db.Item{}, sql.ErrNoRows
	}
	it.EstimatedUnitValue = arg.EstimatedUnitValue
	it.EstimatedTotalValue = arg.EstimatedTotalValue
	it.UpdatedAt = time.Now()
	m.state.items[it.ID] = it
	return it, nil
}

func (m *MemStore) DeleteItem(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteItemLocked(id)
	return nil
}

func (m *MemStore) deleteItemLocked(id int64) {
	delete(m.state.items, id)
	for priceID, p := range m.state.prices {
		if p.ItemID == id {
			delete(m.state.prices, priceID)
		}
	}
}

// ---------------------------------------------------------------------------
// Prices
// ---------------------------------------------------------------------------

func (m *MemStore) CreatePrice(ctx context.Context, arg db.CreatePriceParams) (db.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.items[arg.ItemID]; !ok {
		return db.Price{}, &pq.Error{Code: "23503", Message: "insert or update on table \"prices\" violates foreign key constraint"}
	}
	now := time.Now()
	p := db.Price{
		ID:             m.id(),
		ItemID:         arg.ItemID,
		SupplierID:     arg.SupplierID,
		UnitValue:      arg.UnitValue,
		CollectedAt:    arg.CollectedAt,
		Source:         arg.Source,
		IsActive:       true,
		Classification: db.PriceClassificationPENDING,
		CreatedBy:      arg.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.state.prices[p.ID] = p
	return p, nil
}

func (m *MemStore) GetPrice(ctx context.Context, id int64) (db.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.prices[id]
	if !ok {
		return db.Price{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *MemStore) listPrices(itemID int64, activeOnly bool) []db.Price {
	rows := []db.Price{}
	for _, p := range m.state.prices {
		if p.ItemID != itemID || (activeOnly && !p.IsActive) {
			continue
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (m *MemStore) ListActivePricesByItem(ctx context.Context, itemID int64) ([]db.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listPrices(itemID, true), nil
}

func (m *MemStore) ListPricesByItem(ctx context.Context, itemID int64) ([]db.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listPrices(itemID, false), nil
}

func (m *MemStore) UpdatePriceClassification(ctx context.Context, arg db.UpdatePriceClassificationParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.prices[arg.ID]
	if !ok {
		return nil
	}
	p.Classification = arg.Classification
	p.DeviationPct = arg.DeviationPct
	p.UpdatedAt = time.Now()
	m.state.prices[p.ID] = p
	return nil
}

func (m *MemStore) DeactivatePrice(ctx context.Context, id int64) (db.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.prices[id]
	if !ok {
		return db.Price{}, sql.ErrNoRows
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	m.state.prices[id] = p
	return p, nil
}

func (m *MemStore) DeletePrice(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.prices, id)
	return nil
}

// ---------------------------------------------------------------------------
// Suppliers
// ---------------------------------------------------------------------------

func (m *MemStore) CreateSupplier(ctx context.Context, arg db.CreateSupplierParams) (db.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.state.suppliers {
		if s.Document == arg.Document {
			return db.Supplier{}, uniqueViolation("suppliers_document_key")
		}
	}
	now := time.Now()
	s := db.Supplier{
		ID:        m.id(),
		Name:      arg.Name,
		Document:  arg.Document,
		Email:     arg.Email,
		Phone:     arg.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.state.suppliers[s.ID] = s
	return s, nil
}

func (m *MemStore) GetSupplier(ctx context.Context, id int64) (db.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.state.suppliers[id]
	if !ok {
		return db.Supplier{}, sql.ErrNoRows
	}
	return s, nil
}

func (m *MemStore) ListSuppliers(ctx context.Context, arg db.ListSuppliersParams) ([]db.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]db.Supplier, 0, len(m.state.suppliers))
	for _, s := range m.state.suppliers {
		rows = append(rows, s)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return paginate(rows, arg.Limit, arg.Offset), nil
}

func (m *MemStore) UpdateSupplier(ctx context.Context, arg db.UpdateSupplierParams) (db.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.state.suppliers[arg.ID]
	if !ok {
		return db.Supplier{}, sql.ErrNoRows
	}
	s.Name = arg.Name
	s.Email = arg.Email
	s.Phone = arg.Phone
	s.UpdatedAt = time.Now()
	m.state.suppliers[s.ID] = s
	return s, nil
}

func (m *MemStore) DeleteSupplier(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.suppliers, id)
	for priceID, p := range m.state.prices {
		if p.SupplierID.Valid && p.SupplierID.Int64 == id {
			p.SupplierID = sql.NullInt64{}
			m.state.prices[priceID] = p
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Audit & notifications
// ---------------------------------------------------------------------------

func (m *MemStore) CreateAuditLog(ctx context.Context, arg db.CreateAuditLogParams) (db.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreateAuditLog != nil {
		return db.AuditLog{}, m.FailCreateAuditLog
	}
	a := db.AuditLog{
		ID:            m.id(),
		ActorID:       arg.ActorID,
		Action:        arg.Action,
		EntityType:    arg.EntityType,
		EntityID:      arg.EntityID,
		PreviousValue: arg.PreviousValue,
		NewValue:      arg.NewValue,
		Description:   arg.Description,
		CreatedAt:     time.Now(),
	}
	m.state.auditLogs[a.ID] = a
	return a, nil
}

func (m *MemStore) ListAuditLogs(ctx context.Context, arg db.ListAuditLogsParams) ([]db.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := []db.AuditLog{}
	for _, a := range m.state.auditLogs {
		if a.EntityType == arg.EntityType && a.EntityID == arg.EntityID {
			rows = append(rows, a)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return paginate(rows, arg.Limit, arg.Offset), nil
}

// AuditLogs возвращает все записи журнала в порядке создания
func (m *MemStore) AuditLogs() []db.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]db.AuditLog, 0, len(m.state.auditLogs))
	for _, a := range m.state.auditLogs {
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (m *MemStore) CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreateNotification != nil {
		return db.Notification{}, m.FailCreateNotification
	}
	n := db.Notification{
		ID:        m.id(),
		UserID:    arg.UserID,
		DemandID:  arg.DemandID,
		Message:   arg.Message,
		CreatedAt: time.Now(),
	}
	m.state.notifications[n.ID] = n
	return n, nil
}

func (m *MemStore) ListNotificationsByUser(ctx context.Context, arg db.ListNotificationsByUserParams) ([]db.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := []db.Notification{}
	for _, n := range m.state.notifications {
		if n.UserID != arg.UserID || (arg.UnreadOnly && n.IsRead) {
			continue
		}
		rows = append(rows, n)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return paginate(rows, arg.Limit, arg.Offset), nil
}

func (m *MemStore) MarkNotificationRead(ctx context.Context, arg db.MarkNotificationReadParams) (db.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.state.notifications[arg.ID]
	if !ok || n.UserID != arg.UserID {
		return db.Notification{}, sql.ErrNoRows
	}
	n.IsRead = true
	m.state.notifications[n.ID] = n
	return n, nil
}
