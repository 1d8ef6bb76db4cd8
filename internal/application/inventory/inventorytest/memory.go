// Package inventorytest provee implementaciones en memoria de los puertos de
// persistencia y del TxRunner, con la misma semántica observable que los
// adaptadores PostgreSQL: orden FIFO por creación, guard de decremento,
// find-or-create de lotes y UPDATE condicional de estado de documentos.
// Solo para pruebas.
package inventorytest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory"
	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// Store estado compartido de los repositorios en memoria.
type Store struct {
	mu  sync.Mutex
	seq int

	Entries  []*entity.StockLedgerEntry
	Layers   []*entity.CostLayer
	Lots     []*entity.Lot
	Products map[string]*entity.Product

	Receipts  map[string]*entity.GoodsReceipt
	Orders    map[string]*entity.Order
	Transfers map[string]*entity.Transfer
	Counts    map[string]*entity.StockCount
	Adjusts   map[string]*entity.Adjustment
}

// NewStore construye el estado vacío.
func NewStore() *Store {
	return &Store{
		Products:  map[string]*entity.Product{},
		Receipts:  map[string]*entity.GoodsReceipt{},
		Orders:    map[string]*entity.Order{},
		Transfers: map[string]*entity.Transfer{},
		Counts:    map[string]*entity.StockCount{},
		Adjusts:   map[string]*entity.Adjustment{},
	}
}

// nextTime timestamps monótonos para que el orden FIFO sea determinista.
func (s *Store) nextTime() time.Time {
	s.seq++
	return time.Unix(0, int64(s.seq)*int64(time.Millisecond)).UTC()
}

// AddProduct registra un producto directamente en el estado.
func (s *Store) AddProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.Products[p.ID] = p
}

// Repos devuelve los repositorios atados al estado (sin transacción; para
// consultas de lectura en pruebas).
func (s *Store) Repos() inventory.Repos {
	return inventory.Repos{
		Ledger:        &ledgerRepo{s: s},
		Layers:        &layerRepo{s: s},
		Lots:          &lotRepo{s: s},
		Products:      &productRepo{s: s},
		GoodsReceipts: &receiptRepo{s: s},
		Orders:        &orderRepo{s: s},
		Transfers:     &transferRepo{s: s},
		StockCounts:   &countRepo{s: s},
		Adjustments:   &adjustRepo{s: s},
	}
}

// TxRunner simula transacciones sobre el Store: serializa con un mutex y, si
// fn falla, restaura el snapshot previo (rollback).
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn bajo el candado del store; error = rollback total.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(r.s.reposLocked()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// RunWithRetry reintenta ante domain.ErrConcurrencyConflict, igual que el
// runner de PostgreSQL.
func (r *TxRunner) RunWithRetry(ctx context.Context, fn func(repos inventory.Repos) error) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = r.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// reposLocked repos que asumen el candado ya tomado por Run.
func (s *Store) reposLocked() inventory.Repos {
	return inventory.Repos{
		Ledger:        &ledgerRepo{s: s, locked: true},
		Layers:        &layerRepo{s: s, locked: true},
		Lots:          &lotRepo{s: s, locked: true},
		Products:      &productRepo{s: s, locked: true},
		GoodsReceipts: &receiptRepo{s: s, locked: true},
		Orders:        &orderRepo{s: s, locked: true},
		Transfers:     &transferRepo{s: s, locked: true},
		StockCounts:   &countRepo{s: s, locked: true},
		Adjustments:   &adjustRepo{s: s, locked: true},
	}
}

type snapshot struct {
	seq       int
	entries   []*entity.StockLedgerEntry
	layers    []*entity.CostLayer
	lots      []*entity.Lot
	products  map[string]*entity.Product
	receipts  map[string]*entity.GoodsReceipt
	orders    map[string]*entity.Order
	transfers map[string]*entity.Transfer
	counts    map[string]*entity.StockCount
	adjusts   map[string]*entity.Adjustment
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		seq:       s.seq,
		products:  map[string]*entity.Product{},
		receipts:  map[string]*entity.GoodsReceipt{},
		orders:    map[string]*entity.Order{},
		transfers: map[string]*entity.Transfer{},
		counts:    map[string]*entity.StockCount{},
		adjusts:   map[string]*entity.Adjustment{},
	}
	for _, e := range s.Entries {
		c := *e
		snap.entries = append(snap.entries, &c)
	}
	for _, l := range s.Layers {
		c := *l
		snap.layers = append(snap.layers, &c)
	}
	for _, l := range s.Lots {
		c := *l
		snap.lots = append(snap.lots, &c)
	}
	for id, p := range s.Products {
		c := *p
		snap.products[id] = &c
	}
	for id, d := range s.Receipts {
		c := *d
		c.Lines = append([]entity.GoodsReceiptLine(nil), d.Lines...)
		snap.receipts[id] = &c
	}
	for id, d := range s.Orders {
		c := *d
		c.Lines = append([]entity.OrderLine(nil), d.Lines...)
		snap.orders[id] = &c
	}
	for id, d := range s.Transfers {
		c := *d
		c.Lines = append([]entity.TransferLine(nil), d.Lines...)
		snap.transfers[id] = &c
	}
	for id, d := range s.Counts {
		c := *d
		c.Lines = append([]entity.StockCountLine(nil), d.Lines...)
		snap.counts[id] = &c
	}
	for id, d := range s.Adjusts {
		c := *d
		c.Lines = append([]entity.AdjustmentLine(nil), d.Lines...)
		snap.adjusts[id] = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.seq = snap.seq
	s.Entries = snap.entries
	s.Layers = snap.layers
	s.Lots = snap.lots
	s.Products = snap.products
	s.Receipts = snap.receipts
	s.Orders = snap.orders
	s.Transfers = snap.transfers
	s.Counts = snap.counts
	s.Adjusts = snap.adjusts
}

func (s *Store) lock(locked bool) func() {
	if locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func sameLot(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ---- libro ----

type ledgerRepo struct {
	s      *Store
	locked bool
}

func (r *ledgerRepo) CreateBatch(ctx context.Context, entries []*entity.StockLedgerEntry) ([]*entity.StockLedgerEntry, error) {
	defer r.s.lock(r.locked)()
	if len(entries) == 0 {
		return nil, nil
	}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.CreatedAt = r.s.nextTime()
		c := *e
		r.s.Entries = append(r.s.Entries, &c)
	}
	return entries, nil
}

func (r *ledgerRepo) ListByRef(ctx context.Context, companyID, refType, refID string) ([]*entity.StockLedgerEntry, error) {
	defer r.s.lock(r.locked)()
	var out []*entity.StockLedgerEntry
	for _, e := range r.s.Entries {
		if e.CompanyID == companyID && e.RefType == refType && e.RefID == refID && !e.Type.IsReversal() {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *ledgerRepo) CountByRef(ctx context.Context, companyID, refType, refID string) (int, error) {
	defer r.s.lock(r.locked)()
	n := 0
	for _, e := range r.s.Entries {
		if e.CompanyID == companyID && e.RefType == refType && e.RefID == refID {
			n++
		}
	}
	return n, nil
}

func (r *ledgerRepo) OnHand(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (decimal.Decimal, error) {
	defer r.s.lock(r.locked)()
	sum := decimal.Zero
	for _, e := range r.s.Entries {
		if e.CompanyID != companyID || e.ProductID != productID || e.WarehouseID != warehouseID {
			continue
		}
		if lotID != nil && !sameLot(e.LotID, lotID) {
			continue
		}
		sum = sum.Add(e.QtyDelta)
	}
	return sum, nil
}

// ---- capas de costo ----

type layerRepo struct {
	s      *Store
	locked bool
}

func (r *layerRepo) Create(ctx context.Context, layer *entity.CostLayer) (*entity.CostLayer, error) {
	defer r.s.lock(r.locked)()
	if layer.ID == "" {
		layer.ID = uuid.New().String()
	}
	layer.CreatedAt = r.s.nextTime()
	c := *layer
	r.s.Layers = append(r.s.Layers, &c)
	return layer, nil
}

func (r *layerRepo) selectSorted(match func(*entity.CostLayer) bool) []*entity.CostLayer {
	var out []*entity.CostLayer
	for _, l := range r.s.Layers {
		if l.QtyRemaining.GreaterThan(decimal.Zero) && match(l) {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out
}

func (r *layerRepo) SelectForConsume(ctx context.Context, companyID, productID, warehouseID string, lotID *string) ([]*entity.CostLayer, error) {
	defer r.s.lock(r.locked)()
	return r.selectSorted(func(l *entity.CostLayer) bool {
		if l.CompanyID != companyID || l.ProductID != productID || l.WarehouseID != warehouseID {
			return false
		}
		return lotID == nil || sameLot(l.LotID, lotID)
	}), nil
}

func (r *layerRepo) SelectBySourceForConsume(ctx context.Context, companyID, sourceType, sourceID string) ([]*entity.CostLayer, error) {
	defer r.s.lock(r.locked)()
	return r.selectSorted(func(l *entity.CostLayer) bool {
		return l.CompanyID == companyID && l.SourceType == sourceType && l.SourceID == sourceID
	}), nil
}

func (r *layerRepo) DecrementRemaining(ctx context.Context, layerID string, qty decimal.Decimal) error {
	defer r.s.lock(r.locked)()
	if !qty.IsPositive() {
		return fmt.Errorf("%w: decremento de capa no positivo", domain.ErrInvalidInput)
	}
	for _, l := range r.s.Layers {
		if l.ID != layerID {
			continue
		}
		if l.QtyRemaining.LessThan(qty) {
			return fmt.Errorf("%w: capa %s sin restante suficiente", domain.ErrConcurrencyConflict, layerID)
		}
		l.QtyRemaining = l.QtyRemaining.Sub(qty)
		return nil
	}
	return fmt.Errorf("%w: capa %s", domain.ErrNotFound, layerID)
}

func (r *layerRepo) LastKnownUnitCost(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (*decimal.Decimal, error) {
	defer r.s.lock(r.locked)()
	var latest *entity.CostLayer
	for _, l := range r.s.Layers {
		if l.CompanyID != companyID || l.ProductID != productID || l.WarehouseID != warehouseID {
			continue
		}
		if lotID != nil && !sameLot(l.LotID, lotID) {
			continue
		}
		if latest == nil || l.CreatedAt.After(latest.CreatedAt) {
			latest = l
		}
	}
	if latest == nil {
		return nil, nil
	}
	cost := latest.UnitCost
	return &cost, nil
}

func (r *layerRepo) SumRemaining(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (decimal.Decimal, error) {
	defer r.s.lock(r.locked)()
	sum := decimal.Zero
	for _, l := range r.s.Layers {
		if l.CompanyID != companyID || l.ProductID != productID || l.WarehouseID != warehouseID {
			continue
		}
		if lotID != nil && !sameLot(l.LotID, lotID) {
			continue
		}
		sum = sum.Add(l.QtyRemaining)
	}
	return sum, nil
}

// ---- lotes ----

type lotRepo struct {
	s      *Store
	locked bool
}

func (r *lotRepo) FindOrCreate(ctx context.Context, lot *entity.Lot) (*entity.Lot, error) {
	defer r.s.lock(r.locked)()
	for _, l := range r.s.Lots {
		if l.CompanyID == lot.CompanyID && l.ProductID == lot.ProductID &&
			l.WarehouseID == lot.WarehouseID && l.LotNo == lot.LotNo {
			c := *l
			return &c, nil
		}
	}
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	lot.CreatedAt = r.s.nextTime()
	c := *lot
	r.s.Lots = append(r.s.Lots, &c)
	out := *lot
	return &out, nil
}

func (r *lotRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Lot, error) {
	defer r.s.lock(r.locked)()
	for _, l := range r.s.Lots {
		if l.CompanyID == companyID && l.ID == id {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

// ---- productos ----

type productRepo struct {
	s      *Store
	locked bool
}

func (r *productRepo) Create(ctx context.Context, p *entity.Product) error {
	defer r.s.lock(r.locked)()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.s.Products[p.ID] = p
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	defer r.s.lock(r.locked)()
	p, ok := r.s.Products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *productRepo) List(ctx context.Context, companyID string) ([]*entity.Product, error) {
	defer r.s.lock(r.locked)()
	var out []*entity.Product
	for _, p := range r.s.Products {
		if p.CompanyID == companyID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *productRepo) UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error {
	defer r.s.lock(r.locked)()
	p, ok := r.s.Products[id]
	if !ok || p.CompanyID != companyID {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	p.Cost = cost
	return nil
}

// ---- documentos ----

type receiptRepo struct {
	s      *Store
	locked bool
}

func (r *receiptRepo) Create(ctx context.Context, d *entity.GoodsReceipt) error {
	defer r.s.lock(r.locked)()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	c := *d
	c.Lines = append([]entity.GoodsReceiptLine(nil), d.Lines...)
	r.s.Receipts[d.ID] = &c
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, companyID, id string) (*entity.GoodsReceipt, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Receipts[id]
	if !ok || d.CompanyID != companyID {
		return nil, nil
	}
	c := *d
	c.Lines = append([]entity.GoodsReceiptLine(nil), d.Lines...)
	return &c, nil
}

func (r *receiptRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Receipts[id]
	if !ok || d.CompanyID != companyID || d.Status != entity.DocStatusDraft {
		return false, nil
	}
	d.Status = entity.DocStatusPosted
	d.PostedAt = &at
	return true, nil
}

func (r *receiptRepo) MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Receipts[id]
	if !ok || d.CompanyID != companyID || d.Status != entity.DocStatusPosted {
		return false, nil
	}
	d.Status = entity.DocStatusVoid
	d.VoidedAt = &at
	return true, nil
}

type orderRepo struct {
	s      *Store
	locked bool
}

func (r *orderRepo) Create(ctx context.Context, d *entity.Order) error {
	defer r.s.lock(r.locked)()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	c := *d
	c.Lines = append([]entity.OrderLine(nil), d.Lines...)
	r.s.Orders[d.ID] = &c
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Order, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Orders[id]
	if !ok || d.CompanyID != companyID {
		return nil, nil
	}
	c := *d
	c.Lines = append([]entity.OrderLine(nil), d.Lines...)
	return &c, nil
}

func (r *orderRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Orders[id]
	if !ok || d.CompanyID != companyID || d.Status != entity.DocStatusDraft {
		return false, nil
	}
	d.Status = entity.DocStatusPosted
	d.PostedAt = &at
	return true, nil
}

func (r *orderRepo) MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Orders[id]
	if !ok || d.CompanyID != companyID || d.Status != entity.DocStatusPosted {
		return false, nil
	}
	d.Status = entity.DocStatusVoid
	d.VoidedAt = &at
	return true, nil
}

type transferRepo struct {
	s      *Store
	locked bool
}

func (r *transferRepo) Create(ctx context.Context, d *entity.Transfer) error {
	defer r.s.lock(r.locked)()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	c := *d
	c.Lines = append([]entity.TransferLine(nil), d.Lines...)
	r.s.Transfers[d.ID] = &c
	return nil
}

func (r *transferRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Transfer, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Transfers[id]
	if !ok || d.CompanyID != companyID {
		return nil, nil
	}
	c := *d
	c.Lines = append([]entity.TransferLine(nil), d.Lines...)
	return &c, nil
}

func (r *transferRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Transfers[id]
	if !ok || d.CompanyID != companyID || d.Status != entity.DocStatusDraft {
		return false, nil
	}
	d.Status = entity.DocStatusPosted
	d.PostedAt = &at
	return true, nil
}

func (r *transferRepo) MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Transfers[id]
	if !ok || d.CompanyID != companyID || d.Status != entity.DocStatusPosted {
		return false, nil
	}
	d.Status = entity.DocStatusVoid
	d.VoidedAt = &at
	return true, nil
}

type countRepo struct {
	s      *Store
	locked bool
}

func (r *countRepo) Create(ctx context.Context, d *entity.StockCount) error {
	defer r.s.lock(r.locked)()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	c := *d
	c.Lines = append([]entity.StockCountLine(nil), d.Lines...)
	r.s.Counts[d.ID] = &c
	return nil
}

func (r *countRepo) GetByID(ctx context.Context, companyID, id string) (*entity.StockCount, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Counts[id]
	if !ok || d.CompanyID != companyID {
		return nil, nil
	}
	c := *d
	c.Lines = append([]entity.StockCountLine(nil), d.Lines...)
	return &c, nil
}

func (r *countRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Counts[id]
	if !ok || d.CompanyID != companyID || d.Status != entity.DocStatusDraft {
		return false, nil
	}
	d.Status = entity.DocStatusPosted
	d.PostedAt = &at
	return true, nil
}

type adjustRepo struct {
	s      *Store
	locked bool
}

func (r *adjustRepo) Create(ctx context.Context, d *entity.Adjustment) error {
	defer r.s.lock(r.locked)()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	c := *d
	c.Lines = append([]entity.AdjustmentLine(nil), d.Lines...)
	r.s.Adjusts[d.ID] = &c
	return nil
}

func (r *adjustRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Adjustment, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Adjusts[id]
	if !ok || d.CompanyID != companyID {
		return nil, nil
	}
	c := *d
	c.Lines = append([]entity.AdjustmentLine(nil), d.Lines...)
	return &c, nil
}

func (r *adjustRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	defer r.s.lock(r.locked)()
	d, ok := r.s.Adjusts[id]
	if !ok || d.CompanyID != companyID || d.Status != entity.DocStatusDraft {
		return false, nil
	}
	d.Status = entity.DocStatusPosted
	d.PostedAt = &at
	return true, nil
}
