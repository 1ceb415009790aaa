package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

// PurchaseRepo stores the purchase log.
type PurchaseRepo struct{ DB *sql.DB }

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{DB: db} }

const purchaseCols = "id,item_name,cost,quantity,category,purchase_date,purchase_frequency,is_active_for_projection,is_stock_item,created_at"

var purchaseFields = map[string]string{
	"id":                    "id",
	"itemName":              "item_name",
	"cost":                  "cost",
	"quantity":              "quantity",
	"category":              "category",
	"purchaseDate":          "purchase_date",
	"purchaseFrequency":     "purchase_frequency",
	"isActiveForProjection": "is_active_for_projection",
	"isStockItem":           "is_stock_item",
	"createdAt":             "created_at",
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// List returns purchases matching q, newest purchase date first by default.
func (r *PurchaseRepo) List(ctx context.Context, q ListQuery) ([]model.Purchase, error) {
	return r.list(ctx, q, "purchase_date DESC, created_at DESC")
}

// All returns every purchase in chronological order.  The usage engine takes
// its display casing from the first record of each item, so the order is
// part of the contract.
func (r *PurchaseRepo) All(ctx context.Context) ([]model.Purchase, error) {
	return r.list(ctx, ListQuery{}, "purchase_date, created_at")
}

func (r *PurchaseRepo) list(ctx context.Context, q ListQuery, fallback string) ([]model.Purchase, error) {
	tail, args, err := q.build(purchaseFields, fallback)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, "SELECT "+purchaseCols+" FROM purchases"+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (model.Purchase, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+purchaseCols+" FROM purchases WHERE id=?", id)
	p, err := scanPurchase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// Create inserts p, assigning its id and created_at.
func (r *PurchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	return insertPurchase(ctx, r.DB, p)
}

// CreateMany inserts all of ps in one transaction; either every record is
// stored or none is.
func (r *PurchaseRepo) CreateMany(ctx context.Context, ps []*model.Purchase) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for i, p := range ps {
		if err := insertPurchase(ctx, tx, p); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("purchase %d (%s): %w", i+1, p.ItemName, err)
		}
	}
	return tx.Commit()
}

// Update overwrites the editable fields of the purchase with p.ID.
func (r *PurchaseRepo) Update(ctx context.Context, p *model.Purchase) error {
	existing, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	_, err = r.DB.ExecContext(ctx,
		`UPDATE purchases SET item_name=?, cost=?, quantity=?, category=?, purchase_date=?,
		 purchase_frequency=?, is_active_for_projection=?, is_stock_item=? WHERE id=?`,
		strings.TrimSpace(p.ItemName), p.Cost, p.Quantity, p.Category, p.PurchaseDate.UTC(),
		p.PurchaseFrequency, p.IsActiveForProjection, p.IsStockItem, p.ID)
	return err
}

func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM purchases WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActiveByName sets is_active_for_projection on every purchase whose
// trimmed, case-folded name equals name's.  It returns the number of
// matching records, or ErrNotFound when there are none.
func (r *PurchaseRepo) SetActiveByName(ctx context.Context, name string, active bool) (int, error) {
	return r.setFlagByName(ctx, "is_active_for_projection", name, active)
}

// SetStockByName is SetActiveByName for is_stock_item.
func (r *PurchaseRepo) SetStockByName(ctx context.Context, name string, stock bool) (int, error) {
	return r.setFlagByName(ctx, "is_stock_item", name, stock)
}

// setFlagByName counts matches first because MySQL reports only changed rows
// as affected.
func (r *PurchaseRepo) setFlagByName(ctx context.Context, col, name string, v bool) (int, error) {
	key := model.ItemKey(name)
	if key == "" {
		return 0, ErrNotFound
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM purchases WHERE LOWER(TRIM(item_name))=?", key).Scan(&n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE purchases SET "+col+"=? WHERE LOWER(TRIM(item_name))=?", v, key); err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func insertPurchase(ctx context.Context, db execer, p *model.Purchase) error {
	p.ID = newID()
	p.ItemName = strings.TrimSpace(p.ItemName)
	if p.Category == "" {
		p.Category = model.DefaultCategory
	}
	p.CreatedAt = now()
	_, err := db.ExecContext(ctx,
		"INSERT INTO purchases ("+purchaseCols+") VALUES (?,?,?,?,?,?,?,?,?,?)",
		p.ID, p.ItemName, p.Cost, p.Quantity, p.Category, p.PurchaseDate.UTC(),
		p.PurchaseFrequency, p.IsActiveForProjection, p.IsStockItem, p.CreatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(s rowScanner) (model.Purchase, error) {
	var p model.Purchase
	err := s.Scan(&p.ID, &p.ItemName, &p.Cost, &p.Quantity, &p.Category, &p.PurchaseDate,
		&p.PurchaseFrequency, &p.IsActiveForProjection, &p.IsStockItem, &p.CreatedAt)
	return p, err
}
