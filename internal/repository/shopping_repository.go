package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

// ShoppingRepo stores out-of-stock reports.
type ShoppingRepo struct{ DB *sql.DB }

func NewShoppingRepo(db *sql.DB) *ShoppingRepo { return &ShoppingRepo{DB: db} }

const shoppingCols = "id,item_name,reported_by,created_at"

// List returns the shopping list, oldest report first.
func (r *ShoppingRepo) List(ctx context.Context) ([]model.ShoppingListEntry, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+shoppingCols+" FROM shopping_list ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ShoppingListEntry{}
	for rows.Next() {
		var e model.ShoppingListEntry
		if err := rows.Scan(&e.ID, &e.ItemName, &e.ReportedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Add reports itemName as out of stock.  If the item is already on the list
// (compared trimmed and case-insensitively) the existing entry is returned
// and created is false.
func (r *ShoppingRepo) Add(ctx context.Context, itemName, reportedBy string) (e model.ShoppingListEntry, created bool, err error) {
	name := strings.TrimSpace(itemName)
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return e, false, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"SELECT "+shoppingCols+" FROM shopping_list WHERE LOWER(TRIM(item_name))=? LIMIT 1",
		model.ItemKey(name)).Scan(&e.ID, &e.ItemName, &e.ReportedBy, &e.CreatedAt)
	if err == nil {
		return e, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return e, false, err
	}

	e = model.ShoppingListEntry{ID: newID(), ItemName: name, ReportedBy: reportedBy, CreatedAt: now()}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO shopping_list ("+shoppingCols+") VALUES (?,?,?,?)",
		e.ID, e.ItemName, e.ReportedBy, e.CreatedAt); err != nil {
		return model.ShoppingListEntry{}, false, err
	}
	return e, true, tx.Commit()
}

func (r *ShoppingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM shopping_list WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
