package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/icz3us/medical-inv-v2/domain"
)

// NewPostgresStores wires the Postgres gateways over a shared connection pool.
func NewPostgresStores(db *sqlx.DB) Stores {
	return Stores{
		Items:    &PostgresItemStore{db: db},
		Requests: &PostgresRequestStore{db: db},
		Users:    &PostgresUserStore{db: db},
	}
}

// PostgresItemStore implements ItemStore against the inventory_items table.
type PostgresItemStore struct {
	db *sqlx.DB
}

var _ ItemStore = (*PostgresItemStore)(nil)

const itemColumns = `id, name, description, category, quantity, unit, cost_per_unit, min_threshold, expiry_date, supplier, created_at`

func (s *PostgresItemStore) List(ctx context.Context) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+itemColumns+` FROM inventory_items ORDER BY created_at DESC`)
	if err != nil {
		return []domain.InventoryItem{}, err
	}
	return items, nil
}

func (s *PostgresItemStore) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := s.db.GetContext(ctx, &item,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryItem{}, ErrNotFound
	}
	return item, err
}

func (s *PostgresItemStore) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_items (`+itemColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		item.ID, item.Name, item.Description, item.Category, item.Quantity, item.Unit,
		item.CostPerUnit, item.MinThreshold, item.ExpiryDate, item.Supplier, item.CreatedAt)
	if err != nil {
		// Best-effort local echo so the caller can keep rendering.
		return item, err
	}
	return item, nil
}

func (s *PostgresItemStore) Update(ctx context.Context, id string, update ItemUpdate) (domain.InventoryItem, error) {
	var (
		clauses []string
		args    []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Name != nil {
		set("name", *update.Name)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.Category != nil {
		set("category", domain.NormalizeCategory(*update.Category))
	}
	if update.Quantity != nil {
		set("quantity", *update.Quantity)
	}
	if update.Unit != nil {
		set("unit", *update.Unit)
	}
	if update.CostPerUnit != nil {
		set("cost_per_unit", *update.CostPerUnit)
	}
	if update.MinThreshold != nil {
		set("min_threshold", *update.MinThreshold)
	}
	if update.ExpiryDate != nil {
		set("expiry_date", *update.ExpiryDate)
	}
	if update.Supplier != nil {
		set("supplier", *update.Supplier)
	}
	if len(clauses) == 0 {
		return s.Get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE inventory_items SET %s WHERE id = $%d RETURNING `+itemColumns,
		strings.Join(clauses, ", "), len(args))

	var item domain.InventoryItem
	err := s.db.GetContext(ctx, &item, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryItem{}, ErrNotFound
	}
	return item, err
}

func (s *PostgresItemStore) Delete(ctx context.Context, id string) error {
	// Deleting a missing id is not an error at this layer.
	_, err := s.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	return err
}

// PostgresRequestStore implements RequestStore against the requests table.
type PostgresRequestStore struct {
	db *sqlx.DB
}

var _ RequestStore = (*PostgresRequestStore)(nil)

const requestColumns = `r.id, r.item_id, r.requester_id, r.quantity_requested, r.status, r.request_date, r.approved_date, r.department, r.reason`

const requestSelect = `SELECT ` + requestColumns + `,
		COALESCE(i.name, '') AS item_name,
		COALESCE(u.name, '') AS requester_name
	FROM requests r
	LEFT JOIN inventory_items i ON i.id = r.item_id
	LEFT JOIN users u ON u.id = r.requester_id`

func (s *PostgresRequestStore) List(ctx context.Context) ([]domain.Request, error) {
	requests := []domain.Request{}
	err := s.db.SelectContext(ctx, &requests, requestSelect+` ORDER BY r.request_date DESC`)
	if err != nil {
		return []domain.Request{}, err
	}
	return requests, nil
}

func (s *PostgresRequestStore) ListByRequester(ctx context.Context, requesterID string) ([]domain.Request, error) {
	requests := []domain.Request{}
	err := s.db.SelectContext(ctx, &requests,
		requestSelect+` WHERE r.requester_id = $1 ORDER BY r.request_date DESC`, requesterID)
	if err != nil {
		return []domain.Request{}, err
	}
	return requests, nil
}

func (s *PostgresRequestStore) Create(ctx context.Context, request domain.Request) (domain.Request, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (id, item_id, requester_id, quantity_requested, status, request_date, department, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		request.ID, request.ItemID, request.RequesterID, request.QuantityRequested,
		request.Status, request.RequestDate, request.Department, request.Reason)
	if err != nil {
		return request, err
	}
	return request, nil
}

func (s *PostgresRequestStore) SetStatus(ctx context.Context, id, status string) (domain.Request, error) {
	// The status guard makes the terminal transition happen at most once
	// even under concurrent approvals.
	var request domain.Request
	err := s.db.GetContext(ctx, &request,
		`UPDATE requests
		 SET status = $1,
		     approved_date = CASE WHEN $1 = 'approved' THEN NOW() ELSE approved_date END
		 WHERE id = $2 AND status = 'pending'
		 RETURNING id, item_id, requester_id, quantity_requested, status, request_date, approved_date, department, reason`,
		status, id)
	if err == nil {
		return request, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Request{}, err
	}

	// Nothing transitioned: either the id is unknown or the request was
	// already decided.
	existing := []domain.Request{}
	if err := s.db.SelectContext(ctx, &existing, requestSelect+` WHERE r.id = $1`, id); err != nil {
		return domain.Request{}, err
	}
	if len(existing) == 0 {
		return domain.Request{}, ErrNotFound
	}
	return existing[0], ErrAlreadyDecided
}

// PostgresUserStore implements UserStore against the users table.
type PostgresUserStore struct {
	db *sqlx.DB
}

var _ UserStore = (*PostgresUserStore)(nil)

func (s *PostgresUserStore) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := s.db.SelectContext(ctx, &users, `SELECT id, name, role, COALESCE(email, '') AS email FROM users ORDER BY id`)
	if err != nil {
		return []domain.User{}, err
	}
	return users, nil
}

func (s *PostgresUserStore) Get(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT id, name, role, COALESCE(email, '') AS email FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}
