// Package store is the record-store gateway: uniform CRUD over the two
// entity collections plus the request status transition. Every operation
// returns a value together with an error; backend failures degrade to an
// empty list or a local echo of the input instead of panicking past this
// boundary. The gateway itself holds no request state.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/icz3us/medical-inv-v2/domain"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrAlreadyDecided is returned when a status transition is attempted
	// on a request that already reached a terminal state.
	ErrAlreadyDecided = errors.New("store: request already decided")
)

// ItemUpdate carries the partial fields of an inventory item edit.
// Nil fields are left untouched.
type ItemUpdate struct {
	Name         *string
	Description  *string
	Category     *string
	Quantity     *int64
	Unit         *string
	CostPerUnit  *decimal.Decimal
	MinThreshold *int64
	ExpiryDate   *time.Time
	Supplier     *string
}

type ItemStore interface {
	List(ctx context.Context) ([]domain.InventoryItem, error)
	Get(ctx context.Context, id string) (domain.InventoryItem, error)
	Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	Update(ctx context.Context, id string, update ItemUpdate) (domain.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

type RequestStore interface {
	List(ctx context.Context) ([]domain.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]domain.Request, error)
	Create(ctx context.Context, request domain.Request) (domain.Request, error)
	// SetStatus moves a pending request to a terminal status. Approval
	// stamps approved_date; a request that is already approved or rejected
	// is returned unchanged with ErrAlreadyDecided.
	SetStatus(ctx context.Context, id, status string) (domain.Request, error)
}

type UserStore interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
}

// Stores bundles the per-collection gateways handed to the HTTP layer.
type Stores struct {
	Items    ItemStore
	Requests RequestStore
	Users    UserStore
}
