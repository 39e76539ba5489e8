// Package memory provides an in-memory table implementation of accesspoint.AccessPoint.
//
// Items are kept in insertion order. Search returns copies: mutations of a returned item become
// visible to other readers only once the item is saved back with Save.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/request"
)

const (
	logMsgSearchCompleted = "memory access point: search completed"
	logMsgItemCreated     = "memory access point: item created"
	logMsgItemSaved       = "memory access point: item saved"
	logMsgItemDeleted     = "memory access point: item deleted"
	logAttrRequest        = "request"
	logAttrItemCount      = "item_count"
	logAttrIdentity       = "identity"
)

// AccessPoint is an in-memory table. It is safe for concurrent use.
type AccessPoint struct {
	schema accesspoint.Schema
	logger accesspoint.Logger

	mu    sync.RWMutex
	items []*accesspoint.BaseItem
}

// Option defines a functional option for configuring AccessPoint.
type Option func(*AccessPoint) error

// WithLogger sets the logger for the AccessPoint.
// Debug level receives searches with their item counts, Info level receives writes.
func WithLogger(logger accesspoint.Logger) Option {
	return func(ap *AccessPoint) error {
		ap.logger = logger
		return nil
	}
}

// New creates an empty in-memory AccessPoint exposing schema.
func New(schema accesspoint.Schema, options ...Option) (*AccessPoint, error) {
	ap := &AccessPoint{
		schema: schema,
		items:  make([]*accesspoint.BaseItem, 0),
	}

	for _, option := range options {
		if err := option(ap); err != nil {
			return nil, err
		}
	}

	return ap, nil
}

// Schema implements accesspoint.AccessPoint.
func (ap *AccessPoint) Schema() accesspoint.Schema {
	return ap.schema
}

// Len returns the number of stored items.
func (ap *AccessPoint) Len() int {
	ap.mu.RLock()
	defer ap.mu.RUnlock()

	return len(ap.items)
}

// Fill creates one item per row.
func (ap *AccessPoint) Fill(ctx context.Context, rows ...map[string]any) error {
	for _, row := range rows {
		if _, err := ap.Create(ctx, row); err != nil {
			return err
		}
	}

	return nil
}

// Search returns copies of the items matching r, in insertion order.
// It fails with accesspoint.ErrUnknownProperty when r references a property outside of the schema.
func (ap *AccessPoint) Search(ctx context.Context, r request.Request) ([]accesspoint.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := ap.schema.ValidateRequest(r); err != nil {
		return nil, err
	}

	ap.mu.RLock()
	defer ap.mu.RUnlock()

	found := make([]accesspoint.Item, 0)
	for _, item := range ap.items {
		ok, err := request.Matches(r, item)
		if err != nil {
			return nil, err
		}

		if ok {
			found = append(found, item.Clone())
		}
	}

	ap.debug(logMsgSearchCompleted, logAttrRequest, stringOf(r), logAttrItemCount, len(found))

	return found, nil
}

// Create stores a new item built from values.
//
// Every identity property must be present in values; an item with the same identity must not exist.
func (ap *AccessPoint) Create(ctx context.Context, values map[string]any) (accesspoint.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	item, err := accesspoint.NewItem(ap, values)
	if err != nil {
		return nil, err
	}

	for _, name := range ap.schema.Identity() {
		if _, ok := values[name]; !ok {
			return nil, fmt.Errorf("%w: %q", accesspoint.ErrMissingIdentity, name)
		}
	}

	ap.mu.Lock()
	defer ap.mu.Unlock()

	identity, err := accesspoint.IdentityOf(ap.schema, item)
	if err != nil {
		return nil, err
	}

	if idx, err := ap.indexOf(identity); err != nil {
		return nil, err
	} else if idx >= 0 {
		return nil, accesspoint.ErrDuplicateIdentity
	}

	ap.items = append(ap.items, item.Clone())
	ap.info(logMsgItemCreated, logAttrIdentity, identity)

	return item, nil
}

// Open returns a copy of the item whose identity equals identity.
func (ap *AccessPoint) Open(ctx context.Context, identity map[string]any) (accesspoint.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range ap.schema.Identity() {
		if _, ok := identity[name]; !ok {
			return nil, fmt.Errorf("%w: %q", accesspoint.ErrMissingIdentity, name)
		}
	}

	r := request.FromMap(identity)
	if err := ap.schema.ValidateRequest(r); err != nil {
		return nil, err
	}

	ap.mu.RLock()
	defer ap.mu.RUnlock()

	idx, err := ap.indexOf(identity)
	if err != nil {
		return nil, err
	}

	if idx < 0 {
		return nil, accesspoint.ErrItemNotFound
	}

	return ap.items[idx].Clone(), nil
}

// Delete removes the stored item sharing the identity of item.
func (ap *AccessPoint) Delete(ctx context.Context, item accesspoint.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	identity, err := ap.identityOfOwned(item)
	if err != nil {
		return err
	}

	ap.mu.Lock()
	defer ap.mu.Unlock()

	idx, err := ap.indexOf(identity)
	if err != nil {
		return err
	}

	if idx < 0 {
		return accesspoint.ErrItemNotFound
	}

	ap.items = append(ap.items[:idx], ap.items[idx+1:]...)
	ap.info(logMsgItemDeleted, logAttrIdentity, identity)

	return nil
}

// Save stores the current values of item, replacing the stored item with the same identity
// or appending it when there is none.
func (ap *AccessPoint) Save(ctx context.Context, item accesspoint.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	identity, err := ap.identityOfOwned(item)
	if err != nil {
		return err
	}

	ap.mu.Lock()
	defer ap.mu.Unlock()

	idx, err := ap.indexOf(identity)
	if err != nil {
		return err
	}

	saved := item.(*accesspoint.BaseItem).Clone()
	if idx < 0 {
		ap.items = append(ap.items, saved)
	} else {
		ap.items[idx] = saved
	}

	ap.info(logMsgItemSaved, logAttrIdentity, identity)

	return nil
}

func (ap *AccessPoint) identityOfOwned(item accesspoint.Item) (map[string]any, error) {
	base, ok := item.(*accesspoint.BaseItem)
	if !ok || base.AccessPoint() != accesspoint.AccessPoint(ap) {
		return nil, accesspoint.ErrForeignItem
	}

	return accesspoint.IdentityOf(ap.schema, base)
}

// indexOf must be called with ap.mu held. Without identity properties no item can be addressed.
func (ap *AccessPoint) indexOf(identity map[string]any) (int, error) {
	if len(identity) == 0 {
		return -1, nil
	}

	r := request.FromMap(identity)

	for idx, item := range ap.items {
		ok, err := request.Matches(r, item)
		if err != nil {
			return -1, err
		}

		if ok {
			return idx, nil
		}
	}

	return -1, nil
}

func (ap *AccessPoint) debug(msg string, args ...any) {
	if ap.logger != nil {
		ap.logger.Debug(msg, args...)
	}
}

func (ap *AccessPoint) info(msg string, args ...any) {
	if ap.logger != nil {
		ap.logger.Info(msg, args...)
	}
}

func stringOf(r request.Request) string {
	if r == nil {
		return "<all>"
	}

	return r.String()
}
