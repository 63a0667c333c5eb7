package memory

import (
	"context"
	"sort"
	"strings"

	"library-lending/internal/domain/item"
	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type ItemCatalog struct {
	store *Store
}

func NewItemCatalog(store *Store) *ItemCatalog {
	return &ItemCatalog{store: store}
}

func (c *ItemCatalog) Create(ctx context.Context, it *item.Item) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, exists := c.store.items[it.ID()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "item already exists")
	}
	c.store.items[it.ID()] = cloneItem(it)
	return nil
}

func (c *ItemCatalog) FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	it, ok := c.store.item(id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "item not found")
	}
	return c.store.snapshotItem(it), nil
}

// List orders newest first, ties broken by id.
func (c *ItemCatalog) List(ctx context.Context, filter shared.ItemFilter) ([]*item.Item, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	items := c.store.allItems()
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID().String() > b.ID().String()
	})

	out := make([]*item.Item, 0)
	for _, it := range items {
		if !matchesItemFilter(it, filter) {
			continue
		}
		if filter.After != nil && !afterCursor(it.CreatedAt(), it.ID(), *filter.After, true) {
			continue
		}
		out = append(out, it)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func matchesItemFilter(it *item.Item, f shared.ItemFilter) bool {
	if f.Genre != "" && !strings.EqualFold(it.Genre().String(), f.Genre) {
		return false
	}
	if f.Author != "" && !strings.EqualFold(it.Author().String(), f.Author) {
		return false
	}
	if f.Status != "" && it.Status().String() != f.Status {
		return false
	}
	return true
}

var _ shared.ItemCatalog = (*ItemCatalog)(nil)
