package postgres

import (
	"context"
	"strings"
	"time"

	"library-lending/internal/domain/item"
	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	itemColumns = `id, title, author, genre, total_copies, available_copies, created_at`

	insertItemSQL = `INSERT INTO items
		(id, title, author, genre, total_copies, available_copies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	selectItemSQL = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
)

type ItemCatalog struct {
	*Store
}

func NewItemCatalog(s *Store) *ItemCatalog {
	return &ItemCatalog{Store: s}
}

func (c *ItemCatalog) Create(ctx context.Context, it *item.Item) error {
	return c.retrier.Do(ctx, "catalog.create", true, func(ctx context.Context) error {
		_, err := c.pool.Exec(ctx, insertItemSQL,
			it.ID(), it.Title().String(), it.Author().String(), it.Genre().String(),
			it.TotalCopies(), it.AvailableCopies(), it.CreatedAt(),
		)
		if err != nil {
			return wrapErr("failed to create item", err)
		}
		return nil
	})
}

func (c *ItemCatalog) FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	var it *item.Item
	err := c.retrier.Do(ctx, "catalog.find", true, func(ctx context.Context) error {
		found, err := scanItem(c.pool.QueryRow(ctx, selectItemSQL, id))
		if err != nil {
			return wrapErr("item not found", err)
		}
		it = found
		return nil
	})
	return it, err
}

// List orders newest first, ties broken by id.
func (c *ItemCatalog) List(ctx context.Context, filter shared.ItemFilter) ([]*item.Item, error) {
	query, args, err := c.buildList(filter)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build item query", err)
	}

	var items []*item.Item
	err = c.retrier.Do(ctx, "catalog.list", true, func(ctx context.Context) error {
		rows, err := c.pool.Query(ctx, query, args...)
		if err != nil {
			return wrapErr("failed to list items", err)
		}
		defer rows.Close()

		items = make([]*item.Item, 0)
		for rows.Next() {
			it, err := scanItem(rows)
			if err != nil {
				return wrapErr("failed to scan item", err)
			}
			items = append(items, it)
		}
		if err := rows.Err(); err != nil {
			return wrapErr("failed to iterate items", err)
		}
		return nil
	})
	return items, err
}

func (c *ItemCatalog) buildList(f shared.ItemFilter) (string, []any, error) {
	where := make([]exp.Expression, 0, 4)
	if f.Genre != "" {
		where = append(where, goqu.Func("LOWER", goqu.C("genre")).Eq(strings.ToLower(f.Genre)))
	}
	if f.Author != "" {
		where = append(where, goqu.Func("LOWER", goqu.C("author")).Eq(strings.ToLower(f.Author)))
	}
	if f.Status != "" {
		where = append(where, statusCondition(item.AvailabilityStatus(f.Status)))
	}
	if c := f.After; c != nil {
		where = append(where, goqu.Or(
			goqu.C("created_at").Lt(c.SortValue),
			goqu.And(goqu.C("created_at").Eq(c.SortValue), goqu.C("id").Lt(c.ID.String())),
		))
	}

	ds := c.dialect.From("items").
		Select(goqu.L(itemColumns)).
		Where(where...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Prepared(true)
	if f.Limit > 0 {
		ds = ds.Limit(uint(f.Limit))
	}
	return ds.ToSQL()
}

// statusCondition mirrors item.StatusOf in SQL.
func statusCondition(s item.AvailabilityStatus) exp.Expression {
	total, available := goqu.C("total_copies"), goqu.C("available_copies")
	switch s {
	case item.StatusNotAvailable:
		return total.Eq(0)
	case item.StatusFullyBorrowed:
		return goqu.And(total.Gt(0), available.Eq(0))
	case item.StatusAvailable:
		return goqu.And(total.Gt(0), goqu.L("available_copies = total_copies"))
	case item.StatusPartiallyAvailable:
		return goqu.And(available.Gt(0), goqu.L("available_copies < total_copies"))
	default:
		return goqu.L("FALSE")
	}
}

func scanItem(row pgx.Row) (*item.Item, error) {
	var (
		id                   uuid.UUID
		title, author, genre string
		total, available     int
		createdAt            time.Time
	)
	if err := row.Scan(&id, &title, &author, &genre, &total, &available, &createdAt); err != nil {
		return nil, err
	}
	return item.ReconstructItem(id,
		item.ReconstructTitle(title), item.ReconstructAuthor(author), item.ReconstructGenre(genre),
		total, available, createdAt.UTC(),
	), nil
}

var _ shared.ItemCatalog = (*ItemCatalog)(nil)
