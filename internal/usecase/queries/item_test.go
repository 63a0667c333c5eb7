//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"library-lending/internal/domain/item"
	"library-lending/internal/infra"
	"library-lending/internal/infra/memory"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/queries"
	"library-lending/internal/usecase/shared"
	"library-lending/tests/common/builder"
	sharedmock "library-lending/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func seedItems(t *testing.T, catalog shared.ItemCatalog) []*item.Item {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	specs := []struct {
		title, author, genre string
		total, available     int
	}{
		{"Dune", "Frank Herbert", "Science Fiction", 2, 2},
		{"Emma", "Jane Austen", "Classics", 1, 0},
		{"Persuasion", "Jane Austen", "Classics", 3, 1},
		{"Neuromancer", "William Gibson", "Science Fiction", 0, 0},
	}
	out := make([]*item.Item, 0, len(specs))
	for i, sp := range specs {
		it, err := builder.NewItemBuilder().With(func(b *builder.ItemBuilder) {
			b.Title = sp.title
			b.Author = sp.author
			b.Genre = sp.genre
			b.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		}).WithCopies(sp.total).WithAvailable(sp.available).BuildDomain()
		require.NoError(t, err)
		require.NoError(t, catalog.Create(context.Background(), it))
		out = append(out, it)
	}
	return out
}

func titles(list *queries.ItemList) []string {
	out := make([]string, 0, len(list.Items))
	for _, v := range list.Items {
		out = append(out, v.Title)
	}
	return out
}

func TestItemQueries_List(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewItemCatalog(memory.NewStore())
	seedItems(t, catalog)
	q := queries.NewItemQueries(catalog)

	t.Run("newest first", func(t *testing.T) {
		list, err := q.List(ctx, queries.ListItemsParams{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Neuromancer", "Persuasion", "Emma", "Dune"}, titles(list))
		assert.Empty(t, list.Next)
	})

	t.Run("filters", func(t *testing.T) {
		byAuthor, err := q.List(ctx, queries.ListItemsParams{Author: "jane austen"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Persuasion", "Emma"}, titles(byAuthor))

		byGenre, err := q.List(ctx, queries.ListItemsParams{Genre: "Science Fiction"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Neuromancer", "Dune"}, titles(byGenre))

		byStatus, err := q.List(ctx, queries.ListItemsParams{Status: "fully_borrowed"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Emma"}, titles(byStatus))
	})

	t.Run("pages with a cursor", func(t *testing.T) {
		first, err := q.List(ctx, queries.ListItemsParams{Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"Neuromancer", "Persuasion", "Emma"}, titles(first))
		require.NotEmpty(t, first.Next)

		second, err := q.List(ctx, queries.ListItemsParams{Limit: 3, After: first.Next})
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune"}, titles(second))
		assert.Empty(t, second.Next)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := q.List(ctx, queries.ListItemsParams{Status: "lost"})
		require.True(t, errs.Is(err, shared.ErrInvalidQuery))
	})
}

func TestItemQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewItemCatalog(memory.NewStore())
	items := seedItems(t, catalog)
	q := queries.NewItemQueries(catalog)

	view, err := q.GetByID(ctx, items[2].ID())
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalCopies)
	assert.Equal(t, 1, view.AvailableCopies)
	assert.Equal(t, 2, view.BorrowedCopies)
	assert.Equal(t, item.StatusPartiallyAvailable, view.Status)
	assert.Equal(t, item.StatusPartiallyAvailable.Description(), view.StatusDescription)

	_, err = q.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, shared.ErrItemNotFound)
}

func TestItemQueries_StorageUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := sharedmock.NewMockItemCatalog(ctrl)
	catalog.EXPECT().List(gomock.Any(), gomock.Any()).
		Return(nil, infra.NewRepoErr(infra.KindTransient, "retries exhausted"))

	_, err := queries.NewItemQueries(catalog).List(context.Background(), queries.ListItemsParams{})

	require.True(t, errs.Is(err, shared.ErrStorageUnavailable))
}
