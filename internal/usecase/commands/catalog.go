package commands

import (
	"context"

	"library-lending/internal/domain/item"
	"library-lending/internal/infra"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrDuplicateItem = errs.New("item already exists")

type RegisterItemRequest struct {
	Title       string
	Author      string
	Genre       string
	TotalCopies int
}

//go:generate mockgen -source=catalog.go -destination=../../../tests/mock/commands/catalog_mock.go -package=commandsmock
type CatalogCommands interface {
	RegisterItem(ctx context.Context, req RegisterItemRequest) (*item.Item, error)
}

type catalogUseCaseImpl struct {
	catalog shared.ItemCatalog
	clock   clock.Clock
}

func NewCatalogUseCase(catalog shared.ItemCatalog, clk clock.Clock) CatalogCommands {
	return &catalogUseCaseImpl{catalog: catalog, clock: clk}
}

// RegisterItem puts every copy on the shelf; availability changes only through the pool
// afterwards.
func (uc *catalogUseCaseImpl) RegisterItem(ctx context.Context, req RegisterItemRequest) (*item.Item, error) {
	it, err := item.NewItem(uuid.Nil, req.Title, req.Author, req.Genre, req.TotalCopies, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.catalog.Create(ctx, it); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateItem
		}
		return nil, shared.MapStorageErr(err, nil)
	}
	return it, nil
}
