package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

// IdentityKey derives the line identity for a product/variant pair. A
// product with a chosen variant is a distinct line from the bare product.
func IdentityKey(productID uuid.UUID, variantName *string) string {
	if variantName == nil || strings.TrimSpace(*variantName) == "" {
		return productID.String()
	}
	return productID.String() + "-" + strings.TrimSpace(*variantName)
}

// Service exposes cart reads and writes keyed by the client token.
type Service interface {
	Get(ctx context.Context, token string) (View, error)
	AddLine(ctx context.Context, token string, input AddLineInput) (View, error)
	UpdateLine(ctx context.Context, token, identityKey string, input UpdateLineInput) (View, error)
	RemoveLine(ctx context.Context, token, identityKey string) (View, error)
	Clear(ctx context.Context, token string) error
	Snapshot(ctx context.Context, token string) (*models.CartRecord, error)
}

type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	products productFinder
	tx       txRunner
}

// NewService builds the cart service.
func NewService(repo Repository, products productFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, token string) (View, error) {
	record, err := s.repo.FindCartByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmptyView(token), nil
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return NewView(record), nil
}

func (s *service) AddLine(ctx context.Context, token string, input AddLineInput) (View, error) {
	if input.Quantity < 1 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	unitPrice := product.Price
	name := product.Name
	if input.VariantName != nil && strings.TrimSpace(*input.VariantName) != "" {
		variant := findVariant(product, *input.VariantName)
		if variant == nil {
			return View{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown variant %q", *input.VariantName))
		}
		unitPrice = variant.Price
	}

	identity := IdentityKey(input.ProductID, input.VariantName)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindCartByToken(ctx, token)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
			}
			record, err = repo.CreateCart(ctx, &models.CartRecord{Token: token})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
			}
		}

		line, err := repo.FindLine(ctx, record.ID, identity)
		if err == nil {
			return repo.UpdateLineQuantity(ctx, line.ID, line.Quantity+input.Quantity)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
		}

		var variantName *string
		if input.VariantName != nil && strings.TrimSpace(*input.VariantName) != "" {
			trimmed := strings.TrimSpace(*input.VariantName)
			variantName = &trimmed
		}
		return repo.CreateLine(ctx, &models.CartLine{
			CartID:      record.ID,
			IdentityKey: identity,
			ProductID:   product.ID,
			VariantName: variantName,
			Name:        name,
			UnitPrice:   unitPrice,
			Quantity:    input.Quantity,
			ImageURL:    product.ImageURL,
		})
	})
	if err != nil {
		return View{}, err
	}

	return s.Get(ctx, token)
}

func (s *service) UpdateLine(ctx context.Context, token, identityKey string, input UpdateLineInput) (View, error) {
	if input.Quantity <= 0 {
		return s.RemoveLine(ctx, token, identityKey)
	}

	record, line, err := s.findLine(ctx, token, identityKey)
	if err != nil {
		return View{}, err
	}
	if line == nil {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if err := s.repo.UpdateLineQuantity(ctx, line.ID, input.Quantity); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
	}
	return s.Get(ctx, record.Token)
}

// RemoveLine is idempotent. Removing a line that is not in the cart,
// or from a cart that does not exist, succeeds with the current view.
func (s *service) RemoveLine(ctx context.Context, token, identityKey string) (View, error) {
	_, line, err := s.findLine(ctx, token, identityKey)
	if err != nil {
		return View{}, err
	}
	if line == nil {
		return s.Get(ctx, token)
	}
	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
	}
	return s.Get(ctx, token)
}

func (s *service) Clear(ctx context.Context, token string) error {
	record, err := s.repo.FindCartByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if err := s.repo.DeleteLines(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}

// Snapshot returns the raw cart record for checkout. A missing or empty
// cart yields a validation error since there is nothing to purchase.
func (s *service) Snapshot(ctx context.Context, token string) (*models.CartRecord, error) {
	record, err := s.repo.FindCartByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if len(record.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return record, nil
}

// findLine resolves a cart line by identity key. An absent cart or line
// is not an error; both return values are nil so callers decide.
func (s *service) findLine(ctx context.Context, token, identityKey string) (*models.CartRecord, *models.CartLine, error) {
	record, err := s.repo.FindCartByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	line, err := s.repo.FindLine(ctx, record.ID, identityKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, nil, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}
	return record, line, nil
}

func findVariant(product *models.Product, name string) *models.ProductVariant {
	trimmed := strings.TrimSpace(name)
	for i := range product.Variants {
		if strings.EqualFold(product.Variants[i].Name, trimmed) {
			return &product.Variants[i]
		}
	}
	return nil
}
