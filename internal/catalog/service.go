package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

// Service exposes catalog reads for the storefront and writes for admins.
type Service interface {
	ListPublic(ctx context.Context) ([]ProductView, error)
	GetBySlug(ctx context.Context, slug string) (*ProductView, error)
	ListAll(ctx context.Context) ([]ProductView, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
	Create(ctx context.Context, input ProductInput) (*ProductView, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the catalog service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListPublic(ctx context.Context) ([]ProductView, error) {
	products, err := s.repo.ListProducts(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return viewList(products), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductView, error) {
	product, err := s.repo.FindProductBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	view := NewProductView(product)
	return &view, nil
}

func (s *service) ListAll(ctx context.Context) ([]ProductView, error) {
	products, err := s.repo.ListProducts(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return viewList(products), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewProductView(product)
	return &view, nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*ProductView, error) {
	price, variants, err := parsePricing(input)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, input.Name, nil)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		Price:       price,
		ImageURL:    input.ImageURL,
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
		}
		for i := range variants {
			variants[i].ProductID = created.ID
		}
		if err := repo.ReplaceVariants(ctx, created.ID, variants); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving variants")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, product.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductView, error) {
	existing, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	price, variants, err := parsePricing(input)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":        strings.TrimSpace(input.Name),
		"description": input.Description,
		"price":       price,
		"image_url":   input.ImageURL,
		"sort_order":  input.SortOrder,
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if !strings.EqualFold(strings.TrimSpace(input.Name), existing.Name) {
		slug, err := s.uniqueSlug(ctx, input.Name, &id)
		if err != nil {
			return nil, err
		}
		updates["slug"] = slug
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateProduct(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
		}
		for i := range variants {
			variants[i].ProductID = id
		}
		if err := repo.ReplaceVariants(ctx, id, variants); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving variants")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func parsePricing(input ProductInput) (decimal.Decimal, []models.ProductVariant, error) {
	price, err := parsePrice(input.Price)
	if err != nil {
		return decimal.Zero, nil, err
	}

	seen := map[string]struct{}{}
	variants := make([]models.ProductVariant, 0, len(input.Variants))
	for _, v := range input.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "variant name required")
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate variant %q", name))
		}
		seen[key] = struct{}{}

		variantPrice, err := parsePrice(v.Price)
		if err != nil {
			return decimal.Zero, nil, err
		}
		variants = append(variants, models.ProductVariant{
			Name:      name,
			Price:     variantPrice,
			SortOrder: v.SortOrder,
		})
	}
	return price, variants, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid price %q", raw))
	}
	if price.IsNegative() || price.IsZero() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	return price, nil
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

func (s *service) uniqueSlug(ctx context.Context, name string, excludeID *uuid.UUID) (string, error) {
	base := slugify(name)
	if base == "" {
		base = "product"
	}

	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking slug")
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugify(name string) string {
	replacer := strings.NewReplacer(
		"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
		"Ç", "c", "Ğ", "g", "İ", "i", "Ö", "o", "Ş", "s", "Ü", "u",
	)
	slug := strings.ToLower(replacer.Replace(strings.TrimSpace(name)))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func viewList(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, NewProductView(&products[i]))
	}
	return views
}
