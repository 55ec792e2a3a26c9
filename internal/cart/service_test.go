package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

type fakeCartRepo struct {
	carts map[string]*models.CartRecord
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]*models.CartRecord)}
}

func (f *fakeCartRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeCartRepo) FindCartByToken(ctx context.Context, token string) (*models.CartRecord, error) {
	record, ok := f.carts[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *record
	copied.Lines = append([]models.CartLine(nil), record.Lines...)
	return &copied, nil
}

func (f *fakeCartRepo) CreateCart(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.carts[record.Token] = record
	return record, nil
}

func (f *fakeCartRepo) FindLine(ctx context.Context, cartID uuid.UUID, identityKey string) (*models.CartLine, error) {
	for _, record := range f.carts {
		if record.ID != cartID {
			continue
		}
		for i := range record.Lines {
			if record.Lines[i].IdentityKey == identityKey {
				return &record.Lines[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) CreateLine(ctx context.Context, line *models.CartLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	for _, record := range f.carts {
		if record.ID == line.CartID {
			record.Lines = append(record.Lines, *line)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	for _, record := range f.carts {
		for i := range record.Lines {
			if record.Lines[i].ID == lineID {
				record.Lines[i].Quantity = quantity
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	for _, record := range f.carts {
		for i := range record.Lines {
			if record.Lines[i].ID == lineID {
				record.Lines = append(record.Lines[:i], record.Lines[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (f *fakeCartRepo) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	for _, record := range f.carts {
		if record.ID == cartID {
			record.Lines = nil
		}
	}
	return nil
}

func (f *fakeCartRepo) DeleteCartsInactiveSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for token, record := range f.carts {
		if record.UpdatedAt.Before(cutoff) {
			delete(f.carts, token)
			removed++
		}
	}
	return removed, nil
}

type fakeProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductFinder) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type noopTxRunner struct{}

func (noopTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func strPtr(s string) *string { return &s }

func newCartFixture(t *testing.T) (Service, uuid.UUID) {
	t.Helper()

	productID := uuid.New()
	finder := &fakeProductFinder{products: map[uuid.UUID]*models.Product{
		productID: {
			ID:       productID,
			Name:     "Collagen Powder",
			Slug:     "collagen-powder",
			Price:    decimal.RequireFromString("450.00"),
			IsActive: true,
			Variants: []models.ProductVariant{
				{ID: uuid.New(), ProductID: productID, Name: "Vanilla", Price: decimal.RequireFromString("475.00")},
				{ID: uuid.New(), ProductID: productID, Name: "Chocolate", Price: decimal.RequireFromString("480.00")},
			},
		},
	}}

	svc, err := NewService(newFakeCartRepo(), finder, noopTxRunner{})
	require.NoError(t, err)
	return svc, productID
}

func TestIdentityKeyDerivation(t *testing.T) {
	productID := uuid.New()

	assert.Equal(t, productID.String(), IdentityKey(productID, nil))
	assert.Equal(t, productID.String(), IdentityKey(productID, strPtr("  ")))
	assert.Equal(t, productID.String()+"-Vanilla", IdentityKey(productID, strPtr("Vanilla")))
}

func TestAddLineMergesSameIdentity(t *testing.T) {
	svc, productID := newCartFixture(t)
	ctx := context.Background()
	token := uuid.NewString()

	view, err := svc.AddLine(ctx, token, AddLineInput{ProductID: productID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)

	view, err = svc.AddLine(ctx, token, AddLineInput{ProductID: productID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity)
	assert.Equal(t, "2250.00", view.Subtotal)
}

func TestAddLineVariantsAreDistinctLines(t *testing.T) {
	svc, productID := newCartFixture(t)
	ctx := context.Background()
	token := uuid.NewString()

	_, err := svc.AddLine(ctx, token, AddLineInput{ProductID: productID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, token, AddLineInput{ProductID: productID, VariantName: strPtr("Vanilla"), Quantity: 1})
	require.NoError(t, err)
	view, err := svc.AddLine(ctx, token, AddLineInput{ProductID: productID, VariantName: strPtr("Chocolate"), Quantity: 1})
	require.NoError(t, err)

	require.Len(t, view.Lines, 3)
	assert.Equal(t, "1405.00", view.Subtotal)

	// variant price is used, not the base product price
	for _, line := range view.Lines {
		if line.VariantName != nil && *line.VariantName == "Vanilla" {
			assert.Equal(t, "475.00", line.UnitPrice)
		}
	}
}

func TestAddLineUnknownVariantRejected(t *testing.T) {
	svc, productID := newCartFixture(t)

	_, err := svc.AddLine(context.Background(), uuid.NewString(), AddLineInput{
		ProductID:   productID,
		VariantName: strPtr("Strawberry"),
		Quantity:    1,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateLineZeroQuantityRemoves(t *testing.T) {
	svc, productID := newCartFixture(t)
	ctx := context.Background()
	token := uuid.NewString()

	view, err := svc.AddLine(ctx, token, AddLineInput{ProductID: productID, Quantity: 2})
	require.NoError(t, err)
	identity := view.Lines[0].IdentityKey

	view, err = svc.UpdateLine(ctx, token, identity, UpdateLineInput{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, "0.00", view.Subtotal)
}

func TestAddLineMergeHasNoUpperBound(t *testing.T) {
	svc, productID := newCartFixture(t)
	ctx := context.Background()
	token := uuid.NewString()

	_, err := svc.AddLine(ctx, token, AddLineInput{ProductID: productID, Quantity: 60})
	require.NoError(t, err)
	view, err := svc.AddLine(ctx, token, AddLineInput{ProductID: productID, Quantity: 60})
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 120, view.Lines[0].Quantity)
}

func TestRemoveLineAbsentIsNoOp(t *testing.T) {
	svc, productID := newCartFixture(t)
	ctx := context.Background()
	token := uuid.NewString()

	// Cart does not even exist yet.
	view, err := svc.RemoveLine(ctx, token, "no-such-key")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	view, err = svc.AddLine(ctx, token, AddLineInput{ProductID: productID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)

	// Cart exists but the key does not; the line stays untouched.
	view, err = svc.RemoveLine(ctx, token, "no-such-key")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
}

func TestUpdateLineZeroQuantityAbsentIsNoOp(t *testing.T) {
	svc, _ := newCartFixture(t)

	view, err := svc.UpdateLine(context.Background(), uuid.NewString(), "no-such-key", UpdateLineInput{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestUpdateLinePositiveQuantityAbsentIsNotFound(t *testing.T) {
	svc, _ := newCartFixture(t)

	_, err := svc.UpdateLine(context.Background(), uuid.NewString(), "no-such-key", UpdateLineInput{Quantity: 3})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestGetUnknownTokenYieldsEmptyCart(t *testing.T) {
	svc, _ := newCartFixture(t)

	view, err := svc.Get(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, "0.00", view.Subtotal)
}

func TestSnapshotRejectsEmptyCart(t *testing.T) {
	svc, productID := newCartFixture(t)
	ctx := context.Background()
	token := uuid.NewString()

	_, err := svc.Snapshot(ctx, token)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.AddLine(ctx, token, AddLineInput{ProductID: productID, Quantity: 1})
	require.NoError(t, err)

	record, err := svc.Snapshot(ctx, token)
	require.NoError(t, err)
	assert.Len(t, record.Lines, 1)

	require.NoError(t, svc.Clear(ctx, token))
	_, err = svc.Snapshot(ctx, token)
	require.Error(t, err)
}
