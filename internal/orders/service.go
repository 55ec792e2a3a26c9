package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/types"
)

const codeMintAttempts = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput carries everything needed to materialize an order from a
// frozen checkout draft.
type CreateInput struct {
	Draft         types.OrderDraft
	PaymentMethod enums.PaymentMethod
	CardProvider  *enums.CardProvider
	ReceiptURL    *string
}

// Service exposes order creation, tracking and back-office management.
type Service interface {
	CreateFromDraft(ctx context.Context, input CreateInput) (*models.Order, error)
	Track(ctx context.Context, rawCode string) (*TrackingView, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	List(ctx context.Context, statusFilter *string) ([]View, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID, input AdvanceStatusInput) (*View, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the orders service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateFromDraft(ctx context.Context, input CreateInput) (*models.Order, error) {
	if len(input.Draft.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order draft has no lines")
	}

	total, err := input.Draft.TotalAmount()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing draft total")
	}

	items := make([]models.OrderItem, 0, len(input.Draft.Lines))
	for _, line := range input.Draft.Lines {
		unitPrice, err := line.LineUnitPrice()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing draft line price")
		}
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			VariantName: line.VariantName,
			Name:        line.Name,
			UnitPrice:   unitPrice,
			Quantity:    line.Quantity,
			LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}

	code, err := s.mintCode(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderCode:     code,
		Status:        enums.OrderStatusPending,
		PaymentMethod: input.PaymentMethod,
		CardProvider:  input.CardProvider,
		CustomerName:  input.Draft.Customer.Name,
		Phone:         input.Draft.Customer.Phone,
		Email:         input.Draft.Customer.Email,
		Address:       input.Draft.Customer.Address,
		City:          input.Draft.Customer.City,
		District:      input.Draft.Customer.District,
		Note:          input.Draft.Customer.Note,
		TotalAmount:   total,
		ReceiptURL:    input.ReceiptURL,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		for i := range items {
			items[i].OrderID = created.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	return order, nil
}

func (s *service) Track(ctx context.Context, rawCode string) (*TrackingView, error) {
	code := NormalizeOrderCode(rawCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code required")
	}

	order, err := s.repo.FindOrderByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	view := NewTrackingView(order)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	view := NewView(order)
	return &view, nil
}

func (s *service) List(ctx context.Context, statusFilter *string) ([]View, error) {
	var status *enums.OrderStatus
	if statusFilter != nil && *statusFilter != "" {
		parsed, err := enums.ParseOrderStatus(*statusFilter)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = &parsed
	}

	records, err := s.repo.ListOrders(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	views := make([]View, 0, len(records))
	for i := range records {
		views = append(views, NewView(&records[i]))
	}
	return views, nil
}

func (s *service) AdvanceStatus(ctx context.Context, id uuid.UUID, input AdvanceStatusInput) (*View, error) {
	target, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	if !order.Status.CanAdvanceTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}

	if err := s.repo.UpdateOrderStatus(ctx, id, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}

	order.Status = target
	view := NewView(order)
	return &view, nil
}

func (s *service) mintCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeMintAttempts; attempt++ {
		code, err := NewOrderCode()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting order code")
		}
		exists, err := s.repo.OrderCodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking order code")
		}
		if !exists {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "exhausted order code attempts")
}
