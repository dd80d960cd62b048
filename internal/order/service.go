package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/decorhub/storefront/internal/auth"
	"github.com/decorhub/storefront/internal/identity"
	"github.com/decorhub/storefront/internal/validation"
)

var tracer = otel.Tracer("storefront/order")

// UserLookup resolves the caller to a stored user.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (identity.User, error)
	FindByID(ctx context.Context, id string) (identity.User, error)
}

// ProductChecker reports whether a product id exists in the catalog.
type ProductChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Observer is notified of every persisted order (metrics).
type Observer interface {
	OrderCreated()
}

// Service places and lists orders.
type Service struct {
	users    UserLookup
	repo     Repository
	products ProductChecker
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds the order service. products, when non-nil, makes every
// item id resolve against the catalog before an order is stored. observer may
// be nil.
func NewService(users UserLookup, repo Repository, products ProductChecker, observer Observer, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		repo:     repo,
		products: products,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

type createInput struct {
	Items []Item `json:"items" validate:"dive"`
}

// CreateOrder stores a pending order for the caller.
func (s *Service) CreateOrder(ctx context.Context, caller auth.Identity, items []Item) (Order, error) {
	ctx, span := tracer.Start(ctx, "order.Create")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, caller.Email)
	if err != nil {
		if !errors.Is(err, identity.ErrUserNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return Order{}, err
	}

	if len(items) == 0 {
		return Order{}, validation.New("Order must contain at least one item")
	}
	if err := validation.Struct(createInput{Items: items}, "Invalid order items"); err != nil {
		return Order{}, err
	}
	if err := s.checkProducts(ctx, items); err != nil {
		return Order{}, err
	}

	o := Order{
		ID:        uuid.NewString(),
		User:      Owner{ID: user.ID, Email: user.Email},
		Items:     items,
		Status:    StatusPending,
		OrderDate: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Order{}, fmt.Errorf("store order: %w", err)
	}
	if s.observer != nil {
		s.observer.OrderCreated()
	}

	span.SetAttributes(attribute.String("order.id", o.ID), attribute.Int("order.items", len(items)))
	s.logger.InfoContext(ctx, "order.created",
		slog.String("order_id", o.ID),
		slog.String("user_id", user.ID),
		slog.Int("items", len(items)),
	)
	return o, nil
}

func (s *Service) checkProducts(ctx context.Context, items []Item) error {
	if s.products == nil {
		return nil
	}
	for i, item := range items {
		ok, err := s.products.Exists(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("check product %s: %w", item.ID, err)
		}
		if !ok {
			return &validation.Error{
				Message: "Unknown product in order",
				Fields: []validation.FieldError{{
					Field:   fmt.Sprintf("items[%d].id", i),
					Rule:    "exists",
					Message: "is not a catalog product",
				}},
			}
		}
	}
	return nil
}

// ListOrders returns the caller's orders, newest first. The caller is
// resolved by the user id bound into the token.
func (s *Service) ListOrders(ctx context.Context, caller auth.Identity) ([]Order, error) {
	ctx, span := tracer.Start(ctx, "order.List")
	defer span.End()

	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}
