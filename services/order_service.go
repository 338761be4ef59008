package services

import (
	"context"
	"errors"
	"time"

	"github.com/kendall-kelly/fourwheels-api/metrics"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderUpdate lists the order fields an admin may change. Nil fields are left alone.
type OrderUpdate struct {
	Status      *string
	ShippingFee *decimal.Decimal
}

// OrderService drives the order lifecycle and keeps car status in step with it
type OrderService struct {
	db      *gorm.DB
	catalog *CatalogService
	now     func() time.Time
}

func NewOrderService(db *gorm.DB, catalog *CatalogService) *OrderService {
	return &OrderService{db: db, catalog: catalog, now: time.Now}
}

// PlaceOrder claims the car and creates a pending order for it in one transaction.
// Only one order can claim an available car.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, carID uint, shippingAddress string) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cars := repositories.NewCarRepository(tx)

		claimed, err := cars.Claim(ctx, carID)
		if err != nil {
			return err
		}
		car, err := cars.FindByID(ctx, carID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrCarNotFound
			}
			return err
		}
		if !claimed {
			return ErrCarUnavailable
		}

		order = &models.Order{
			UserID:          userID,
			CarID:           carID,
			ShippingAddress: shippingAddress,
			ShippingFee:     decimal.Zero,
			TotalPrice:      car.Price,
			PaymentMethod:   models.PaymentMethodCash,
			OrderDate:       s.now(),
			Status:          models.OrderStatusPending,
		}
		return repositories.NewOrderRepository(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordOrderEvent(metrics.OrderCreated)
	return order, nil
}

// UpdateOrder applies an admin update. A new shipping fee recomputes the total from the
// car price; a new status moves the car to the matching status. Closed orders are immutable.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, update OrderUpdate) (*models.Order, error) {
	if update.Status != nil && !models.IsValidOrderStatus(*update.Status) {
		return nil, ErrInvalidStatus
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		cars := repositories.NewCarRepository(tx)

		var err error
		order, err = s.findOrder(ctx, orders, id)
		if err != nil {
			return err
		}
		if order.IsClosed() {
			return ErrOrderClosed
		}

		if update.ShippingFee != nil {
			car, err := cars.FindByID(ctx, order.CarID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return ErrCarNotFound
				}
				return err
			}
			order.ShippingFee = *update.ShippingFee
			order.TotalPrice = car.Price.Add(*update.ShippingFee)
		}

		if update.Status != nil {
			order.Status = *update.Status
			if err := cars.SetStatus(ctx, order.CarID, models.CarStatusFor(order.Status)); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return err
			}
		}

		return orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case models.OrderStatusDelivered:
		metrics.RecordOrderEvent(metrics.OrderDelivered)
	case models.OrderStatusCancelled:
		metrics.RecordOrderEvent(metrics.OrderCancelled)
	}
	return order, nil
}

// DeleteOrder removes the order. A car held by an active order becomes available again.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		order, err := s.findOrder(ctx, orders, id)
		if err != nil {
			return err
		}
		if err := orders.Delete(ctx, id); err != nil {
			return err
		}
		if order.IsClosed() {
			return nil
		}

		err = repositories.NewCarRepository(tx).SetStatus(ctx, order.CarID, models.CarStatusAvailable)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordOrderEvent(metrics.OrderDeleted)
	return nil
}

// GetOrder returns one order
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.findOrder(ctx, repositories.NewOrderRepository(s.db), id)
}

// ListOrders returns the orders matching filter, newest first
func (s *OrderService) ListOrders(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	return repositories.NewOrderRepository(s.db).List(ctx, filter)
}

// OrderViews joins orders with their customers and cars
func (s *OrderService) OrderViews(ctx context.Context, orders []models.Order) ([]models.OrderView, error) {
	userIDs := make([]uint, 0, len(orders))
	carIDs := make([]uint, 0, len(orders))
	for _, order := range orders {
		userIDs = append(userIDs, order.UserID)
		carIDs = append(carIDs, order.CarID)
	}

	users, err := repositories.NewUserRepository(s.db).FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	cars, err := repositories.NewCarRepository(s.db).FindByIDs(ctx, carIDs)
	if err != nil {
		return nil, err
	}

	carList := make([]models.Car, 0, len(cars))
	for _, car := range cars {
		carList = append(carList, car)
	}
	carViews, err := s.catalog.CarViews(ctx, carList)
	if err != nil {
		return nil, err
	}
	viewByCar := make(map[uint]*models.CarView, len(carViews))
	for i := range carViews {
		viewByCar[carViews[i].ID] = &carViews[i]
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		view := models.OrderView{Order: order, Car: viewByCar[order.CarID]}
		if user, ok := users[order.UserID]; ok {
			view.User = user.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}

// OrderView joins a single order with its customer and car
func (s *OrderService) OrderView(ctx context.Context, order models.Order) (*models.OrderView, error) {
	views, err := s.OrderViews(ctx, []models.Order{order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *OrderService) findOrder(ctx context.Context, orders repositories.OrderRepository, id uint) (*models.Order, error) {
	order, err := orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
