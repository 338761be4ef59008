package repositories

import (
	"context"

	"github.com/kendall-kelly/fourwheels-api/models"
	"gorm.io/gorm"
)

// OrderFilter narrows an order listing.
// An empty Status lists every order except delivered ones.
type OrderFilter struct {
	UserID uint
	Status string
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uint) error
	DeleteByCars(ctx context.Context, carIDs []uint) error
}

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	} else {
		q = q.Where("status <> ?", models.OrderStatusDelivered)
	}

	orders := []models.Order{}
	if err := q.Order("order_date DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepositoryImpl) Save(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Save(order).Error)
}

func (r *OrderRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepositoryImpl) DeleteByCars(ctx context.Context, carIDs []uint) error {
	if len(carIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("car_id IN ?", carIDs).Delete(&models.Order{}).Error
}
