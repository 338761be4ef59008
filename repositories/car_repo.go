package repositories

import (
	"context"

	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CarFilter narrows a car listing. Zero values mean "no constraint".
type CarFilter struct {
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal // inclusive
	AutomakerID uint
	Status      string
}

type CarRepository interface {
	List(ctx context.Context, filter CarFilter) ([]models.Car, error)
	FindByID(ctx context.Context, id uint) (*models.Car, error)
	// FindByIDs returns the cars keyed by id; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Car, error)
	Create(ctx context.Context, car *models.Car) error
	Save(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id uint) error
	DeleteByAutomaker(ctx context.Context, automakerID uint) error
	// Claim atomically moves a car from available to in-order-progress.
	// It reports false when the car is missing or not available.
	Claim(ctx context.Context, id uint) (bool, error)
	SetStatus(ctx context.Context, id uint, status string) error
}

type CarRepositoryImpl struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) CarRepository {
	return &CarRepositoryImpl{db: db}
}

func (r *CarRepositoryImpl) List(ctx context.Context, filter CarFilter) ([]models.Car, error) {
	q := r.db.WithContext(ctx).Model(&models.Car{})
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.AutomakerID != 0 {
		q = q.Where("automaker_id = ?", filter.AutomakerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	cars := []models.Car{}
	if err := q.Order("id ASC").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *CarRepositoryImpl) FindByID(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, id).Error; err != nil {
		return nil, translate(err)
	}
	return &car, nil
}

func (r *CarRepositoryImpl) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Car, error) {
	out := make(map[uint]models.Car, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cars []models.Car
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cars).Error; err != nil {
		return nil, err
	}
	for _, c := range cars {
		out[c.ID] = c
	}
	return out, nil
}

func (r *CarRepositoryImpl) Create(ctx context.Context, car *models.Car) error {
	if car.Status == "" {
		car.Status = models.CarStatusAvailable
	}
	return translate(r.db.WithContext(ctx).Create(car).Error)
}

func (r *CarRepositoryImpl) Save(ctx context.Context, car *models.Car) error {
	return translate(r.db.WithContext(ctx).Save(car).Error)
}

func (r *CarRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Car{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CarRepositoryImpl) DeleteByAutomaker(ctx context.Context, automakerID uint) error {
	return r.db.WithContext(ctx).Where("automaker_id = ?", automakerID).Delete(&models.Car{}).Error
}

func (r *CarRepositoryImpl) Claim(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Car{}).
		Where("id = ? AND status = ?", id, models.CarStatusAvailable).
		Update("status", models.CarStatusInOrderProgress)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *CarRepositoryImpl) SetStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Car{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
