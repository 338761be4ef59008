package repositories

import (
	"context"

	"github.com/kendall-kelly/fourwheels-api/models"
	"gorm.io/gorm"
)

type AutomakerRepository interface {
	List(ctx context.Context) ([]models.Automaker, error)
	FindByID(ctx context.Context, id uint) (*models.Automaker, error)
	// FindByIDs returns the automakers keyed by id; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Automaker, error)
	// NameTaken reports whether another automaker (not excludeID) already uses name.
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	Create(ctx context.Context, automaker *models.Automaker) error
	Rename(ctx context.Context, id uint, name string) (*models.Automaker, error)
	Delete(ctx context.Context, id uint) error
}

type AutomakerRepositoryImpl struct {
	db *gorm.DB
}

func NewAutomakerRepository(db *gorm.DB) AutomakerRepository {
	return &AutomakerRepositoryImpl{db: db}
}

func (r *AutomakerRepositoryImpl) List(ctx context.Context) ([]models.Automaker, error) {
	automakers := []models.Automaker{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&automakers).Error; err != nil {
		return nil, err
	}
	return automakers, nil
}

func (r *AutomakerRepositoryImpl) FindByID(ctx context.Context, id uint) (*models.Automaker, error) {
	var automaker models.Automaker
	if err := r.db.WithContext(ctx).First(&automaker, id).Error; err != nil {
		return nil, translate(err)
	}
	return &automaker, nil
}

func (r *AutomakerRepositoryImpl) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Automaker, error) {
	out := make(map[uint]models.Automaker, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var automakers []models.Automaker
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&automakers).Error; err != nil {
		return nil, err
	}
	for _, a := range automakers {
		out[a.ID] = a
	}
	return out, nil
}

func (r *AutomakerRepositoryImpl) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Automaker{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AutomakerRepositoryImpl) Create(ctx context.Context, automaker *models.Automaker) error {
	return translate(r.db.WithContext(ctx).Create(automaker).Error)
}

func (r *AutomakerRepositoryImpl) Rename(ctx context.Context, id uint, name string) (*models.Automaker, error) {
	automaker, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(automaker).Update("name", name).Error; err != nil {
		return nil, translate(err)
	}
	return automaker, nil
}

func (r *AutomakerRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Automaker{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
