package repository

import (
	"context"

	"github.com/kunalkumaramar/daadis/models"
	"gorm.io/gorm"
)

// ReceiptRepository persists verified-payment receipts.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *models.Receipt) error
	FindByPaymentID(ctx context.Context, userID, paymentID string) (*models.Receipt, error)
	FindByUserID(ctx context.Context, userID string, page, limit int) ([]models.Receipt, int64, error)
}

type gormReceiptRepository struct {
	db *gorm.DB
}

func NewGormReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &gormReceiptRepository{db: db}
}

func (r *gormReceiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *gormReceiptRepository) FindByPaymentID(ctx context.Context, userID, paymentID string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND payment_id = ?", userID, paymentID).
		First(&receipt).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *gormReceiptRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]models.Receipt, int64, error) {
	var receipts []models.Receipt
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Receipt{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("paid_at DESC").
		Offset(offset).Limit(limit).
		Find(&receipts).Error
	if err != nil {
		return nil, 0, err
	}
	return receipts, total, nil
}
