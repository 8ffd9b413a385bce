package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/payflow/payment-engine/internal/constant/model/db"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/port/output"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository is a secondary adapter that implements the
// PaymentRepository output port
type GormPaymentRepository struct {
	gormDB *gorm.DB
}

// NewGormPaymentRepository creates a new GORM payment repository
func NewGormPaymentRepository(gormDB *gorm.DB) output.PaymentRepository {
	return &GormPaymentRepository{gormDB: gormDB}
}

func paymentToCore(p *db.Payment) *core.Payment {
	verifications := make([]core.Verification, 0, len(p.Verifications))
	for i := range p.Verifications {
		verifications = append(verifications, *verificationToCore(&p.Verifications[i]))
	}
	return &core.Payment{
		ID:            p.ID,
		Money:         core.NewMoney(p.Amount, core.Currency(p.Currency)),
		Method:        core.PaymentMethod(p.Method),
		Merchant:      p.Merchant,
		Status:        core.PaymentStatus(p.Status),
		Verifications: verifications,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func paymentFromCore(p *core.Payment) *db.Payment {
	return &db.Payment{
		ID:        p.ID,
		Amount:    p.Money.Amount,
		Currency:  string(p.Money.Currency),
		Method:    string(p.Method),
		Merchant:  p.Merchant,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Save persists a payment, assigning its ID on first save
func (r *GormPaymentRepository) Save(payment *core.Payment) (*core.Payment, error) {
	dbPayment := paymentFromCore(payment)
	if err := r.gormDB.Create(dbPayment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	saved := *payment
	saved.ID = dbPayment.ID
	saved.CreatedAt = dbPayment.CreatedAt
	saved.UpdatedAt = dbPayment.UpdatedAt
	return &saved, nil
}

// GetByID retrieves a payment with its verifications
func (r *GormPaymentRepository) GetByID(id uuid.UUID) (*core.Payment, error) {
	var dbPayment db.Payment
	err := r.gormDB.Preload("Verifications").Where("id = ?", id).First(&dbPayment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return paymentToCore(&dbPayment), nil
}

// SetStatus transitions a payment's status. The row is locked with SELECT FOR
// UPDATE so the terminal check and the write are atomic under concurrent
// completions.
func (r *GormPaymentRepository) SetStatus(id uuid.UUID, status core.PaymentStatus) error {
	return r.gormDB.Transaction(func(tx *gorm.DB) error {
		var dbPayment db.Payment

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&dbPayment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return core.ErrPaymentNotFound
			}
			return fmt.Errorf("failed to lock payment: %w", err)
		}

		if core.PaymentStatus(dbPayment.Status).IsTerminal() {
			return fmt.Errorf("%w: payment %s is already %s", core.ErrTerminalStatus, id, dbPayment.Status)
		}

		dbPayment.Status = string(status)
		if err := tx.Save(&dbPayment).Error; err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
		return nil
	})
}
