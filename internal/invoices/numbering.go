package invoices

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/config"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

// Sequence hands out the next invoice number for a given day, formatted
// PREFIX-YYYYMMDD-NNNN. It counts inside the caller's transaction so the
// number and the invoice insert commit together; the unique index on the
// number column is the backstop against a rare double-issue.
type Sequence struct {
	prefix string
}

// NewSequence builds an invoice number sequence from the invoice config.
func NewSequence(cfg config.InvoiceConfig) *Sequence {
	prefix := cfg.NumberPrefix
	if prefix == "" {
		prefix = "INV"
	}
	return &Sequence{prefix: prefix}
}

// Next returns the next number in the day's sequence.
func (s *Sequence) Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error) {
	if tx == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "invoice sequence requires a transaction")
	}
	day := at.Format("20060102")
	pattern := fmt.Sprintf("%s-%s-%%", s.prefix, day)

	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("number LIKE ?", pattern).
		Count(&count).Error
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting day invoices")
	}
	return fmt.Sprintf("%s-%s-%04d", s.prefix, day, count+1), nil
}
