package rates

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// Service stores one USD to VES rate per calendar date and converts amounts
// both ways, rounding to 2 decimals.
type Service interface {
	Upsert(ctx context.Context, date time.Time, rate decimal.Decimal) (*models.ExchangeRate, error)
	ForDate(ctx context.Context, date time.Time) (*models.ExchangeRate, error)
	Latest(ctx context.Context) (*models.ExchangeRate, error)
	List(ctx context.Context, limit int) ([]models.ExchangeRate, error)
	ToVES(ctx context.Context, usd decimal.Decimal) (decimal.Decimal, error)
	ToUSD(ctx context.Context, ves decimal.Decimal) (decimal.Decimal, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the exchange rate service.
func NewService(conn *gorm.DB) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: conn}, nil
}

func (s *service) Upsert(ctx context.Context, date time.Time, rate decimal.Decimal) (*models.ExchangeRate, error) {
	if !rate.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must be positive")
	}
	day := date.Format(dateLayout)

	record := &models.ExchangeRate{Date: day, Rate: rate}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{"rate": rate, "updated_at": time.Now().UTC()}),
		}).
		Create(record).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upserting exchange rate")
	}
	return s.ForDate(ctx, date)
}

func (s *service) ForDate(ctx context.Context, date time.Time) (*models.ExchangeRate, error) {
	var record models.ExchangeRate
	err := s.db.WithContext(ctx).Where("date = ?", date.Format(dateLayout)).First(&record).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no rate recorded for that date")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading exchange rate")
	}
	return &record, nil
}

func (s *service) Latest(ctx context.Context) (*models.ExchangeRate, error) {
	var record models.ExchangeRate
	err := s.db.WithContext(ctx).Order("date DESC").First(&record).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no rates recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading latest rate")
	}
	return &record, nil
}

func (s *service) List(ctx context.Context, limit int) ([]models.ExchangeRate, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	var records []models.ExchangeRate
	err := s.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing exchange rates")
	}
	return records, nil
}

func (s *service) ToVES(ctx context.Context, usd decimal.Decimal) (decimal.Decimal, error) {
	latest, err := s.Latest(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return usd.Mul(latest.Rate).Round(2), nil
}

func (s *service) ToUSD(ctx context.Context, ves decimal.Decimal) (decimal.Decimal, error) {
	latest, err := s.Latest(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if latest.Rate.IsZero() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeInternal, "recorded rate is zero")
	}
	return ves.DivRound(latest.Rate, 2), nil
}
