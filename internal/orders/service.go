package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/internal/inventory"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
	"github.com/comanda-pos/comanda-backend/pkg/logger"
	"github.com/comanda-pos/comanda-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type invoiceNumberer interface {
	Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error)
}

// Service sequences order confirmation, cancellation and invoicing over the
// normalizer, the stock ledger and the order repository.
type Service interface {
	Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error)
	Cancel(ctx context.Context, orderID uuid.UUID) error
	Invoice(ctx context.Context, orderID uuid.UUID, number string) (*models.Invoice, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	OpenForTable(ctx context.Context, tableID uuid.UUID) (*models.Order, error)
}

type service struct {
	tx         txRunner
	repo       Repository
	normalizer *Normalizer
	ledger     inventory.Ledger
	numbers    invoiceNumberer
	log        *logger.Logger
	metrics    *metrics.OrderMetrics
}

// NewService builds the order service. Logger and metrics may be nil.
func NewService(
	tx txRunner,
	repo Repository,
	normalizer *Normalizer,
	ledger inventory.Ledger,
	numbers invoiceNumberer,
	log *logger.Logger,
	orderMetrics *metrics.OrderMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if normalizer == nil {
		return nil, fmt.Errorf("normalizer required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("invoice numberer required")
	}
	return &service{
		tx:         tx,
		repo:       repo,
		normalizer: normalizer,
		ledger:     ledger,
		numbers:    numbers,
		log:        log,
		metrics:    orderMetrics,
	}, nil
}

// Confirm turns a table's candidate cart into a durable open order while
// reconciling product stock. Normalization and the stock pre-check run
// before any write, so a doomed confirmation never mutates order state.
// The order write and the stock write are separate transactions; a stock
// failure after the order write triggers compensation.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error) {
	start := time.Now()
	if s.log != nil {
		ctx = s.log.WithTableID(ctx, input.TableID.String())
	}

	if input.TableID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table id required")
	}
	customerName := strings.TrimSpace(input.CustomerName)

	lines, total, err := s.normalizer.Normalize(ctx, input.Lines)
	if err != nil {
		s.observe(ctx, "rejected", start, err)
		return nil, err
	}

	previous := map[uuid.UUID]int{}
	if input.OrderID != nil {
		existing, err := s.repo.FindByID(ctx, *input.OrderID)
		if err != nil {
			return nil, err
		}
		if existing.Status != enums.OrderStatusOpen {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open")
		}
		if existing.TableID != input.TableID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order belongs to a different table")
		}
		previous = committedQuantities(existing.Lines)
	}
	set := ComputeStockDelta(previous, lines)

	if err := s.ledger.Check(ctx, set.Increases()); err != nil {
		outcome := "rejected"
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock {
			outcome = "insufficient_stock"
		}
		s.observe(ctx, outcome, start, err)
		return nil, err
	}

	// First durable write. If it fails no stock has moved, so no
	// compensation is needed.
	var order *models.Order
	var created bool
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		order, created, txErr = s.repo.WithTx(tx).CreateOrUpdate(ctx, input.TableID, customerName, lines, total, input.OrderID)
		return txErr
	})
	if err != nil {
		s.observe(ctx, "rejected", start, err)
		return nil, err
	}

	if !set.IsEmpty() {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.ledger.Apply(ctx, tx, set)
		})
		if err != nil {
			outcome := "rejected"
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock {
				outcome = "insufficient_stock"
			}
			s.observe(ctx, outcome, start, err)
			return nil, s.compensate(ctx, order, created, err)
		}
	}

	s.observe(ctx, "success", start, nil)
	return &ConfirmResult{OrderID: order.ID, Total: total, Created: created}, nil
}

// compensate handles a stock failure after the order write. A brand-new
// order is deleted and its table freed; an updated order cannot be reverted
// because its previous lines are already gone, so the inconsistency is
// surfaced to the caller.
func (s *service) compensate(ctx context.Context, order *models.Order, created bool, stockErr error) error {
	ctx = s.withOrderID(ctx, order.ID)
	if created {
		rollbackErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).Delete(ctx, order.ID)
		})
		if rollbackErr != nil {
			if s.log != nil {
				s.log.Error(ctx, "failed to roll back new order after stock failure", rollbackErr)
			}
			return multierr.Append(stockErr, rollbackErr)
		}
		if s.log != nil {
			s.log.Warn(ctx, "rolled back new order after stock failure")
		}
		return stockErr
	}

	if s.log != nil {
		s.log.Error(ctx, "order update left stock inconsistent, manual reconciliation required", stockErr)
	}
	msg := fmt.Sprintf("stock update failed; order %s requires manual stock reconciliation", order.ID)
	if typed := pkgerrors.As(stockErr); typed != nil {
		return pkgerrors.Wrap(typed.Code(), stockErr, msg).WithDetails(typed.Details())
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, stockErr, msg)
}

// Cancel removes an open order and returns its committed product quantities
// to stock. The repository delete and the stock return commit together; the
// ledger is the only stock mutation path.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID) error {
	ctx = s.withOrderID(ctx, orderID)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open")
		}

		returns := inventory.ChangeSet{}
		for id, qty := range committedQuantities(order.Lines) {
			returns.Add(id, -qty)
		}
		if err := repo.Cancel(ctx, orderID); err != nil {
			return err
		}
		return s.ledger.Apply(ctx, tx, returns)
	})
	if err != nil {
		return err
	}
	if s.log != nil {
		s.log.Info(ctx, "order cancelled, stock returned")
	}
	return nil
}

// Invoice closes an open order. The total is recomputed from the committed
// lines; stock was already adjusted at confirmation time and is not touched
// here. An empty number asks the sequence generator for the next one.
func (s *service) Invoice(ctx context.Context, orderID uuid.UUID, number string) (*models.Invoice, error) {
	ctx = s.withOrderID(ctx, orderID)
	var invoice *models.Invoice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open")
		}

		total := linesTotal(order.Lines)
		if number == "" {
			number, err = s.numbers.Next(ctx, tx, time.Now().UTC())
			if err != nil {
				return err
			}
		}

		invoice, err = repo.Invoice(ctx, orderID, number, order.CustomerName, total)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncInvoiceIssued()
	if s.log != nil {
		s.log.Info(ctx, "invoice issued")
	}
	return invoice, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.repo.FindByID(ctx, orderID)
}

func (s *service) OpenForTable(ctx context.Context, tableID uuid.UUID) (*models.Order, error) {
	return s.repo.FindOpenByTable(ctx, tableID)
}

func (s *service) observe(ctx context.Context, outcome string, start time.Time, err error) {
	s.metrics.ObserveConfirmation(outcome, time.Since(start))
	if outcome == "insufficient_stock" {
		s.metrics.IncStockRejection()
	}
	if s.log == nil {
		return
	}
	switch {
	case err == nil:
		s.log.Info(ctx, "order confirmed")
	case outcome == "insufficient_stock":
		s.log.Warn(ctx, "order confirmation rejected for insufficient stock")
	}
}

func (s *service) withOrderID(ctx context.Context, orderID uuid.UUID) context.Context {
	if s.log == nil {
		return ctx
	}
	return s.log.WithOrderID(ctx, orderID.String())
}

// committedQuantities folds an order's product-sourced lines into the
// per-product quantity snapshot the delta calculator diffs against.
func committedQuantities(lines []models.OrderLine) map[uuid.UUID]int {
	out := map[uuid.UUID]int{}
	for _, line := range lines {
		if line.Source != enums.LineSourceProduct || line.ProductID == nil {
			continue
		}
		out[*line.ProductID] += line.Quantity
	}
	return out
}

func linesTotal(lines []models.OrderLine) (total decimal.Decimal) {
	total = decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total.Round(2)
}
