package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"salonpos/loyalty"
	"salonpos/models"
	"salonpos/pricing"
	"salonpos/receipt"
	"salonpos/store"
)

const billDateLayout = "2006-01-02 15:04"

type CheckoutRequest struct {
	Items           []models.CartLineInput `json:"items"`
	CustomerID      string                 `json:"customerId,omitempty"`
	DiscountPercent float64                `json:"discountPercent"`
	RedeemPoints    int                    `json:"redeemPoints"`
	PaymentMethod   models.PaymentMethod   `json:"paymentMethod"`

	IdempotencyKey string `json:"-"`
	CashierID      string `json:"-"`
}

type CheckoutResult struct {
	Bill     models.Bill               `json:"bill"`
	Quote    pricing.Quote             `json:"quote"`
	Customer *models.Customer          `json:"customer,omitempty"`
	LowStock []models.InventoryProduct `json:"lowStock,omitempty"`
	Replayed bool                      `json:"replayed"`
}

// CheckoutService prices carts and turns them into bills.
type CheckoutService struct {
	store    store.Store
	log      *zap.Logger
	metrics  Recorder
	notifier Notifier
	archiver ReceiptArchiver
	strict   bool
	loc      *time.Location
	now      func() time.Time
}

type CheckoutOption func(*CheckoutService)

func WithNotifier(n Notifier) CheckoutOption {
	return func(s *CheckoutService) { s.notifier = n }
}

func WithArchiver(a ReceiptArchiver) CheckoutOption {
	return func(s *CheckoutService) { s.archiver = a }
}

func WithRecorder(r Recorder) CheckoutOption {
	return func(s *CheckoutService) { s.metrics = r }
}

// WithStrictRedemption makes over-requested points an error instead of
// silently clamping them.
func WithStrictRedemption(strict bool) CheckoutOption {
	return func(s *CheckoutService) { s.strict = strict }
}

func WithLocation(loc *time.Location) CheckoutOption {
	return func(s *CheckoutService) { s.loc = loc }
}

func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

func NewCheckoutService(st store.Store, log *zap.Logger, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		store:   st,
		log:     log,
		metrics: nopRecorder{},
		loc:     time.UTC,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// priced is a cart resolved against one consistent view of the store.
type priced struct {
	quote    pricing.Quote
	lines    []models.CartLine
	customer *models.Customer
	settings models.Settings
}

// Quote prices a cart without side effects. An empty cart yields zero totals.
func (s *CheckoutService) Quote(ctx context.Context, req CheckoutRequest) (pricing.Quote, []models.CartLine, error) {
	p, err := s.price(ctx, s.store, req)
	if err != nil {
		return pricing.Quote{}, nil, err
	}
	return p.quote, p.lines, nil
}

func (s *CheckoutService) price(ctx context.Context, tx store.Tx, req CheckoutRequest) (priced, error) {
	var p priced

	lines, err := resolveLines(ctx, tx, req.Items)
	if err != nil {
		return p, err
	}
	p.lines = lines

	if req.CustomerID != "" {
		c, err := tx.GetCustomer(ctx, req.CustomerID)
		if errors.Is(err, store.ErrNotFound) {
			return p, fmt.Errorf("%w: %s", ErrCustomerNotFound, req.CustomerID)
		}
		if err != nil {
			return p, err
		}
		p.customer = &c
	}

	settings, err := tx.GetSettings(ctx)
	if err != nil {
		return p, err
	}
	p.settings = settings

	in := pricing.Input{
		Lines:           lines,
		DiscountPercent: req.DiscountPercent,
		RequestedPoints: req.RedeemPoints,
		TaxRate:         settings.TaxRate,
	}
	if p.customer != nil {
		in.AvailablePoints = p.customer.LoyaltyPoints
	}
	p.quote = pricing.Calculate(in)

	if s.strict && p.quote.RedemptionClamped {
		return p, fmt.Errorf("%w: requested %d, redeemable %d",
			ErrRedemptionExceeded, p.quote.RequestedPoints, p.quote.RedeemedPoints)
	}
	return p, nil
}

// resolveLines looks each line up in the catalogue. Prices and names always
// come from the store.
func resolveLines(ctx context.Context, tx store.Tx, items []models.CartLineInput) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0, len(items))
	for i, in := range items {
		if in.Quantity < 1 {
			return nil, fmt.Errorf("%w: line %d quantity must be at least 1", ErrInvalidCart, i)
		}
		line := models.CartLine{
			ItemID:          in.ItemID,
			ItemType:        in.ItemType,
			Quantity:        in.Quantity,
			AssignedStaffID: in.StaffID,
		}
		switch in.ItemType {
		case models.ItemService:
			svc, err := tx.GetService(ctx, in.ItemID)
			if errors.Is(err, store.ErrNotFound) || (err == nil && !svc.Active) {
				return nil, fmt.Errorf("%w: service %s", ErrItemNotFound, in.ItemID)
			}
			if err != nil {
				return nil, err
			}
			line.Name, line.UnitPrice = svc.Name, svc.Price
		case models.ItemProduct:
			prd, err := tx.GetProduct(ctx, in.ItemID)
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %s", ErrItemNotFound, in.ItemID)
			}
			if err != nil {
				return nil, err
			}
			line.Name, line.UnitPrice = prd.Name, prd.Price
		default:
			return nil, fmt.Errorf("%w: line %d has unknown item type %q", ErrInvalidCart, i, in.ItemType)
		}
		lines = append(lines, line)
	}
	if err := pricing.Validate(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCart, err)
	}
	return lines, nil
}

// ProcessTransaction commits a sale. Customer balance, ledger entries, stock
// and the bill are written in one store transaction. A request carrying an
// idempotency key that was already used returns the original bill.
func (s *CheckoutService) ProcessTransaction(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	if len(req.Items) == 0 {
		s.metrics.Checkout(ResultRejected)
		return CheckoutResult{}, ErrEmptyCart
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}
	if !req.PaymentMethod.Valid() {
		s.metrics.Checkout(ResultRejected)
		return CheckoutResult{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidCart, req.PaymentMethod)
	}

	var (
		res      CheckoutResult
		settings models.Settings
		accrued  loyalty.Result
	)
	err := s.store.Transact(ctx, func(tx store.Tx) error {
		res = CheckoutResult{}
		accrued = loyalty.Result{}

		if req.IdempotencyKey != "" {
			rec, err := tx.LookupIdempotency(ctx, req.IdempotencyKey)
			switch {
			case err == nil:
				bill, err := tx.GetBill(ctx, rec.BillID)
				if err != nil {
					return err
				}
				res = replay(bill)
				return nil
			case !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		p, err := s.price(ctx, tx, req)
		if err != nil {
			return err
		}
		settings = p.settings

		now := s.now().In(s.loc)
		bill := models.Bill{
			ID:              ulid.Make().String(),
			Date:            now.Format(billDateLayout),
			CustomerName:    models.WalkInCustomer,
			Items:           p.lines,
			Subtotal:        p.quote.Subtotal,
			DiscountPercent: p.quote.DiscountPercent,
			DiscountAmount:  p.quote.DiscountAmount,
			RedeemedPoints:  p.quote.RedeemedPoints,
			Tax:             p.quote.Tax,
			TaxRate:         p.quote.TaxRate,
			Total:           p.quote.Total,
			PaymentMethod:   req.PaymentMethod,
			ViewToken:       uuid.NewString(),
			CashierID:       req.CashierID,
			CreatedAt:       now.UTC(),
		}

		if p.customer != nil {
			tiers, err := tx.ListTiers(ctx)
			if err != nil {
				return err
			}
			if len(tiers) == 0 {
				tiers = loyalty.DefaultTiers()
			}
			accrued = loyalty.Accrue(*p.customer, tiers, p.quote.Total, p.quote.RedeemedPoints, bill.ID, now)
			if err := tx.SaveCustomer(ctx, accrued.Customer); err != nil {
				return err
			}
			for _, e := range accrued.Entries {
				if err := tx.AppendTransaction(ctx, e); err != nil {
					return err
				}
			}
			bill.CustomerID = p.customer.ID
			bill.CustomerName = p.customer.Name
			bill.PointsEarned = accrued.PointsEarned
			res.Customer = &accrued.Customer
		}

		for _, l := range p.lines {
			if l.ItemType != models.ItemProduct {
				continue
			}
			prd, err := tx.AdjustStock(ctx, l.ItemID, -l.Quantity)
			if err != nil {
				return err
			}
			if prd.IsLowStock() {
				res.LowStock = append(res.LowStock, prd)
			}
		}

		if err := tx.CreateBill(ctx, bill); err != nil {
			return err
		}
		if req.IdempotencyKey != "" {
			if err := tx.RecordIdempotency(ctx, models.IdempotencyRecord{
				Key:       req.IdempotencyKey,
				BillID:    bill.ID,
				CreatedAt: bill.CreatedAt,
			}); err != nil {
				return err
			}
		}

		res.Bill = bill
		res.Quote = p.quote
		return nil
	})
	if err != nil {
		return CheckoutResult{}, s.fail(req, err)
	}

	if res.Replayed {
		s.metrics.Checkout(ResultReplayed)
		s.log.Info("checkout replayed",
			zap.String("bill_id", res.Bill.ID),
			zap.String("idempotency_key", req.IdempotencyKey))
		return res, nil
	}

	s.metrics.Checkout(ResultSuccess)
	s.metrics.LoyaltyPoints(string(models.LoyaltyEarned), accrued.PointsEarned)
	s.metrics.LoyaltyPoints(string(models.LoyaltyRedeemed), accrued.Redeemed)
	s.log.Info("checkout committed",
		zap.String("bill_id", res.Bill.ID),
		zap.String("customer_id", res.Bill.CustomerID),
		zap.Float64("subtotal", res.Bill.Subtotal),
		zap.Float64("total", res.Bill.Total),
		zap.Int("points_redeemed", res.Bill.RedeemedPoints),
		zap.Int("points_earned", res.Bill.PointsEarned))
	if accrued.TierChanged() && accrued.PreviousTier != "" {
		s.log.Info("customer tier changed",
			zap.String("customer_id", accrued.Customer.ID),
			zap.String("from", accrued.PreviousTier),
			zap.String("to", accrued.Customer.Tier))
	}
	for _, p := range res.LowStock {
		s.log.Warn("low stock", zap.String("product_id", p.ID), zap.String("name", p.Name), zap.Int("stock", p.Stock))
	}

	s.afterCommit(ctx, res, settings)
	return res, nil
}

func (s *CheckoutService) fail(req CheckoutRequest, err error) error {
	for _, kind := range []error{ErrInvalidCart, ErrItemNotFound, ErrCustomerNotFound, ErrRedemptionExceeded} {
		if errors.Is(err, kind) {
			s.metrics.Checkout(ResultRejected)
			return err
		}
	}
	s.metrics.Checkout(ResultFailed)
	s.log.Error("checkout failed", zap.String("customer_id", req.CustomerID), zap.Error(err))
	return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
}

// afterCommit runs the best effort side effects. Their failures are logged
// and never undo the sale.
func (s *CheckoutService) afterCommit(ctx context.Context, res CheckoutResult, settings models.Settings) {
	if s.archiver != nil {
		text := receipt.Format(res.Bill, receipt.HeaderFrom(settings))
		if _, err := s.archiver.Archive(ctx, res.Bill.ID, text); err != nil {
			s.log.Warn("receipt archive failed", zap.String("bill_id", res.Bill.ID), zap.Error(err))
		}
	}

	if s.notifier != nil && res.Customer != nil && res.Customer.Phone != "" {
		msg := fmt.Sprintf("%s: thank you %s! Bill #%s total %s %.2f. Points earned %d, balance %d.",
			settings.SalonName, res.Customer.Name, res.Bill.ID, settings.Currency,
			res.Bill.Total, res.Bill.PointsEarned, res.Customer.LoyaltyPoints)
		if err := s.notifier.Notify(ctx, res.Customer.Phone, msg); err != nil {
			s.log.Warn("checkout sms failed", zap.String("bill_id", res.Bill.ID), zap.Error(err))
		}
	}
}

func replay(bill models.Bill) CheckoutResult {
	return CheckoutResult{
		Bill: bill,
		Quote: pricing.Quote{
			Subtotal:        bill.Subtotal,
			DiscountPercent: bill.DiscountPercent,
			DiscountAmount:  bill.DiscountAmount,
			RequestedPoints: bill.RedeemedPoints,
			RedeemedPoints:  bill.RedeemedPoints,
			TaxRate:         bill.TaxRate,
			Tax:             bill.Tax,
			Total:           bill.Total,
		},
		Replayed: true,
	}
}

// Bills returns the sales history, newest first.
func (s *CheckoutService) Bills(ctx context.Context, limit int) ([]models.Bill, error) {
	return s.store.ListBills(ctx, limit)
}

func (s *CheckoutService) Bill(ctx context.Context, id string) (models.Bill, error) {
	return s.store.GetBill(ctx, id)
}

func (s *CheckoutService) BillByToken(ctx context.Context, token string) (models.Bill, error) {
	return s.store.GetBillByToken(ctx, token)
}

// Receipt renders a stored bill with the current business header.
func (s *CheckoutService) Receipt(ctx context.Context, bill models.Bill) (string, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return receipt.Format(bill, receipt.HeaderFrom(settings)), nil
}
