package cart

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"autopartes/internal/model"
	"autopartes/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartStore persists the per-user wholesale cart document.
type CartStore interface {
	Get(ctx context.Context, uid string) ([]model.WholesaleItem, error)
	Save(ctx context.Context, uid string, items []model.WholesaleItem, total float64) error
	Delete(ctx context.Context, uid string) error
}

// OrderStore persists wholesale checkout orders.
type OrderStore interface {
	Create(ctx context.Context, o *model.WholesaleOrder) error
	SetToken(ctx context.Context, id, token string) error
}

// Update is sent to subscribers after every cart change.
type Update struct {
	UserID string
	Items  []model.WholesaleItem
	Totals model.Totals
}

// Wholesale is the wholesale cart engine. Every operation reads the stored
// document and every change overwrites it whole, so the last writer wins
// across requests and processes.
type Wholesale struct {
	carts     CartStore
	orders    OrderStore
	gateway   payment.Gateway
	returnURL string
	logger    zerolog.Logger
	now       func() time.Time

	mu          sync.Mutex
	subscribers map[int]func(Update)
	nextSub     int
}

// NewWholesale creates the engine. returnURL is where the gateway sends the
// browser after payment.
func NewWholesale(carts CartStore, orders OrderStore, gateway payment.Gateway, returnURL string, logger zerolog.Logger) *Wholesale {
	return &Wholesale{
		carts:       carts,
		orders:      orders,
		gateway:     gateway,
		returnURL:   returnURL,
		logger:      logger.With().Str("component", "wholesale_cart").Logger(),
		now:         time.Now,
		subscribers: make(map[int]func(Update)),
	}
}

// Subscribe registers fn for cart updates and returns a function that removes it.
func (w *Wholesale) Subscribe(fn func(Update)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextSub
	w.nextSub++
	w.subscribers[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subscribers, id)
	}
}

func (w *Wholesale) notify(uid string, items []model.WholesaleItem) {
	w.mu.Lock()
	subs := make([]func(Update), 0, len(w.subscribers))
	for _, fn := range w.subscribers {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	u := Update{UserID: uid, Items: clone(items), Totals: CalculateTotal(items)}
	for _, fn := range subs {
		fn(u)
	}
}

// Items returns the user's stored cart, empty when there is no document.
func (w *Wholesale) Items(ctx context.Context, uid string) ([]model.WholesaleItem, error) {
	items, err := w.carts.Get(ctx, uid)
	if err != nil {
		w.logger.Error().Err(err).Str("uid", uid).Msg("failed to load wholesale cart")
		return nil, fmt.Errorf("failed to load wholesale cart: %w", err)
	}
	if items == nil {
		items = []model.WholesaleItem{}
	}
	return items, nil
}

// Response builds the JSON view of the user's cart.
func (w *Wholesale) Response(ctx context.Context, uid string) (model.CartResponse[model.WholesaleItem], error) {
	items, err := w.Items(ctx, uid)
	if err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}
	totals := CalculateTotal(items)
	return model.CartResponse[model.WholesaleItem]{
		Items:   items,
		Totals:  totals,
		Display: Rounded(totals),
	}, nil
}

// AddItem merges item into the line with the same id or appends it.
func (w *Wholesale) AddItem(ctx context.Context, uid string, item model.WholesaleItem) ([]model.WholesaleItem, error) {
	if item.Cantidad <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if item.LoteMinimo <= 0 {
		item.LoteMinimo = LoteMinimo
	}

	return w.mutate(ctx, uid, func(items []model.WholesaleItem) ([]model.WholesaleItem, error) {
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Cantidad += item.Cantidad
				return items, nil
			}
		}
		return append(items, item), nil
	})
}

// UpdateQuantity stores ceil(cantidad/lot)*lot for the line. A lot <= 0 uses
// the line's own loteMinimo.
func (w *Wholesale) UpdateQuantity(ctx context.Context, uid, id string, cantidad, lot int) ([]model.WholesaleItem, error) {
	if cantidad <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	return w.mutate(ctx, uid, func(items []model.WholesaleItem) ([]model.WholesaleItem, error) {
		for i := range items {
			if items[i].ID == id {
				l := lot
				if l <= 0 {
					l = items[i].LoteMinimo
				}
				items[i].Cantidad = RoundUpToLot(cantidad, l)
				return items, nil
			}
		}
		return nil, model.ErrItemNotFound
	})
}

// RemoveItem filters the line out.
func (w *Wholesale) RemoveItem(ctx context.Context, uid, id string) ([]model.WholesaleItem, error) {
	return w.mutate(ctx, uid, func(items []model.WholesaleItem) ([]model.WholesaleItem, error) {
		out := items[:0]
		for _, it := range items {
			if it.ID != id {
				out = append(out, it)
			}
		}
		return out, nil
	})
}

// ClearCart deletes the cart document, then notifies subscribers.
func (w *Wholesale) ClearCart(ctx context.Context, uid string) error {
	if err := w.carts.Delete(ctx, uid); err != nil {
		w.logger.Error().Err(err).Str("uid", uid).Msg("failed to clear wholesale cart")
		return fmt.Errorf("failed to clear wholesale cart: %w", err)
	}

	w.notify(uid, nil)
	return nil
}

// mutate applies fn to the stored cart and overwrites the document. Nothing
// is notified or returned as current unless the save succeeded.
func (w *Wholesale) mutate(ctx context.Context, uid string, fn func([]model.WholesaleItem) ([]model.WholesaleItem, error)) ([]model.WholesaleItem, error) {
	items, err := w.Items(ctx, uid)
	if err != nil {
		return nil, err
	}

	items, err = fn(items)
	if err != nil {
		return nil, err
	}

	if err := w.carts.Save(ctx, uid, items, CalculateTotal(items).Total); err != nil {
		w.logger.Error().Err(err).Str("uid", uid).Msg("failed to persist wholesale cart")
		return nil, fmt.Errorf("failed to persist wholesale cart: %w", err)
	}

	w.notify(uid, items)
	return clone(items), nil
}

// ProcessOrder snapshots the cart into a pending order, opens a gateway
// transaction for the rounded total and returns the browser redirect. Any
// failure leaves the order pending and returns ErrPaymentFailed.
func (w *Wholesale) ProcessOrder(ctx context.Context, user *model.User) (*model.CheckoutResponse, error) {
	if user == nil || user.UID == "" {
		return nil, model.ErrUnauthorised
	}

	items, err := w.Items(ctx, user.UID)
	if err != nil {
		return nil, model.ErrPaymentFailed
	}
	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}

	totals := CalculateTotal(items)
	now := w.now()
	order := &model.WholesaleOrder{
		ID:        uuid.NewString(),
		UserID:    user.UID,
		Email:     user.Email,
		Items:     items,
		Subtotal:  totals.Subtotal,
		Descuento: totals.Descuento,
		IVA:       totals.IVA,
		Total:     totals.Total,
		Monto:     Amount(totals.Total),
		Estado:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	logger := w.logger.With().Str("uid", user.UID).Str("order_id", order.ID).Logger()

	if err := w.orders.Create(ctx, order); err != nil {
		logger.Error().Err(err).Msg("failed to create wholesale order")
		return nil, model.ErrPaymentFailed
	}

	created, err := w.gateway.CreateTransaction(ctx, payment.CreateRequest{
		BuyOrder:  BuyOrder(order.ID),
		SessionID: user.UID,
		Amount:    order.Monto,
		ReturnURL: w.returnURL,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create payment transaction")
		return nil, model.ErrPaymentFailed
	}

	if err := w.orders.SetToken(ctx, order.ID, created.Token); err != nil {
		logger.Error().Err(err).Msg("failed to store payment token")
		return nil, model.ErrPaymentFailed
	}

	if err := w.ClearCart(ctx, user.UID); err != nil {
		logger.Warn().Err(err).Msg("order placed but cart was not cleared")
	}

	logger.Info().
		Int64("monto", order.Monto).
		Int("item_count", len(items)).
		Msg("wholesale checkout started")

	return &model.CheckoutResponse{
		OrderID:     order.ID,
		Token:       created.Token,
		RedirectURL: RedirectURL(created.URL, created.Token, order.ID),
		Monto:       order.Monto,
	}, nil
}

// BuyOrder derives the gateway buy order (max 26 characters) from an order id.
func BuyOrder(orderID string) string {
	bo := strings.ReplaceAll(orderID, "-", "")
	if len(bo) > 26 {
		bo = bo[:26]
	}
	return bo
}

// RedirectURL builds "<gatewayURL>?token_ws=<token>&orderId=<id>".
func RedirectURL(gatewayURL, token, orderID string) string {
	sep := "?"
	if strings.Contains(gatewayURL, "?") {
		sep = "&"
	}
	return gatewayURL + sep + "token_ws=" + url.QueryEscape(token) + "&orderId=" + url.QueryEscape(orderID)
}

func clone(items []model.WholesaleItem) []model.WholesaleItem {
	return append([]model.WholesaleItem{}, items...)
}
