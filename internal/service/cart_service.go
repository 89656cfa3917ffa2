package service

import (
	"context"
	"fmt"

	"autopartes/internal/cart"
	"autopartes/internal/model"
	"autopartes/internal/repository"
	"autopartes/internal/session"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	productRepo repository.ProductRepository
	sessions    session.Store
	wholesale   *cart.Wholesale
	logger      zerolog.Logger
}

// NewCartService creates a cart service over the session store and the wholesale engine.
func NewCartService(
	productRepo repository.ProductRepository,
	sessions session.Store,
	wholesale *cart.Wholesale,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		productRepo: productRepo,
		sessions:    sessions,
		wholesale:   wholesale,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) product(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p == nil {
		return nil, model.ErrProductNotFound
	}
	return p, nil
}

// Retail returns the session cart.
func (s *cartService) Retail(sess *session.Session) model.CartResponse[model.CartItem] {
	return cart.NewRetail(sess.Cart).Response()
}

// saveRetail stores the mutated cart on the session.
func (s *cartService) saveRetail(ctx context.Context, sess *session.Session, r *cart.Retail) (model.CartResponse[model.CartItem], error) {
	sess.Cart = r.Items()
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save session cart")
		return model.CartResponse[model.CartItem]{}, fmt.Errorf("failed to save cart: %w", err)
	}
	return r.Response(), nil
}

// AddRetail adds a product to the session cart.
func (s *cartService) AddRetail(ctx context.Context, sess *session.Session, req *model.CartRequest) (model.CartResponse[model.CartItem], error) {
	if req.Cantidad <= 0 {
		return model.CartResponse[model.CartItem]{}, model.ErrInvalidQuantity
	}

	p, err := s.product(ctx, req.ProductID)
	if err != nil {
		return model.CartResponse[model.CartItem]{}, err
	}

	r := cart.NewRetail(sess.Cart)
	if err := r.Add(model.CartItem{
		ProductID: p.ID,
		Nombre:    p.Nombre,
		Precio:    p.Precio,
		Imagen:    p.MainImage(),
		Cantidad:  req.Cantidad,
	}); err != nil {
		return model.CartResponse[model.CartItem]{}, err
	}

	return s.saveRetail(ctx, sess, r)
}

// UpdateRetail sets a line quantity; zero or less removes the line.
func (s *cartService) UpdateRetail(ctx context.Context, sess *session.Session, req *model.CartRequest) (model.CartResponse[model.CartItem], error) {
	r := cart.NewRetail(sess.Cart)
	if err := r.Update(req.ProductID, req.Cantidad); err != nil {
		return model.CartResponse[model.CartItem]{}, err
	}
	return s.saveRetail(ctx, sess, r)
}

// RemoveRetail removes a line from the session cart.
func (s *cartService) RemoveRetail(ctx context.Context, sess *session.Session, productID string) (model.CartResponse[model.CartItem], error) {
	r := cart.NewRetail(sess.Cart)
	if err := r.Remove(productID); err != nil {
		return model.CartResponse[model.CartItem]{}, err
	}
	return s.saveRetail(ctx, sess, r)
}

// ClearRetail empties the session cart.
func (s *cartService) ClearRetail(ctx context.Context, sess *session.Session) (model.CartResponse[model.CartItem], error) {
	r := cart.NewRetail(sess.Cart)
	r.Clear()
	return s.saveRetail(ctx, sess, r)
}

func wholesaleUser(user *model.User) error {
	if user == nil || user.UID == "" {
		return model.ErrUnauthorised
	}
	if !user.IsWholesaleValidated() {
		return model.ErrWholesaleNotValidated
	}
	return nil
}

// Wholesale returns the user's wholesale cart.
func (s *cartService) Wholesale(ctx context.Context, user *model.User) (model.CartResponse[model.WholesaleItem], error) {
	if err := wholesaleUser(user); err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}
	return s.wholesale.Response(ctx, user.UID)
}

// AddWholesale adds a product at its wholesale price.
func (s *cartService) AddWholesale(ctx context.Context, user *model.User, req *model.WholesaleItemRequest) (model.CartResponse[model.WholesaleItem], error) {
	if err := wholesaleUser(user); err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}
	if req.Cantidad <= 0 {
		return model.CartResponse[model.WholesaleItem]{}, model.ErrInvalidQuantity
	}

	p, err := s.product(ctx, req.ProductID)
	if err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}

	if _, err := s.wholesale.AddItem(ctx, user.UID, model.WholesaleItem{
		ID:         p.ID,
		Nombre:     p.Nombre,
		Precio:     p.WholesalePrice(),
		Imagen:     p.MainImage(),
		Cantidad:   req.Cantidad,
		LoteMinimo: cart.LoteMinimo,
	}); err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}

	return s.wholesale.Response(ctx, user.UID)
}

// UpdateWholesale sets a line quantity rounded up to the lot size.
func (s *cartService) UpdateWholesale(ctx context.Context, user *model.User, id string, cantidad int) (model.CartResponse[model.WholesaleItem], error) {
	if err := wholesaleUser(user); err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}

	if _, err := s.wholesale.UpdateQuantity(ctx, user.UID, id, cantidad, cart.LoteMinimo); err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}

	return s.wholesale.Response(ctx, user.UID)
}

// RemoveWholesale removes a line from the wholesale cart.
func (s *cartService) RemoveWholesale(ctx context.Context, user *model.User, id string) (model.CartResponse[model.WholesaleItem], error) {
	if err := wholesaleUser(user); err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}

	if _, err := s.wholesale.RemoveItem(ctx, user.UID, id); err != nil {
		return model.CartResponse[model.WholesaleItem]{}, err
	}

	return s.wholesale.Response(ctx, user.UID)
}

// ClearWholesale deletes the wholesale cart.
func (s *cartService) ClearWholesale(ctx context.Context, user *model.User) error {
	if err := wholesaleUser(user); err != nil {
		return err
	}
	return s.wholesale.ClearCart(ctx, user.UID)
}

// Checkout turns the wholesale cart into a pending order and a payment redirect.
func (s *cartService) Checkout(ctx context.Context, user *model.User) (*model.CheckoutResponse, error) {
	if err := wholesaleUser(user); err != nil {
		return nil, err
	}
	return s.wholesale.ProcessOrder(ctx, user)
}
