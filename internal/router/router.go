package router

import (
	"net/http"

	"autopartes/internal/config"
	"autopartes/internal/handler"
	"autopartes/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth      *handler.AuthHandler
	Cart      *handler.CartHandler
	Product   *handler.ProductHandler
	Solicitud *handler.SolicitudHandler
	Payment   *handler.PaymentHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// uploadsDir is served under /uploads/ when not empty.
func New(h Handlers, auth *middleware.Auth, cors config.CORSConfig, uploadsDir string, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}).Methods(http.MethodGet)

	if uploadsDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}

	signedIn := func(f http.HandlerFunc) http.Handler { return auth.RequireAuth(f) }
	admin := func(f http.HandlerFunc) http.Handler { return auth.RequireAdmin(f) }
	wholesale := func(f http.HandlerFunc) http.Handler { return auth.RequireWholesale(f) }

	api := r.PathPrefix("/api").Subrouter()

	// Accounts
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.Handle("/auth/logout", signedIn(h.Auth.Logout)).Methods(http.MethodPost)
	api.Handle("/auth/me", signedIn(h.Auth.Me)).Methods(http.MethodGet)
	api.Handle("/auth/me", signedIn(h.Auth.UpdateMe)).Methods(http.MethodPut)
	api.Handle("/auth/token", signedIn(h.Auth.Token)).Methods(http.MethodPost)
	api.HandleFunc("/auth/password-reset", h.Auth.RequestPasswordReset).Methods(http.MethodPost)
	api.HandleFunc("/auth/password-reset/confirm", h.Auth.ConfirmPasswordReset).Methods(http.MethodPost)

	// Retail cart, anonymous visitors allowed
	api.HandleFunc("/cart", h.Cart.Get).Methods(http.MethodGet)
	api.HandleFunc("/cart/add", h.Cart.Add).Methods(http.MethodPost)
	api.HandleFunc("/cart/update", h.Cart.Update).Methods(http.MethodPut)
	api.HandleFunc("/cart/remove/{productId}", h.Cart.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/cart/clear", h.Cart.Clear).Methods(http.MethodDelete)

	// Catalogue
	api.HandleFunc("/products", h.Product.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/products/categoria/{categoria}", h.Product.ByCategoria).Methods(http.MethodGet)
	api.HandleFunc("/products/marca/{marca}", h.Product.ByMarca).Methods(http.MethodGet)
	api.HandleFunc("/products/buscar/{term}", h.Product.Search).Methods(http.MethodGet)
	api.HandleFunc("/products/populares/{n}", h.Product.Popular).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.Product.GetByID).Methods(http.MethodGet)
	api.Handle("/products", admin(h.Product.Create)).Methods(http.MethodPost)
	api.Handle("/products/{id}", admin(h.Product.Update)).Methods(http.MethodPut)
	api.Handle("/products/{id}", admin(h.Product.Delete)).Methods(http.MethodDelete)
	api.Handle("/products/{id}/imagen", admin(h.Product.UploadImage)).Methods(http.MethodPost)
	api.Handle("/admin/productos/importar", admin(h.Product.Import)).Methods(http.MethodPost)

	// Wholesale cart and checkout
	api.Handle("/mayorista/carrito", wholesale(h.Cart.GetWholesale)).Methods(http.MethodGet)
	api.Handle("/mayorista/carrito", wholesale(h.Cart.ClearWholesale)).Methods(http.MethodDelete)
	api.Handle("/mayorista/carrito/items", wholesale(h.Cart.AddWholesale)).Methods(http.MethodPost)
	api.Handle("/mayorista/carrito/items/{id}", wholesale(h.Cart.UpdateWholesale)).Methods(http.MethodPut)
	api.Handle("/mayorista/carrito/items/{id}", wholesale(h.Cart.RemoveWholesale)).Methods(http.MethodDelete)
	api.Handle("/mayorista/checkout", wholesale(h.Cart.Checkout)).Methods(http.MethodPost)
	api.HandleFunc("/mayorista/checkout/retorno", h.Payment.WholesaleReturn).Methods(http.MethodGet, http.MethodPost)

	// Wholesale onboarding
	api.HandleFunc("/mayorista/solicitudes", h.Solicitud.Submit).Methods(http.MethodPost)
	api.Handle("/admin/solicitudes", admin(h.Solicitud.List)).Methods(http.MethodGet)
	api.Handle("/admin/solicitudes/{id}", admin(h.Solicitud.Get)).Methods(http.MethodGet)
	api.Handle("/admin/solicitudes/{id}/aprobar", admin(h.Solicitud.Approve)).Methods(http.MethodPost)
	api.Handle("/admin/solicitudes/{id}/rechazar", admin(h.Solicitud.Reject)).Methods(http.MethodPost)

	// Payment gateway
	api.HandleFunc("/webpay/create", h.Payment.Create).Methods(http.MethodPost)
	api.HandleFunc("/webpay/confirm", h.Payment.Confirm).Methods(http.MethodPost, http.MethodGet)

	// Apply middleware in order: Recovery -> Logging -> CORS -> Authenticate
	var handler http.Handler = r
	handler = auth.Authenticate(handler)
	handler = middleware.CORS(cors)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
