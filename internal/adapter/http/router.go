package http

import (
	"net/http"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

// NewRouter wires every endpoint and the middleware chain. Authentication
// resolves the actor; each operation enforces its own role requirement.
func NewRouter(
	accounts interfaces.AccountService,
	orders interfaces.OrderService,
	fulfillment interfaces.FulfillmentService,
	reporting interfaces.ReportingService,
	lgr logger.Logger,
) http.Handler {
	authHandler := NewAuthHandler(accounts, lgr)
	orderHandler := NewOrderHandler(orders, lgr)
	inventoryHandler := NewInventoryHandler(fulfillment, reporting, lgr)

	mux := http.NewServeMux()

	// Accounts
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login(domain.RoleCustomer))
	mux.HandleFunc("POST /staff/login", authHandler.Login(domain.RoleStaff))
	mux.HandleFunc("POST /admin/login", authHandler.Login(domain.RoleAdmin))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /admin/users", authHandler.ListCustomers)
	mux.HandleFunc("PUT /admin/users/{id}/ban", authHandler.SetBanned)

	// Orders
	mux.HandleFunc("POST /orders", orderHandler.PlaceOrder)
	mux.HandleFunc("GET /orders", inventoryHandler.Boards)
	mux.HandleFunc("POST /orders/{id}/approve", orderHandler.Approve)
	mux.HandleFunc("POST /orders/{id}/reject", orderHandler.Reject)
	mux.HandleFunc("PUT /orders/{id}/tracker", orderHandler.AdvanceTracker)
	mux.HandleFunc("POST /orders/{id}/serve", orderHandler.Serve)

	// Notifications
	mux.HandleFunc("GET /notifications", orderHandler.Notifications)
	mux.HandleFunc("PUT /notifications/{id}/read", orderHandler.MarkNotificationRead)

	// Menu and ledgers
	mux.HandleFunc("GET /menu", inventoryHandler.Menu)
	mux.HandleFunc("PUT /menu/{dish}/stock", inventoryHandler.SetDishStock)
	mux.HandleFunc("PUT /menu/{dish}/status", inventoryHandler.SetAvailability)
	mux.HandleFunc("POST /menu/{dish}/rating", inventoryHandler.RateDish)
	mux.HandleFunc("GET /ingredients", inventoryHandler.Ingredients)
	mux.HandleFunc("PUT /ingredients/{ingredient}/stock", inventoryHandler.SetIngredientStock)

	// Reporting
	mux.HandleFunc("GET /dashboard", inventoryHandler.Dashboard)
	mux.HandleFunc("GET /orders/rejected", inventoryHandler.RejectedOrders)

	handler := AuthMiddleware(accounts, lgr)(mux)
	handler = LoggingMiddleware(lgr)(handler)
	handler = RecoveryMiddleware(lgr)(handler)
	return handler
}
