package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, lgr logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: lgr}
}

type PlaceOrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerContact string             `json:"customer_contact,omitempty"`
	ImagePath       *string            `json:"image_path,omitempty"`
	Lines           []OrderLineRequest `json:"lines"`
}

type OrderLineRequest struct {
	Dish     string `json:"dish"`
	Quantity int    `json:"quantity"`
}

type OrderResponse struct {
	ID            int        `json:"id"`
	CustomerName  string     `json:"customer_name"`
	Dish          string     `json:"dish"`
	Quantity      int        `json:"quantity"`
	Price         string     `json:"price"`
	PaymentStatus string     `json:"payment_status"`
	Tracker       string     `json:"tracker"`
	OrderedAt     time.Time  `json:"ordered_at"`
	ServedAt      *time.Time `json:"served_at,omitempty"`
}

func orderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		Dish:          string(o.Dish),
		Quantity:      o.Quantity,
		Price:         o.Price.StringFixed(2),
		PaymentStatus: string(o.PaymentStatus),
		Tracker:       string(o.Tracker),
		OrderedAt:     o.OrderedAt,
		ServedAt:      o.ServedAt,
	}
}

func orderResponses(orders []*domain.Order) []OrderResponse {
	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = orderResponse(o)
	}
	return resp
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &domain.ValidationError{Msg: "invalid request body"})
		return
	}

	lines := make([]interfaces.OrderLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = interfaces.OrderLine{Dish: strings.TrimSpace(l.Dish), Quantity: l.Quantity}
	}

	created, err := h.service.PlaceOrder(r.Context(), ActorFromContext(r.Context()), interfaces.PlaceOrderCommand{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerContact: strings.TrimSpace(req.CustomerContact),
		ImagePath:       req.ImagePath,
		Lines:           lines,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, orderResponses(created))
}

type ApprovalResponse struct {
	Order         OrderResponse `json:"order"`
	PreviousStock int           `json:"previous_stock"`
	NewStock      int           `json:"new_stock"`
	MenuDisabled  bool          `json:"menu_disabled"`
}

func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.service.Approve(r.Context(), ActorFromContext(r.Context()), orderID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ApprovalResponse{
		Order:         orderResponse(result.Order),
		PreviousStock: result.PreviousStock,
		NewStock:      result.NewStock,
		MenuDisabled:  result.MenuDisabled,
	})
}

type RejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (h *OrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req RejectRequest
	if r.Body != nil {
		// The reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.service.Reject(r.Context(), ActorFromContext(r.Context()), orderID, strings.TrimSpace(req.Reason)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"order_id": orderID, "status": "rejected"})
}

type TrackerRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) AdvanceTracker(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req TrackerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &domain.ValidationError{Msg: "invalid request body"})
		return
	}

	o, err := h.service.AdvanceTracker(r.Context(), ActorFromContext(r.Context()), orderID, strings.TrimSpace(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orderResponse(o))
}

func (h *OrderHandler) Serve(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	o, err := h.service.Serve(r.Context(), ActorFromContext(r.Context()), orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orderResponse(o))
}

type NotificationResponse struct {
	ID        int       `json:"id"`
	OrderID   *int      `json:"order_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *OrderHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.service.UnreadNotifications(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		resp[i] = NotificationResponse{
			ID:        n.ID,
			OrderID:   n.OrderID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.MarkNotificationRead(r.Context(), ActorFromContext(r.Context()), notificationID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"notification_id": notificationID, "read": true})
}
