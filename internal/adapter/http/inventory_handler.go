package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

// InventoryHandler serves the menu, the stock ledgers and the reporting
// screens.
type InventoryHandler struct {
	fulfillment interfaces.FulfillmentService
	reporting   interfaces.ReportingService
	logger      logger.Logger
}

func NewInventoryHandler(fulfillment interfaces.FulfillmentService, reporting interfaces.ReportingService, lgr logger.Logger) *InventoryHandler {
	return &InventoryHandler{fulfillment: fulfillment, reporting: reporting, logger: lgr}
}

type MenuEntryResponse struct {
	Dish         string  `json:"dish"`
	Price        string  `json:"price"`
	Availability string  `json:"availability"`
	Stock        int     `json:"stock"`
	Rating       float64 `json:"rating"`
}

func (h *InventoryHandler) Menu(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reporting.Menu(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]MenuEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = MenuEntryResponse{
			Dish:         string(e.Dish),
			Price:        e.Price.StringFixed(2),
			Availability: string(e.Availability),
			Stock:        e.Stock,
			Rating:       e.Rating,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

type DishStockRequest struct {
	Stock int `json:"stock"`
}

type DeductionLineResponse struct {
	Ingredient string `json:"ingredient"`
	Units      string `json:"units"`
	Display    string `json:"display"`
}

type ReplenishmentResponse struct {
	Dish          string                  `json:"dish"`
	PreviousStock int                     `json:"previous_stock"`
	NewStock      int                     `json:"new_stock"`
	MenuDisabled  bool                    `json:"menu_disabled"`
	Deductions    []DeductionLineResponse `json:"deductions,omitempty"`
}

func (h *InventoryHandler) SetDishStock(w http.ResponseWriter, r *http.Request) {
	dish := r.PathValue("dish")

	var req DishStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &domain.ValidationError{Msg: "invalid request body"})
		return
	}

	result, err := h.fulfillment.SetDishStock(r.Context(), ActorFromContext(r.Context()), dish, req.Stock)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := ReplenishmentResponse{
		Dish:          string(result.Dish),
		PreviousStock: result.PreviousStock,
		NewStock:      result.NewStock,
		MenuDisabled:  result.MenuDisabled,
	}
	if result.Deduction != nil {
		for _, line := range result.Deduction.Lines {
			resp.Deductions = append(resp.Deductions, DeductionLineResponse{
				Ingredient: string(line.Ingredient),
				Units:      line.Units.String(),
				Display:    line.Display,
			})
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

type AvailabilityRequest struct {
	Status string `json:"status"`
}

func (h *InventoryHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	dish := r.PathValue("dish")

	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &domain.ValidationError{Msg: "invalid request body"})
		return
	}

	if err := h.fulfillment.SetAvailability(r.Context(), ActorFromContext(r.Context()), dish, strings.TrimSpace(req.Status)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"dish": dish, "status": req.Status})
}

type IngredientEntryResponse struct {
	Ingredient string `json:"ingredient"`
	Stock      string `json:"stock"`
	UnitLabel  string `json:"unit_label"`
	Capacity   int    `json:"capacity"`
}

func (h *InventoryHandler) Ingredients(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reporting.Ingredients(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]IngredientEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = IngredientEntryResponse{
			Ingredient: string(e.Ingredient),
			Stock:      e.Stock.String(),
			UnitLabel:  e.UnitLabel,
			Capacity:   e.Capacity,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

type IngredientStockRequest struct {
	Units string `json:"units"`
	Add   bool   `json:"add"`
}

func (h *InventoryHandler) SetIngredientStock(w http.ResponseWriter, r *http.Request) {
	ingredient := r.PathValue("ingredient")

	var req IngredientStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &domain.ValidationError{Msg: "invalid request body"})
		return
	}

	units, err := decimal.NewFromString(strings.TrimSpace(req.Units))
	if err != nil {
		respondError(w, &domain.ValidationError{Msg: "units must be a decimal number"})
		return
	}

	if err := h.fulfillment.SetIngredientStock(r.Context(), ActorFromContext(r.Context()), ingredient, units, req.Add); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"ingredient": ingredient, "units": units.String()})
}

func (h *InventoryHandler) Boards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.reporting.Boards(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]OrderResponse{
		"own":         orderResponses(boards.Own),
		"own_served":  orderResponses(boards.OwnServed),
		"pending":     orderResponses(boards.Pending),
		"in_progress": orderResponses(boards.InProgress),
		"ready":       orderResponses(boards.Ready),
		"served":      orderResponses(boards.Served),
	})
}

type DashboardResponse struct {
	OngoingQuantity int                     `json:"ongoing_quantity"`
	TotalCustomers  int                     `json:"total_customers"`
	TotalQuantity   int                     `json:"total_quantity"`
	PaidRevenue     string                  `json:"paid_revenue"`
	SalesByDay      []DaySalesResponse      `json:"sales_by_day"`
	BestSelling     []DishSalesResponse     `json:"best_selling"`
	TopCustomers    []CustomerSpendResponse `json:"top_customers"`
}

type DaySalesResponse struct {
	Day   string `json:"day"`
	Total string `json:"total"`
}

type DishSalesResponse struct {
	Dish     string `json:"dish"`
	Quantity int    `json:"quantity"`
}

type CustomerSpendResponse struct {
	Customer string `json:"customer"`
	Total    string `json:"total"`
}

func (h *InventoryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reporting.Dashboard(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := DashboardResponse{
		OngoingQuantity: summary.OngoingQuantity,
		TotalCustomers:  summary.TotalCustomers,
		TotalQuantity:   summary.TotalQuantity,
		PaidRevenue:     summary.PaidRevenue.StringFixed(2),
	}
	for _, d := range summary.SalesByDay {
		resp.SalesByDay = append(resp.SalesByDay, DaySalesResponse{Day: d.Day, Total: d.Total.StringFixed(2)})
	}
	for _, d := range summary.BestSelling {
		resp.BestSelling = append(resp.BestSelling, DishSalesResponse{Dish: string(d.Dish), Quantity: d.Quantity})
	}
	for _, c := range summary.TopCustomers {
		resp.TopCustomers = append(resp.TopCustomers, CustomerSpendResponse{Customer: c.Customer, Total: c.Total.StringFixed(2)})
	}
	respondJSON(w, http.StatusOK, resp)
}

type RejectedOrderResponse struct {
	ID              int       `json:"id"`
	OriginalOrderID int       `json:"original_order_id"`
	CustomerName    string    `json:"customer_name"`
	Dish            string    `json:"dish"`
	Quantity        int       `json:"quantity"`
	Price           string    `json:"price"`
	OrderedAt       time.Time `json:"ordered_at"`
	RejectedBy      string    `json:"rejected_by"`
	RejectedAt      time.Time `json:"rejected_at"`
	Reason          string    `json:"reason"`
}

func (h *InventoryHandler) RejectedOrders(w http.ResponseWriter, r *http.Request) {
	rejected, err := h.reporting.RejectedOrders(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]RejectedOrderResponse, len(rejected))
	for i, ro := range rejected {
		resp[i] = RejectedOrderResponse{
			ID:              ro.ID,
			OriginalOrderID: ro.OriginalOrderID,
			CustomerName:    ro.CustomerName,
			Dish:            string(ro.Dish),
			Quantity:        ro.Quantity,
			Price:           ro.Price.StringFixed(2),
			OrderedAt:       ro.OrderedAt,
			RejectedBy:      ro.RejectedBy,
			RejectedAt:      ro.RejectedAt,
			Reason:          ro.Reason,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

type RatingRequest struct {
	Score int `json:"score"`
}

func (h *InventoryHandler) RateDish(w http.ResponseWriter, r *http.Request) {
	dish := r.PathValue("dish")

	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &domain.ValidationError{Msg: "invalid request body"})
		return
	}

	if err := h.reporting.RateDish(r.Context(), ActorFromContext(r.Context()), dish, req.Score); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"dish": dish, "score": req.Score})
}
