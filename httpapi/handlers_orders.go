package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/order"
	"github.com/harborlane/storefront/review"
)

// maxWebhookBody bounds webhook payload reads. Stripe events are small;
// anything bigger is not a legitimate delivery.
const maxWebhookBody = 1 << 20

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

type createOrderRequest struct {
	Items           []orderItemRequest      `json:"items" validate:"required,dive"`
	ShippingAddress *shippingAddressRequest `json:"shipping_address,omitempty"`
}

type checkoutResponse struct {
	Order       *order.Order `json:"order"`
	CheckoutURL string       `json:"checkout_url"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// handleCreateOrder handles POST /orders?coupon=CODE. The coupon code
// rides in the query string and is mandatory.
func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	items := make([]storefront.OrderItem, len(req.Items))
	for i, item := range req.Items {
		productID, err := id.ParseProductID(item.ProductID)
		if err != nil {
			writeError(w, storefront.ErrInvalidInput)
			return
		}
		items[i] = storefront.OrderItem{ProductID: productID, Quantity: item.Quantity}
	}

	engineReq := &storefront.CreateOrderRequest{
		UserID:     currentUser(r).ID,
		CouponCode: r.URL.Query().Get("coupon"),
		Items:      items,
	}
	if req.ShippingAddress != nil {
		addr := req.ShippingAddress.toAddress()
		engineReq.ShippingAddress = &addr
	}

	result, err := a.engine.CreateOrder(r.Context(), engineReq)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "order created successfully", checkoutResponse{
		Order:       result.Order,
		CheckoutURL: result.CheckoutURL,
	})
}

// handleGetOrder returns an order to its owner or to an admin.
func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := id.ParseOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	ord, err := a.engine.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	u := currentUser(r)
	if ord.UserID != u.ID && !u.IsAdmin {
		writeError(w, storefront.ErrForbidden)
		return
	}
	writeData(w, http.StatusOK, "", ord)
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := order.ListOpts{Status: order.Status(q.Get("status"))}
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))
	opts.Offset, _ = strconv.Atoi(q.Get("offset"))

	orders, err := a.engine.ListOrders(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", orders)
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := id.ParseOrderID(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	ord, err := a.engine.UpdateOrderStatus(r.Context(), orderID, order.Status(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "order updated successfully", ord)
}

func (a *API) handleSalesStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.engine.SalesStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", stats)
}

// handleWebhook feeds the raw body and signature straight into the
// engine. The body must not be decoded or re-serialized first: the
// signature covers the exact bytes on the wire.
func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	if err := a.engine.ProcessWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "webhook processed", nil)
}

// ==================== Reviews ====================

func (a *API) handleAddReview(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	rev := &review.Review{
		UserID:    currentUser(r).ID,
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := a.engine.AddReview(r.Context(), rev); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "review added successfully", rev)
}

func (a *API) handleListProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	reviews, err := a.engine.ListProductReviews(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", reviews)
}
