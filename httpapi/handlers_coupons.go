package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/id"
)

type couponRequest struct {
	Code      string    `json:"code" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Discount  int       `json:"discount" validate:"gte=0,lte=100"`
}

type couponResponse struct {
	*coupon.Coupon
	IsExpired bool `json:"is_expired"`
	DaysLeft  int  `json:"days_left"`
}

func newCouponResponse(c *coupon.Coupon) couponResponse {
	now := time.Now()
	return couponResponse{Coupon: c, IsExpired: c.IsExpired(now), DaysLeft: c.DaysLeft(now)}
}

func (a *API) handleCreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	c := &coupon.Coupon{
		Code:      req.Code,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Discount:  req.Discount,
		UserID:    currentUser(r).ID,
	}
	if err := a.engine.CreateCoupon(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "coupon created successfully", newCouponResponse(c))
}

func (a *API) handleListCoupons(w http.ResponseWriter, r *http.Request) {
	var opts coupon.ListOpts
	opts.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	opts.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	coupons, err := a.engine.ListCoupons(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	result := make([]couponResponse, len(coupons))
	for i, c := range coupons {
		result[i] = newCouponResponse(c)
	}
	writeData(w, http.StatusOK, "", result)
}

func (a *API) handleGetCouponByCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	c, err := a.engine.GetCouponByCode(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", newCouponResponse(c))
}

func (a *API) handleUpdateCoupon(w http.ResponseWriter, r *http.Request) {
	couponID, err := id.ParseCouponID(chi.URLParam(r, "couponID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	c, err := a.engine.GetCoupon(r.Context(), couponID)
	if err != nil {
		writeError(w, err)
		return
	}

	c.Code = req.Code
	c.StartDate = req.StartDate
	c.EndDate = req.EndDate
	c.Discount = req.Discount

	if err := a.engine.UpdateCoupon(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "coupon updated successfully", newCouponResponse(c))
}

func (a *API) handleDeleteCoupon(w http.ResponseWriter, r *http.Request) {
	couponID, err := id.ParseCouponID(chi.URLParam(r, "couponID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.engine.DeleteCoupon(r.Context(), couponID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "coupon deleted successfully", nil)
}
