package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/user"
)

type registerRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

type shippingAddressRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Province   string `json:"province"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
}

func (r shippingAddressRequest) toAddress() user.Address {
	return user.Address{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Street:     r.Street,
		City:       r.City,
		PostalCode: r.PostalCode,
		Province:   r.Province,
		Country:    r.Country,
		Phone:      r.Phone,
	}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	u, err := a.engine.RegisterUser(r.Context(), req.Fullname, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "user registered successfully", u)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	u, err := a.engine.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := a.tokens.Issue(u.ID.String())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "user logged in successfully", loginResponse{User: u, Token: token})
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "", currentUser(r))
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.engine.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", users)
}

func (a *API) handleUpdateShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	u, err := a.engine.UpdateShippingAddress(r.Context(), currentUser(r).ID, req.toAddress())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "shipping address updated successfully", u)
}
