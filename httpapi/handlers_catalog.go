package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/types"
)

type productRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Brand       string   `json:"brand" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Price       int64    `json:"price" validate:"gte=0"` // smallest currency unit
	Currency    string   `json:"currency" validate:"required,len=3"`
	TotalQty    int64    `json:"total_qty" validate:"gte=0"`
}

type productResponse struct {
	*catalog.Product
	QtyLeft       int64   `json:"qty_left"`
	AverageRating float64 `json:"average_rating"`
}

type nameRequest struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image,omitempty"`
}

// ==================== Products ====================

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	p := &catalog.Product{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Price:       types.New(req.Price, req.Currency),
		TotalQty:    req.TotalQty,
		UserID:      currentUser(r).ID,
	}
	if err := a.engine.CreateProduct(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "product created successfully", p)
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	p, err := a.engine.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}

	rating, err := a.engine.ProductAverageRating(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", productResponse{
		Product:       p,
		QtyLeft:       p.QtyLeft(),
		AverageRating: rating,
	})
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := catalog.ProductListOpts{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Name:     q.Get("name"),
	}
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))
	opts.Offset, _ = strconv.Atoi(q.Get("offset"))

	products, err := a.engine.ListProducts(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", products)
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	p, err := a.engine.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Brand = req.Brand
	p.Category = req.Category
	p.Sizes = req.Sizes
	p.Colors = req.Colors
	p.Price = types.New(req.Price, req.Currency)
	p.TotalQty = req.TotalQty

	if err := a.engine.UpdateProduct(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "product updated successfully", p)
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.engine.DeleteProduct(r.Context(), productID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "product deleted successfully", nil)
}

// handleUploadProductImage accepts a multipart form with a "file" part
// and attaches the uploaded image to the product.
func (a *API) handleUploadProductImage(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	defer file.Close()

	img, err := a.engine.AttachProductImage(r.Context(), productID,
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "image uploaded successfully", img)
}

func (a *API) handleListImages(w http.ResponseWriter, r *http.Request) {
	images, err := a.engine.ListImages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", images)
}

func (a *API) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := id.ParseImageID(chi.URLParam(r, "imageID"))
	if err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.engine.RemoveImage(r.Context(), imageID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "image deleted successfully", nil)
}

// ==================== Categories ====================

func (a *API) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	c := &catalog.Category{Name: req.Name, Image: req.Image, UserID: currentUser(r).ID}
	if err := a.engine.CreateCategory(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "category created successfully", c)
}

func (a *API) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := a.engine.GetCategoryByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", c)
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.engine.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", categories)
}

func (a *API) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	c, err := a.engine.GetCategoryByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	c.Name = req.Name
	if req.Image != "" {
		c.Image = req.Image
	}
	if err := a.engine.UpdateCategory(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "category updated successfully", c)
}

func (a *API) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	c, err := a.engine.GetCategoryByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.engine.DeleteCategory(r.Context(), c.ID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "category deleted successfully", nil)
}

// ==================== Brands ====================

func (a *API) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	b := &catalog.Brand{Name: req.Name, UserID: currentUser(r).ID}
	if err := a.engine.CreateBrand(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "brand created successfully", b)
}

func (a *API) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	b, err := a.engine.GetBrandByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", b)
}

func (a *API) handleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := a.engine.ListBrands(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", brands)
}

func (a *API) handleUpdateBrand(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	b, err := a.engine.GetBrandByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	b.Name = req.Name
	if err := a.engine.UpdateBrand(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "brand updated successfully", b)
}

func (a *API) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	b, err := a.engine.GetBrandByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.engine.DeleteBrand(r.Context(), b.ID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "brand deleted successfully", nil)
}

// ==================== Colors ====================

func (a *API) handleCreateColor(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	c := &catalog.Color{Name: req.Name, UserID: currentUser(r).ID}
	if err := a.engine.CreateColor(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "color created successfully", c)
}

func (a *API) handleGetColor(w http.ResponseWriter, r *http.Request) {
	c, err := a.engine.GetColorByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", c)
}

func (a *API) handleListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := a.engine.ListColors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", colors)
}

func (a *API) handleUpdateColor(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, storefront.ErrInvalidInput)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	c, err := a.engine.GetColorByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	c.Name = req.Name
	if err := a.engine.UpdateColor(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "color updated successfully", c)
}

func (a *API) handleDeleteColor(w http.ResponseWriter, r *http.Request) {
	c, err := a.engine.GetColorByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.engine.DeleteColor(r.Context(), c.ID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "color deleted successfully", nil)
}
