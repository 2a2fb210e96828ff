package mongo

import (
	"fmt"
	"time"

	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/order"
	"github.com/harborlane/storefront/review"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

// ==================== User models ====================

type addressModel struct {
	FirstName  string `bson:"first_name"`
	LastName   string `bson:"last_name"`
	Street     string `bson:"street"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Province   string `bson:"province,omitempty"`
	Country    string `bson:"country"`
	Phone      string `bson:"phone,omitempty"`
}

type userModel struct {
	ID                 string        `bson:"_id"`
	Fullname           string        `bson:"fullname"`
	Email              string        `bson:"email"`
	PasswordHash       string        `bson:"password_hash"`
	IsAdmin            bool          `bson:"is_admin"`
	ShippingAddress    *addressModel `bson:"shipping_address,omitempty"`
	HasShippingAddress bool          `bson:"has_shipping_address"`
	Orders             []string      `bson:"orders"`
	CreatedAt          time.Time     `bson:"created_at"`
	UpdatedAt          time.Time     `bson:"updated_at"`
}

func toAddressModel(a *user.Address) *addressModel {
	if a == nil {
		return nil
	}
	return &addressModel{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Province:   a.Province,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func fromAddressModel(m *addressModel) *user.Address {
	if m == nil {
		return nil
	}
	return &user.Address{
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Street:     m.Street,
		City:       m.City,
		PostalCode: m.PostalCode,
		Province:   m.Province,
		Country:    m.Country,
		Phone:      m.Phone,
	}
}

func toUserModel(u *user.User) *userModel {
	orders := make([]string, len(u.Orders))
	for i, oid := range u.Orders {
		orders[i] = oid.String()
	}
	return &userModel{
		ID:                 u.ID.String(),
		Fullname:           u.Fullname,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		IsAdmin:            u.IsAdmin,
		ShippingAddress:    toAddressModel(u.ShippingAddress),
		HasShippingAddress: u.HasShippingAddress,
		Orders:             orders,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func fromUserModel(m *userModel) (*user.User, error) {
	userID, err := id.ParseUserID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: user id: %w", err)
	}
	orders := make([]id.OrderID, len(m.Orders))
	for i, s := range m.Orders {
		oid, err := id.ParseOrderID(s)
		if err != nil {
			return nil, fmt.Errorf("storefront/mongo: user order ref: %w", err)
		}
		orders[i] = oid
	}
	return &user.User{
		Entity:             types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:                 userID,
		Fullname:           m.Fullname,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		IsAdmin:            m.IsAdmin,
		ShippingAddress:    fromAddressModel(m.ShippingAddress),
		HasShippingAddress: m.HasShippingAddress,
		Orders:             orders,
	}, nil
}

// ==================== Coupon models ====================

type couponModel struct {
	ID        string    `bson:"_id"`
	Code      string    `bson:"code"`
	StartDate time.Time `bson:"start_date"`
	EndDate   time.Time `bson:"end_date"`
	Discount  int       `bson:"discount"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toCouponModel(c *coupon.Coupon) *couponModel {
	return &couponModel{
		ID:        c.ID.String(),
		Code:      c.Code,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Discount:  c.Discount,
		UserID:    c.UserID.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromCouponModel(m *couponModel) (*coupon.Coupon, error) {
	couponID, err := id.ParseCouponID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: coupon id: %w", err)
	}
	userID, err := parseOptional(m.UserID, id.ParseUserID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: coupon user id: %w", err)
	}
	return &coupon.Coupon{
		Entity:    types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:        couponID,
		Code:      m.Code,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Discount:  m.Discount,
		UserID:    userID,
	}, nil
}

// ==================== Catalog models ====================

type imageRefModel struct {
	ID  string `bson:"id"`
	URL string `bson:"url"`
}

type productModel struct {
	ID            string          `bson:"_id"`
	Name          string          `bson:"name"`
	Description   string          `bson:"description"`
	Brand         string          `bson:"brand"`
	Category      string          `bson:"category"`
	Sizes         []string        `bson:"sizes"`
	Colors        []string        `bson:"colors"`
	PriceAmount   int64           `bson:"price_amount"`
	PriceCurrency string          `bson:"price_currency"`
	TotalQty      int64           `bson:"total_qty"`
	TotalSold     int64           `bson:"total_sold"`
	UserID        string          `bson:"user_id"`
	Images        []imageRefModel `bson:"images"`
	Reviews       []string        `bson:"reviews"`
	CreatedAt     time.Time       `bson:"created_at"`
	UpdatedAt     time.Time       `bson:"updated_at"`
}

func toProductModel(p *catalog.Product) *productModel {
	images := make([]imageRefModel, len(p.Images))
	for i, ref := range p.Images {
		images[i] = imageRefModel{ID: ref.ID.String(), URL: ref.URL}
	}
	reviews := make([]string, len(p.Reviews))
	for i, rid := range p.Reviews {
		reviews[i] = rid.String()
	}
	return &productModel{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		Category:      p.Category,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		PriceAmount:   p.Price.Amount,
		PriceCurrency: p.Price.Currency,
		TotalQty:      p.TotalQty,
		TotalSold:     p.TotalSold,
		UserID:        p.UserID.String(),
		Images:        images,
		Reviews:       reviews,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func fromProductModel(m *productModel) (*catalog.Product, error) {
	productID, err := id.ParseProductID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: product id: %w", err)
	}
	userID, err := parseOptional(m.UserID, id.ParseUserID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: product user id: %w", err)
	}
	images := make([]catalog.ImageRef, len(m.Images))
	for i, ref := range m.Images {
		imageID, err := id.ParseImageID(ref.ID)
		if err != nil {
			return nil, fmt.Errorf("storefront/mongo: product image ref: %w", err)
		}
		images[i] = catalog.ImageRef{ID: imageID, URL: ref.URL}
	}
	reviews := make([]id.ReviewID, len(m.Reviews))
	for i, s := range m.Reviews {
		reviewID, err := id.ParseReviewID(s)
		if err != nil {
			return nil, fmt.Errorf("storefront/mongo: product review ref: %w", err)
		}
		reviews[i] = reviewID
	}
	return &catalog.Product{
		Entity:      types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:          productID,
		Name:        m.Name,
		Description: m.Description,
		Brand:       m.Brand,
		Category:    m.Category,
		Sizes:       m.Sizes,
		Colors:      m.Colors,
		Price:       types.New(m.PriceAmount, m.PriceCurrency),
		TotalQty:    m.TotalQty,
		TotalSold:   m.TotalSold,
		UserID:      userID,
		Images:      images,
		Reviews:     reviews,
	}, nil
}

type categoryModel struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	UserID    string    `bson:"user_id"`
	Image     string    `bson:"image,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toCategoryModel(c *catalog.Category) *categoryModel {
	return &categoryModel{
		ID:        c.ID.String(),
		Name:      c.Name,
		UserID:    c.UserID.String(),
		Image:     c.Image,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromCategoryModel(m *categoryModel) (*catalog.Category, error) {
	categoryID, err := id.ParseCategoryID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: category id: %w", err)
	}
	userID, err := parseOptional(m.UserID, id.ParseUserID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: category user id: %w", err)
	}
	return &catalog.Category{
		Entity: types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:     categoryID,
		Name:   m.Name,
		UserID: userID,
		Image:  m.Image,
	}, nil
}

type brandModel struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toBrandModel(b *catalog.Brand) *brandModel {
	return &brandModel{
		ID:        b.ID.String(),
		Name:      b.Name,
		UserID:    b.UserID.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func fromBrandModel(m *brandModel) (*catalog.Brand, error) {
	brandID, err := id.ParseBrandID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: brand id: %w", err)
	}
	userID, err := parseOptional(m.UserID, id.ParseUserID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: brand user id: %w", err)
	}
	return &catalog.Brand{
		Entity: types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:     brandID,
		Name:   m.Name,
		UserID: userID,
	}, nil
}

type colorModel struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toColorModel(c *catalog.Color) *colorModel {
	return &colorModel{
		ID:        c.ID.String(),
		Name:      c.Name,
		UserID:    c.UserID.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromColorModel(m *colorModel) (*catalog.Color, error) {
	colorID, err := id.ParseColorID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: color id: %w", err)
	}
	userID, err := parseOptional(m.UserID, id.ParseUserID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: color user id: %w", err)
	}
	return &catalog.Color{
		Entity: types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:     colorID,
		Name:   m.Name,
		UserID: userID,
	}, nil
}

type imageModel struct {
	ID        string    `bson:"_id"`
	Key       string    `bson:"key"`
	URL       string    `bson:"url"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toImageModel(img *catalog.Image) *imageModel {
	return &imageModel{
		ID:        img.ID.String(),
		Key:       img.Key,
		URL:       img.URL,
		CreatedAt: img.CreatedAt,
		UpdatedAt: img.UpdatedAt,
	}
}

func fromImageModel(m *imageModel) (*catalog.Image, error) {
	imageID, err := id.ParseImageID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: image id: %w", err)
	}
	return &catalog.Image{
		Entity: types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:     imageID,
		Key:    m.Key,
		URL:    m.URL,
	}, nil
}

// ==================== Order models ====================

type lineItemModel struct {
	ID                string `bson:"id"`
	ProductID         string `bson:"product_id"`
	Name              string `bson:"name"`
	Description       string `bson:"description"`
	Quantity          int64  `bson:"quantity"`
	UnitPriceAmount   int64  `bson:"unit_price_amount"`
	UnitPriceCurrency string `bson:"unit_price_currency"`
}

type orderModel struct {
	ID                 string          `bson:"_id"`
	UserID             string          `bson:"user_id"`
	Items              []lineItemModel `bson:"items"`
	ShippingAddress    addressModel    `bson:"shipping_address"`
	TotalPriceAmount   int64           `bson:"total_price_amount"`
	TotalPriceCurrency string          `bson:"total_price_currency"`
	Currency           string          `bson:"currency"`
	CouponCode         string          `bson:"coupon_code,omitempty"`
	DiscountPercent    int             `bson:"discount_percent"`
	PaymentMethod      string          `bson:"payment_method"`
	PaymentStatus      string          `bson:"payment_status"`
	PaymentIntentID    string          `bson:"payment_intent_id,omitempty"`
	CheckoutSessionID  string          `bson:"checkout_session_id,omitempty"`
	Status             string          `bson:"status"`
	DeliveredAt        *time.Time      `bson:"delivered_at,omitempty"`
	CreatedAt          time.Time       `bson:"created_at"`
	UpdatedAt          time.Time       `bson:"updated_at"`
}

func toOrderModel(o *order.Order) *orderModel {
	items := make([]lineItemModel, len(o.Items))
	for i, li := range o.Items {
		items[i] = lineItemModel{
			ID:                li.ID.String(),
			ProductID:         li.ProductID.String(),
			Name:              li.Name,
			Description:       li.Description,
			Quantity:          li.Quantity,
			UnitPriceAmount:   li.UnitPrice.Amount,
			UnitPriceCurrency: li.UnitPrice.Currency,
		}
	}
	return &orderModel{
		ID:                 o.ID.String(),
		UserID:             o.UserID.String(),
		Items:              items,
		ShippingAddress:    *toAddressModel(&o.ShippingAddress),
		TotalPriceAmount:   o.TotalPrice.Amount,
		TotalPriceCurrency: o.TotalPrice.Currency,
		Currency:           o.Currency,
		CouponCode:         o.CouponCode,
		DiscountPercent:    o.DiscountPercent,
		PaymentMethod:      o.PaymentMethod,
		PaymentStatus:      string(o.PaymentStatus),
		PaymentIntentID:    o.PaymentIntentID,
		CheckoutSessionID:  o.CheckoutSessionID,
		Status:             string(o.Status),
		DeliveredAt:        o.DeliveredAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func fromOrderModel(m *orderModel) (*order.Order, error) {
	orderID, err := id.ParseOrderID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: order id: %w", err)
	}
	userID, err := id.ParseUserID(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: order user id: %w", err)
	}
	items := make([]order.LineItem, len(m.Items))
	for i, li := range m.Items {
		itemID, err := id.ParseLineItemID(li.ID)
		if err != nil {
			return nil, fmt.Errorf("storefront/mongo: line item id: %w", err)
		}
		productID, err := id.ParseProductID(li.ProductID)
		if err != nil {
			return nil, fmt.Errorf("storefront/mongo: line item product id: %w", err)
		}
		items[i] = order.LineItem{
			ID:          itemID,
			ProductID:   productID,
			Name:        li.Name,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   types.New(li.UnitPriceAmount, li.UnitPriceCurrency),
		}
	}
	return &order.Order{
		Entity:            types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:                orderID,
		UserID:            userID,
		Items:             items,
		ShippingAddress:   *fromAddressModel(&m.ShippingAddress),
		TotalPrice:        types.New(m.TotalPriceAmount, m.TotalPriceCurrency),
		Currency:          m.Currency,
		CouponCode:        m.CouponCode,
		DiscountPercent:   m.DiscountPercent,
		PaymentMethod:     m.PaymentMethod,
		PaymentStatus:     order.PaymentStatus(m.PaymentStatus),
		PaymentIntentID:   m.PaymentIntentID,
		CheckoutSessionID: m.CheckoutSessionID,
		Status:            order.Status(m.Status),
		DeliveredAt:       m.DeliveredAt,
	}, nil
}

// ==================== Review models ====================

type reviewModel struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ProductID string    `bson:"product_id"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toReviewModel(r *review.Review) *reviewModel {
	return &reviewModel{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		ProductID: r.ProductID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func fromReviewModel(m *reviewModel) (*review.Review, error) {
	reviewID, err := id.ParseReviewID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: review id: %w", err)
	}
	userID, err := id.ParseUserID(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: review user id: %w", err)
	}
	productID, err := id.ParseProductID(m.ProductID)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: review product id: %w", err)
	}
	return &review.Review{
		Entity:    types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:        reviewID,
		UserID:    userID,
		ProductID: productID,
		Rating:    m.Rating,
		Comment:   m.Comment,
	}, nil
}

// parseOptional parses an ID string that may be empty (references stored
// before the field was populated, or system-created records).
func parseOptional(s string, parse func(string) (id.ID, error)) (id.ID, error) {
	if s == "" {
		return id.Nil, nil
	}
	return parse(s)
}
