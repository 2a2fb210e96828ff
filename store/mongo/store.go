// Package mongo implements store.Store on MongoDB. Documents are stored
// one collection per entity with TypeID strings as _id, so the natural
// sort order of _id follows creation time.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	storefront "github.com/harborlane/storefront"
	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/order"
	"github.com/harborlane/storefront/review"
	storefrontstore "github.com/harborlane/storefront/store"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

// Collection name constants.
const (
	colUsers      = "storefront_users"
	colCoupons    = "storefront_coupons"
	colProducts   = "storefront_products"
	colCategories = "storefront_categories"
	colBrands     = "storefront_brands"
	colColors     = "storefront_colors"
	colImages     = "storefront_images"
	colOrders     = "storefront_orders"
	colReviews    = "storefront_reviews"
)

// compile-time interface check
var _ storefrontstore.Store = (*Store)(nil)

// Store implements store.Store using the official MongoDB driver.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and returns a store bound to the named database.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("storefront/mongo: ping: %w", err)
	}
	return NewWithClient(client, database), nil
}

// NewWithClient wraps an existing client, for callers that manage their
// own connection lifecycle.
func NewWithClient(client *mongo.Client, database string) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
	}
}

// DB returns the underlying database handle for direct access.
func (s *Store) DB() *mongo.Database { return s.db }

// Migrate creates indexes for all storefront collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("storefront/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from the database.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// ==================== User Store ====================

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	_, err := s.db.Collection(colUsers).InsertOne(ctx, toUserModel(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrEmailTaken
		}
		return fmt.Errorf("storefront/mongo: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	var m userModel
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrUserNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get user: %w", err)
	}
	return fromUserModel(&m)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	var m userModel
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrUserNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get user by email: %w", err)
	}
	return fromUserModel(&m)
}

func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.db.Collection(colUsers).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list users: %w", err)
	}
	var models []userModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list users: %w", err)
	}

	result := make([]*user.User, len(models))
	for i := range models {
		u, err := fromUserModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = u
	}
	return result, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	m := toUserModel(u)
	m.UpdatedAt = now()

	res, err := s.db.Collection(colUsers).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("storefront/mongo: update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrUserNotFound
	}
	return nil
}

func (s *Store) AppendUserOrder(ctx context.Context, userID id.UserID, orderID id.OrderID) error {
	res, err := s.db.Collection(colUsers).UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{
			"$push": bson.M{"orders": orderID.String()},
			"$set":  bson.M{"updated_at": now()},
		})
	if err != nil {
		return fmt.Errorf("storefront/mongo: append user order: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrUserNotFound
	}
	return nil
}

// ==================== Coupon Store ====================

func (s *Store) CreateCoupon(ctx context.Context, c *coupon.Coupon) error {
	_, err := s.db.Collection(colCoupons).InsertOne(ctx, toCouponModel(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrCouponExists
		}
		return fmt.Errorf("storefront/mongo: create coupon: %w", err)
	}
	return nil
}

func (s *Store) GetCoupon(ctx context.Context, couponID id.CouponID) (*coupon.Coupon, error) {
	var m couponModel
	err := s.db.Collection(colCoupons).FindOne(ctx, bson.M{"_id": couponID.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrCouponNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get coupon: %w", err)
	}
	return fromCouponModel(&m)
}

func (s *Store) GetCouponByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var m couponModel
	err := s.db.Collection(colCoupons).FindOne(ctx, bson.M{"code": code}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrCouponNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get coupon by code: %w", err)
	}
	return fromCouponModel(&m)
}

func (s *Store) ListCoupons(ctx context.Context, opts coupon.ListOpts) ([]*coupon.Coupon, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}

	cur, err := s.db.Collection(colCoupons).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list coupons: %w", err)
	}
	var models []couponModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list coupons: %w", err)
	}

	result := make([]*coupon.Coupon, len(models))
	for i := range models {
		c, err := fromCouponModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) UpdateCoupon(ctx context.Context, c *coupon.Coupon) error {
	m := toCouponModel(c)
	m.UpdatedAt = now()

	res, err := s.db.Collection(colCoupons).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrCouponExists
		}
		return fmt.Errorf("storefront/mongo: update coupon: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrCouponNotFound
	}
	return nil
}

func (s *Store) DeleteCoupon(ctx context.Context, couponID id.CouponID) error {
	res, err := s.db.Collection(colCoupons).DeleteOne(ctx, bson.M{"_id": couponID.String()})
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete coupon: %w", err)
	}
	if res.DeletedCount == 0 {
		return storefront.ErrCouponNotFound
	}
	return nil
}

// ==================== Product Store ====================

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	_, err := s.db.Collection(colProducts).InsertOne(ctx, toProductModel(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrProductExists
		}
		return fmt.Errorf("storefront/mongo: create product: %w", err)
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, productID id.ProductID) (*catalog.Product, error) {
	var m productModel
	err := s.db.Collection(colProducts).FindOne(ctx, bson.M{"_id": productID.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrProductNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get product: %w", err)
	}
	return fromProductModel(&m)
}

func (s *Store) GetProductByName(ctx context.Context, name string) (*catalog.Product, error) {
	var m productModel
	err := s.db.Collection(colProducts).FindOne(ctx, bson.M{"name": name}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrProductNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get product by name: %w", err)
	}
	return fromProductModel(&m)
}

func (s *Store) ListProducts(ctx context.Context, opts catalog.ProductListOpts) ([]*catalog.Product, error) {
	filter := bson.M{}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if opts.Brand != "" {
		filter["brand"] = opts.Brand
	}
	if opts.Name != "" {
		filter["name"] = bson.M{"$regex": opts.Name, "$options": "i"}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}

	cur, err := s.db.Collection(colProducts).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list products: %w", err)
	}
	var models []productModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list products: %w", err)
	}

	result := make([]*catalog.Product, len(models))
	for i := range models {
		p, err := fromProductModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	m := toProductModel(p)
	m.UpdatedAt = now()

	res, err := s.db.Collection(colProducts).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrProductExists
		}
		return fmt.Errorf("storefront/mongo: update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrProductNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, productID id.ProductID) error {
	res, err := s.db.Collection(colProducts).DeleteOne(ctx, bson.M{"_id": productID.String()})
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return storefront.ErrProductNotFound
	}
	return nil
}

// AdjustInventory records qty units sold with a single conditional $inc.
// The stock check rides in the update filter, so two concurrent
// checkouts cannot both pass it and oversell the product.
func (s *Store) AdjustInventory(ctx context.Context, productID id.ProductID, qty int64, allowNegative bool) error {
	filter := bson.M{"_id": productID.String()}
	if !allowNegative {
		filter["$expr"] = bson.M{"$gte": bson.A{
			bson.M{"$subtract": bson.A{"$total_qty", "$total_sold"}},
			qty,
		}}
	}

	res, err := s.db.Collection(colProducts).UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"total_sold": qty},
		"$set": bson.M{"updated_at": now()},
	})
	if err != nil {
		return fmt.Errorf("storefront/mongo: adjust inventory: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing product from a failed stock check.
		count, err := s.db.Collection(colProducts).CountDocuments(ctx, bson.M{"_id": productID.String()})
		if err != nil {
			return fmt.Errorf("storefront/mongo: adjust inventory: %w", err)
		}
		if count == 0 {
			return storefront.ErrProductNotFound
		}
		return storefront.ErrInsufficientStock
	}
	return nil
}

func (s *Store) AppendProductImage(ctx context.Context, productID id.ProductID, ref catalog.ImageRef) error {
	res, err := s.db.Collection(colProducts).UpdateOne(ctx,
		bson.M{"_id": productID.String()},
		bson.M{
			"$push": bson.M{"images": imageRefModel{ID: ref.ID.String(), URL: ref.URL}},
			"$set":  bson.M{"updated_at": now()},
		})
	if err != nil {
		return fmt.Errorf("storefront/mongo: append product image: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrProductNotFound
	}
	return nil
}

func (s *Store) AppendProductReview(ctx context.Context, productID id.ProductID, reviewID id.ReviewID) error {
	res, err := s.db.Collection(colProducts).UpdateOne(ctx,
		bson.M{"_id": productID.String()},
		bson.M{
			"$push": bson.M{"reviews": reviewID.String()},
			"$set":  bson.M{"updated_at": now()},
		})
	if err != nil {
		return fmt.Errorf("storefront/mongo: append product review: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrProductNotFound
	}
	return nil
}

// ==================== Category Store ====================

func (s *Store) CreateCategory(ctx context.Context, c *catalog.Category) error {
	_, err := s.db.Collection(colCategories).InsertOne(ctx, toCategoryModel(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrCategoryExists
		}
		return fmt.Errorf("storefront/mongo: create category: %w", err)
	}
	return nil
}

func (s *Store) GetCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	var m categoryModel
	err := s.db.Collection(colCategories).FindOne(ctx, bson.M{"name": name}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get category by name: %w", err)
	}
	return fromCategoryModel(&m)
}

func (s *Store) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	cur, err := s.db.Collection(colCategories).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list categories: %w", err)
	}
	var models []categoryModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list categories: %w", err)
	}

	result := make([]*catalog.Category, len(models))
	for i := range models {
		c, err := fromCategoryModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	m := toCategoryModel(c)
	m.UpdatedAt = now()

	res, err := s.db.Collection(colCategories).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrCategoryExists
		}
		return fmt.Errorf("storefront/mongo: update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrCategoryNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, categoryID id.CategoryID) error {
	res, err := s.db.Collection(colCategories).DeleteOne(ctx, bson.M{"_id": categoryID.String()})
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return storefront.ErrCategoryNotFound
	}
	return nil
}

// ==================== Brand Store ====================

func (s *Store) CreateBrand(ctx context.Context, b *catalog.Brand) error {
	_, err := s.db.Collection(colBrands).InsertOne(ctx, toBrandModel(b))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrBrandExists
		}
		return fmt.Errorf("storefront/mongo: create brand: %w", err)
	}
	return nil
}

func (s *Store) GetBrandByName(ctx context.Context, name string) (*catalog.Brand, error) {
	var m brandModel
	err := s.db.Collection(colBrands).FindOne(ctx, bson.M{"name": name}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrBrandNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get brand by name: %w", err)
	}
	return fromBrandModel(&m)
}

func (s *Store) ListBrands(ctx context.Context) ([]*catalog.Brand, error) {
	cur, err := s.db.Collection(colBrands).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list brands: %w", err)
	}
	var models []brandModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list brands: %w", err)
	}

	result := make([]*catalog.Brand, len(models))
	for i := range models {
		b, err := fromBrandModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

func (s *Store) UpdateBrand(ctx context.Context, b *catalog.Brand) error {
	m := toBrandModel(b)
	m.UpdatedAt = now()

	res, err := s.db.Collection(colBrands).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrBrandExists
		}
		return fmt.Errorf("storefront/mongo: update brand: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrBrandNotFound
	}
	return nil
}

func (s *Store) DeleteBrand(ctx context.Context, brandID id.BrandID) error {
	res, err := s.db.Collection(colBrands).DeleteOne(ctx, bson.M{"_id": brandID.String()})
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete brand: %w", err)
	}
	if res.DeletedCount == 0 {
		return storefront.ErrBrandNotFound
	}
	return nil
}

// ==================== Color Store ====================

func (s *Store) CreateColor(ctx context.Context, c *catalog.Color) error {
	_, err := s.db.Collection(colColors).InsertOne(ctx, toColorModel(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrColorExists
		}
		return fmt.Errorf("storefront/mongo: create color: %w", err)
	}
	return nil
}

func (s *Store) GetColorByName(ctx context.Context, name string) (*catalog.Color, error) {
	var m colorModel
	err := s.db.Collection(colColors).FindOne(ctx, bson.M{"name": name}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrColorNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get color by name: %w", err)
	}
	return fromColorModel(&m)
}

func (s *Store) ListColors(ctx context.Context) ([]*catalog.Color, error) {
	cur, err := s.db.Collection(colColors).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list colors: %w", err)
	}
	var models []colorModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list colors: %w", err)
	}

	result := make([]*catalog.Color, len(models))
	for i := range models {
		c, err := fromColorModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) UpdateColor(ctx context.Context, c *catalog.Color) error {
	m := toColorModel(c)
	m.UpdatedAt = now()

	res, err := s.db.Collection(colColors).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrColorExists
		}
		return fmt.Errorf("storefront/mongo: update color: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrColorNotFound
	}
	return nil
}

func (s *Store) DeleteColor(ctx context.Context, colorID id.ColorID) error {
	res, err := s.db.Collection(colColors).DeleteOne(ctx, bson.M{"_id": colorID.String()})
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete color: %w", err)
	}
	if res.DeletedCount == 0 {
		return storefront.ErrColorNotFound
	}
	return nil
}

// ==================== Image Store ====================

func (s *Store) CreateImage(ctx context.Context, img *catalog.Image) error {
	_, err := s.db.Collection(colImages).InsertOne(ctx, toImageModel(img))
	if err != nil {
		return fmt.Errorf("storefront/mongo: create image: %w", err)
	}
	return nil
}

func (s *Store) GetImage(ctx context.Context, imageID id.ImageID) (*catalog.Image, error) {
	var m imageModel
	err := s.db.Collection(colImages).FindOne(ctx, bson.M{"_id": imageID.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrImageNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get image: %w", err)
	}
	return fromImageModel(&m)
}

func (s *Store) ListImages(ctx context.Context) ([]*catalog.Image, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.db.Collection(colImages).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list images: %w", err)
	}
	var models []imageModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list images: %w", err)
	}

	result := make([]*catalog.Image, len(models))
	for i := range models {
		img, err := fromImageModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = img
	}
	return result, nil
}

func (s *Store) DeleteImage(ctx context.Context, imageID id.ImageID) error {
	res, err := s.db.Collection(colImages).DeleteOne(ctx, bson.M{"_id": imageID.String()})
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete image: %w", err)
	}
	if res.DeletedCount == 0 {
		return storefront.ErrImageNotFound
	}
	return nil
}

// ==================== Order Store ====================

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	_, err := s.db.Collection(colOrders).InsertOne(ctx, toOrderModel(o))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrAlreadyExists
		}
		return fmt.Errorf("storefront/mongo: create order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error) {
	var m orderModel
	err := s.db.Collection(colOrders).FindOne(ctx, bson.M{"_id": orderID.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrOrderNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get order: %w", err)
	}
	return fromOrderModel(&m)
}

func (s *Store) DeleteOrder(ctx context.Context, orderID id.OrderID) error {
	res, err := s.db.Collection(colOrders).DeleteOne(ctx, bson.M{"_id": orderID.String()})
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return storefront.ErrOrderNotFound
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error) {
	filter := bson.M{}
	if !opts.UserID.IsNil() {
		filter["user_id"] = opts.UserID.String()
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}

	cur, err := s.db.Collection(colOrders).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list orders: %w", err)
	}
	var models []orderModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list orders: %w", err)
	}

	result := make([]*order.Order, len(models))
	for i := range models {
		o, err := fromOrderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = o
	}
	return result, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID id.OrderID, status order.Status, deliveredAt *time.Time) error {
	set := bson.M{
		"status":     string(status),
		"updated_at": now(),
	}
	if deliveredAt != nil {
		set["delivered_at"] = *deliveredAt
	}

	res, err := s.db.Collection(colOrders).UpdateOne(ctx,
		bson.M{"_id": orderID.String()},
		bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("storefront/mongo: update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrOrderNotFound
	}
	return nil
}

func (s *Store) SetPaymentSession(ctx context.Context, orderID id.OrderID, sessionID, paymentIntentID string) error {
	res, err := s.db.Collection(colOrders).UpdateOne(ctx,
		bson.M{"_id": orderID.String()},
		bson.M{"$set": bson.M{
			"checkout_session_id": sessionID,
			"payment_intent_id":   paymentIntentID,
			"updated_at":          now(),
		}})
	if err != nil {
		return fmt.Errorf("storefront/mongo: set payment session: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrOrderNotFound
	}
	return nil
}

// ApplyPaymentResult overwrites the order's payment fields with the
// gateway-reported values. Plain $set only, so redelivered webhook
// events converge to the same document.
func (s *Store) ApplyPaymentResult(ctx context.Context, orderID id.OrderID, result order.PaymentResult) error {
	res, err := s.db.Collection(colOrders).UpdateOne(ctx,
		bson.M{"_id": orderID.String()},
		bson.M{"$set": bson.M{
			"total_price_amount":   result.AmountTotal.Amount,
			"total_price_currency": result.AmountTotal.Currency,
			"currency":             result.Currency,
			"payment_method":       result.PaymentMethod,
			"payment_status":       string(result.PaymentStatus),
			"updated_at":           now(),
		}})
	if err != nil {
		return fmt.Errorf("storefront/mongo: apply payment result: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrOrderNotFound
	}
	return nil
}

func (s *Store) ListOrdersAwaitingPaymentSession(ctx context.Context, createdBefore time.Time) ([]*order.Order, error) {
	filter := bson.M{
		"checkout_session_id": "",
		"payment_status":      string(order.PaymentStatusNotPaid),
		"created_at":          bson.M{"$lt": createdBefore},
	}

	cur, err := s.db.Collection(colOrders).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list orders awaiting payment session: %w", err)
	}
	var models []orderModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list orders awaiting payment session: %w", err)
	}

	result := make([]*order.Order, len(models))
	for i := range models {
		o, err := fromOrderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = o
	}
	return result, nil
}

// statsRow is the shape produced by the stats aggregation pipelines.
type statsRow struct {
	Count    int64   `bson:"count"`
	Min      int64   `bson:"min"`
	Max      int64   `bson:"max"`
	Avg      float64 `bson:"avg"` // $avg yields a double
	Total    int64   `bson:"total"`
	Currency string  `bson:"currency"`
}

// OrderStats aggregates totals across all orders plus today's revenue
// in two $group pipelines.
func (s *Store) OrderStats(ctx context.Context, dayStart time.Time) (*order.Stats, error) {
	col := s.db.Collection(colOrders)

	all, err := s.runStatsPipeline(ctx, col, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "min", Value: bson.D{{Key: "$min", Value: "$total_price_amount"}}},
			{Key: "max", Value: bson.D{{Key: "$max", Value: "$total_price_amount"}}},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$total_price_amount"}}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_price_amount"}}},
			{Key: "currency", Value: bson.D{{Key: "$last", Value: "$total_price_currency"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}

	today, err := s.runStatsPipeline(ctx, col, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "created_at", Value: bson.D{{Key: "$gte", Value: dayStart}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_price_amount"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}

	currency := all.Currency
	if currency == "" {
		currency = "usd"
	}

	return &order.Stats{
		Count:      all.Count,
		Min:        types.New(all.Min, currency),
		Max:        types.New(all.Max, currency),
		Avg:        types.New(int64(all.Avg), currency),
		Total:      types.New(all.Total, currency),
		TodayTotal: types.New(today.Total, currency),
	}, nil
}

func (s *Store) runStatsPipeline(ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) (*statsRow, error) {
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: order stats: %w", err)
	}
	var rows []statsRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("storefront/mongo: order stats: %w", err)
	}
	if len(rows) == 0 {
		return &statsRow{}, nil
	}
	return &rows[0], nil
}

// ==================== Review Store ====================

func (s *Store) CreateReview(ctx context.Context, r *review.Review) error {
	_, err := s.db.Collection(colReviews).InsertOne(ctx, toReviewModel(r))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrReviewExists
		}
		return fmt.Errorf("storefront/mongo: create review: %w", err)
	}
	return nil
}

func (s *Store) GetReview(ctx context.Context, reviewID id.ReviewID) (*review.Review, error) {
	var m reviewModel
	err := s.db.Collection(colReviews).FindOne(ctx, bson.M{"_id": reviewID.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrReviewNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get review: %w", err)
	}
	return fromReviewModel(&m)
}

func (s *Store) GetReviewByUserAndProduct(ctx context.Context, userID id.UserID, productID id.ProductID) (*review.Review, error) {
	var m reviewModel
	err := s.db.Collection(colReviews).FindOne(ctx, bson.M{
		"user_id":    userID.String(),
		"product_id": productID.String(),
	}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, storefront.ErrReviewNotFound
		}
		return nil, fmt.Errorf("storefront/mongo: get review by user and product: %w", err)
	}
	return fromReviewModel(&m)
}

func (s *Store) ListProductReviews(ctx context.Context, productID id.ProductID) ([]*review.Review, error) {
	cur, err := s.db.Collection(colReviews).Find(ctx,
		bson.M{"product_id": productID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: list product reviews: %w", err)
	}
	var models []reviewModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("storefront/mongo: list product reviews: %w", err)
	}

	result := make([]*review.Review, len(models))
	for i := range models {
		r, err := fromReviewModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) UpdateReview(ctx context.Context, r *review.Review) error {
	m := toReviewModel(r)
	m.UpdatedAt = now()

	res, err := s.db.Collection(colReviews).ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("storefront/mongo: update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return storefront.ErrReviewNotFound
	}
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, reviewID id.ReviewID) error {
	res, err := s.db.Collection(colReviews).DeleteOne(ctx, bson.M{"_id": reviewID.String()})
	if err != nil {
		return fmt.Errorf("storefront/mongo: delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return storefront.ErrReviewNotFound
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all storefront collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colCoupons: {
			{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "end_date", Value: 1}}},
		},
		colProducts: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "brand", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		colCategories: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colBrands: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colColors: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colOrders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "checkout_session_id", Value: 1}, {Key: "payment_status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		colReviews: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
}
