package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fairyhunter13/checkout-service/internal/model"
)

// CouponsCollection is the collection mirrored from the CMS.
const CouponsCollection = "coupons"

// mongoCoupon maps the BSON document. discount_value may be a double, an int,
// a Decimal128 or a string depending on the sync job that wrote it.
type mongoCoupon struct {
	Code           string        `bson:"code"`
	Description    string        `bson:"description,omitempty"`
	DiscountType   string        `bson:"discount_type"`
	DiscountValue  bson.RawValue `bson:"discount_value"`
	Active         bool          `bson:"active"`
	ExpiresAt      *time.Time    `bson:"expires_at,omitempty"`
	MaxRedemptions *int          `bson:"max_redemptions,omitempty"`
}

// MongoCouponStore resolves coupons from a MongoDB collection.
type MongoCouponStore struct {
	collection *mongo.Collection
}

// NewMongoCouponStore creates a Mongo-backed CouponSource over db.coupons.
func NewMongoCouponStore(db *mongo.Database) *MongoCouponStore {
	return &MongoCouponStore{collection: db.Collection(CouponsCollection)}
}

// GetCoupon implements CouponSource.
func (s *MongoCouponStore) GetCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	var doc mongoCoupon
	err := s.collection.FindOne(ctx, bson.M{"code": model.CanonicalCouponCode(code)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return doc.toModel()
}

func (d mongoCoupon) toModel() (*model.Coupon, error) {
	value, err := decodeDecimal(d.DiscountValue)
	if err != nil {
		return nil, fmt.Errorf("coupon %s: %w", d.Code, err)
	}
	return couponFields{
		Code:           d.Code,
		Description:    d.Description,
		DiscountType:   d.DiscountType,
		DiscountValue:  value,
		Active:         d.Active,
		ExpiresAt:      d.ExpiresAt,
		MaxRedemptions: d.MaxRedemptions,
	}.toModel(), nil
}

func decodeDecimal(v bson.RawValue) (decimal.Decimal, error) {
	switch v.Type {
	case 0, bson.TypeNull:
		return decimal.Zero, nil
	case bson.TypeDouble:
		return decimal.NewFromFloat(v.Double()), nil
	case bson.TypeInt32:
		return decimal.NewFromInt32(v.Int32()), nil
	case bson.TypeInt64:
		return decimal.NewFromInt(v.Int64()), nil
	case bson.TypeDecimal128:
		return decimal.NewFromString(v.Decimal128().String())
	case bson.TypeString:
		return decimal.NewFromString(v.StringValue())
	default:
		return decimal.Zero, fmt.Errorf("unsupported discount_value type %s", v.Type)
	}
}
