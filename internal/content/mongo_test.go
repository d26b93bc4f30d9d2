package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func decodeMongoCoupon(t *testing.T, doc bson.M) mongoCoupon {
	t.Helper()
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var out mongoCoupon
	require.NoError(t, bson.Unmarshal(raw, &out))
	return out
}

func TestMongoCoupon_ToModel(t *testing.T) {
	expires := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := decodeMongoCoupon(t, bson.M{
		"code":            "save10",
		"discount_type":   "percentage",
		"discount_value":  10.0,
		"active":          true,
		"expires_at":      expires,
		"max_redemptions": int32(50),
	})

	coupon, err := doc.toModel()

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.Equal(t, "10", coupon.DiscountValue.String())
	require.NotNil(t, coupon.ExpiresAt)
	assert.True(t, coupon.ExpiresAt.Equal(expires))
	require.NotNil(t, coupon.MaxRedemptions)
	assert.Equal(t, 50, *coupon.MaxRedemptions)
}

func TestMongoCoupon_DiscountValueEncodings(t *testing.T) {
	d128, err := primitive.ParseDecimal128("599.90")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "double", value: 12.5, want: "12.5"},
		{name: "int32", value: int32(500), want: "500"},
		{name: "int64", value: int64(1000), want: "1000"},
		{name: "decimal128", value: d128, want: "599.9"},
		{name: "string", value: "25", want: "25"},
		{name: "negative_clamped", value: -5.0, want: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := decodeMongoCoupon(t, bson.M{"code": "X", "discount_type": "flat", "discount_value": tc.value})
			coupon, err := doc.toModel()
			require.NoError(t, err)
			assert.Equal(t, tc.want, coupon.DiscountValue.String())
		})
	}
}

func TestMongoCoupon_MissingOptionalFields(t *testing.T) {
	doc := decodeMongoCoupon(t, bson.M{"code": "FLAT", "discount_type": "flat", "active": false})

	coupon, err := doc.toModel()

	require.NoError(t, err)
	assert.True(t, coupon.DiscountValue.IsZero())
	assert.False(t, coupon.Active)
	assert.Nil(t, coupon.ExpiresAt)
	assert.Nil(t, coupon.MaxRedemptions)
}

func TestMongoCoupon_UnsupportedDiscountType(t *testing.T) {
	doc := decodeMongoCoupon(t, bson.M{"code": "X", "discount_value": bson.A{1, 2}})

	_, err := doc.toModel()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported discount_value")
}
