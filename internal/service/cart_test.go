package service_test

import (
	"testing"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_GetCart_MissingCartIsEmpty(t *testing.T) {
	f := newFixture(t, nil)

	summary, err := f.cart.GetCart(f.ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.True(t, summary.Subtotal.IsZero())
	assert.Nil(t, summary.Coupon)
}

func TestCartService_AddItem_MergesByVariant(t *testing.T) {
	f := newFixture(t, nil)
	user := uuid.New()
	p := f.addProduct(t, "Ethiopia Yirgacheffe", "12.50", 10, true)
	large := domain.Variant{Name: "size", Option: "1kg"}

	_, err := f.cart.AddItem(f.ctx, user, p.ID, 1, domain.Variant{})
	require.NoError(t, err)
	_, err = f.cart.AddItem(f.ctx, user, p.ID, 2, domain.Variant{})
	require.NoError(t, err)
	summary, err := f.cart.AddItem(f.ctx, user, p.ID, 1, large)
	require.NoError(t, err)

	require.Len(t, summary.Items, 2)
	assert.Equal(t, int32(3), summary.Items[0].Quantity)
	assert.Equal(t, large, summary.Items[1].Variant)
	assert.Equal(t, 4, summary.ItemCount)
	assert.Equal(t, "50.00", summary.Subtotal.StringFixed(2))
	assert.Equal(t, int32(10), f.stockOf(t, p.ID), "adding to a cart never touches stock")
}

func TestCartService_AddItem_ChecksStockOnMergedTotal(t *testing.T) {
	f := newFixture(t, nil)
	user := uuid.New()
	p := f.addProduct(t, "Kenya AA", "15.00", 3, true)

	f.addToCart(t, user, p.ID, 2)
	_, err := f.cart.AddItem(f.ctx, user, p.ID, 2, domain.Variant{})
	assert.Equal(t, domain.EINSUFFICIENTSTOCK, domain.ErrorCode(err))

	summary, err := f.cart.GetCart(f.ctx, user)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int32(2), summary.Items[0].Quantity)
}

func TestCartService_AddItem_RejectsOverflowingMerge(t *testing.T) {
	f := newFixture(t, nil)
	user := uuid.New()
	tracked := f.addProduct(t, "Bulk Espresso", "1.00", domain.MaxLineQuantity, true)
	untracked := f.addProduct(t, "Bulk Filters", "1.00", 0, false)

	for _, p := range []uuid.UUID{tracked.ID, untracked.ID} {
		f.addToCart(t, user, p, 2_000_000_000)
		_, err := f.cart.AddItem(f.ctx, user, p, 2_000_000_000, domain.Variant{})
		assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	}

	summary, err := f.cart.GetCart(f.ctx, user)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	for _, line := range summary.Items {
		assert.Equal(t, int32(2_000_000_000), line.Quantity)
	}
	assert.Equal(t, "4000000000.00", summary.Subtotal.StringFixed(2))
}

func TestCartService_AddItem_Errors(t *testing.T) {
	f := newFixture(t, nil)
	active := f.addProduct(t, "Colombia Huila", "11.00", 5, true)
	untracked := f.addProduct(t, "Gift Card", "25.00", 0, false)
	draft := f.addProduct(t, "Secret Blend", "9.00", 5, true)
	draft.Status = string(domain.ProductStatusDraft)
	_, err := f.store.UpdateProduct(f.ctx, repositoryUpdate(draft))
	require.NoError(t, err)

	tests := []struct {
		name      string
		productID uuid.UUID
		quantity  int32
		wantCode  string
	}{
		{"zero quantity", active.ID, 0, domain.EINVALID},
		{"negative quantity", active.ID, -1, domain.EINVALID},
		{"unknown product", uuid.New(), 1, domain.ENOTFOUND},
		{"draft product", draft.ID, 1, domain.ENOTFOUND},
		{"over stock", active.ID, 6, domain.EINSUFFICIENTSTOCK},
		{"untracked ignores stock", untracked.ID, 50, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.cart.AddItem(f.ctx, uuid.New(), tt.productID, tt.quantity, domain.Variant{})
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
		})
	}
}

func TestCartService_SetItemQuantity(t *testing.T) {
	f := newFixture(t, nil)
	user := uuid.New()
	p := f.addProduct(t, "Brazil Santos", "10.00", 4, true)
	f.addToCart(t, user, p.ID, 1)

	summary, err := f.cart.SetItemQuantity(f.ctx, user, p.ID, 4, domain.Variant{})
	require.NoError(t, err)
	assert.Equal(t, int32(4), summary.Items[0].Quantity)

	_, err = f.cart.SetItemQuantity(f.ctx, user, p.ID, 5, domain.Variant{})
	assert.Equal(t, domain.EINSUFFICIENTSTOCK, domain.ErrorCode(err))

	_, err = f.cart.SetItemQuantity(f.ctx, user, p.ID, -1, domain.Variant{})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = f.cart.SetItemQuantity(f.ctx, user, p.ID, 1, domain.Variant{Name: "size", Option: "250g"})
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)

	_, err = f.cart.SetItemQuantity(f.ctx, uuid.New(), p.ID, 1, domain.Variant{})
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	summary, err = f.cart.SetItemQuantity(f.ctx, user, p.ID, 0, domain.Variant{})
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCartService_RemoveItem(t *testing.T) {
	f := newFixture(t, nil)
	user := uuid.New()
	a := f.addProduct(t, "Guatemala", "10.00", 5, true)
	b := f.addProduct(t, "Sumatra", "14.00", 5, true)
	f.addToCart(t, user, a.ID, 1)
	f.addToCart(t, user, b.ID, 1)

	summary, err := f.cart.RemoveItem(f.ctx, user, a.ID, domain.Variant{})
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, b.ID, summary.Items[0].ProductID)

	_, err = f.cart.RemoveItem(f.ctx, user, a.ID, domain.Variant{})
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestCartService_ApplyCoupon(t *testing.T) {
	f := newFixture(t, nil)
	user := uuid.New()
	p := f.addProduct(t, "House Espresso", "25.00", 10, true)
	f.addToCart(t, user, p.ID, 2)

	summary, err := f.cart.ApplyCoupon(f.ctx, user, "welcome10")
	require.NoError(t, err)
	require.NotNil(t, summary.Coupon)
	assert.Equal(t, "WELCOME10", summary.Coupon.Code)

	// SAVE20 needs a 100.00 subtotal; the cart is at 50.00.
	_, err = f.cart.ApplyCoupon(f.ctx, user, "SAVE20")
	assert.Equal(t, domain.ECOUPONNOTELIGIBLE, domain.ErrorCode(err))

	_, err = f.cart.ApplyCoupon(f.ctx, user, "NOPE")
	assert.Equal(t, domain.EINVALIDCOUPON, domain.ErrorCode(err))

	summary, err = f.cart.GetCart(f.ctx, user)
	require.NoError(t, err)
	require.NotNil(t, summary.Coupon)
	assert.Equal(t, "WELCOME10", summary.Coupon.Code, "failed applications keep the previous coupon")

	f.addToCart(t, user, p.ID, 2)
	summary, err = f.cart.ApplyCoupon(f.ctx, user, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", summary.Coupon.Code)

	summary, err = f.cart.ClearCoupon(f.ctx, user)
	require.NoError(t, err)
	assert.Nil(t, summary.Coupon)
}

func TestCartService_DeletedProductIsUnavailable(t *testing.T) {
	f := newFixture(t, nil)
	user := uuid.New()
	kept := f.addProduct(t, "Decaf", "10.00", 5, true)
	gone := f.addProduct(t, "Seasonal", "30.00", 5, true)
	f.addToCart(t, user, kept.ID, 1)
	f.addToCart(t, user, gone.ID, 1)

	_, err := f.store.DeleteProduct(f.ctx, gone.ID)
	require.NoError(t, err)

	summary, err := f.cart.GetCart(f.ctx, user)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	assert.True(t, summary.Items[0].Available)
	assert.False(t, summary.Items[1].Available)
	assert.Equal(t, "10.00", summary.Subtotal.StringFixed(2))
	assert.Equal(t, 1, summary.ItemCount)
}

func TestCartService_ClearCart(t *testing.T) {
	f := newFixture(t, nil)
	user := uuid.New()
	p := f.addProduct(t, "Cold Brew Pack", "20.00", 5, true)
	f.addToCart(t, user, p.ID, 1)
	_, err := f.cart.ApplyCoupon(f.ctx, user, "TAKE5")
	require.NoError(t, err)

	require.NoError(t, f.cart.ClearCart(f.ctx, user))

	summary, err := f.cart.GetCart(f.ctx, user)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Nil(t, summary.Coupon)
}
