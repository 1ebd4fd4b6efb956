// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/ShipShop/pkg/catalog"
	"github.com/AleutianAI/ShipShop/pkg/checkout"
	"github.com/AleutianAI/ShipShop/pkg/logging"
)

func testSeed() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Laptop", UnitPrice: 700.00, Stock: 5},
		{ID: 2, Name: "Mouse", UnitPrice: 25.00, Stock: 10},
		{ID: 3, Name: "Keyboard", UnitPrice: 45.00, Stock: 7},
		{ID: 4, Name: "Monitor", UnitPrice: 250.00, Stock: 3},
	}
}

func testSession(t *testing.T) *Session {
	t.Helper()
	log := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	t.Cleanup(func() { _ = log.Close() })
	return NewSession(catalog.New(testSeed()), checkout.Default(), log)
}

// assertConserved checks that stock plus cart quantity equals the seed
// stock for every product. This must hold at all times before a
// confirmed checkout.
func assertConserved(t *testing.T, s *Session) {
	t.Helper()
	for _, p := range testSeed() {
		got := s.Catalog().Stock(p.ID) + s.CartQuantity(p.ID)
		assert.Equal(t, p.Stock, got, "stock conservation broken for product %d", p.ID)
	}
}

// -----------------------------------------------------------------------------
// AddToCart Tests
// -----------------------------------------------------------------------------

func TestSession_AddToCart(t *testing.T) {
	t.Run("reserves stock and merges lines", func(t *testing.T) {
		s := testSession(t)

		p, err := s.AddToCart(1, 2)
		require.NoError(t, err)
		assert.Equal(t, "Laptop", p.Name)
		assert.Equal(t, 3, s.Catalog().Stock(1))

		_, err = s.AddToCart(1, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, s.CartQuantity(1))
		assert.Equal(t, 2, s.Catalog().Stock(1))
		assert.Len(t, s.CartLines(), 1, "merging must not create a second line")
		assertConserved(t, s)
	})

	t.Run("rejects invalid quantity without mutation", func(t *testing.T) {
		s := testSession(t)

		_, err := s.AddToCart(1, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		_, err = s.AddToCart(1, -2)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		assert.True(t, s.CartIsEmpty())
		assert.Equal(t, 5, s.Catalog().Stock(1))
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		s := testSession(t)

		_, err := s.AddToCart(99, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.True(t, s.CartIsEmpty())
	})

	t.Run("rejects quantity above stock", func(t *testing.T) {
		s := testSession(t)

		_, err := s.AddToCart(4, 4) // Monitor stock is 3
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 3, s.Catalog().Stock(4))
		assert.True(t, s.CartIsEmpty())
	})

	t.Run("merged additions are bounded by remaining stock", func(t *testing.T) {
		s := testSession(t)

		_, err := s.AddToCart(4, 2)
		require.NoError(t, err)

		// only 1 left; asking for 2 more must fail and change nothing
		_, err = s.AddToCart(4, 2)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 2, s.CartQuantity(4))
		assert.Equal(t, 1, s.Catalog().Stock(4))
		assertConserved(t, s)
	})

	t.Run("draining stock to zero still renders the product", func(t *testing.T) {
		s := testSession(t)

		_, err := s.AddToCart(4, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Catalog().Stock(4))

		// product stays listed at zero stock
		_, found := s.Catalog().FindByID(4)
		assert.True(t, found)
		assertConserved(t, s)
	})
}

// -----------------------------------------------------------------------------
// RemoveFromCart and EmptyCart Tests
// -----------------------------------------------------------------------------

func TestSession_RemoveFromCart(t *testing.T) {
	t.Run("partial removal restores exactly the removed amount", func(t *testing.T) {
		s := testSession(t)
		_, err := s.AddToCart(2, 6)
		require.NoError(t, err)

		removed, ok, err := s.RemoveFromCart(2, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, removed)
		assert.Equal(t, 4, s.CartQuantity(2))
		assert.Equal(t, 6, s.Catalog().Stock(2))
		assertConserved(t, s)
	})

	t.Run("over-removal deletes the line and restores everything", func(t *testing.T) {
		s := testSession(t)
		_, err := s.AddToCart(2, 3)
		require.NoError(t, err)

		removed, ok, err := s.RemoveFromCart(2, 50)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, removed)
		assert.Equal(t, 0, s.CartQuantity(2))
		assert.Equal(t, 10, s.Catalog().Stock(2))
		assertConserved(t, s)
	})

	t.Run("absent product is a no-op, not an error", func(t *testing.T) {
		s := testSession(t)
		_, err := s.AddToCart(1, 1)
		require.NoError(t, err)

		removed, ok, err := s.RemoveFromCart(3, 1)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, removed)
		assertConserved(t, s)
	})

	t.Run("invalid quantity releases nothing", func(t *testing.T) {
		s := testSession(t)
		_, err := s.AddToCart(1, 2)
		require.NoError(t, err)

		_, _, err = s.RemoveFromCart(1, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, 2, s.CartQuantity(1))
		assert.Equal(t, 3, s.Catalog().Stock(1))
	})
}

func TestSession_EmptyCart(t *testing.T) {
	t.Run("releases every reservation", func(t *testing.T) {
		s := testSession(t)
		_, err := s.AddToCart(1, 2)
		require.NoError(t, err)
		_, err = s.AddToCart(2, 5)
		require.NoError(t, err)

		released := s.EmptyCart()
		assert.Equal(t, 2, released)
		assert.True(t, s.CartIsEmpty())
		assert.Equal(t, 5, s.Catalog().Stock(1))
		assert.Equal(t, 10, s.Catalog().Stock(2))
	})

	t.Run("emptying an empty cart is benign", func(t *testing.T) {
		s := testSession(t)
		assert.Zero(t, s.EmptyCart())
		assert.Zero(t, s.EmptyCart())
	})
}

// -----------------------------------------------------------------------------
// Checkout Tests
// -----------------------------------------------------------------------------

func TestSession_Checkout(t *testing.T) {
	t.Run("empty cart is rejected without mutation", func(t *testing.T) {
		s := testSession(t)

		_, err := s.Checkout("")
		assert.ErrorIs(t, err, ErrEmptyCart)
		_, _, err = s.ConfirmCheckout("")
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("preview does not commit", func(t *testing.T) {
		s := testSession(t)
		_, err := s.AddToCart(1, 1)
		require.NoError(t, err)

		totals, err := s.Checkout("UDB10")
		require.NoError(t, err)
		assert.InDelta(t, 700.00, totals.Subtotal, 1e-9)

		// cart and reservations survive the preview
		assert.Equal(t, 1, s.CartQuantity(1))
		assert.Equal(t, 4, s.Catalog().Stock(1))
		assertConserved(t, s)
	})

	t.Run("confirm clears the cart and consumes the reservations", func(t *testing.T) {
		s := testSession(t)
		_, err := s.AddToCart(2, 10) // 250.00
		require.NoError(t, err)
		_, err = s.AddToCart(3, 1) // 45.00
		require.NoError(t, err)

		totals, lines, err := s.ConfirmCheckout("UDB20")
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "Mouse", lines[0].Name)
		assert.InDelta(t, 250.00, lines[0].Subtotal, 1e-9)
		assert.InDelta(t, 295.00, totals.Subtotal, 1e-9)
		assert.InDelta(t, 59.00, totals.Discount, 1e-9)

		// consumed, not released
		assert.True(t, s.CartIsEmpty())
		assert.Equal(t, 0, s.Catalog().Stock(2))
		assert.Equal(t, 6, s.Catalog().Stock(3))
	})

	t.Run("reference totals end to end", func(t *testing.T) {
		seed := []catalog.Product{
			{ID: 1, Name: "Widget", UnitPrice: 100.00, Stock: 10},
			{ID: 2, Name: "Gadget", UnitPrice: 50.00, Stock: 10},
		}
		log := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
		t.Cleanup(func() { _ = log.Close() })
		s := NewSession(catalog.New(seed), checkout.Default(), log)

		_, err := s.AddToCart(1, 2) // 200.00
		require.NoError(t, err)
		_, err = s.AddToCart(2, 2) // 100.00
		require.NoError(t, err)

		totals, _, err := s.ConfirmCheckout("udb10")
		require.NoError(t, err)
		assert.InDelta(t, 300.00, totals.Subtotal, 1e-9)
		assert.InDelta(t, 30.00, totals.Discount, 1e-9)
		assert.InDelta(t, 35.10, totals.Tax, 1e-9)
		assert.InDelta(t, 305.10, totals.Total, 1e-9)
		assert.Equal(t, "UDB10", totals.CouponCode)
	})

	t.Run("add remove checkout confirm end to end", func(t *testing.T) {
		seed := []catalog.Product{
			{ID: 1, Name: "Laptop", UnitPrice: 700.00, Stock: 5},
			{ID: 2, Name: "Mouse", UnitPrice: 25.00, Stock: 10},
		}
		log := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
		t.Cleanup(func() { _ = log.Close() })
		s := NewSession(catalog.New(seed), checkout.Default(), log)

		_, err := s.AddToCart(2, 2)
		require.NoError(t, err)
		require.Len(t, s.CartLines(), 1)
		assert.Equal(t, 8, s.Catalog().Stock(2))
		assert.InDelta(t, 50.00, s.CartTotal(), 1e-9)

		_, _, err = s.RemoveFromCart(2, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, s.CartQuantity(2))
		assert.Equal(t, 9, s.Catalog().Stock(2))

		totals, _, err := s.ConfirmCheckout("")
		require.NoError(t, err)
		assert.InDelta(t, 25.00, totals.Subtotal, 1e-9)
		assert.Zero(t, totals.Discount)
		assert.InDelta(t, 3.25, totals.Tax, 1e-9)
		assert.InDelta(t, 28.25, totals.Total, 1e-9)

		// confirm consumes the reservation; stock stays where the
		// remove left it
		assert.True(t, s.CartIsEmpty())
		assert.Equal(t, 9, s.Catalog().Stock(2))
	})

	t.Run("unknown coupon checks out at full price", func(t *testing.T) {
		s := testSession(t)
		_, err := s.AddToCart(2, 4)
		require.NoError(t, err)

		totals, _, err := s.ConfirmCheckout("BOGUS")
		require.NoError(t, err)
		assert.Zero(t, totals.Discount)
		assert.Empty(t, totals.CouponCode)
		assert.InDelta(t, 113.00, totals.Total, 1e-9)
	})
}

// -----------------------------------------------------------------------------
// View Tests
// -----------------------------------------------------------------------------

func TestSession_CartLines(t *testing.T) {
	s := testSession(t)
	require.True(t, s.CartIsEmpty())
	assert.Empty(t, s.CartLines())

	_, err := s.AddToCart(3, 2)
	require.NoError(t, err)
	_, err = s.AddToCart(1, 1)
	require.NoError(t, err)

	lines := s.CartLines()
	require.Len(t, lines, 2)
	assert.Equal(t, LineView{ProductID: 3, Name: "Keyboard", UnitPrice: 45.00, Quantity: 2, Subtotal: 90.00}, lines[0])
	assert.Equal(t, LineView{ProductID: 1, Name: "Laptop", UnitPrice: 700.00, Quantity: 1, Subtotal: 700.00}, lines[1])
	assert.InDelta(t, 790.00, s.CartTotal(), 1e-9)
}

func TestSession_CouponRate(t *testing.T) {
	s := testSession(t)

	code, rate, found := s.CouponRate("udb20")
	assert.True(t, found)
	assert.Equal(t, "UDB20", code)
	assert.InDelta(t, 0.20, rate, 1e-9)

	// unknown and empty codes both report not-found; the shell tells
	// them apart by the raw input
	_, _, found = s.CouponRate("BOGUS")
	assert.False(t, found)
	_, _, found = s.CouponRate("")
	assert.False(t, found)
}

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession(catalog.New(testSeed()), nil, nil)
	require.NotNil(t, s)

	// nil calc falls back to the default coupon table
	_, err := s.AddToCart(1, 1)
	require.NoError(t, err)
	totals, err := s.Checkout("UDB10")
	require.NoError(t, err)
	assert.InDelta(t, 70.00, totals.Discount, 1e-9)
}
