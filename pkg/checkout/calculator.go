// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package checkout computes final totals for a cart snapshot.
//
// The calculator is pure: it retains no state between calls, and every
// checkout recomputes from the live cart lines and catalog prices. Price
// changes between add-to-cart and checkout are therefore reflected
// automatically.
package checkout

import (
	"strings"

	"github.com/AleutianAI/ShipShop/pkg/cart"
)

// Default rates used when the config does not override them.
const (
	// DefaultTaxRate is applied to the taxable base (subtotal - discount).
	DefaultTaxRate = 0.13
)

// DefaultCoupons maps coupon codes to discount rates.
//
// An unknown code maps to rate 0; it is not an error.
func DefaultCoupons() map[string]float64 {
	return map[string]float64{
		"UDB10": 0.10,
		"UDB20": 0.20,
	}
}

// Totals is the derived result of a checkout computation.
//
//	Subtotal = Σ(quantity × unitPrice)
//	Discount = Subtotal × couponRate
//	Tax      = (Subtotal − Discount) × taxRate
//	Total    = (Subtotal − Discount) + Tax
type Totals struct {
	Subtotal   float64
	Discount   float64
	Tax        float64
	Total      float64
	CouponCode string  // normalized code, "" when none applied
	CouponRate float64 // 0 when no valid coupon
}

// TaxableBase returns subtotal minus discount.
func (t Totals) TaxableBase() float64 {
	return t.Subtotal - t.Discount
}

// Calculator computes totals from cart lines and live prices.
type Calculator struct {
	TaxRate float64
	Coupons map[string]float64
}

// NewCalculator creates a calculator with the given tax rate and coupon
// table. A nil coupon table means no coupons are accepted.
func NewCalculator(taxRate float64, coupons map[string]float64) *Calculator {
	return &Calculator{TaxRate: taxRate, Coupons: coupons}
}

// Default returns a calculator with the stock tax rate and coupon table.
func Default() *Calculator {
	return NewCalculator(DefaultTaxRate, DefaultCoupons())
}

// CouponRate resolves a coupon code to its discount rate.
//
// Codes are matched case-insensitively after trimming whitespace. Unknown
// or empty codes resolve to 0, which is a valid "no discount" outcome,
// not an error. found reports whether the code matched the table, so
// callers can tell "no coupon entered" apart from "unknown code" without
// inspecting the normalized string.
func (c *Calculator) CouponRate(code string) (normalized string, rate float64, found bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", 0, false
	}
	if rate, ok := c.Coupons[code]; ok {
		return code, rate, true
	}
	return "", 0, false
}

// Compute derives totals for a cart snapshot.
//
// lines is the cart's Items() snapshot; prices is the live catalog. The
// computation never fails: an empty snapshot yields all-zero totals, and
// the caller decides whether that is the benign empty-cart condition.
func (c *Calculator) Compute(lines []cart.Line, prices cart.PriceLookup, couponCode string) Totals {
	var subtotal float64
	for _, l := range lines {
		if price, ok := prices.UnitPrice(l.ProductID); ok {
			subtotal += float64(l.Quantity) * price
		}
	}

	code, rate, _ := c.CouponRate(couponCode)
	discount := subtotal * rate
	taxable := subtotal - discount
	tax := taxable * c.TaxRate

	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		Tax:        tax,
		Total:      taxable + tax,
		CouponCode: code,
		CouponRate: rate,
	}
}
