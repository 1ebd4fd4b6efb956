// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package shop ties the catalog, cart, and checkout calculator together
// into a single Session aggregate.
//
// # Ownership
//
// A Session owns exactly one Catalog and one Cart. There is no ambient or
// global state: every operation is a method on the session, and the
// presentation shell holds the only reference. The catalog owns products;
// the cart stores non-owning product ids and reads price/name/stock
// through the catalog on every use.
//
// # Transactions
//
// "Add to cart" is a single transaction: the stock reservation and the
// line merge happen together, and the reservation is rolled back if the
// line mutation fails. "Remove from cart" is symmetric: the line is
// reduced first and exactly the removed quantity is released back.
// The stock-conservation invariant holds at every point before a
// confirmed checkout:
//
//	stock(P) + Σ(cart quantity for P) == seed stock(P)
//
// On a confirmed checkout the reservations are consumed: the cart is
// cleared without releasing stock.
package shop

import (
	"fmt"

	"github.com/AleutianAI/ShipShop/pkg/cart"
	"github.com/AleutianAI/ShipShop/pkg/catalog"
	"github.com/AleutianAI/ShipShop/pkg/checkout"
	"github.com/AleutianAI/ShipShop/pkg/logging"
)

// LineView is a cart line joined with live catalog data, the shape the
// tables and the receipt writer both consume.
type LineView struct {
	ProductID int
	Name      string
	UnitPrice float64
	Quantity  int
	Subtotal  float64
}

// Session is the single interactive shopping session.
//
// Not safe for concurrent use; there is exactly one logical actor. A
// server-style variant would need one session per user or a serialized
// catalog, neither of which exists here.
type Session struct {
	catalog *catalog.Catalog
	cart    *cart.Cart
	calc    *checkout.Calculator
	log     *logging.Logger
}

// NewSession creates a session over a seeded catalog.
//
// calc may be nil, in which case the default tax rate and coupon table
// apply. log may be nil, in which case the default stderr logger is used.
func NewSession(cat *catalog.Catalog, calc *checkout.Calculator, log *logging.Logger) *Session {
	if calc == nil {
		calc = checkout.Default()
	}
	if log == nil {
		log = logging.Default()
	}
	return &Session{
		catalog: cat,
		cart:    cart.New(),
		calc:    calc,
		log:     log,
	}
}

// Catalog exposes the owned catalog for rendering and stock queries.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// AddToCart reserves stock and merges a line, as one transaction.
//
// Validation happens up front: quantity first, then product existence,
// then stock. On any failure the cart and catalog are untouched. The
// returned product is the live catalog record at reservation time, for
// the shell's confirmation message.
func (s *Session) AddToCart(productID, qty int) (catalog.Product, error) {
	if qty <= 0 {
		return catalog.Product{}, fmt.Errorf("add %d of product %d: %w", qty, productID, ErrInvalidQuantity)
	}
	p, ok := s.catalog.FindByID(productID)
	if !ok {
		return catalog.Product{}, fmt.Errorf("add product %d: %w", productID, ErrProductNotFound)
	}
	if qty > p.Stock {
		return catalog.Product{}, fmt.Errorf("add %d of %q (stock %d): %w", qty, p.Name, p.Stock, ErrInsufficientStock)
	}

	if err := s.catalog.Reserve(productID, qty); err != nil {
		return catalog.Product{}, err
	}
	if err := s.cart.Add(productID, qty); err != nil {
		// Roll the reservation back so stock stays conserved. The line
		// mutation cannot fail after the validation above, but the
		// contract holds regardless.
		s.catalog.Release(productID, qty)
		return catalog.Product{}, err
	}

	s.log.Info("added to cart", "product_id", productID, "name", p.Name, "quantity", qty)
	return p, nil
}

// RemoveFromCart reduces or deletes a line and releases stock.
//
// ok is false when no line exists for the product; that is a no-op, not
// an error. removed is the quantity actually taken out (removing more
// than present removes everything available), and exactly that amount is
// released back to the catalog.
func (s *Session) RemoveFromCart(productID, qty int) (removed int, ok bool, err error) {
	removed, ok, err = s.cart.Remove(productID, qty)
	if err != nil || !ok {
		return removed, ok, err
	}
	s.catalog.Release(productID, removed)
	s.log.Info("removed from cart", "product_id", productID, "quantity", removed)
	return removed, true, nil
}

// EmptyCart abandons the cart, returning every reservation to stock.
//
// Returns the number of lines released. Emptying an empty cart is a
// benign no-op returning 0.
func (s *Session) EmptyCart() int {
	lines := s.cart.Items()
	for _, l := range lines {
		s.catalog.Release(l.ProductID, l.Quantity)
	}
	s.cart.Clear()
	if len(lines) > 0 {
		s.log.Info("cart emptied", "lines", len(lines))
	}
	return len(lines)
}

// CartLines returns the cart joined with live catalog data, in insertion
// order.
func (s *Session) CartLines() []LineView {
	items := s.cart.Items()
	views := make([]LineView, 0, len(items))
	for _, l := range items {
		name, _ := s.catalog.Name(l.ProductID)
		price, _ := s.catalog.UnitPrice(l.ProductID)
		views = append(views, LineView{
			ProductID: l.ProductID,
			Name:      name,
			UnitPrice: price,
			Quantity:  l.Quantity,
			Subtotal:  float64(l.Quantity) * price,
		})
	}
	return views
}

// CartTotal returns the item total at live prices, before tax or discount.
func (s *Session) CartTotal() float64 {
	return s.cart.Total(s.catalog)
}

// CartQuantity returns the cart's current quantity for a product.
func (s *Session) CartQuantity(productID int) int {
	return s.cart.Quantity(productID)
}

// CartIsEmpty reports whether the cart has no lines.
func (s *Session) CartIsEmpty() bool {
	return s.cart.IsEmpty()
}

// CouponRate resolves a coupon code through the session's calculator.
//
// found is false for empty and unknown codes alike; the shell combines
// it with the raw input to warn only on a genuinely unknown code.
func (s *Session) CouponRate(code string) (normalized string, rate float64, found bool) {
	return s.calc.CouponRate(code)
}

// Checkout computes totals for the current cart without committing.
//
// Returns ErrEmptyCart when there is nothing to check out. The cart and
// catalog are untouched; the shell shows the figures and asks for
// confirmation.
func (s *Session) Checkout(couponCode string) (checkout.Totals, error) {
	if s.cart.IsEmpty() {
		return checkout.Totals{}, ErrEmptyCart
	}
	return s.calc.Compute(s.cart.Items(), s.catalog, couponCode), nil
}

// ConfirmCheckout commits the purchase.
//
// Totals are recomputed from live prices at the moment of confirmation,
// the line snapshot is returned for the receipt, and the cart is cleared
// WITHOUT releasing stock: the reservations are consumed permanently.
func (s *Session) ConfirmCheckout(couponCode string) (checkout.Totals, []LineView, error) {
	if s.cart.IsEmpty() {
		return checkout.Totals{}, nil, ErrEmptyCart
	}
	totals := s.calc.Compute(s.cart.Items(), s.catalog, couponCode)
	lines := s.CartLines()
	s.cart.Clear()
	s.log.Info("checkout confirmed",
		"lines", len(lines),
		"subtotal", totals.Subtotal,
		"discount", totals.Discount,
		"tax", totals.Tax,
		"total", totals.Total,
	)
	return totals, lines, nil
}
