// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cart maintains the in-progress selection of products and
// quantities.
//
// The cart stores non-owning product ids, never price or name copies.
// Every read of pricing goes through a PriceLookup (the catalog), so the
// cart reflects live prices at all times.
//
// Invariants:
//
//   - At most one line per product id at any time.
//   - A line with quantity <= 0 never exists; it is removed instead.
//   - Lines keep insertion order; they are never sorted.
package cart

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity indicates a zero or negative quantity was passed to
// Add or Remove. Recovered by the caller re-prompting, never fatal.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// Line is one product's entry in the cart: a product reference plus the
// quantity selected so far.
type Line struct {
	ProductID int
	Quantity  int
}

// PriceLookup resolves a product id to its live unit price.
//
// *catalog.Catalog satisfies this. The indirection keeps the cart free of
// any pricing state of its own.
type PriceLookup interface {
	UnitPrice(id int) (float64, bool)
}

// Cart is an ordered collection of lines, unique by product id.
//
// The zero value is not usable; create carts with New. Not safe for
// concurrent use: one session owns one cart.
type Cart struct {
	lines []Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add merges qty units of a product into the cart.
//
// If a line for the product exists its quantity is incremented; otherwise
// a new line is appended at the end. Returns ErrInvalidQuantity when
// qty <= 0 and leaves the cart unchanged.
func (c *Cart) Add(productID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("add product %d: %w", productID, ErrInvalidQuantity)
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, Line{ProductID: productID, Quantity: qty})
	return nil
}

// Remove takes qty units of a product out of the cart.
//
// When qty >= the line quantity the whole line is deleted; removing more
// than present simply removes everything available, no error. When no line
// exists the call is a no-op and ok is false.
//
// removed is the quantity actually taken out, min(qty, line quantity).
// The caller must release exactly that amount back to the catalog to keep
// stock conserved.
func (c *Cart) Remove(productID, qty int) (removed int, ok bool, err error) {
	if qty <= 0 {
		return 0, false, fmt.Errorf("remove product %d: %w", productID, ErrInvalidQuantity)
	}
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if qty >= c.lines[i].Quantity {
			removed = c.lines[i].Quantity
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return removed, true, nil
		}
		c.lines[i].Quantity -= qty
		return qty, true, nil
	}
	return 0, false, nil
}

// Items returns a snapshot of the lines in insertion order.
//
// The snapshot is a copy; it stays stable while the cart mutates.
func (c *Cart) Items() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity returns the current line quantity for a product, 0 if absent.
func (c *Cart) Quantity(productID int) int {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Total sums quantity × live unit price over all lines.
//
// No tax or discount is applied here; this is purely the item total.
// Lines whose product can no longer be priced contribute nothing (the
// catalog never deletes products, so this is defensive only).
func (c *Cart) Total(prices PriceLookup) float64 {
	var total float64
	for _, l := range c.lines {
		if price, ok := prices.UnitPrice(l.ProductID); ok {
			total += float64(l.Quantity) * price
		}
	}
	return total
}

// Clear empties the cart.
//
// Clearing does not touch catalog stock: on a confirmed checkout the
// reservations are consumed, and on an explicit empty command the session
// releases stock before calling Clear. Clearing an empty cart is a no-op.
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

// Len returns the number of lines (not units) in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
