// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package catalog holds the purchasable products and their live stock counts.
//
// The catalog is seeded once at startup and mutated only through stock
// reservation and release. Products are never deleted during a session, so
// a product id resolved once stays valid for the process lifetime.
package catalog

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by stock operations.
var (
	// ErrNotFound indicates the referenced product id is absent.
	// Absence is a caller-recoverable condition, not a fault.
	ErrNotFound = errors.New("product not found")

	// ErrInsufficientStock indicates the requested quantity exceeds
	// the available stock. No partial reservation is performed.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity indicates a zero or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Product is a purchasable item with live stock.
//
// UnitPrice and Name are always read through the catalog; cart lines hold
// only the product id, never a private copy of pricing.
type Product struct {
	ID        int
	Name      string
	UnitPrice float64
	Stock     int
}

// Catalog is an ordered collection of products.
//
// Lookups are linear scans; the catalog is small and order matters for
// rendering, so a slice is the right shape. Not safe for concurrent use:
// there is exactly one interactive session per process.
type Catalog struct {
	products []Product
}

// New creates a catalog from seed products.
//
// The seed order is preserved for rendering. The slice is copied so the
// caller cannot mutate catalog state behind its back.
func New(seed []Product) *Catalog {
	products := make([]Product, len(seed))
	copy(products, seed)
	return &Catalog{products: products}
}

// FindByID returns the product with the given id.
//
// The second return value is false when the id is absent. Callers decide
// whether absence is an error; the catalog does not.
func (c *Catalog) FindByID(id int) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// UnitPrice returns the live unit price for a product id.
//
// This is the read path cart lines use, so price changes between
// add-to-cart and checkout are reflected automatically.
func (c *Catalog) UnitPrice(id int) (float64, bool) {
	p, ok := c.FindByID(id)
	if !ok {
		return 0, false
	}
	return p.UnitPrice, true
}

// Name returns the display name for a product id.
func (c *Catalog) Name(id int) (string, bool) {
	p, ok := c.FindByID(id)
	if !ok {
		return "", false
	}
	return p.Name, true
}

// Stock returns the available stock for a product id, or 0 if absent.
func (c *Catalog) Stock(id int) int {
	p, ok := c.FindByID(id)
	if !ok {
		return 0
	}
	return p.Stock
}

// Reserve decrements available stock for a product.
//
// Preconditions: the product exists and 0 < qty <= stock. The session
// validates before calling; the checks here exist so a misuse still fails
// loudly instead of corrupting stock.
func (c *Catalog) Reserve(id, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("reserve product %d: %w", id, ErrInvalidQuantity)
	}
	for i := range c.products {
		if c.products[i].ID != id {
			continue
		}
		if qty > c.products[i].Stock {
			return fmt.Errorf("reserve product %d (want %d, have %d): %w",
				id, qty, c.products[i].Stock, ErrInsufficientStock)
		}
		c.products[i].Stock -= qty
		return nil
	}
	return fmt.Errorf("reserve product %d: %w", id, ErrNotFound)
}

// Release increments available stock for a product.
//
// Used when a cart line is reduced, removed, or the cart is emptied.
// There is no upper bound: the cart itself bounds the quantity, so
// restoring stock can never be "too much" in this model. Releasing an
// unknown id is a silent no-op.
func (c *Catalog) Release(id, qty int) {
	if qty <= 0 {
		return
	}
	for i := range c.products {
		if c.products[i].ID == id {
			c.products[i].Stock += qty
			return
		}
	}
}

// Products returns an ordered snapshot of the catalog.
//
// The returned slice is a copy; mutating it does not affect stock.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}
