// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package shop

import (
	"errors"

	"github.com/AleutianAI/ShipShop/pkg/cart"
	"github.com/AleutianAI/ShipShop/pkg/catalog"
)

// The session-level error taxonomy. Every domain failure a menu command
// can see is one of these four; all are resolved at the point of the
// failed operation by re-prompting, nothing propagates past the menu
// boundary.
//
// The first three alias the sentinels of the packages that detect them,
// so errors.Is matches whether a caller holds the shop or the
// cart/catalog spelling.
var (
	// ErrInvalidQuantity: quantity <= 0 passed to add or remove.
	ErrInvalidQuantity = cart.ErrInvalidQuantity

	// ErrProductNotFound: referenced id absent from the catalog.
	ErrProductNotFound = catalog.ErrNotFound

	// ErrInsufficientStock: requested quantity exceeds available stock.
	// The add is aborted entirely; no partial reservation.
	ErrInsufficientStock = catalog.ErrInsufficientStock

	// ErrEmptyCart: checkout attempted on an empty cart. A benign
	// condition with a user-visible notice, not a fault.
	ErrEmptyCart = errors.New("cart is empty")
)
