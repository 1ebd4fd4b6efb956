// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/ShipShop/pkg/catalog"
	"github.com/AleutianAI/ShipShop/pkg/checkout"
	"github.com/AleutianAI/ShipShop/pkg/logging"
	"github.com/AleutianAI/ShipShop/pkg/receipt"
	"github.com/AleutianAI/ShipShop/pkg/shop"
	"github.com/AleutianAI/ShipShop/pkg/ux"
)

// MockInputReader replays a scripted sequence of lines, then io.EOF.
type MockInputReader struct {
	lines []string
	pos   int
}

func NewMockInputReader(lines ...string) *MockInputReader {
	return &MockInputReader{lines: lines}
}

func (r *MockInputReader) ReadLine() (string, error) {
	if r.pos >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.pos]
	r.pos++
	return strings.TrimSpace(line), nil
}

var _ InputReader = (*MockInputReader)(nil)

// menuFixture wires a runner over a fresh session with scripted input.
type menuFixture struct {
	session    *shop.Session
	runner     MenuRunner
	receiptDir string
}

func newMenuFixture(t *testing.T, input ...string) *menuFixture {
	t.Helper()

	// machine personality keeps output plain and forces the y/n confirm
	// path instead of the interactive form
	prev := ux.GetPersonality()
	ux.SetPersonalityLevel(ux.PersonalityMachine)
	t.Cleanup(func() { ux.SetPersonality(prev) })

	log := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	t.Cleanup(func() { _ = log.Close() })

	seed := []catalog.Product{
		{ID: 1, Name: "Widget", UnitPrice: 100.00, Stock: 10},
		{ID: 2, Name: "Gadget", UnitPrice: 50.00, Stock: 10},
		{ID: 3, Name: "Trinket", UnitPrice: 25.00, Stock: 2},
	}
	session := shop.NewSession(catalog.New(seed), checkout.Default(), log)

	receiptDir := t.TempDir()
	runner := NewMenuRunner(session, NewMockInputReader(input...), receipt.NewWriter(receiptDir, log), log)

	return &menuFixture{
		session:    session,
		runner:     runner,
		receiptDir: receiptDir,
	}
}

func (f *menuFixture) run(t *testing.T) {
	t.Helper()
	require.NoError(t, f.runner.Run(context.Background()))
}

// -----------------------------------------------------------------------------
// Loop Control Tests
// -----------------------------------------------------------------------------

func TestMenuRunner_QuitOption(t *testing.T) {
	f := newMenuFixture(t, "7")
	f.run(t)
}

func TestMenuRunner_EOFEndsSession(t *testing.T) {
	f := newMenuFixture(t) // no input at all
	f.run(t)
}

func TestMenuRunner_EOFMidCommandEndsSession(t *testing.T) {
	// add-to-cart selected, then input closes before the product id
	f := newMenuFixture(t, "2")
	f.run(t)
	assert.True(t, f.session.CartIsEmpty())
}

func TestMenuRunner_InvalidSelectionReprompts(t *testing.T) {
	f := newMenuFixture(t, "banana", "0", "42", "", "7")
	f.run(t)
}

func TestMenuRunner_ContextCancellation(t *testing.T) {
	f := newMenuFixture(t, "7")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.runner.Run(ctx), context.Canceled)
}

// -----------------------------------------------------------------------------
// Cart Command Tests
// -----------------------------------------------------------------------------

func TestMenuRunner_AddToCart(t *testing.T) {
	f := newMenuFixture(t,
		"2", "1", "3", // add 3 of product 1
		"7",
	)
	f.run(t)

	assert.Equal(t, 3, f.session.CartQuantity(1))
	assert.Equal(t, 7, f.session.Catalog().Stock(1))
}

func TestMenuRunner_AddToCart_BadInputReprompted(t *testing.T) {
	f := newMenuFixture(t,
		"2", "abc", "-1", "1", // junk ids re-prompted in place
		"zero", "0", "2", // junk quantities re-prompted in place
		"7",
	)
	f.run(t)

	assert.Equal(t, 2, f.session.CartQuantity(1))
}

func TestMenuRunner_AddToCart_BlankCancels(t *testing.T) {
	f := newMenuFixture(t,
		"2", "", // cancel at the product id prompt
		"2", "1", "", // cancel at the quantity prompt
		"7",
	)
	f.run(t)

	assert.True(t, f.session.CartIsEmpty())
	assert.Equal(t, 10, f.session.Catalog().Stock(1))
}

func TestMenuRunner_AddToCart_DomainRejectionsContinue(t *testing.T) {
	f := newMenuFixture(t,
		"2", "99", "1", // unknown product
		"2", "3", "5", // only 2 in stock
		"2", "3", "2", // now a valid add
		"7",
	)
	f.run(t)

	assert.Equal(t, 2, f.session.CartQuantity(3))
	assert.Equal(t, 0, f.session.Catalog().Stock(3))
}

func TestMenuRunner_RemoveFromCart(t *testing.T) {
	f := newMenuFixture(t,
		"2", "1", "5", // add 5
		"4", "1", "2", // remove 2
		"7",
	)
	f.run(t)

	assert.Equal(t, 3, f.session.CartQuantity(1))
	assert.Equal(t, 7, f.session.Catalog().Stock(1))
}

func TestMenuRunner_RemoveFromCart_EmptyCartShortCircuits(t *testing.T) {
	// option 4 on an empty cart must not prompt for anything: the next
	// scripted line is the quit selection
	f := newMenuFixture(t, "4", "7")
	f.run(t)
}

func TestMenuRunner_EmptyCart(t *testing.T) {
	f := newMenuFixture(t,
		"2", "1", "4",
		"2", "2", "1",
		"5", // empty
		"7",
	)
	f.run(t)

	assert.True(t, f.session.CartIsEmpty())
	assert.Equal(t, 10, f.session.Catalog().Stock(1))
	assert.Equal(t, 10, f.session.Catalog().Stock(2))
}

// -----------------------------------------------------------------------------
// Checkout Command Tests
// -----------------------------------------------------------------------------

func TestMenuRunner_Checkout_Confirmed(t *testing.T) {
	f := newMenuFixture(t,
		"2", "1", "2", // 200.00
		"2", "2", "2", // 100.00
		"6", "UDB10", "y",
		"7",
	)
	f.run(t)

	// cart cleared, reservations consumed
	assert.True(t, f.session.CartIsEmpty())
	assert.Equal(t, 8, f.session.Catalog().Stock(1))
	assert.Equal(t, 8, f.session.Catalog().Stock(2))

	// receipt appended with the reference figures
	entries, err := os.ReadDir(f.receiptDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(f.receiptDir, entries[0].Name()))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Subtotal: $300.00")
	assert.Contains(t, content, "Discount: -$30.00 (UDB10, 10%)")
	assert.Contains(t, content, "Tax:      $35.10")
	assert.Contains(t, content, "TOTAL:    $305.10")
}

func TestMenuRunner_Checkout_Declined(t *testing.T) {
	f := newMenuFixture(t,
		"2", "1", "1",
		"6", "", "n",
		"7",
	)
	f.run(t)

	// cart and reservations untouched
	assert.Equal(t, 1, f.session.CartQuantity(1))
	assert.Equal(t, 9, f.session.Catalog().Stock(1))

	entries, err := os.ReadDir(f.receiptDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMenuRunner_Checkout_EmptyCartShortCircuits(t *testing.T) {
	// option 6 on an empty cart must not prompt for a coupon
	f := newMenuFixture(t, "6", "7")
	f.run(t)

	entries, err := os.ReadDir(f.receiptDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMenuRunner_Checkout_UnknownCoupon(t *testing.T) {
	f := newMenuFixture(t,
		"2", "2", "2", // 100.00
		"6", "BOGUS", "yes",
		"7",
	)
	f.run(t)

	assert.True(t, f.session.CartIsEmpty())

	entries, err := os.ReadDir(f.receiptDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(f.receiptDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "TOTAL:    $113.00")
}

func TestMenuRunner_Checkout_TwoPurchasesAppendSameFile(t *testing.T) {
	f := newMenuFixture(t,
		"2", "2", "1", "6", "", "y",
		"2", "2", "1", "6", "", "y",
		"7",
	)
	f.run(t)

	entries, err := os.ReadDir(f.receiptDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(f.receiptDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "=== RECEIPT"))
	assert.Equal(t, 8, f.session.Catalog().Stock(2))
}

func TestMenuRunner_NilReceiptWriter(t *testing.T) {
	prev := ux.GetPersonality()
	ux.SetPersonalityLevel(ux.PersonalityMachine)
	t.Cleanup(func() { ux.SetPersonality(prev) })

	log := logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
	t.Cleanup(func() { _ = log.Close() })

	seed := []catalog.Product{{ID: 1, Name: "Widget", UnitPrice: 100.00, Stock: 1}}
	session := shop.NewSession(catalog.New(seed), checkout.Default(), log)
	runner := NewMenuRunner(session, NewMockInputReader("2", "1", "1", "6", "", "y", "7"), nil, log)

	require.NoError(t, runner.Run(context.Background()))
	assert.True(t, session.CartIsEmpty())
}
