// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package main menu loop for the interactive shopping session.
//
// The runner is plain I/O glue: it renders the menu, collects and
// validates raw input, and hands already-validated integers and strings
// to the session. Domain errors come back as sentinels and are resolved
// right here with a warning and a re-prompt; nothing propagates past a
// single menu command. The outer loop performs only generic crash
// containment.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/AleutianAI/ShipShop/pkg/logging"
	"github.com/AleutianAI/ShipShop/pkg/receipt"
	"github.com/AleutianAI/ShipShop/pkg/shop"
	"github.com/AleutianAI/ShipShop/pkg/ux"
)

// =============================================================================
// MenuRunner Interface
// =============================================================================

// MenuRunner drives the interactive menu loop over one shopping session.
//
// # Description
//
// Run blocks until the user quits, input is exhausted, or the context is
// cancelled. Close releases the logger's file handle; callers MUST call
// it when done, typically via defer.
type MenuRunner interface {
	Run(ctx context.Context) error
	io.Closer
}

// menu option numbers, stable across personalities
const (
	optViewProducts = 1
	optAddToCart    = 2
	optViewCart     = 3
	optRemoveItem   = 4
	optEmptyCart    = 5
	optCheckout     = 6
	optQuit         = 7
)

// defaultMenuRunner is the production MenuRunner.
type defaultMenuRunner struct {
	session  *shop.Session
	reader   InputReader
	receipts *receipt.Writer
	log      *logging.Logger
}

// NewMenuRunner assembles a runner over a session.
//
// receipts may be nil to disable receipt writing (used by the catalog
// subcommand's dry runs).
func NewMenuRunner(session *shop.Session, reader InputReader, receipts *receipt.Writer, log *logging.Logger) MenuRunner {
	if log == nil {
		log = logging.Default()
	}
	return &defaultMenuRunner{
		session:  session,
		reader:   reader,
		receipts: receipts,
		log:      log,
	}
}

// Run executes the menu loop.
//
// Each iteration renders the menu, reads a selection, and dispatches.
// Unanticipated panics in a handler are caught, logged with full
// diagnostics, and surfaced as a generic failure notice; the session
// continues. The only exit paths are the quit option, EOF on input, and
// context cancellation.
func (r *defaultMenuRunner) Run(ctx context.Context) error {
	ux.Title("ShipShop")
	ux.Muted("Welcome aboard. All aboard the shopping session.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.renderMenu()
		line, err := r.readLine("Select an option (1-7): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				ux.Muted("Input closed, ending session.")
				return nil
			}
			return fmt.Errorf("read menu selection: %w", err)
		}

		choice, err := strconv.Atoi(line)
		if err != nil || choice < optViewProducts || choice > optQuit {
			ux.Warning("Invalid option. Use the numbers 1-7.")
			continue
		}

		if choice == optQuit {
			ux.Success("Thanks for sailing with ShipShop!")
			r.log.Info("session ended by user")
			return nil
		}

		if quit := r.dispatch(choice); quit {
			return nil
		}
	}
}

// dispatch runs one menu command under crash containment.
//
// Returns true only when input was exhausted mid-command.
func (r *defaultMenuRunner) dispatch(choice int) (quit bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("unexpected failure in menu command",
				"option", choice, "panic", fmt.Sprintf("%v", rec))
			ux.Error("Something went wrong. The session continues; see the log for details.")
		}
	}()

	var err error
	switch choice {
	case optViewProducts:
		r.viewProducts()
	case optAddToCart:
		err = r.addToCart()
	case optViewCart:
		r.viewCart()
	case optRemoveItem:
		err = r.removeFromCart()
	case optEmptyCart:
		r.emptyCart()
	case optCheckout:
		err = r.checkout()
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			ux.Muted("Input closed, ending session.")
			return true
		}
		// Unanticipated I/O failure: log with diagnostics, generic
		// notice, keep the session alive.
		r.log.Error("menu command failed", "option", choice, "error", err.Error())
		ux.Error("Something went wrong. The session continues; see the log for details.")
	}
	return false
}

// Close releases the runner's logger resources.
func (r *defaultMenuRunner) Close() error {
	return r.log.Close()
}

// =============================================================================
// Menu Commands
// =============================================================================

// renderMenu prints the numbered option list.
func (r *defaultMenuRunner) renderMenu() {
	if ux.GetPersonality().Level == ux.PersonalityMachine {
		fmt.Println("MENU 1=products 2=add 3=cart 4=remove 5=empty 6=checkout 7=quit")
		return
	}
	fmt.Println()
	ux.Box("Main Menu", strings.Join([]string{
		" 1) View products",
		" 2) Add product to cart",
		" 3) View cart",
		" 4) Remove product from cart",
		" 5) Empty cart",
		" 6) Checkout",
		" 7) Quit",
	}, "\n"))
}

// viewProducts renders the live catalog table.
func (r *defaultMenuRunner) viewProducts() {
	products := r.session.Catalog().Products()
	rows := make([]ux.ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, ux.ProductRow{ID: p.ID, Name: p.Name, Price: p.UnitPrice, Stock: p.Stock})
	}
	fmt.Println(ux.RenderProductTable(rows))
}

// addToCart prompts for a product id and quantity, then runs the add
// transaction. Domain rejections warn and return to the menu; raw input
// is re-prompted in place.
func (r *defaultMenuRunner) addToCart() error {
	r.viewProducts()

	id, ok, err := r.promptInt("Product ID (blank to cancel): ")
	if err != nil || !ok {
		return err
	}
	qty, ok, err := r.promptInt("Quantity (blank to cancel): ")
	if err != nil || !ok {
		return err
	}

	p, err := r.session.AddToCart(id, qty)
	switch {
	case err == nil:
		ux.Success(fmt.Sprintf("Added %d x %s to the cart.", qty, p.Name))
	case errors.Is(err, shop.ErrInvalidQuantity):
		r.log.Warn("invalid quantity", "product_id", id, "quantity", qty)
		ux.Warning("Quantity must be greater than zero.")
	case errors.Is(err, shop.ErrProductNotFound):
		r.log.Warn("product not found", "product_id", id)
		ux.Warning(fmt.Sprintf("No product with ID %d.", id))
	case errors.Is(err, shop.ErrInsufficientStock):
		r.log.Warn("insufficient stock", "product_id", id, "quantity", qty)
		ux.Warning(fmt.Sprintf("Not enough stock: only %d available.", r.session.Catalog().Stock(id)))
	default:
		return err
	}
	return nil
}

// viewCart renders the cart table with the item total.
func (r *defaultMenuRunner) viewCart() {
	lines := r.session.CartLines()
	rows := make([]ux.CartRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, ux.CartRow{
			ID: l.ProductID, Name: l.Name, Quantity: l.Quantity,
			Price: l.UnitPrice, Subtotal: l.Subtotal,
		})
	}
	fmt.Println(ux.RenderCartTable(rows, r.session.CartTotal()))
}

// removeFromCart prompts for a product id and quantity and reduces or
// deletes the line, releasing stock for whatever was removed.
func (r *defaultMenuRunner) removeFromCart() error {
	if r.session.CartIsEmpty() {
		ux.Info("Your cart is empty; nothing to remove.")
		return nil
	}
	r.viewCart()

	id, ok, err := r.promptInt("Product ID (blank to cancel): ")
	if err != nil || !ok {
		return err
	}
	qty, ok, err := r.promptInt("Quantity to remove (blank to cancel): ")
	if err != nil || !ok {
		return err
	}

	removed, found, err := r.session.RemoveFromCart(id, qty)
	switch {
	case err == nil && !found:
		ux.Warning(fmt.Sprintf("Product %d is not in the cart.", id))
	case err == nil:
		ux.Success(fmt.Sprintf("Removed %d unit(s); stock restored.", removed))
	case errors.Is(err, shop.ErrInvalidQuantity):
		r.log.Warn("invalid quantity", "product_id", id, "quantity", qty)
		ux.Warning("Quantity must be greater than zero.")
	default:
		return err
	}
	return nil
}

// emptyCart abandons the cart, returning all reservations to stock.
func (r *defaultMenuRunner) emptyCart() {
	if r.session.CartIsEmpty() {
		ux.Info("Your cart is already empty.")
		return
	}
	released := r.session.EmptyCart()
	ux.Success(fmt.Sprintf("Cart emptied; %d line(s) returned to stock.", released))
}

// checkout shows totals for the current cart and, on confirmation,
// commits the purchase and writes the receipt.
func (r *defaultMenuRunner) checkout() error {
	if r.session.CartIsEmpty() {
		ux.Info("Your cart is empty; nothing to check out.")
		return nil
	}
	r.viewCart()

	code, err := r.readLine("Coupon code (blank for none): ")
	if err != nil {
		return err
	}
	if _, _, found := r.session.CouponRate(code); !found && strings.TrimSpace(code) != "" {
		r.log.Warn("unknown coupon code", "code", code)
		ux.Warning("Unknown coupon code; no discount applied.")
	}

	totals, err := r.session.Checkout(code)
	if err != nil {
		// raced only by the user; treated as the benign empty-cart notice
		if errors.Is(err, shop.ErrEmptyCart) {
			ux.Info("Your cart is empty; nothing to check out.")
			return nil
		}
		return err
	}
	fmt.Println(ux.RenderTotals(totals.Subtotal, totals.Discount, totals.Tax, totals.Total, totals.CouponCode))

	confirmed, err := r.confirm("Confirm purchase?")
	if err != nil {
		return err
	}
	if !confirmed {
		ux.Info("Checkout cancelled; your cart is unchanged.")
		return nil
	}

	totals, lines, err := r.session.ConfirmCheckout(code)
	if err != nil {
		return err
	}

	if r.receipts != nil {
		rec := receipt.NewRecord(lines, totals)
		path, err := r.receipts.Write(rec)
		if err != nil {
			// the purchase stands; only the paper trail failed
			r.log.Error("receipt write failed", "receipt_id", rec.ID, "error", err.Error())
			ux.Error("Could not write the receipt file; see the log for details.")
		} else {
			ux.Muted(fmt.Sprintf("Receipt appended to %s", path))
		}
	}

	ux.Success(fmt.Sprintf("Purchase complete. Total charged: %s", ux.Money(totals.Total)))
	return nil
}

// =============================================================================
// Prompt Helpers
// =============================================================================

// readLine displays a prompt and reads one trimmed line.
func (r *defaultMenuRunner) readLine(prompt string) (string, error) {
	if p, ok := r.reader.(PromptingInputReader); ok {
		p.SetPrompt(prompt)
	} else {
		fmt.Print(prompt)
	}
	return r.reader.ReadLine()
}

// promptInt reads a positive integer, re-prompting on junk input.
//
// ok is false when the user cancelled with a blank line. Raw input
// validation lives here so the session only ever sees parsed integers.
func (r *defaultMenuRunner) promptInt(prompt string) (value int, ok bool, err error) {
	for {
		line, err := r.readLine(prompt)
		if err != nil {
			return 0, false, err
		}
		if line == "" {
			ux.Muted("Cancelled.")
			return 0, false, nil
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n <= 0 {
			r.log.Warn("rejected raw input", "input", line)
			ux.Warning("Enter a positive whole number, or blank to cancel.")
			continue
		}
		return n, true, nil
	}
}

// confirm asks a yes/no question.
//
// On interactive terminals this is a huh form; otherwise it falls back
// to a y/n prompt on the reader so piped sessions and tests work the
// same way.
func (r *defaultMenuRunner) confirm(question string) (bool, error) {
	if ux.IsInteractive() {
		var confirmed bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return false, nil
			}
			return false, err
		}
		return confirmed, nil
	}

	line, err := r.readLine(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Compile-time interface check
var _ MenuRunner = (*defaultMenuRunner)(nil)
