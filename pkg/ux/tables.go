// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux table rendering for the catalog and the cart.
//
// Tables are returned as strings so callers decide where they go and
// tests can assert on content. The machine personality emits
// tab-separated lines for scripting; everything else renders a rounded
// lipgloss table.
package ux

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ProductRow is one catalog entry ready for display.
type ProductRow struct {
	ID    int
	Name  string
	Price float64
	Stock int
}

// CartRow is one cart line joined with live product data for display.
type CartRow struct {
	ID       int
	Name     string
	Quantity int
	Price    float64
	Subtotal float64
}

// RenderProductTable renders the catalog with ID, name, price, and stock.
//
// An empty catalog renders a warning line instead of an empty frame.
func RenderProductTable(rows []ProductRow) string {
	if len(rows) == 0 {
		return Styles.Warning.Render("No products available.")
	}

	if GetPersonality().Level == PersonalityMachine {
		var b strings.Builder
		for _, r := range rows {
			fmt.Fprintf(&b, "%d\t%s\t%.2f\t%d\n", r.ID, r.Name, r.Price, r.Stock)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	t := newTable().Headers("ID", "Name", "Price", "Stock")
	for _, r := range rows {
		t.Row(strconv.Itoa(r.ID), r.Name, Money(r.Price), strconv.Itoa(r.Stock))
	}
	return t.String()
}

// RenderCartTable renders the cart with per-line subtotals and the item
// total. total is the pre-tax, pre-discount item total.
//
// An empty cart renders a notice instead of an empty frame.
func RenderCartTable(rows []CartRow, total float64) string {
	if len(rows) == 0 {
		return Styles.Warning.Render("Your cart is empty.")
	}

	if GetPersonality().Level == PersonalityMachine {
		var b strings.Builder
		for _, r := range rows {
			fmt.Fprintf(&b, "%d\t%s\t%d\t%.2f\t%.2f\n", r.ID, r.Name, r.Quantity, r.Price, r.Subtotal)
		}
		fmt.Fprintf(&b, "TOTAL\t%.2f", total)
		return b.String()
	}

	t := newTable().Headers("ID", "Product", "Qty", "Price", "Subtotal")
	for _, r := range rows {
		t.Row(strconv.Itoa(r.ID), r.Name, strconv.Itoa(r.Quantity), Money(r.Price), Money(r.Subtotal))
	}
	return t.String() + "\n" +
		Styles.Bold.Render(fmt.Sprintf("Item total: %s", Money(total)))
}

// RenderTotals renders the four checkout figures as a box.
func RenderTotals(subtotal, discount, tax, total float64, couponCode string) string {
	if GetPersonality().Level == PersonalityMachine {
		return fmt.Sprintf("SUBTOTAL\t%.2f\nDISCOUNT\t%.2f\nTAX\t%.2f\nTOTAL\t%.2f",
			subtotal, discount, tax, total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subtotal  %s\n", Money(subtotal))
	if couponCode != "" {
		fmt.Fprintf(&b, "Discount  -%s (%s)\n", Money(discount), couponCode)
	} else {
		fmt.Fprintf(&b, "Discount  -%s\n", Money(discount))
	}
	fmt.Fprintf(&b, "Tax       %s\n", Money(tax))
	b.WriteString(Styles.Highlight.Render(fmt.Sprintf("Total     %s", Money(total))))
	return Styles.Box.Render(b.String())
}

// newTable returns a table pre-styled with the Aleutian palette.
func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Styles.TableBorder).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.TableHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
