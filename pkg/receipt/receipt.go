// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package receipt formats confirmed checkouts into plain-text records and
// appends them to a timestamped file.
//
// The format is presentational, not contractual: a record always carries
// the receipt id, per-line name/quantity/unit price/line subtotal, and
// the four aggregate figures (subtotal, discount, tax, total), but the
// exact layout may change. Nothing in the shop reads receipts back.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/ShipShop/pkg/checkout"
	"github.com/AleutianAI/ShipShop/pkg/logging"
	"github.com/AleutianAI/ShipShop/pkg/shop"
)

// Record is one confirmed checkout ready to be written.
type Record struct {
	ID        string
	Timestamp time.Time
	Lines     []shop.LineView
	Totals    checkout.Totals
}

// NewRecord assembles a record from a confirmed checkout snapshot.
//
// The id is a fresh UUID v4 and the timestamp is taken now, so two
// checkouts in the same second still produce distinct records.
func NewRecord(lines []shop.LineView, totals checkout.Totals) Record {
	return Record{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Lines:     lines,
		Totals:    totals,
	}
}

// Format renders the record as plain text.
func (r Record) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== RECEIPT %s ===\n", r.ID)
	fmt.Fprintf(&b, "Date: %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString("\n")
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "  %-20s x%-4d @ $%.2f = $%.2f\n",
			l.Name, l.Quantity, l.UnitPrice, l.Subtotal)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Subtotal: $%.2f\n", r.Totals.Subtotal)
	if r.Totals.CouponCode != "" {
		fmt.Fprintf(&b, "  Discount: -$%.2f (%s, %.0f%%)\n",
			r.Totals.Discount, r.Totals.CouponCode, r.Totals.CouponRate*100)
	} else {
		fmt.Fprintf(&b, "  Discount: -$%.2f\n", r.Totals.Discount)
	}
	fmt.Fprintf(&b, "  Tax:      $%.2f\n", r.Totals.Tax)
	fmt.Fprintf(&b, "  TOTAL:    $%.2f\n", r.Totals.Total)
	b.WriteString("\n")

	return b.String()
}

// Writer appends receipt records to per-day files in a directory.
//
// Files are named receipt_YYYY-MM-DD.txt; the directory is created with
// 0750 permissions on first write. The writer holds no open handles
// between calls, so a failed write never wedges later ones.
type Writer struct {
	dir string
	log *logging.Logger
}

// NewWriter creates a writer for the given directory. Supports ~
// expansion. log may be nil for a default stderr logger.
func NewWriter(dir string, log *logging.Logger) *Writer {
	if log == nil {
		log = logging.Default()
	}
	return &Writer{dir: logging.ExpandPath(dir), log: log}
}

// Write appends the record to today's receipt file.
//
// I/O failures are returned for the shell to surface as a generic
// failure notice; the session itself continues either way.
func (w *Writer) Write(r Record) (path string, err error) {
	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return "", fmt.Errorf("create receipt directory %s: %w", w.dir, err)
	}
	filename := fmt.Sprintf("receipt_%s.txt", r.Timestamp.Format("2006-01-02"))
	path = filepath.Join(w.dir, filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return "", fmt.Errorf("open receipt file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(r.Format()); err != nil {
		return "", fmt.Errorf("append receipt %s: %w", r.ID, err)
	}

	w.log.Info("receipt written", "receipt_id", r.ID, "path", path, "total", r.Totals.Total)
	return path, nil
}
