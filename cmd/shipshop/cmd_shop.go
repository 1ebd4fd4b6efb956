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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ShipShop/cmd/shipshop/config"
	"github.com/AleutianAI/ShipShop/pkg/catalog"
	"github.com/AleutianAI/ShipShop/pkg/logging"
	"github.com/AleutianAI/ShipShop/pkg/receipt"
	"github.com/AleutianAI/ShipShop/pkg/shop"
	"github.com/AleutianAI/ShipShop/pkg/ux"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// runShop starts the interactive shopping session.
//
// # Description
//
// Loads (or creates) the user configuration, seeds the catalog, and
// hands control to the menu runner until the user quits or input is
// exhausted. All session state is in-memory; only logs and receipts
// touch disk.
//
// # Limitations
//
//   - Single user, single session; no persistence across runs
func runShop(cmd *cobra.Command, args []string) {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Global

	log := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		LogDir:  cfg.Logging.Dir,
		Service: "shipshop",
		Quiet:   true, // menu output owns the terminal; logs go to file
	})

	session := shop.NewSession(catalog.New(cfg.Seed()), cfg.Calculator(), log)
	receipts := receipt.NewWriter(cfg.Receipts.Dir, log)
	reader := NewInteractiveInputReader(50)

	runner := NewMenuRunner(session, reader, receipts, log)
	defer func() {
		if err := runner.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing session: %v\n", err)
		}
	}()

	if err := runner.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runCatalog prints the configured catalog and exits.
//
// Useful for checking what a fresh session will stock without entering
// the menu loop.
func runCatalog(cmd *cobra.Command, args []string) {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	products := catalog.New(config.Global.Seed()).Products()
	rows := make([]ux.ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, ux.ProductRow{ID: p.ID, Name: p.Name, Price: p.UnitPrice, Stock: p.Stock})
	}
	fmt.Println(ux.RenderProductTable(rows))
}

// runVersion prints the build version.
func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("shipshop %s\n", Version)
}
