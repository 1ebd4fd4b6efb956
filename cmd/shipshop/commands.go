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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/ShipShop/pkg/ux"
)

// --- Global Command Variables ---
var (
	personalityLevel string // UX personality level (full/standard/minimal/machine)

	rootCmd = &cobra.Command{
		Use:   "shipshop",
		Short: "An interactive console storefront with carts, coupons, and receipts",
		Long: `ShipShop is a single-user console storefront: browse a small
				catalog, build a cart, apply a coupon, and check out with a
				plain-text receipt. Running it with no subcommand starts the
				interactive shopping session.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
		},
		Run: runShop, // Defined in cmd_shop.go
	}

	// --- Shopping Session ---
	shopCmd = &cobra.Command{
		Use:   "shop",
		Short: "Start the interactive shopping session (the default)",
		Run:   runShop, // Defined in cmd_shop.go
	}

	// --- Catalog ---
	catalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Print the configured product catalog and exit",
		Run:   runCatalog, // Defined in cmd_shop.go
	}

	// --- Version ---
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the shipshop version",
		Run:   runVersion, // Defined in cmd_shop.go
	}
)

func init() {
	// Add global personality flag
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"UX personality level: full, standard, minimal, machine (default: auto-detect)")

	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}
