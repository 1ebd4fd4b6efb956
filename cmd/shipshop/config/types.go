// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"github.com/AleutianAI/ShipShop/pkg/catalog"
	"github.com/AleutianAI/ShipShop/pkg/checkout"
)

type ShipShopConfig struct {
	// Shop: seed catalog, tax rate, and coupon table
	Shop ShopConfig `yaml:"shop" validate:"required"`

	// Receipts: where confirmed checkouts are appended
	Receipts ReceiptConfig `yaml:"receipts"`

	// Logging: append-only log sink settings
	Logging LoggingConfig `yaml:"logging"`
}

type ShopConfig struct {
	TaxRate  float64            `yaml:"tax_rate" validate:"gte=0,lte=1"`  // e.g. 0.13
	Coupons  map[string]float64 `yaml:"coupons" validate:"dive,gte=0,lte=1"` // code -> discount rate
	Products []ProductConfig    `yaml:"products" validate:"min=1,dive"`
}

type ProductConfig struct {
	ID    int     `yaml:"id" validate:"gt=0"`
	Name  string  `yaml:"name" validate:"required"`
	Price float64 `yaml:"price" validate:"gte=0"`
	Stock int     `yaml:"stock" validate:"gte=0"`
}

type ReceiptConfig struct {
	Dir string `yaml:"dir"` // e.g. ~/.shipshop/receipts
}

type LoggingConfig struct {
	Dir   string `yaml:"dir"`   // e.g. ~/.shipshop/logs; empty disables file logging
	Level string `yaml:"level"` // debug, info, warn, error
}

// Seed converts the configured products into catalog records, preserving
// the configured order.
func (c ShipShopConfig) Seed() []catalog.Product {
	seed := make([]catalog.Product, 0, len(c.Shop.Products))
	for _, p := range c.Shop.Products {
		seed = append(seed, catalog.Product{
			ID:        p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Stock:     p.Stock,
		})
	}
	return seed
}

// Calculator builds the checkout calculator from the configured rates.
func (c ShipShopConfig) Calculator() *checkout.Calculator {
	return checkout.NewCalculator(c.Shop.TaxRate, c.Shop.Coupons)
}

func DefaultConfig() ShipShopConfig {
	return ShipShopConfig{
		Shop: ShopConfig{
			TaxRate: checkout.DefaultTaxRate,
			Coupons: checkout.DefaultCoupons(),
			Products: []ProductConfig{
				{ID: 1, Name: "Laptop", Price: 700.0, Stock: 5},
				{ID: 2, Name: "Mouse", Price: 25.0, Stock: 10},
				{ID: 3, Name: "Keyboard", Price: 45.0, Stock: 7},
				{ID: 4, Name: "Monitor", Price: 250.0, Stock: 3},
			},
		},
		Receipts: ReceiptConfig{
			Dir: "~/.shipshop/receipts",
		},
		Logging: LoggingConfig{
			Dir:   "~/.shipshop/logs",
			Level: "info",
		},
	}
}
