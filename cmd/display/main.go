// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"

	"github.com/relabs-tech/magnetic_probe/internal/app"
	"github.com/relabs-tech/magnetic_probe/internal/config"
)

func main() {
	log.Println("starting magnetic-probe display (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal("probe_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
