// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"fmt"
	"log"
	"net/http"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/magnetic_probe/internal/app"
	"github.com/relabs-tech/magnetic_probe/internal/config"
	"github.com/relabs-tech/magnetic_probe/internal/sensors"
	"github.com/relabs-tech/magnetic_probe/internal/tli493d"
)

func main() {
	log.Println("starting TLI493D register debug tool (standalone)")

	if err := config.InitGlobal("probe_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	log.Println("Initializing sensor...")
	if _, err := host.Init(); err != nil {
		log.Fatalf("periph host init failed: %v", err)
	}

	busName := cfg.MagI2CBus
	if busName == "" {
		busName = "1"
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		log.Fatalf("i2c open failed on bus %s: %v", busName, err)
	}
	defer bus.Close()

	addr := cfg.MagI2CAddr
	if addr == 0 {
		addr = tli493d.AddrA0
	}
	opts := tli493d.Opts{
		Mode:        tli493d.AccessMode(cfg.MagAccessMode),
		Range:       tli493d.Range(cfg.MagRange),
		Trigger:     tli493d.Trigger(cfg.MagTrigger),
		UpdateRate:  cfg.MagUpdateRate,
		OneByteRead: cfg.MagOneByteRead,
		Reset:       cfg.MagResetOnInit,
	}
	sensorBus := tli493d.NewI2CBus(bus, addr, opts.OneByteRead)
	dev, err := tli493d.New(sensorBus, opts)
	if err != nil {
		log.Fatalf("sensor init failed: %v", err)
	}
	sensors.InitManager(dev, sensorBus)

	typ, hwv, err := dev.Version()
	if err != nil {
		log.Printf("Warning: version read failed: %v", err)
	} else {
		log.Printf("Sensor available (TYPE=%d HWV=%d)", typ, hwv)
	}

	http.HandleFunc("/ws", app.HandleRegisterDebugWS)

	// API endpoint for live field data
	http.HandleFunc("/api/field", app.HandleFieldData)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	port := cfg.DebugServerPort
	if port == 0 {
		port = 8081
	}
	listen := fmt.Sprintf(":%d", port)
	log.Printf("Register debug tool listening on %s", listen)
	log.Printf("Open http://localhost%s in your browser", listen)
	if err := http.ListenAndServe(listen, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
