package main

import (
	"log"

	"github.com/relabs-tech/magnetic_probe/internal/app"
	"github.com/relabs-tech/magnetic_probe/internal/config"
)

func main() {
	log.Println("starting magnetic-probe console (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal("probe_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
