// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/magnetic_probe/internal/config"
	"github.com/relabs-tech/magnetic_probe/internal/field"
	"github.com/relabs-tech/magnetic_probe/internal/sensors"
	"github.com/relabs-tech/magnetic_probe/internal/tli493d"
)

// RunSimProducer publishes samples from a simulated sensor: a magnet
// circling the probe in the XY plane with a slow bob along Z. Useful for
// bringing up the web view and the console without hardware.
func RunSimProducer() {
	if err := config.InitGlobal("./probe_config.txt"); err != nil {
		fmt.Printf("sim: config init failed: %v\n", err)
		return
	}
	cfg := config.Get()

	simBus := tli493d.NewSimBus()
	dev, err := tli493d.New(simBus, tli493d.DefaultOpts)
	if err != nil {
		fmt.Printf("sim: init failed: %v\n", err)
		return
	}
	sensors.InitManager(dev, simBus)

	clientID := cfg.MQTTClientIDProducer
	if clientID == "" {
		clientID = "magnetic-probe-sim"
	}
	mqttOpts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(clientID)
	client := mqtt.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		fmt.Printf("sim: mqtt connect error: %v\n", token.Error())
		return
	}
	defer client.Disconnect(250)

	topic := cfg.TopicField
	if topic == "" {
		topic = "probe/field"
	}

	ms := cfg.MagSampleInterval
	if ms <= 0 {
		ms = 100
	}
	ticker := time.NewTicker(time.Duration(ms) * time.Millisecond)
	defer ticker.Stop()

	fmt.Println("sim: producer started")
	phase := 0.0
	for range ticker.C {
		// About 1200 LSB of swing keeps the synthetic field well inside
		// the 12-bit ADC window.
		x := int16(1200 * math.Cos(phase))
		y := int16(1200 * math.Sin(phase))
		z := int16(400 * math.Sin(phase/7))
		simBus.SetFlux(x, y, z)
		simBus.SetTemperature(25 + 3*math.Sin(phase/13))
		phase += 0.05

		if err := dev.Update(); err != nil {
			fmt.Printf("sim: read error: %v\n", err)
			continue
		}
		sample := field.Sample{
			Bx:      dev.X(),
			By:      dev.Y(),
			Bz:      dev.Z(),
			Norm:    dev.Norm(),
			Azimuth: dev.Azimuth(),
			Polar:   dev.Polar(),
			TempC:   dev.Temperature(),
			Time:    time.Now().UTC().Format(time.RFC3339),
		}
		b, _ := json.Marshal(sample)
		t := client.Publish(topic, 0, false, b)
		t.Wait()
	}
}
