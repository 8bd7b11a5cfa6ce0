// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/magnetic_probe/internal/config"
	"github.com/relabs-tech/magnetic_probe/internal/field"
	"github.com/relabs-tech/magnetic_probe/internal/sensors"
	"github.com/relabs-tech/magnetic_probe/internal/tli493d"
)

// Diagnosis is published once every diagEvery field samples.
const diagEvery = 50

func RunMagProducer() {
	// Load config.
	if err := config.InitGlobal("./probe_config.txt"); err != nil {
		fmt.Printf("mag: config init failed: %v\n", err)
		return
	}
	cfg := config.Get()

	// Initialize periph host.
	if _, err := host.Init(); err != nil {
		fmt.Printf("mag: periph host init failed: %v\n", err)
		return
	}

	// Open I2C bus.
	busName := cfg.MagI2CBus
	if busName == "" {
		busName = "1"
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		fmt.Printf("mag: i2c open failed on bus %s: %v\n", busName, err)
		return
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
		fmt.Printf("mag: init failed: %v\n", err)
		return
	}
	typ, hwv, err := dev.Version()
	if err != nil {
		fmt.Printf("mag: version read failed: %v\n", err)
		return
	}
	fmt.Printf("[MAG] TYPE=%d HWV=%d (addr=0x%X, mode=%d)\n", typ, hwv, addr, dev.Mode())

	// Arm the wake-up engine if the config asks for it.
	if cfg.WakeUpEnable {
		err := dev.SetWakeUpThreshold(
			cfg.WakeUpXHigh, cfg.WakeUpXLow,
			cfg.WakeUpYHigh, cfg.WakeUpYLow,
			cfg.WakeUpZHigh, cfg.WakeUpZLow,
		)
		if err != nil {
			fmt.Printf("mag: wake-up threshold error: %v\n", err)
			return
		}
		if err := dev.EnableWakeUp(); err != nil {
			fmt.Printf("mag: wake-up enable error: %v\n", err)
			return
		}
		active, err := dev.WakeUpEnabled()
		if err != nil {
			fmt.Printf("mag: wake-up status error: %v\n", err)
			return
		}
		fmt.Printf("[MAG] wake-up active=%v\n", active)
	}

	// Share the sensor with the register-debug tooling.
	sensors.InitManager(dev, sensorBus)

	// MQTT client.
	clientID := cfg.MQTTClientIDProducer
	if clientID == "" {
		clientID = "magnetic-probe-producer"
	}
	mqttOpts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(clientID)
	client := mqtt.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		fmt.Printf("mag: mqtt connect error: %v\n", token.Error())
		return
	}
	defer client.Disconnect(250)

	topic := cfg.TopicField
	if topic == "" {
		topic = "probe/field"
	}
	diagTopic := cfg.TopicDiag
	if diagTopic == "" {
		diagTopic = "probe/diag"
	}

	ms := cfg.MagSampleInterval
	if ms <= 0 {
		ms = 100
	}
	interval := time.Duration(ms) * time.Millisecond

	// Start loop.
	fmt.Println("mag: producer started")
	n := 0
	for {
		if err := dev.Update(); err != nil {
			fmt.Printf("mag: read error: %v\n", err)
			time.Sleep(interval)
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

		n++
		if n%diagEvery == 0 {
			publishDiagnosis(client, diagTopic, dev)
		}
		time.Sleep(interval)
	}
}

func publishDiagnosis(client mqtt.Client, topic string, dev *tli493d.Dev) {
	diag, err := dev.Diagnosis()
	if err != nil {
		fmt.Printf("mag: diagnosis read error: %v\n", err)
		return
	}
	regs := make([]string, len(diag))
	for i, v := range diag {
		regs[i] = fmt.Sprintf("0x%02X", v)
	}
	payload := field.Diagnosis{
		Registers: regs,
		Time:      time.Now().UTC().Format(time.RFC3339),
	}
	b, _ := json.Marshal(payload)
	t := client.Publish(topic, 0, false, b)
	t.Wait()
}
