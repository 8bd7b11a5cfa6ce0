// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string
	MQTTClientIDDebug    string

	// Topics
	TopicField string
	TopicDiag  string

	// Sensor hardware
	MagI2CBus  string
	MagI2CAddr uint16

	// Sensor configuration
	// Access mode: 0=low power, 1=master controlled, 3=fast (2 reserved)
	MagAccessMode byte
	// Range: 0=±160mT, 1=±100mT, 3=±50mT (2 reserved)
	MagRange byte
	// Trigger: 0=none, 1=before read, 2=after register 5
	MagTrigger byte
	// Low-power update rate, 0 (fastest) to 7
	MagUpdateRate  byte
	MagOneByteRead bool
	MagResetOnInit bool

	// Wake-up thresholds as normalized ratios in [-1, 1]
	WakeUpEnable bool
	WakeUpXHigh  float64
	WakeUpXLow   float64
	WakeUpYHigh  float64
	WakeUpYLow   float64
	WakeUpZHigh  float64
	WakeUpZLow   float64

	// Timing
	MagSampleInterval  int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web server
	WebServerPort   int
	DebugServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for the singleton pattern; external
// code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_DEBUG":
		c.MQTTClientIDDebug = value

	// Topics
	case "TOPIC_FIELD":
		c.TopicField = value
	case "TOPIC_DIAG":
		c.TopicDiag = value

	// Sensor hardware
	case "MAG_I2C_BUS":
		c.MagI2CBus = value
	case "MAG_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid MAG_I2C_ADDR %q: %w", value, err)
		}
		c.MagI2CAddr = uint16(addr)

	// Sensor configuration
	case "MAG_ACCESS_MODE":
		mode, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_ACCESS_MODE %q: %w", value, err)
		}
		if mode != 0 && mode != 1 && mode != 3 {
			return fmt.Errorf("MAG_ACCESS_MODE must be 0 (low power), 1 (master controlled) or 3 (fast), got %d", mode)
		}
		c.MagAccessMode = byte(mode)
	case "MAG_RANGE":
		r, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_RANGE %q: %w", value, err)
		}
		if r != 0 && r != 1 && r != 3 {
			return fmt.Errorf("MAG_RANGE must be 0 (±160mT), 1 (±100mT) or 3 (±50mT), got %d", r)
		}
		c.MagRange = byte(r)
	case "MAG_TRIGGER":
		t, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_TRIGGER %q: %w", value, err)
		}
		if t < 0 || t > 2 {
			return fmt.Errorf("MAG_TRIGGER must be 0-2, got %d", t)
		}
		c.MagTrigger = byte(t)
	case "MAG_UPDATE_RATE":
		r, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_UPDATE_RATE %q: %w", value, err)
		}
		if r < 0 || r > 7 {
			return fmt.Errorf("MAG_UPDATE_RATE must be 0-7, got %d", r)
		}
		c.MagUpdateRate = byte(r)
	case "MAG_ONE_BYTE_READ":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_ONE_BYTE_READ %q: %w", value, err)
		}
		c.MagOneByteRead = b
	case "MAG_RESET_ON_INIT":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_RESET_ON_INIT %q: %w", value, err)
		}
		c.MagResetOnInit = b

	// Wake-up
	case "WAKEUP_ENABLE":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid WAKEUP_ENABLE %q: %w", value, err)
		}
		c.WakeUpEnable = b
	case "WAKEUP_X_HIGH", "WAKEUP_X_LOW", "WAKEUP_Y_HIGH", "WAKEUP_Y_LOW", "WAKEUP_Z_HIGH", "WAKEUP_Z_LOW":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		if f < -1 || f > 1 {
			return fmt.Errorf("%s must be in [-1, 1], got %g", key, f)
		}
		switch key {
		case "WAKEUP_X_HIGH":
			c.WakeUpXHigh = f
		case "WAKEUP_X_LOW":
			c.WakeUpXLow = f
		case "WAKEUP_Y_HIGH":
			c.WakeUpYHigh = f
		case "WAKEUP_Y_LOW":
			c.WakeUpYLow = f
		case "WAKEUP_Z_HIGH":
			c.WakeUpZHigh = f
		case "WAKEUP_Z_LOW":
			c.WakeUpZLow = f
		}

	// Timing
	case "MAG_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.MagSampleInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Web server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "DEBUG_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DEBUG_SERVER_PORT %q: %w", value, err)
		}
		c.DebugServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set and consistent.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.MagSampleInterval == 0 {
		return fmt.Errorf("MAG_SAMPLE_INTERVAL is required")
	}
	if c.WakeUpEnable {
		for _, pair := range [][2]float64{
			{c.WakeUpXHigh, c.WakeUpXLow},
			{c.WakeUpYHigh, c.WakeUpYLow},
			{c.WakeUpZHigh, c.WakeUpZLow},
		} {
			if pair[0] < pair[1] {
				return fmt.Errorf("wake-up upper thresholds must not be below their lower thresholds")
			}
		}
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses sync.Once
// so initialization only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
