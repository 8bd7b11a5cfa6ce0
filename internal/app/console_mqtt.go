package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/magnetic_probe/internal/config"
	"github.com/relabs-tech/magnetic_probe/internal/field"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	clientID := cfg.MQTTClientIDConsole
	if clientID == "" {
		clientID = "magnetic-probe-console"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	topicField := cfg.TopicField
	if topicField == "" {
		topicField = "probe/field"
	}
	topicDiag := cfg.TopicDiag
	if topicDiag == "" {
		topicDiag = "probe/diag"
	}

	// Subscribe to field samples
	fieldToken := client.Subscribe(topicField, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s field.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: field unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[FIELD] Bx=%8.3f By=%8.3f Bz=%8.3f  |B|=%8.3f mT  az=%6.2f pol=%6.2f  T=%5.1fC\n",
			s.Bx, s.By, s.Bz, s.Norm, s.Azimuth, s.Polar, s.TempC,
		)
	})
	fieldToken.Wait()
	if fieldToken.Error() != nil {
		return fieldToken.Error()
	}
	log.Printf("console: subscribed to %s", topicField)

	// Subscribe to diagnosis snapshots
	diagToken := client.Subscribe(topicDiag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var d field.Diagnosis
		if err := json.Unmarshal(msg.Payload(), &d); err != nil {
			log.Printf("console: diag unmarshal error: %v", err)
			return
		}

		fmt.Printf("[DIAG ] regs=%s time=%s\n", strings.Join(d.Registers, " "), d.Time)
	})
	diagToken.Wait()
	if diagToken.Error() != nil {
		return diagToken.Error()
	}
	log.Printf("console: subscribed to %s", topicDiag)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
