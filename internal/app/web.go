package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/magnetic_probe/internal/config"
	"github.com/relabs-tech/magnetic_probe/internal/field"
)

func RunWeb() error {
	cfg := config.Get()

	var (
		mu         sync.RWMutex
		lastSample field.Sample
		haveSample bool
		watchers   = map[*websocket.Conn]bool{}
	)

	// 1) Connect to MQTT broker on the Pi
	clientID := cfg.MQTTClientIDWeb
	if clientID == "" {
		clientID = "magnetic-probe-web"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	topic := cfg.TopicField
	if topic == "" {
		topic = "probe/field"
	}

	// 2) Subscribe to the field topic: keep the latest sample and fan it
	// out to connected websocket clients
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s field.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSample = s
		haveSample = true
		for conn := range watchers {
			if err := conn.WriteJSON(s); err != nil {
				conn.Close()
				delete(watchers, conn)
			}
		}
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to MQTT topic %s", topic)

	// 3) JSON API endpoint: latest field sample
	http.HandleFunc("/api/field", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	// 4) WebSocket live feed: every sample as it arrives
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}
		mu.Lock()
		watchers[conn] = true
		mu.Unlock()
		// Reads are only for detecting the close; payloads are ignored.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					mu.Lock()
					delete(watchers, conn)
					mu.Unlock()
					conn.Close()
					return
				}
			}
		}()
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	port := cfg.WebServerPort
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf(":%d", port)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
