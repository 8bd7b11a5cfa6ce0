// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relabs-tech/magnetic_probe/internal/sensors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RegisterDebugSession holds WebSocket connection state for register debugging
type RegisterDebugSession struct {
	Conn *websocket.Conn
}

// Response types
type RegisterResponse struct {
	Type        string                 `json:"type"` // "register_data", "register_map", "status", "error"
	Address     string                 `json:"addr,omitempty"`
	Value       string                 `json:"value,omitempty"`
	Registers   map[string]string      `json:"registers,omitempty"` // for bulk read
	Timestamp   string                 `json:"timestamp,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Status      string                 `json:"status,omitempty"`
	RegisterMap []sensors.RegisterInfo `json:"register_map,omitempty"`
}

// RegisterConfigFile represents the JSON structure for exported register configuration
type RegisterConfigFile struct {
	Version   int               `json:"version"`
	Timestamp string            `json:"timestamp"`
	Registers map[string]string `json:"registers"` // hex address -> hex value
}

// HandleRegisterDebugWS handles the WebSocket connection for register debugging
func HandleRegisterDebugWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("register_debug: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	session := &RegisterDebugSession{Conn: conn}

	// Send register map on connection
	if err := session.sendRegisterMap(); err != nil {
		log.Printf("register_debug: error sending register map: %v", err)
		return
	}

	// Message loop
	for {
		var rawMsg map[string]interface{}
		err := conn.ReadJSON(&rawMsg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("register_debug: websocket error: %v", err)
			}
			break
		}

		action, ok := rawMsg["action"].(string)
		if !ok {
			session.sendError("missing or invalid action field")
			continue
		}

		// Route based on action
		switch action {
		case "get_map":
			session.sendRegisterMap()
		case "read":
			session.handleRead(rawMsg)
		case "read_all":
			session.handleReadAll(rawMsg)
		case "write":
			session.handleWrite(rawMsg)
		case "reset":
			session.handleReset(rawMsg)
		case "export_config":
			session.handleExportConfig(rawMsg)
		default:
			session.sendError(fmt.Sprintf("unknown action: %s", action))
		}
	}
}

func (s *RegisterDebugSession) handleRead(rawMsg map[string]interface{}) {
	addr, _ := rawMsg["addr"].(string)
	if addr == "" {
		s.sendError("missing addr field")
		return
	}

	// Parse hex address
	var addrByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}

	mgr := sensors.GetManager()
	if mgr == nil {
		s.sendError("sensor not initialized")
		return
	}
	value, err := mgr.ReadRegister(addrByte)
	if err != nil {
		s.sendError(fmt.Sprintf("read error: %v", err))
		return
	}

	// Send response
	resp := RegisterResponse{
		Type:      "register_data",
		Address:   addr,
		Value:     fmt.Sprintf("0x%02X", value),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleReadAll(rawMsg map[string]interface{}) {
	mgr := sensors.GetManager()
	if mgr == nil {
		s.sendError("sensor not initialized")
		return
	}
	registers, err := mgr.ReadAllRegisters()
	if err != nil {
		s.sendError(fmt.Sprintf("read all error: %v", err))
		return
	}

	// Convert to hex string map
	regMap := make(map[string]string)
	for addr, value := range registers {
		regMap[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", value)
	}

	// Send response
	resp := RegisterResponse{
		Type:      "register_data",
		Registers: regMap,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleWrite(rawMsg map[string]interface{}) {
	addr, _ := rawMsg["addr"].(string)
	valueStr, _ := rawMsg["value"].(string)

	if addr == "" || valueStr == "" {
		s.sendError("missing addr or value field")
		return
	}

	// Parse hex address and value
	var addrByte, valueByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}
	if _, err := fmt.Sscanf(valueStr, "0x%X", &valueByte); err != nil {
		s.sendError(fmt.Sprintf("invalid value format: %s", valueStr))
		return
	}

	// Only the threshold, wake-up and configuration registers accept writes.
	if !isRegisterWritable(addrByte) {
		s.sendError(fmt.Sprintf("register 0x%02X is not writable", addrByte))
		return
	}

	mgr := sensors.GetManager()
	if mgr == nil {
		s.sendError("sensor not initialized")
		return
	}
	if err := mgr.WriteRegister(addrByte, valueByte); err != nil {
		s.sendError(fmt.Sprintf("write error: %v", err))
		return
	}

	// Send confirmation
	resp := RegisterResponse{
		Type:      "register_data",
		Address:   addr,
		Value:     valueStr,
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "write successful",
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleReset(rawMsg map[string]interface{}) {
	mgr := sensors.GetManager()
	if mgr == nil {
		s.sendError("sensor not initialized")
		return
	}
	if err := mgr.Device().Reset(); err != nil {
		s.sendError(fmt.Sprintf("reset error: %v", err))
		return
	}

	resp := RegisterResponse{
		Type:    "status",
		Status:  "initialized",
		Message: "sensor reset and reconfigured",
	}
	s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) handleExportConfig(rawMsg map[string]interface{}) {
	mgr := sensors.GetManager()
	if mgr == nil {
		s.sendError("sensor not initialized")
		return
	}
	registers, err := mgr.ReadAllRegisters()
	if err != nil {
		s.sendError(fmt.Sprintf("export error: %v", err))
		return
	}

	// Convert to hex string map
	regMap := make(map[string]string)
	for addr, value := range registers {
		regMap[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", value)
	}

	// Create config file structure
	configFile := RegisterConfigFile{
		Version:   1,
		Timestamp: time.Now().Format(time.RFC3339),
		Registers: regMap,
	}

	// Send as download
	configJSON, _ := json.Marshal(configFile)
	rawResp := map[string]interface{}{
		"type":     "export_config",
		"message":  "config exported",
		"config":   string(configJSON),
		"filename": fmt.Sprintf("tli493d_%s_registers.json", time.Now().Format("20060102_150405")),
	}
	s.Conn.WriteJSON(rawResp)
}

func (s *RegisterDebugSession) sendRegisterMap() error {
	resp := RegisterResponse{
		Type:        "register_map",
		RegisterMap: sensors.TLI493DRegisterMap(),
	}
	return s.Conn.WriteJSON(resp)
}

func (s *RegisterDebugSession) sendError(message string) {
	resp := RegisterResponse{
		Type:    "error",
		Message: message,
	}
	s.Conn.WriteJSON(resp)
}

// HandleFieldData serves one live field sample via REST API
func HandleFieldData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	mgr := sensors.GetManager()
	if mgr == nil {
		http.Error(w, `{"error": "sensor not initialized"}`, http.StatusServiceUnavailable)
		return
	}

	bx, by, bz, tempC, err := mgr.Sample()
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error": "%v"}`, err), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]float64{
		"bx": bx, "by": by, "bz": bz, "temp_c": tempC,
	})
}

// isRegisterWritable reports whether addr is one of the host-writable
// registers (0x07-0x11, 0x13). The measurement, diagnosis and version
// registers are read-only on the wire.
func isRegisterWritable(addr byte) bool {
	return (addr >= 0x07 && addr <= 0x11) || addr == 0x13
}
