package field

// Sample is one decoded magnetic-field measurement as published over MQTT.
// Components and norm are in millitesla, angles in radians, time is RFC3339.
type Sample struct {
	Bx      float64 `json:"bx"`
	By      float64 `json:"by"`
	Bz      float64 `json:"bz"`
	Norm    float64 `json:"norm"`
	Azimuth float64 `json:"azimuth"`
	Polar   float64 `json:"polar"`
	TempC   float64 `json:"temp_c"`
	Time    string  `json:"time"`
}

// Diagnosis is the 7-byte diagnosis snapshot (registers 0x00-0x06),
// hex-encoded per byte for the diag topic.
type Diagnosis struct {
	Registers []string `json:"registers"`
	Time      string   `json:"time"`
}

// Source is anything that can provide samples over time: the hardware
// producer, the simulated producer, or a replay source.
type Source interface {
	Next() (Sample, error)
}
