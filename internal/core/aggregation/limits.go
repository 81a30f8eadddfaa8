package aggregation

// Limits caps the ranked views of a summary. Zero means no cap.
type Limits struct {
	Clients            int `koanf:"clients"`
	Defects            int `koanf:"defects"`
	EfficiencyClients  int `koanf:"efficiency_clients"`
	VolumeClients      int `koanf:"volume_clients"`
	ClientsPerManager  int `koanf:"clients_per_manager"`
	ManagersPerRegion  int `koanf:"managers_per_region"`
	RegionsPerManager  int `koanf:"regions_per_manager"`
	ManagersPerPurpose int `koanf:"managers_per_purpose"`
	RegionsPerPurpose  int `koanf:"regions_per_purpose"`
	Items              int `koanf:"items"`
}

// DefaultLimits are the dashboard's historical caps.
func DefaultLimits() Limits {
	return Limits{
		Clients:            50,
		Defects:            30,
		EfficiencyClients:  20,
		VolumeClients:      20,
		ClientsPerManager:  10,
		ManagersPerRegion:  5,
		RegionsPerManager:  10,
		ManagersPerPurpose: 20,
		RegionsPerPurpose:  20,
		Items:              50,
	}
}
