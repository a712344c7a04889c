package storage

const (
	MachineIdle    = "Idle"
	MachineActive  = "Active"
	MachineOffline = "Offline"
)

type Machine struct {
	ID          int64  `json:"id"`
	MachineCode string `json:"machine_code"`
	Name        string `json:"name"`
	Process     string `json:"process"`
	ShiftStart  string `json:"shift_start"`
	ShiftEnd    string `json:"shift_end"`
	WorkingDays string `json:"working_days"`
	IsAvailable bool   `json:"is_available"`
}
