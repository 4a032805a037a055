package apimodel

// GroupStatus describes one rotation group for the control API.
type GroupStatus struct {
	Name        string         `json:"name"`
	State       string         `json:"state"`
	ActiveIndex int            `json:"active_index"`
	SlotCount   int            `json:"slot_count"`
	Sources     []SourceStatus `json:"sources"`
}

// SourceStatus describes one content source of a group.
type SourceStatus struct {
	Identity    string `json:"identity"`
	LastFetchAt string `json:"last_fetch_at,omitempty"`
	Refreshing  bool   `json:"refreshing"`
	HasPayload  bool   `json:"has_payload"`
}
