package model

// Simulation carries the season lifecycle coordinates embedded in every
// stream event.
type Simulation struct {
	Season int `json:"season"`
	Day    int `json:"day"`
	Phase  int `json:"phase"`
}

// GamesUpdate is the games portion of a stream event.
type GamesUpdate struct {
	Sim              Simulation `json:"sim"`
	Schedule         []Game     `json:"schedule"`
	TomorrowSchedule []Game     `json:"tomorrowSchedule"`
}

// EventValue wraps the nested value document of a stream event.
type EventValue struct {
	Games GamesUpdate `json:"games"`
}

// StreamEvent is one parsed message from the push feed.
type StreamEvent struct {
	Value EventValue `json:"value"`
}
