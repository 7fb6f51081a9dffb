package model

// HealthStatus represents the possible health status values
type HealthStatus string

const (
	StatusUp      HealthStatus = "UP"
	StatusDown    HealthStatus = "DOWN"
	StatusUnknown HealthStatus = "UNKNOWN"
)

// ComponentHealthStatus represents the health check structure of a application component
type ComponentHealthStatus struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthResponse represents the health check response of all application
type HealthResponse struct {
	Status   HealthStatus          `json:"status"`
	Provider ComponentHealthStatus `json:"provider"`
	Redis    ComponentHealthStatus `json:"redis"`
	Events   ComponentHealthStatus `json:"events"`
	Chat     ComponentHealthStatus `json:"chat"`
}

// Unknown returns a component status with a single explanatory detail.
func Unknown(message string) ComponentHealthStatus {
	return ComponentHealthStatus{Status: StatusUnknown, Details: map[string]string{"message": message}}
}
