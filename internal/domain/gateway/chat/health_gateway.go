package chat

import (
	"strconv"
	"sync"

	"weather-bot/internal/domain/model"
	"weather-bot/pkg/telegram"
)

// Worker is anything that reports telegram worker health
type Worker interface {
	HealthCheck() telegram.HealthCheck
}

type HealthGateway interface {
	Health() model.ComponentHealthStatus
	RegisterWorker(name string, worker Worker)
	UnregisterWorker(name string)
}

// ChatHealthGateway aggregates the health of the registered update workers.
// In webhook mode there are no workers and the component reports UP.
type ChatHealthGateway struct {
	mode    string
	workers map[string]Worker
	mutex   sync.RWMutex
}

func NewChatHealthGateway(mode string) *ChatHealthGateway {
	return &ChatHealthGateway{
		mode:    mode,
		workers: make(map[string]Worker),
	}
}

func (gateway *ChatHealthGateway) RegisterWorker(name string, worker Worker) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	gateway.workers[name] = worker
}

func (gateway *ChatHealthGateway) UnregisterWorker(name string) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	delete(gateway.workers, name)
}

func (gateway *ChatHealthGateway) Health() model.ComponentHealthStatus {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	if len(gateway.workers) == 0 {
		if gateway.mode == "webhook" {
			return model.ComponentHealthStatus{
				Status:  model.StatusUp,
				Details: map[string]string{"mode": gateway.mode},
			}
		}
		return model.ComponentHealthStatus{
			Status: model.StatusUnknown,
			Details: map[string]string{
				"mode":          gateway.mode,
				"message":       "No workers registered",
				"workers_count": "0",
			},
		}
	}

	overallStatus := model.StatusUp
	details := map[string]string{"mode": gateway.mode}
	workersUp := 0
	workersDown := 0

	for name, worker := range gateway.workers {
		workerHealth := worker.HealthCheck()

		switch workerHealth.Status {
		case telegram.StatusUp:
			workersUp++
			details[name+"_status"] = "UP"
		case telegram.StatusUnknown:
			// not polled yet, or standing by for the lease
			details[name+"_status"] = "UNKNOWN"
		default:
			workersDown++
			overallStatus = model.StatusDown
			details[name+"_status"] = "DOWN"
		}

		for key, value := range workerHealth.Details {
			details[name+"_"+key] = value
		}
	}

	details["workers_total"] = strconv.Itoa(len(gateway.workers))
	details["workers_up"] = strconv.Itoa(workersUp)
	details["workers_down"] = strconv.Itoa(workersDown)

	return model.ComponentHealthStatus{
		Status:  overallStatus,
		Details: details,
	}
}
