package schedule

import (
	"context"
	"reflect"
	"testing"

	"weather-bot/internal/domain/model"
)

type countingHealth struct {
	calls    int
	response model.HealthResponse
}

func (c *countingHealth) CheckHealth(context.Context) model.HealthResponse {
	c.calls++
	return c.response
}

func TestDownComponents(t *testing.T) {
	response := model.HealthResponse{
		Status:   model.StatusDown,
		Provider: model.ComponentHealthStatus{Status: model.StatusDown},
		Redis:    model.ComponentHealthStatus{Status: model.StatusUp},
		Events:   model.ComponentHealthStatus{Status: model.StatusUnknown},
		Chat:     model.ComponentHealthStatus{Status: model.StatusDown},
	}
	if got := downComponents(response); !reflect.DeepEqual(got, []string{"provider", "chat"}) {
		t.Fatalf("downComponents = %v", got)
	}
}

func TestExecuteScheduledTask(t *testing.T) {
	useCase := &countingHealth{response: model.HealthResponse{Status: model.StatusDown}}
	scheduler := NewHealthScheduler(useCase, "")

	scheduler.ExecuteScheduledTask()
	if useCase.calls != 1 {
		t.Fatalf("calls = %d", useCase.calls)
	}
}

func TestInitRejectsBadExpression(t *testing.T) {
	scheduler := NewHealthScheduler(&countingHealth{}, "not a cron")
	if err := scheduler.InitHealthScheduleTasks(); err == nil {
		scheduler.Stop()
		t.Fatal("expected error for invalid cron expression")
	}
}
