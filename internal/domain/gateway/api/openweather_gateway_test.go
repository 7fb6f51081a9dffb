package api

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"weather-bot/pkg/http"
)

func newTestGateway(t *testing.T, handler nethttp.HandlerFunc, breaker BreakerConfig) WeatherGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenWeatherGateway(OpenWeatherConfig{
		BaseURL: server.URL,
		APIKey:  "secret",
		Breaker: breaker,
	}, http.ClientOptions{ReadTimeout: time.Second})
}

func TestGetCurrentWeather(t *testing.T) {
	gateway := newTestGateway(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		query := r.URL.Query()
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if query.Get("q") != "Берлин" || query.Get("appid") != "secret" || query.Get("units") != "metric" || query.Get("lang") != "ru" {
			t.Errorf("query = %v", query)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Berlin",
			"coord": {"lat": 52.52, "lon": 13.41},
			"weather": [{"id": 803, "main": "Clouds", "description": "облачно с прояснениями"}],
			"main": {"temp": 18.4, "feels_like": 17.6},
			"visibility": 10000,
			"rain": {"3h": 0.5},
			"sys": {"sunrise": 1686966000, "sunset": 1687026600},
			"timezone": 7200
		}`))
	}, BreakerConfig{})

	current, err := gateway.GetCurrentWeather(context.Background(), "Берлин")
	if err != nil {
		t.Fatalf("GetCurrentWeather: %v", err)
	}
	if current.Coord.Lat != 52.52 || current.Weather[0].Description != "облачно с прояснениями" {
		t.Fatalf("current = %+v", current)
	}
	if current.Visibility == nil || *current.Visibility != 10000 {
		t.Fatalf("visibility = %v", current.Visibility)
	}
	if current.Rain == nil || current.Rain.ThreeHours == nil || *current.Rain.ThreeHours != 0.5 {
		t.Fatalf("rain = %+v", current.Rain)
	}
}

func TestGetForecast(t *testing.T) {
	gateway := newTestGateway(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/data/2.5/forecast" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cnt": 2, "list": [
			{"dt": 1, "main": {"temp": 12}, "weather": [{"description": "ясно"}]},
			{"dt": 2, "main": {"temp": 15}, "weather": [{"description": "дождь"}]}
		]}`))
	}, BreakerConfig{})

	forecast, err := gateway.GetForecast(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("GetForecast: %v", err)
	}
	if len(forecast.List) != 2 || forecast.List[1].Main.Temp != 15 {
		t.Fatalf("forecast = %+v", forecast)
	}
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	gateway := newTestGateway(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}, BreakerConfig{ConsecutiveFailures: 1})

	for i := 0; i < 3; i++ {
		if _, err := gateway.GetCurrentWeather(context.Background(), "Атлантида"); !errors.Is(err, ErrPlaceNotFound) {
			t.Fatalf("attempt %d: err = %v, want ErrPlaceNotFound", i, err)
		}
	}
	if state := gateway.Health().State; state != "closed" {
		t.Fatalf("breaker state = %s", state)
	}
}

func TestServerErrorsOpenBreaker(t *testing.T) {
	var calls atomic.Int32
	gateway := newTestGateway(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"cod":500,"message":"internal error"}`))
	}, BreakerConfig{ConsecutiveFailures: 2, Timeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := gateway.GetCurrentWeather(context.Background(), "Berlin")
		if err == nil || errors.Is(err, ErrPlaceNotFound) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}
	if state := gateway.Health().State; state != "open" {
		t.Fatalf("breaker state = %s, want open", state)
	}

	if _, err := gateway.GetForecast(context.Background(), "Berlin"); err == nil {
		t.Fatal("expected breaker error")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("provider called %d times, want 2", got)
	}
}
