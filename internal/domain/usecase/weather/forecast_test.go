package weather

import (
	"testing"

	"weather-bot/internal/domain/entity"
)

func samplesOf(statuses ...string) []entity.ForecastSample {
	samples := make([]entity.ForecastSample, len(statuses))
	for i, status := range statuses {
		samples[i] = entity.ForecastSample{DetailedStatus: status}
	}
	return samples
}

func TestDominantStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{name: "single", statuses: []string{"снег"}, want: "снег"},
		{name: "majority", statuses: []string{"дождь", "ясно", "ясно"}, want: "ясно"},
		{name: "tie keeps first seen", statuses: []string{"дождь", "ясно", "ясно", "дождь"}, want: "дождь"},
		{name: "tie order follows input", statuses: []string{"ясно", "дождь", "дождь", "ясно"}, want: "ясно"},
		{name: "three way tie", statuses: []string{"гроза", "снег", "ясно"}, want: "гроза"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dominantStatus(samplesOf(tt.statuses...)); got != tt.want {
				t.Fatalf("dominantStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdjectiveLookup(t *testing.T) {
	table := normaliseAdjectives(map[string]string{"Ясно": "ясная", "Облачно С Прояснениями": "облачная с прояснениями"})

	if got := adjectiveFor("ЯСНО", table); got != "ясная" {
		t.Errorf("upper case status = %q", got)
	}
	if got := adjectiveFor("облачно с прояснениями", table); got != "облачная с прояснениями" {
		t.Errorf("normalised key = %q", got)
	}
	if got := adjectiveFor("Туман", table); got != "Туман" {
		t.Errorf("miss = %q, want raw status", got)
	}
}

func TestDefaultAdjectivesWhenNil(t *testing.T) {
	if got := adjectiveFor("небольшой дождь", normaliseAdjectives(nil)); got != "дождливая" {
		t.Fatalf("adjective = %q", got)
	}
}
