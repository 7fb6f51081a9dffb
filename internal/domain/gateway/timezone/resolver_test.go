package timezone

import "testing"

type recordingFinder struct {
	lng, lat float64
	name     string
}

func (f *recordingFinder) GetTimezoneName(lng float64, lat float64) string {
	f.lng, f.lat = lng, lat
	return f.name
}

func TestResolvePassesLongitudeFirst(t *testing.T) {
	f := &recordingFinder{name: "Europe/Berlin"}
	resolver := &tzfResolver{finder: f}

	name, ok := resolver.Resolve(52.52, 13.41)
	if !ok || name != "Europe/Berlin" {
		t.Fatalf("Resolve = %q, %v", name, ok)
	}
	if f.lng != 13.41 || f.lat != 52.52 {
		t.Fatalf("finder got lng=%v lat=%v", f.lng, f.lat)
	}
}

func TestResolveUnknownPoint(t *testing.T) {
	resolver := &tzfResolver{finder: &recordingFinder{}}
	if name, ok := resolver.Resolve(0, -160); ok || name != "" {
		t.Fatalf("Resolve = %q, %v", name, ok)
	}
}

func TestStaticResolver(t *testing.T) {
	if _, ok := (StaticResolver{}).Resolve(1, 2); ok {
		t.Fatal("empty static resolver resolved")
	}
	if name, ok := (StaticResolver{Name: "UTC"}).Resolve(1, 2); !ok || name != "UTC" {
		t.Fatalf("Resolve = %q, %v", name, ok)
	}
}
