package geo

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestDistanceIdentity(t *testing.T) {
	points := []Point{
		{0, 0},
		{24.7136, 46.6753},  // Riyadh
		{-33.8688, 151.209}, // Sydney
		{89.9, -179.9},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]Point{
		{{0, 0}, {0, 0.0045}},
		{{24.7136, 46.6753}, {21.4858, 39.1925}}, // Riyadh <-> Jeddah
		{{-10, 20}, {30, -40}},
	}
	for _, pair := range pairs {
		ab := Distance(pair[0], pair[1])
		ba := Distance(pair[1], pair[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Riyadh to Jeddah is roughly 845 km great-circle.
	d := Distance(Point{24.7136, 46.6753}, Point{21.4858, 39.1925})
	if d < 830000 || d > 860000 {
		t.Errorf("Riyadh-Jeddah distance = %v m, want ~845 km", d)
	}

	// 0.0045 degrees of longitude at the equator is ~500 m.
	d = Distance(Point{0, 0}, Point{0, 0.0045})
	if d < 495 || d > 505 {
		t.Errorf("equator 0.0045deg distance = %v m, want ~500 m", d)
	}
}

func TestValidateWorkLocationBoundary(t *testing.T) {
	site := Point{0, 0}
	fix := Fix{Latitude: 0, Longitude: 0.0045}
	d := Distance(site, fix.Point())

	// Boundary is inclusive: exactly at the radius is valid.
	if got := ValidateWorkLocation(site, fix, d); !got.Valid {
		t.Errorf("ValidateWorkLocation at exact radius: Valid = false, want true")
	}
	if got := ValidateWorkLocation(site, fix, d-1); got.Valid {
		t.Errorf("ValidateWorkLocation 1m inside the distance: Valid = true, want false")
	}

	got := ValidateWorkLocation(site, fix, 1000)
	if !got.Valid || got.MaxDistance != 1000 {
		t.Errorf("ValidateWorkLocation(1000m) = %+v, want valid with max 1000", got)
	}
	if math.Abs(got.Distance-d) > 1e-9 {
		t.Errorf("ValidateWorkLocation distance = %v, want %v", got.Distance, d)
	}
}

func TestValidateWorkLocationDefaultRadius(t *testing.T) {
	got := ValidateWorkLocation(Point{0, 0}, Fix{Latitude: 0, Longitude: 0}, 0)
	if got.MaxDistance != DefaultMaxDistanceMeters {
		t.Errorf("default max distance = %v, want %v", got.MaxDistance, DefaultMaxDistanceMeters)
	}
	if !got.Valid {
		t.Error("identical site and fix should always be valid")
	}
}

func TestFixQuality(t *testing.T) {
	cases := []struct {
		accuracy float64
		want     Quality
	}{
		{0, QualityExcellent},
		{10, QualityExcellent},
		{11, QualityGood},
		{25, QualityGood},
		{26, QualityFair},
		{50, QualityFair},
		{51, QualityPoor},
		{5000, QualityPoor},
	}
	for _, c := range cases {
		if got := FixQuality(c.accuracy); got != c.want {
			t.Errorf("FixQuality(%v) = %q, want %q", c.accuracy, got, c.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	msgs := map[error]bool{
		ErrPermissionDenied:    true,
		ErrPositionUnavailable: true,
		ErrTimeout:             true,
		ErrUnsupported:         true,
	}
	seen := map[string]error{}
	for err := range msgs {
		msg := UserMessage(err)
		if msg == "" {
			t.Errorf("UserMessage(%v) is empty", err)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("UserMessage for %v and %v collide: %q", err, prev, msg)
		}
		seen[msg] = err
	}
	if UserMessage(nil) != "" {
		t.Error("UserMessage(nil) should be empty")
	}
}

type stubSource struct {
	fix Fix
	err error
}

func (s *stubSource) CurrentFix(ctx context.Context, opts Options) (Fix, error) {
	return s.fix, s.err
}

func (s *stubSource) Watch(ctx context.Context, opts Options, fn func(Fix)) (func(), error) {
	return func() {}, nil
}

func TestCaptureWithoutSource(t *testing.T) {
	fix, err := Capture(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("Capture with no source returned error %v, want nil", err)
	}
	if fix != nil {
		t.Fatalf("Capture with no source returned fix %+v, want absence", fix)
	}
}

func TestCapture(t *testing.T) {
	src := &stubSource{fix: Fix{Latitude: 1, Longitude: 2, Accuracy: 5}}
	fix, err := Capture(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("Capture returned error %v", err)
	}
	if fix == nil || fix.Latitude != 1 || fix.Longitude != 2 {
		t.Fatalf("Capture returned %+v, want the source fix", fix)
	}

	src = &stubSource{err: ErrPositionUnavailable}
	fix, err = Capture(context.Background(), src, Options{})
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Fatalf("Capture error = %v, want ErrPositionUnavailable", err)
	}
	if fix != nil {
		t.Fatalf("Capture returned fix %+v alongside an error", fix)
	}
}
