package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"123e4567-e89b-42d3-a456-426614174000",
		"0188D0F2-7B8C-4B4A-8A2B-6B8B8B8B8B8B", // uppercase
	}
	invalid := []string{
		"123e4567e89b42d3a456426614174000",     // missing dashes
		"g23e4567-e89b-42d3-a456-426614174000", // invalid hex
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidLatitudeLongitude(t *testing.T) {
	cases := []struct {
		lat, lng float64
		wantLat  bool
		wantLng  bool
	}{
		{0, 0, true, true},
		{90, 180, true, true},
		{-90, -180, true, true},
		{90.1, 180.1, false, false},
		{-91, -181, false, false},
	}
	for _, c := range cases {
		if got := IsValidLatitude(c.lat); got != c.wantLat {
			t.Errorf("IsValidLatitude(%v) = %v, want %v", c.lat, got, c.wantLat)
		}
		if got := IsValidLongitude(c.lng); got != c.wantLng {
			t.Errorf("IsValidLongitude(%v) = %v, want %v", c.lng, got, c.wantLng)
		}
	}
}

