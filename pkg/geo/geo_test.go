package geo

import (
	"math"
	"testing"

	"capsuledb/pkg/models"
)

func TestDistanceKM_SamePoint(t *testing.T) {
	p := models.GeoLocation{Latitude: 48.8566, Longitude: 2.3522}
	if d := DistanceKM(p, p); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestDistanceKM_Symmetric(t *testing.T) {
	a := models.GeoLocation{Latitude: 48.8566, Longitude: 2.3522}
	b := models.GeoLocation{Latitude: 51.5074, Longitude: -0.1278}
	d1 := DistanceKM(a, b)
	d2 := DistanceKM(b, a)
	if math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistanceKM_ParisLondon(t *testing.T) {
	paris := models.GeoLocation{Latitude: 48.8566, Longitude: 2.3522}
	london := models.GeoLocation{Latitude: 51.5074, Longitude: -0.1278}
	d := DistanceKM(paris, london)
	// great-circle distance is roughly 343 km
	if d < 335 || d > 350 {
		t.Fatalf("unexpected Paris-London distance: %v km", d)
	}
}

func TestDistanceKM_OneDegreeAtEquator(t *testing.T) {
	a := models.GeoLocation{Latitude: 0, Longitude: 0}
	b := models.GeoLocation{Latitude: 0, Longitude: 1}
	d := DistanceKM(a, b)
	// one degree of longitude at the equator is ~111.2 km
	if math.Abs(d-111.19) > 0.5 {
		t.Fatalf("unexpected equator distance: %v km", d)
	}
}
