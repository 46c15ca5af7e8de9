package viewport

import (
	"testing"

	"github.com/slidereel/slidereel/internal/geometry"
)

func TestTransformApply(t *testing.T) {
	tests := []struct {
		name      string
		transform Transform
		point     geometry.Point
		want      geometry.Point
	}{
		{
			name:      "pan and zoom",
			transform: Transform{PanX: 2, PanY: 3, Zoom: 2},
			point:     geometry.Point{X: 10, Y: 10},
			want:      geometry.Point{X: 16, Y: 14},
		},
		{
			name:      "identity",
			transform: Identity(),
			point:     geometry.Point{X: 7, Y: 9},
			want:      geometry.Point{X: 7, Y: 9},
		},
		{
			name:      "pan only",
			transform: Transform{PanX: 5, PanY: 5, Zoom: 1},
			point:     geometry.Point{X: 10, Y: 10},
			want:      geometry.Point{X: 5, Y: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.transform.Apply(tt.point); got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTrackerLastWriteWins(t *testing.T) {
	tr := NewTracker()
	tr.Apply("slide-1", Transform{PanX: 1, PanY: 1, Zoom: 1})
	tr.Apply("slide-1", Transform{PanX: 2, PanY: 3, Zoom: 2})

	got := tr.Transform("slide-1")
	if got.PanX != 2 || got.PanY != 3 || got.Zoom != 2 {
		t.Fatalf("expected last applied transform, got %+v", got)
	}
}

func TestTrackerPerSlide(t *testing.T) {
	tr := NewTracker()
	tr.Apply("slide-1", Transform{PanX: 1, PanY: 0, Zoom: 2})

	if got := tr.Transform("slide-2"); got != Identity() {
		t.Fatalf("expected identity for untouched slide, got %+v", got)
	}
	if got := tr.Transform("slide-1"); got.Zoom != 2 {
		t.Fatalf("expected slide-1 transform to persist, got %+v", got)
	}
}

func TestTrackerNormalizesZoom(t *testing.T) {
	tr := NewTracker()
	tr.Apply("slide-1", Transform{PanX: 0, PanY: 0, Zoom: 0})
	if got := tr.Transform("slide-1"); got.Zoom != 1 {
		t.Fatalf("expected non-positive zoom to normalize to 1, got %f", got.Zoom)
	}
}

func TestVisibleRect(t *testing.T) {
	tr := Transform{PanX: 10, PanY: 20, Zoom: 2}
	r := tr.VisibleRect(100, 50)
	want := geometry.Rect{MinX: 10, MinY: 20, MaxX: 60, MaxY: 45}
	if r != want {
		t.Fatalf("VisibleRect() = %+v, want %+v", r, want)
	}
}
