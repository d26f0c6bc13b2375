package position

import "testing"

func TestGenerateMidpoint(t *testing.T) {
	g := New(-2000, 2000)
	pos, speed := g.Generate(0.5, 0)
	if pos != 0 {
		t.Errorf("Generate(0.5,0) position = %v, want 0", pos)
	}
	if speed != 0 {
		t.Errorf("Generate(0.5,0) speed = %v, want 0", speed)
	}
}

func TestGenerateBounds(t *testing.T) {
	g := New(-2000, 2000)
	if pos, _ := g.Generate(0, 0); pos != -2000 {
		t.Errorf("Generate(0,0) = %v, want -2000", pos)
	}
	if pos, _ := g.Generate(1, 0); pos != 2000 {
		t.Errorf("Generate(1,0) = %v, want 2000", pos)
	}
}

func TestGenerateSpeedScaling(t *testing.T) {
	g := New(0, 1000)
	_, speed := g.Generate(0.5, 2.0)
	if speed != 2000 {
		t.Errorf("speed scaling = %v, want 2000", speed)
	}
}
