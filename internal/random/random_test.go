package random

import (
	"reflect"
	"testing"
)

func TestGenerator_Reproducible(t *testing.T) {
	a := New(42).Vector(100, -1000, 1000)
	b := New(42).Vector(100, -1000, 1000)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed must produce the same vector")
	}

	c := New(43).Vector(100, -1000, 1000)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical vectors")
	}
}

func TestGenerator_Bounds(t *testing.T) {
	g := New(7)
	for i := 0; i < 1000; i++ {
		v := g.Int(-3, 3)
		if v < -3 || v > 3 {
			t.Fatalf("Int(-3, 3) = %d out of range", v)
		}
	}
	if v := g.Int(5, 5); v != 5 {
		t.Errorf("Int(5, 5) = %d", v)
	}
}

func TestDerive(t *testing.T) {
	a := Derive(1, 2, 3).Vector(10, 0, 1<<20)
	b := Derive(1, 2, 3).Vector(10, 0, 1<<20)
	c := Derive(1, 3, 2).Vector(10, 0, 1<<20)

	if !reflect.DeepEqual(a, b) {
		t.Error("Derive must be deterministic")
	}
	if reflect.DeepEqual(a, c) {
		t.Error("key order should matter")
	}
}

func TestGenerator_Runs(t *testing.T) {
	files := New(1).Runs(10, 3, 4, 0, 100)

	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	if files.RunCount() != 10 {
		t.Errorf("expected 10 runs, got %d", files.RunCount())
	}
	if files[0].Len() != 4 || files[1].Len() != 3 || files[2].Len() != 3 {
		t.Errorf("runs not dealt round-robin: %d %d %d", files[0].Len(), files[1].Len(), files[2].Len())
	}

	for _, f := range files {
		for _, r := range f.Runs() {
			if len(r) < 1 || len(r) > 4 {
				t.Errorf("run length %d out of [1, 4]", len(r))
			}
			for i := 1; i < len(r); i++ {
				if r[i] < r[i-1] {
					t.Errorf("run not ascending: %v", r)
				}
			}
		}
	}

	unit := New(1).UnitRuns(5, 2, 0, 10)
	if unit.ValueCount() != 5 {
		t.Errorf("unit runs should hold one value each, got %d values", unit.ValueCount())
	}
}
