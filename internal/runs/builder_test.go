package runs

import (
	"cmp"
	"reflect"
	"testing"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/random"
	"github.com/xtxerr/extsort/internal/tape"
	testutil "github.com/xtxerr/extsort/internal/testing"
)

var formationInput = []int{7, 1, 5, 6, 3, 8, 2, 10, 4, 9, 1, 3, 7, 4, 1, 2, 3}

func TestBuilder_Form(t *testing.T) {
	b, err := New[int](3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	files := tape.NewFileSet[int](2)
	n := b.Form(formationInput, files)
	if n != 4 {
		t.Fatalf("expected 4 runs, got %d", n)
	}

	want := [][][]int{
		{{1, 5, 6, 7, 8, 10}, {1, 3, 4, 7}},
		{{2, 3, 4, 9}, {1, 2, 3}},
	}
	if got := files.Contents(); !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestBuilder_Build_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		budget int
		data   []int
		want   [][]int
	}{
		{"empty", 3, nil, nil},
		{"single", 3, []int{4}, [][]int{{4}}},
		{"sorted", 2, []int{1, 2, 3, 4, 5}, [][]int{{1, 2, 3, 4, 5}}},
		{"reverse", 2, []int{5, 4, 3, 2, 1}, [][]int{{4, 5}, {2, 3}, {1}}},
		{"budget one", 1, []int{3, 1, 2}, [][]int{{3}, {1, 2}}},
		{"duplicates", 2, []int{2, 2, 2, 1}, [][]int{{2, 2, 2}, {1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New[int](tt.budget)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			built := b.Build(tt.data)

			got := make([][]int, len(built))
			for i, r := range built {
				got[i] = []int(r)
			}
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Build(%v) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestBuilder_Build_Random(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		g := random.New(seed)
		budget := g.Int(1, 16)
		data := g.Vector(g.Int(0, 500), -50, 50)

		b, err := New[int](budget)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		files := tape.NewFileSet[int](g.Int(1, 5))
		b.Form(data, files)

		if err := testutil.CheckRuns(files, budget); err != nil {
			t.Errorf("seed %d: %v", seed, err)
		}
		if err := testutil.CheckPermutation(files.Flatten(), data); err != nil {
			t.Errorf("seed %d: %v", seed, err)
		}

		lo, hi := files[0].Len(), files[0].Len()
		for _, f := range files {
			lo, hi = min(lo, f.Len()), max(hi, f.Len())
		}
		if hi-lo > 1 {
			t.Errorf("seed %d: run counts not balanced: min %d max %d", seed, lo, hi)
		}
	}
}

func TestBuilder_Stats(t *testing.T) {
	b, _ := New[int](3)
	b.Build(formationInput)

	s := b.Stats()
	if s.Runs != 4 || s.Values != len(formationInput) {
		t.Errorf("stats = %+v", s)
	}
	if s.Shortest != 3 || s.Longest != 6 {
		t.Errorf("shortest/longest = %d/%d, want 3/6", s.Shortest, s.Longest)
	}
	if got, want := s.AvgRunLength(), float64(len(formationInput))/4; got != want {
		t.Errorf("AvgRunLength() = %v, want %v", got, want)
	}

	if (Stats{}).AvgRunLength() != 0 {
		t.Error("empty stats should average 0")
	}
}

func TestNewFunc_Descending(t *testing.T) {
	b, err := NewFunc(2, func(a, c int) int { return cmp.Compare(c, a) })
	if err != nil {
		t.Fatalf("NewFunc failed: %v", err)
	}
	built := b.Build([]int{2, 3, 1})
	if len(built) != 1 || !reflect.DeepEqual([]int(built[0]), []int{3, 2, 1}) {
		t.Errorf("descending build = %v", built)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New[int](0); !errors.Is(err, errors.ErrInvalidMemoryBudget) {
		t.Errorf("expected ErrInvalidMemoryBudget, got %v", err)
	}
	if _, err := NewFunc[int](3, nil); !errors.Is(err, errors.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
}

func TestDistribute_NoFiles(t *testing.T) {
	Distribute([]tape.Run[int]{{1}}, nil)
}
