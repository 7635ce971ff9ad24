package dice

import (
	"slices"
	"sync"
	"testing"
)

func TestDefaultSourceRollsOne(t *testing.T) {
	RegisterSource(nil)
	if got := DefaultSource()(1, 20); got != 1 {
		t.Fatalf("DefaultSource()(1, 20) = %d, want 1", got)
	}
}

func TestRegisterSourceLastWins(t *testing.T) {
	t.Cleanup(func() { RegisterSource(nil) })

	RegisterSource(func(min, _ int) int { return min })
	RegisterSource(func(_, max int) int { return max })

	got, err := mustParse("2d6").RollDefault(1)
	if err != nil {
		t.Fatalf("RollDefault returned error: %v", err)
	}
	if !slices.Equal(got, []int{12}) {
		t.Fatalf("RollDefault = %v, want [12]", got)
	}

	RegisterSource(nil)
	got, err = mustParse("2d6").RollDefault(1)
	if err != nil {
		t.Fatalf("RollDefault returned error: %v", err)
	}
	if !slices.Equal(got, []int{2}) {
		t.Fatalf("RollDefault = %v, want [2]", got)
	}
}

func TestRollDetailNilSourceUsesDefault(t *testing.T) {
	t.Cleanup(func() { RegisterSource(nil) })
	RegisterSource(func(_, max int) int { return max })

	result, err := mustParse("1d4").RollDetail(nil, 1)
	if err != nil {
		t.Fatalf("RollDetail returned error: %v", err)
	}
	if got := result.Totals(); !slices.Equal(got, []int{4}) {
		t.Fatalf("Totals = %v, want [4]", got)
	}
}

func TestRegisterSourceConcurrentWithRolls(t *testing.T) {
	t.Cleanup(func() { RegisterSource(nil) })
	spec := mustParse("3d6")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			value := i%6 + 1
			RegisterSource(func(int, int) int { return value })
		}()
		go func() {
			defer wg.Done()
			totals, err := spec.RollDefault(1)
			if err != nil {
				t.Errorf("RollDefault returned error: %v", err)
				return
			}
			if totals[0] < 3 || totals[0] > 18 {
				t.Errorf("total = %d, want within [3, 18]", totals[0])
			}
		}()
	}
	wg.Wait()
}
