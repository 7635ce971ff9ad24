package random

import (
	"errors"
	"testing"
)

func TestNewSeedIsNonNegative(t *testing.T) {
	for range 32 {
		seed, err := NewSeed()
		if err != nil {
			t.Fatalf("NewSeed returned error: %v", err)
		}
		if seed < 0 {
			t.Fatalf("seed = %d, want non-negative", seed)
		}
	}
}

func TestResolveSeedUsesRequested(t *testing.T) {
	requested := int64(42)
	called := false
	seed, source, err := ResolveSeed(&requested, func() (int64, error) {
		called = true
		return 7, nil
	})
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 42 || source != SeedSourceClient {
		t.Fatalf("ResolveSeed = (%d, %q), want (42, %q)", seed, source, SeedSourceClient)
	}
	if called {
		t.Fatal("expected seed generator not to be called")
	}
}

func TestResolveSeedGenerates(t *testing.T) {
	seed, source, err := ResolveSeed(nil, func() (int64, error) { return 7, nil })
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 7 || source != SeedSourceGenerated {
		t.Fatalf("ResolveSeed = (%d, %q), want (7, %q)", seed, source, SeedSourceGenerated)
	}
}

func TestResolveSeedRejectsNegative(t *testing.T) {
	requested := int64(-1)
	_, _, err := ResolveSeed(&requested, NewSeed)
	if !errors.Is(err, ErrSeedOutOfRange) {
		t.Fatalf("ResolveSeed error = %v, want %v", err, ErrSeedOutOfRange)
	}
}

func TestResolveSeedPropagatesGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := ResolveSeed(nil, func() (int64, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("ResolveSeed error = %v, want %v", err, boom)
	}
}

func TestResolveSeedRequiresGenerator(t *testing.T) {
	if _, _, err := ResolveSeed(nil, nil); err == nil {
		t.Fatal("expected error for missing generator")
	}
}
