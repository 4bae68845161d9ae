package gridworld_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sfneuman.com/rldemos/environment"
)

func TestDrawWritesImage(t *testing.T) {
	world := newTestWorld(t)

	filename := filepath.Join(t.TempDir(), "grid.png")
	if err := world.Draw(filename, 32); err != nil {
		t.Fatalf("draw: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("image file is empty")
	}
}

func TestDrawInvalidCellSize(t *testing.T) {
	world := newTestWorld(t)

	err := world.Draw(filepath.Join(t.TempDir(), "grid.png"), 0)
	if !errors.Is(err, environment.ErrInvalidArgument) {
		t.Errorf("cell size 0: got %v, want ErrInvalidArgument", err)
	}
}
