package imaging

import (
	"errors"
	"sync"
	"testing"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
)

func TestKernelCache_Get(t *testing.T) {
	c := NewKernelCache(0)
	if c.maxLen != 32 {
		t.Errorf("default maxLen: got %d, want 32", c.maxLen)
	}

	k1, err := c.Get(2, 1.4)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	k2, err := c.Get(2, 1.4)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if k1 != k2 {
		t.Error("same parameters returned different kernels")
	}

	k3, err := c.Get(2, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if k3 == k1 {
		t.Error("different sigma returned the cached kernel")
	}
	if c.Len() != 2 {
		t.Errorf("Len: got %d, want 2", c.Len())
	}
}

func TestKernelCache_InvalidNotCached(t *testing.T) {
	c := NewKernelCache(4)
	if _, err := c.Get(-1, 1); !errors.Is(err, canny.ErrInvalidKernelParameters) {
		t.Errorf("got %v, want ErrInvalidKernelParameters", err)
	}
	if _, err := c.Get(1, 0); !errors.Is(err, canny.ErrInvalidKernelParameters) {
		t.Errorf("got %v, want ErrInvalidKernelParameters", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len: got %d, want 0", c.Len())
	}
}

func TestKernelCache_Bounded(t *testing.T) {
	c := NewKernelCache(4)
	for r := 0; r < 10; r++ {
		if _, err := c.Get(r, 1); err != nil {
			t.Fatal(err)
		}
		if c.Len() > 4 {
			t.Fatalf("after %d kernels Len = %d, want <= 4", r+1, c.Len())
		}
	}
}

func TestKernelCache_Concurrent(t *testing.T) {
	c := NewKernelCache(8)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k, err := c.Get(i%3, 1.4)
			if err != nil {
				t.Error(err)
				return
			}
			if k.Radius != i%3 {
				t.Errorf("radius: got %d, want %d", k.Radius, i%3)
			}
		}(i)
	}
	wg.Wait()
}
