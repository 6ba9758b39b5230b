package imaging

import (
	"sync"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
)

type kernelKey struct {
	radius int
	sigma  float64
}

// KernelCache hands out Gaussian kernels keyed by (radius, sigma). A kernel
// is built the first time a configuration is seen and shared, read-only, by
// every later run with the same parameters.
type KernelCache struct {
	mu      sync.RWMutex
	kernels map[kernelKey]*canny.Kernel
	maxLen  int
}

// NewKernelCache creates a cache holding at most maxLen kernels. A
// non-positive maxLen defaults to 32.
func NewKernelCache(maxLen int) *KernelCache {
	if maxLen <= 0 {
		maxLen = 32
	}
	return &KernelCache{
		kernels: make(map[kernelKey]*canny.Kernel),
		maxLen:  maxLen,
	}
}

// Get returns the kernel for radius and sigma, building it if needed.
// Invalid parameters are reported by canny.BuildKernel and never cached.
func (c *KernelCache) Get(radius int, sigma float64) (*canny.Kernel, error) {
	key := kernelKey{radius: radius, sigma: sigma}

	c.mu.RLock()
	if k, ok := c.kernels[key]; ok {
		c.mu.RUnlock()
		return k, nil
	}
	c.mu.RUnlock()

	k, err := canny.BuildKernel(radius, sigma)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.kernels) >= c.maxLen {
		// Drop half the entries.
		n := 0
		for key := range c.kernels {
			delete(c.kernels, key)
			n++
			if n >= c.maxLen/2 {
				break
			}
		}
	}
	c.kernels[key] = k
	c.mu.Unlock()

	return k, nil
}

// Len returns the number of cached kernels.
func (c *KernelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.kernels)
}
