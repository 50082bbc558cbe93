package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleRetryStrategyDoubles(t *testing.T) {
	s := &SimpleRetryStrategy{MaxAttempts: 3, BaseDelayMs: 500}

	assert.Equal(t, int64(500), s.NextBackoff(0))
	assert.Equal(t, int64(1000), s.NextBackoff(1))
	assert.Equal(t, int64(2000), s.NextBackoff(2))
	assert.Equal(t, int64(-1), s.NextBackoff(3), "attempt limit reached")
}

func TestSimpleRetryStrategyCaps(t *testing.T) {
	s := &SimpleRetryStrategy{MaxAttempts: 20, BaseDelayMs: 500}
	assert.Equal(t, int64(30000), s.NextBackoff(10))
}

func TestSimpleRetryStrategyDisabled(t *testing.T) {
	s := &SimpleRetryStrategy{MaxAttempts: 0, BaseDelayMs: 500}
	assert.Equal(t, int64(-1), s.NextBackoff(0))
}
