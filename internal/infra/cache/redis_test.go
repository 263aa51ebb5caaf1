package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitterTTLStaysWithinTenPercent(t *testing.T) {
	base := 10 * time.Minute
	for i := 0; i < 200; i++ {
		ttl := jitterTTL(base)
		assert.GreaterOrEqual(t, ttl, base-base/10)
		assert.LessOrEqual(t, ttl, base+base/10)
	}
}

func TestJitterTTLTinyBase(t *testing.T) {
	assert.Equal(t, time.Duration(5), jitterTTL(5))
}
