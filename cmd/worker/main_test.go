package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobRunTimeout_StaysBelowLockTTL(t *testing.T) {
	ttl := time.Hour
	timeout := jobRunTimeout(ttl)
	assert.Less(t, timeout, ttl)
	assert.Equal(t, 59*time.Minute, timeout)
}

func TestJobRunTimeout_ShortTTLKeepsProportionalMargin(t *testing.T) {
	ttl := 5 * time.Minute
	timeout := jobRunTimeout(ttl)
	assert.Less(t, timeout, ttl)
	assert.Equal(t, ttl-ttl/10, timeout)
	assert.Positive(t, timeout)
}
