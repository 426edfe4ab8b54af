package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtpGeneratorRange(t *testing.T) {
	g := NewOtpGenerator()
	for i := 0; i < 1000; i++ {
		code, _ := g.Generate(time.Minute)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestOtpGeneratorExpiry(t *testing.T) {
	g := NewOtpGenerator()
	before := time.Now().UTC()
	_, expiresAt := g.Generate(20 * time.Minute)
	after := time.Now().UTC()

	assert.False(t, expiresAt.Before(before.Add(20*time.Minute)))
	assert.False(t, expiresAt.After(after.Add(20*time.Minute)))
}
