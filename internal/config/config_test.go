package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("INTROSPECT_TEST_KEY", "value")
	t.Setenv("INTROSPECT_TEST_EMPTY", "")

	assert.Equal(t, "value", GetEnv("INTROSPECT_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("INTROSPECT_TEST_EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("INTROSPECT_TEST_MISSING", "fallback"))
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("INTROSPECT_TEST_INT", "12")
	t.Setenv("INTROSPECT_TEST_BAD_INT", "twelve")

	assert.Equal(t, 12, GetIntEnv("INTROSPECT_TEST_INT", 3))
	assert.Equal(t, 3, GetIntEnv("INTROSPECT_TEST_BAD_INT", 3))
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("INTROSPECT_TEST_DURATION", "90s")
	t.Setenv("INTROSPECT_TEST_BAD_DURATION", "soon")

	assert.Equal(t, 90*time.Second, GetDurationEnv("INTROSPECT_TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetDurationEnv("INTROSPECT_TEST_BAD_DURATION", time.Minute))
}

func TestEngineProgramID(t *testing.T) {
	t.Setenv("ENGINE_PROGRAM_ID", "")
	assert.Equal(t, DefaultEngineProgramID, EngineProgramID())

	t.Setenv("ENGINE_PROGRAM_ID", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", EngineProgramID())
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	assert.True(t, IsProduction())

	t.Setenv("ENV", "staging")
	assert.False(t, IsProduction())
}
