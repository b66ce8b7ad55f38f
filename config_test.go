package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetenvDefaults(t *testing.T) {
	assert.Equal(t, "fallback", getenv("AGRIFLOW_UNSET_VAR", "fallback"))

	t.Setenv("AGRIFLOW_SET_VAR", "value")
	assert.Equal(t, "value", getenv("AGRIFLOW_SET_VAR", "fallback"))
}

func TestGetenvBool(t *testing.T) {
	assert.False(t, getenvBool("AGRIFLOW_UNSET_VAR", false))
	assert.True(t, getenvBool("AGRIFLOW_UNSET_VAR", true))

	t.Setenv("AGRIFLOW_BOOL", "true")
	assert.True(t, getenvBool("AGRIFLOW_BOOL", false))

	t.Setenv("AGRIFLOW_BOOL", "0")
	assert.False(t, getenvBool("AGRIFLOW_BOOL", true))

	t.Setenv("AGRIFLOW_BOOL", "maybe")
	assert.True(t, getenvBool("AGRIFLOW_BOOL", true))
}

func TestGetenvDuration(t *testing.T) {
	assert.Equal(t, 25*time.Second, getenvDuration("AGRIFLOW_UNSET_VAR", 25*time.Second))

	t.Setenv("AGRIFLOW_TIMEOUT", "90s")
	assert.Equal(t, 90*time.Second, getenvDuration("AGRIFLOW_TIMEOUT", 25*time.Second))

	t.Setenv("AGRIFLOW_TIMEOUT", "soon")
	assert.Equal(t, 25*time.Second, getenvDuration("AGRIFLOW_TIMEOUT", 25*time.Second))
}
