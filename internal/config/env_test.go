package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString_UsesEnvWhenSet(t *testing.T) {
	t.Setenv("COREHUB_TEST_STRING", "from-env")
	assert.Equal(t, "from-env", ParseString("COREHUB_TEST_STRING", "fallback"))
}

func TestParseString_FallsBackWhenUnset(t *testing.T) {
	assert.Equal(t, "fallback", ParseString("COREHUB_TEST_STRING_UNSET", "fallback"))
}

func TestParseInt_InvalidValueFallsBack(t *testing.T) {
	t.Setenv("COREHUB_TEST_INT", "not-a-number")
	assert.Equal(t, 42, ParseInt("COREHUB_TEST_INT", 42))
}

func TestParseInt_ValidValueParsed(t *testing.T) {
	t.Setenv("COREHUB_TEST_INT", "99")
	assert.Equal(t, 99, ParseInt("COREHUB_TEST_INT", 42))
}

func TestParseBool_InvalidValueFallsBack(t *testing.T) {
	t.Setenv("COREHUB_TEST_BOOL", "maybe")
	assert.Equal(t, true, ParseBool("COREHUB_TEST_BOOL", true))
}

func TestParseBool_ValidValueParsed(t *testing.T) {
	t.Setenv("COREHUB_TEST_BOOL", "false")
	assert.Equal(t, false, ParseBool("COREHUB_TEST_BOOL", true))
}

func TestParseDuration_ValidValueParsed(t *testing.T) {
	t.Setenv("COREHUB_TEST_DURATION", "5s")
	assert.Equal(t, 5*time.Second, ParseDuration("COREHUB_TEST_DURATION", time.Second))
}

func TestParseDuration_InvalidValueFallsBack(t *testing.T) {
	t.Setenv("COREHUB_TEST_DURATION", "not-a-duration")
	assert.Equal(t, time.Second, ParseDuration("COREHUB_TEST_DURATION", time.Second))
}
