package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, yaml.Unmarshal([]byte(`1h30m`), &d))
	assert.Equal(t, 90*time.Minute, d.Duration())

	require.NoError(t, yaml.Unmarshal([]byte(`""`), &d))
	assert.Equal(t, time.Duration(0), d.Duration())

	assert.Error(t, yaml.Unmarshal([]byte(`not-a-duration`), &d))
}

func TestDuration_MarshalYAML(t *testing.T) {
	t.Parallel()

	out, err := yaml.Marshal(Duration(30 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, "30s\n", string(out))
}

func TestDuration_JSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"5s"`, string(out))

	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"2m"`), &d))
	assert.Equal(t, 2*time.Minute, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Equal(t, time.Duration(0), d.Duration())
}
