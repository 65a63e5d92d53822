package architecture_test

import (
	"testing"

	"github.com/mstrYoda/go-arctest/pkg/arctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mod = `github\.com/Nazarious-ucu/weather-updates`

func TestLayeredArchitecture(t *testing.T) {
	arch, err := arctest.New("../")
	require.NoError(t, err)

	err = arch.ParsePackages()
	require.NoError(t, err, "failed to parse packages")

	domainLayer, err := arctest.NewLayer("domain",
		`^`+mod+`/internal/models`,
		`^`+mod+`/pkg/messaging`,
	)
	require.NoError(t, err)

	infraLayer, err := arctest.NewLayer("infrastructure",
		`^`+mod+`/internal/(repository|emailer|relay|metrics|config|services/weather|services/cache|services/logger)`,
		`^`+mod+`/pkg/logger`,
	)
	require.NoError(t, err)

	appLayer, err := arctest.NewLayer("application",
		`^`+mod+`/internal/(notifier|services/email|services/subscriptions)`)
	require.NoError(t, err)

	userLayer, err := arctest.NewLayer("presentation",
		`^`+mod+`/internal/(handlers|middleware)`)
	require.NoError(t, err)

	layered := arch.NewLayeredArchitecture(domainLayer, infraLayer, appLayer, userLayer)

	err = infraLayer.DependsOnLayer(domainLayer)
	assert.NoError(t, err)

	err = appLayer.DependsOnLayer(domainLayer)
	assert.NoError(t, err)

	err = appLayer.DependsOnLayer(infraLayer)
	assert.NoError(t, err)

	err = userLayer.DependsOnLayer(domainLayer)
	assert.NoError(t, err)

	err = userLayer.DependsOnLayer(appLayer)
	assert.NoError(t, err)

	err = userLayer.DependsOnLayer(infraLayer)
	assert.NoError(t, err)

	violations, err := layered.Check()
	require.NoError(t, err)

	for _, v := range violations {
		assert.Failf(t, "architecture violation", "%s", v)
	}
}
