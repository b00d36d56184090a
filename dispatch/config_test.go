package dispatch_test

import (
	"testing"

	"github.com/rjwalters/spicier-go/dispatch"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := dispatch.DefaultConfig()
	require.Equal(t, dispatch.BackendCPU, cfg.Backend.Kind)
	require.Equal(t, 1000, cfg.CPUThreshold)
	require.Equal(t, 10_000, cfg.GMRESThreshold)
}

func TestUseGPUDecision(t *testing.T) {
	t.Parallel()

	cpuCfg := dispatch.New(dispatch.CPU())
	require.False(t, cpuCfg.UseGPU(500))
	require.False(t, cpuCfg.UseGPU(5000))

	cudaCfg := dispatch.New(dispatch.CUDA(0), dispatch.WithCPUThreshold(1000))
	require.False(t, cudaCfg.UseGPU(500))
	require.True(t, cudaCfg.UseGPU(1500))
}

func TestUseGMRESDecision(t *testing.T) {
	t.Parallel()

	cfg := dispatch.DefaultConfig()
	require.False(t, cfg.UseGMRES(5000))
	require.True(t, cfg.UseGMRES(15000))

	luCfg := cfg
	luCfg.Strategy = dispatch.StrategyDirectLU
	require.False(t, luCfg.UseGMRES(15000))

	gmresCfg := cfg
	gmresCfg.Strategy = dispatch.StrategyIterativeGMRES
	require.True(t, gmresCfg.UseGMRES(500))
}

func TestDescribeOutput(t *testing.T) {
	t.Parallel()

	cfg := dispatch.New(dispatch.CUDA(0),
		dispatch.WithCPUThreshold(1000),
		dispatch.WithGMRESThreshold(5000),
	)

	require.Equal(t, "Direct LU with CPU", cfg.Describe(500))
	require.Equal(t, "Direct LU with CUDA", cfg.Describe(2000))
	require.Equal(t, "GMRES with CUDA", cfg.Describe(10000))
}

func TestStrategyFromName(t *testing.T) {
	t.Parallel()

	s, ok := dispatch.StrategyFromName("auto")
	require.True(t, ok)
	require.Equal(t, dispatch.StrategyAuto, s)

	s, ok = dispatch.StrategyFromName("LU")
	require.True(t, ok)
	require.Equal(t, dispatch.StrategyDirectLU, s)

	s, ok = dispatch.StrategyFromName("gmres")
	require.True(t, ok)
	require.Equal(t, dispatch.StrategyIterativeGMRES, s)

	_, ok = dispatch.StrategyFromName("invalid")
	require.False(t, ok)
}
