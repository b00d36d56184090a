package gpu

// BackendSelector probes for a preferred or best-available BatchedLuSolver,
// falling back to the CPU implementation when no GPU backend can be
// constructed (always true in this build, since neither CUDA nor Metal
// bindings are present).
type BackendSelector struct {
	preferred *BackendType
	config    GpuBatchConfig
}

// Auto returns a selector with no preferred backend: CreateSolver probes
// CUDA then Metal then falls back to CPU.
func Auto() *BackendSelector {
	return &BackendSelector{config: DefaultGpuBatchConfig()}
}

// PreferCUDA returns a selector that tries CUDA first.
func PreferCUDA() *BackendSelector {
	bt := BackendCUDA
	return &BackendSelector{preferred: &bt, config: DefaultGpuBatchConfig()}
}

// PreferMetal returns a selector that tries Metal first.
func PreferMetal() *BackendSelector {
	bt := BackendMetal
	return &BackendSelector{preferred: &bt, config: DefaultGpuBatchConfig()}
}

// CPUOnly returns a selector that never probes a GPU backend.
func CPUOnly() *BackendSelector {
	bt := BackendCPUFallback
	return &BackendSelector{preferred: &bt, config: DefaultGpuBatchConfig()}
}

// WithConfig overrides the thresholds passed to whichever backend gets
// constructed.
func (s *BackendSelector) WithConfig(cfg GpuBatchConfig) *BackendSelector {
	s.config = cfg
	return s
}

// CreateSolver tries the preferred backend (if set), otherwise probes CUDA
// then Metal, and falls back to CPUBatchedSolver if nothing else succeeds.
// CPUBatchedSolver's constructor never fails, so CreateSolver's error return
// is non-nil only when a specific preferred backend was requested and could
// not be constructed.
func (s *BackendSelector) CreateSolver() (BatchedLuSolver, error) {
	if s.preferred != nil {
		return s.tryCreateBackend(*s.preferred)
	}

	if solver, err := NewCUDABatchedSolver(s.config); err == nil {
		return solver, nil
	}
	if solver, err := NewMetalBatchedSolver(s.config); err == nil {
		return solver, nil
	}
	return NewCPUBatchedSolver(s.config), nil
}

func (s *BackendSelector) tryCreateBackend(bt BackendType) (BatchedLuSolver, error) {
	switch bt {
	case BackendCUDA:
		return NewCUDABatchedSolver(s.config)
	case BackendMetal:
		return NewMetalBatchedSolver(s.config)
	default:
		return NewCPUBatchedSolver(s.config), nil
	}
}
