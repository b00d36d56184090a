// Package dispatch selects among compute backends (CPU, CUDA, Metal) and
// solver strategies (direct LU, iterative GMRES) based on system size and
// configured thresholds, per the §4.5 size/hardware dispatcher contract.
package dispatch

import "fmt"

// BackendKind enumerates the compute backends a Config can target.
type BackendKind int

const (
	// BackendCPU runs entirely on the host CPU via linsolve/gmres.
	BackendCPU BackendKind = iota
	// BackendCUDA targets an NVIDIA GPU through the gpu package's CUDA backend.
	BackendCUDA
	// BackendMetal targets an Apple GPU through the gpu package's Metal backend.
	BackendMetal
)

// ComputeBackend identifies a compute backend and, for GPU backends, which
// device/adapter to use.
type ComputeBackend struct {
	Kind         BackendKind
	DeviceID     int    // meaningful for BackendCUDA
	AdapterName  string // meaningful for BackendMetal
}

// CPU returns the CPU-only backend selector.
func CPU() ComputeBackend { return ComputeBackend{Kind: BackendCPU} }

// CUDA returns a CUDA backend selector for the given device index.
func CUDA(deviceID int) ComputeBackend { return ComputeBackend{Kind: BackendCUDA, DeviceID: deviceID} }

// Metal returns a Metal backend selector for the named adapter.
func Metal(adapterName string) ComputeBackend {
	return ComputeBackend{Kind: BackendMetal, AdapterName: adapterName}
}

// Name returns the backend's human-readable name, used by Describe.
func (b ComputeBackend) Name() string {
	switch b.Kind {
	case BackendCUDA:
		return "CUDA"
	case BackendMetal:
		return "Metal"
	default:
		return "CPU"
	}
}

func (b ComputeBackend) String() string {
	switch b.Kind {
	case BackendCUDA:
		return fmt.Sprintf("CUDA(device=%d)", b.DeviceID)
	case BackendMetal:
		return fmt.Sprintf("Metal(adapter=%s)", b.AdapterName)
	default:
		return "CPU"
	}
}
