// Package simd detects the process's SIMD capability once at init time and
// exposes dot-product kernels GMRES's Arnoldi inner loop dispatches through.
// Availability is a process-wide immutable property after first detection:
// callers read Detected() through every hot-path inner product; there is no
// mutation and no locking, mirroring the "global float/SIMD capability"
// design note's detect-once contract.
//
// This module has no cgo or assembly kernels; the capability dispatch still
// selects among differently-unrolled pure-Go loops so the Detected() value
// genuinely changes which code path runs, with actual vectorization left to
// the Go compiler's auto-vectorizer. See DESIGN.md for why no true AVX
// intrinsics are used.
package simd

import "golang.org/x/sys/cpu"

// Capability enumerates the detected SIMD tier, widest first in preference.
type Capability int

const (
	// Scalar is the portable fallback: a single accumulator, no unrolling.
	Scalar Capability = iota
	// AVX2 unrolls by 4 to mirror a 256-bit float64 lane width.
	AVX2
	// AVX512 unrolls by 8 to mirror a 512-bit float64 lane width.
	AVX512
)

func (c Capability) String() string {
	switch c {
	case AVX512:
		return "avx512"
	case AVX2:
		return "avx2"
	default:
		return "scalar"
	}
}

var detected = detectCapability()

func detectCapability() Capability {
	if cpu.X86.HasAVX512F {
		return AVX512
	}
	if cpu.X86.HasAVX2 {
		return AVX2
	}

	return Scalar
}

// Detected returns the process-wide SIMD capability tier, fixed at init.
func Detected() Capability { return detected }

// DotReal computes the real inner product sum(a[i]*b[i]) using the kernel
// selected by Detected(). Panics if len(b) < len(a) (entries of b past
// len(a) are ignored), matching the teacher's
// convention that hot-path kernels trust their callers on shape (GMRES
// validates vector lengths once at the outer API boundary).
func DotReal(a, b []float64) float64 {
	switch detected {
	case AVX512:
		return dotReal8(a, b)
	case AVX2:
		return dotReal4(a, b)
	default:
		return dotRealScalar(a, b)
	}
}

func dotRealScalar(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}

func dotReal4(a, b []float64) float64 {
	n := len(a)
	var s0, s1, s2, s3 float64
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	sum := s0 + s1 + s2 + s3
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}

	return sum
}

func dotReal8(a, b []float64) float64 {
	n := len(a)
	var s [8]float64
	i := 0
	for ; i+8 <= n; i += 8 {
		for k := 0; k < 8; k++ {
			s[k] += a[i+k] * b[i+k]
		}
	}
	var sum float64
	for k := 0; k < 8; k++ {
		sum += s[k]
	}
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}

	return sum
}

// DotConj computes the Hermitian inner product sum(conj(a[i])*b[i]), used
// by complex GMRES's Arnoldi/Givens machinery. Kernel selection mirrors
// DotReal.
func DotConj(a, b []complex128) complex128 {
	switch detected {
	case AVX512, AVX2:
		return dotConjUnrolled(a, b)
	default:
		return dotConjScalar(a, b)
	}
}

func dotConjScalar(a, b []complex128) complex128 {
	var sum complex128
	for i := range a {
		sum += complexConj(a[i]) * b[i]
	}

	return sum
}

func dotConjUnrolled(a, b []complex128) complex128 {
	n := len(a)
	var s0, s1 complex128
	i := 0
	for ; i+2 <= n; i += 2 {
		s0 += complexConj(a[i]) * b[i]
		s1 += complexConj(a[i+1]) * b[i+1]
	}
	sum := s0 + s1
	for ; i < n; i++ {
		sum += complexConj(a[i]) * b[i]
	}

	return sum
}

func complexConj(z complex128) complex128 {
	return complex(real(z), -imag(z))
}
