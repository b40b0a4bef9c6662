// Package kernels provides the maxInt kernel source for each compute backend
// and the native body the host backend runs for it.
package kernels

import (
	"embed"
	"fmt"
	"os"
)

// EntryPoint is the kernel every session extracts.
const EntryPoint = "maxInt"

//go:embed maxint.cl maxint.wgsl
var embedded embed.FS

// Source yields kernel source text.
type Source interface {
	Load() (string, error)
	Origin() string
}

// File reads source from a path on disk.
type File string

func (f File) Load() (string, error) {
	b, err := os.ReadFile(string(f))
	if err != nil {
		return "", fmt.Errorf("read kernel source: %w", err)
	}
	return string(b), nil
}

func (f File) Origin() string { return string(f) }

// Embedded reads one of the sources compiled into the binary.
type Embedded string

func (e Embedded) Load() (string, error) {
	b, err := embedded.ReadFile(string(e))
	if err != nil {
		return "", fmt.Errorf("embedded kernel source: %w", err)
	}
	return string(b), nil
}

func (e Embedded) Origin() string { return "embedded:" + string(e) }

var defaults = map[string]Embedded{
	"host": "maxint.cl",
	"wgpu": "maxint.wgsl",
}

// Default returns the built-in source for a backend, falling back to the
// OpenCL C source for unknown names.
func Default(backend string) Source {
	if e, ok := defaults[backend]; ok {
		return e
	}
	return defaults["host"]
}

// Resolve picks the file at path when one is given, else the backend
// default.
func Resolve(path, backend string) Source {
	if path != "" {
		return File(path)
	}
	return Default(backend)
}
