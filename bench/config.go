// Package bench is the benchmark driver: it parses the invocation, builds
// the dataset, runs the selected reduction strategy and reports timings.
package bench

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/openfluke/maxbench/compute/host"
	"github.com/openfluke/maxbench/logging"
	"github.com/openfluke/maxbench/reduce"
)

// Environment overrides for the optional flags.
const (
	EnvKernelPath = "MAXBENCH_KERNEL_PATH"
	EnvBackend    = "MAXBENCH_BACKEND"
)

// Usage is printed when the invocation is incomplete or malformed.
const Usage = "usage: maxbench all|debug|normal|time-only|error-only sequential|cpu-accelerator|gpu-accelerator <size> " +
	"[-kernel path] [-backend host|wgpu] [-repeat n] [-seed n] [-detect]"

// ErrUsage reports an invocation that cannot run.
var ErrUsage = errors.New("invalid invocation")

// Config is the immutable run configuration built by ParseArgs.
type Config struct {
	LogMask    logging.Mask
	Strategy   string // canonical name when known, else as given
	Count      int
	KernelPath string
	Backend    string
	Repeat     int
	Seed       int64 // 0 picks a time based seed
	Detect     bool
}

// ParseArgs reads the three positionals and the optional flags after them.
func ParseArgs(args []string) (Config, error) {
	if len(args) < 3 {
		return Config{}, fmt.Errorf("%w: need 3 arguments, got %d", ErrUsage, len(args))
	}
	cfg := Config{
		LogMask:  logging.ParseMask(args[0]),
		Strategy: reduce.Canonical(args[1]),
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[2]))
	if err != nil {
		return Config{}, fmt.Errorf("%w: size %q: %v", ErrUsage, args[2], err)
	}
	if n < 1 {
		return Config{}, fmt.Errorf("%w: size must be at least 1, got %d", ErrUsage, n)
	}
	cfg.Count = n

	fs := flag.NewFlagSet("maxbench", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.KernelPath, "kernel", os.Getenv(EnvKernelPath), "kernel source file (default: built-in source for the backend)")
	fs.StringVar(&cfg.Backend, "backend", envOr(EnvBackend, host.Name), "compute backend: host|wgpu")
	fs.IntVar(&cfg.Repeat, "repeat", 1, "runs of the strategy on the same dataset")
	fs.Int64Var(&cfg.Seed, "seed", 0, "dataset seed (0: time based)")
	fs.BoolVar(&cfg.Detect, "detect", false, "print the device report as JSON and exit")
	if err := fs.Parse(args[3:]); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	if cfg.Repeat < 1 {
		return Config{}, fmt.Errorf("%w: repeat must be at least 1, got %d", ErrUsage, cfg.Repeat)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
