// Command maxbench times the maximum of a random int32 dataset, either with
// a sequential scan or with the maxInt kernel on a CPU- or GPU-class compute
// device.
//
//	maxbench <all|debug|normal|time-only|error-only> <sequential|cpu-accelerator|gpu-accelerator> <size> [flags]
package main

import (
	"os"

	"github.com/openfluke/maxbench/bench"
	_ "github.com/openfluke/maxbench/gpu"
)

func main() {
	os.Exit(bench.Main(os.Args[1:], os.Stdout, os.Stderr))
}
