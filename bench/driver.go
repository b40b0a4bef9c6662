package bench

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/detector"
	"github.com/openfluke/maxbench/kernels"
	"github.com/openfluke/maxbench/logging"
	"github.com/openfluke/maxbench/reduce"
)

const (
	mainMethod = "main"
	printLimit = 15
)

// Main runs one invocation and returns the process exit status. Only an
// unusable invocation fails; run errors are logged.
func Main(args []string, stdout, stderr io.Writer) int {
	cfg, err := ParseArgs(args)
	if err != nil {
		fmt.Fprintln(stdout, Usage)
		return 1
	}
	log := logging.New(stderr, cfg.LogMask)
	defer log.Sync()

	if cfg.Detect {
		if err := Detect(cfg, stdout); err != nil {
			log.Errorf(mainMethod, "detect: %v", err)
		}
		return 0
	}
	if err := Run(cfg, stdout, log); err != nil {
		log.Errorf(mainMethod, "%v", err)
	}
	return 0
}

// Detect prints the device report of the class cfg.Strategy runs on. The
// sequential strategy reports the CPU class.
func Detect(cfg Config, w io.Writer) error {
	b, err := compute.Open(cfg.Backend)
	if err != nil {
		return err
	}
	class := compute.DeviceTypeCPU
	if s, err := reduce.Lookup(cfg.Strategy); err == nil {
		if c, ok := reduce.ClassOf(s); ok {
			class = c
		}
	}
	out, err := detector.DetectJSON(b, class)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Run builds the dataset, runs the strategy cfg.Repeat times and prints the
// head of the dataset. Strategy and device failures are logged and yield no
// timing; the returned error is reserved for output failures.
func Run(cfg Config, stdout io.Writer, log *logging.Logger) error {
	log.Infof(mainMethod, "type = %s", cfg.Strategy)
	log.Infof(mainMethod, "size = %d", cfg.Count)
	log.Infof(mainMethod, "RAM (KB) > %d", cfg.Count*4/1024)

	values := NewDataset(cfg.Count, cfg.Seed)
	samples := runStrategy(cfg, values, log)
	if len(samples) > 1 {
		mean, std := stat.MeanStdDev(samples, nil)
		log.Timef(mainMethod, "timeMin=%g; timeMean=%g; timeStdDev=%g;", floats.Min(samples), mean, std)
	}

	for i := 0; i < printLimit && i < len(values); i++ {
		if _, err := fmt.Fprintln(stdout, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// runStrategy returns the host seconds of every successful run.
func runStrategy(cfg Config, values []int32, log *logging.Logger) []float64 {
	s, err := reduce.Lookup(cfg.Strategy)
	if err != nil {
		log.Errorf(mainMethod, "wrong argument %q: %v", cfg.Strategy, err)
		return nil
	}
	x := &reduce.ExecContext{Log: log}
	if _, ok := reduce.ClassOf(s); ok {
		b, err := compute.Open(cfg.Backend)
		if err != nil {
			log.Errorf(mainMethod, "%v", err)
			return nil
		}
		x.Backend = b
		x.Source = kernels.Resolve(cfg.KernelPath, cfg.Backend)
	}

	var samples []float64
	for i := 0; i < cfg.Repeat; i++ {
		t, err := s.Run(x, values)
		if err != nil {
			log.Debugf(mainMethod, "run %d of %s: %v", i+1, s.Name(), err)
			continue
		}
		log.Timef(mainMethod, "time=%g;", t.Seconds())
		samples = append(samples, t.Seconds())
	}
	return samples
}
