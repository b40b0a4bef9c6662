package host

import (
	"fmt"
	"sync"

	"github.com/openfluke/maxbench/compute"
)

// launch runs every work-group of an NDRange. Groups are split into
// contiguous chunks, one chunk per worker goroutine; each worker owns its
// local-memory scratch and reuses it across its groups.
func (q *Queue) launch(nk NativeKernel, args []any, global, local []int) error {
	numGroups := make([]int, len(global))
	total := 1
	for d := range global {
		numGroups[d] = global[d] / local[d]
		total *= numGroups[d]
	}

	workers := q.dev.workers
	if total < workers {
		workers = total
	}
	perWorker := (total + workers - 1) / workers

	var (
		wg      sync.WaitGroup
		faultMu sync.Mutex
		fault   error
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		first := w * perWorker
		last := first + perWorker
		if last > total {
			last = total
		}
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					faultMu.Lock()
					if fault == nil {
						fault = fmt.Errorf("%v", r)
					}
					faultMu.Unlock()
				}
			}()
			wargs := workerArgs(args)
			for linear := first; linear < last; linear++ {
				nk.RunGroup(Group{
					ID:        linearToND(linear, numGroups),
					Size:      local,
					NumGroups: numGroups,
				}, wargs)
			}
		}()
	}
	wg.Wait()
	return fault
}

// workerArgs replaces local-memory sizes with private scratch slices.
func workerArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if n, ok := a.(compute.LocalMem); ok {
			out[i] = make([]int32, int(n)/4)
			continue
		}
		out[i] = a
	}
	return out
}

func linearToND(linear int, dims []int) []int {
	id := make([]int, len(dims))
	for d := range dims {
		id[d] = linear % dims[d]
		linear /= dims[d]
	}
	return id
}
