package benchmarks

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/go-taskpool/taskpool/pool"
)

// runResult holds one throughput measurement.
type runResult struct {
	Name       string
	Workers    int
	Tasks      int
	TotalTime  time.Duration
	Throughput float64
}

// runThroughput starts a pool with the given options, pushes tasks
// trivial tasks through it and measures wall time from first submit to
// last Get.
func runThroughput(name string, workers, tasks int, opts ...pool.Option) (runResult, error) {
	p := pool.New(opts...)
	if err := p.Start(workers); err != nil {
		return runResult{}, err
	}
	defer p.Shutdown(0)

	start := time.Now()
	handles := make([]*pool.Result, 0, tasks)
	for i := range tasks {
		handles = append(handles, p.Submit(pool.TaskFunc(func() pool.Value {
			return pool.NewValue(i)
		})))
	}
	for _, h := range handles {
		if h.Get().IsNil() {
			return runResult{}, fmt.Errorf("%s: task produced no value", name)
		}
	}
	total := time.Since(start)

	return runResult{
		Name:       name,
		Workers:    workers,
		Tasks:      tasks,
		TotalTime:  total,
		Throughput: float64(tasks) / total.Seconds(),
	}, nil
}

// renderResults prints a throughput comparison table.
func renderResults(results []runResult) {
	color.Cyan("\nTHROUGHPUT COMPARISON")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Config", "Workers", "Tasks", "Total Time", "Tasks/sec")

	for _, r := range results {
		_ = table.Append(
			r.Name,
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%d", r.Tasks),
			r.TotalTime.Round(time.Millisecond).String(),
			fmt.Sprintf("%.0f", r.Throughput),
		)
	}

	if err := table.Render(); err != nil {
		color.Red("error rendering results table: %v", err)
	}
}
