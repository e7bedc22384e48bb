package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfStatsInterval = time.Second * 30

var perfMeter = otel.Meter("dealwatch.runtime")
var cpuPercentGauge, _ = perfMeter.Float64Gauge("process_cpu_percent")
var heapAllocGauge, _ = perfMeter.Int64Gauge("heap_alloc_mb")
var liveObjectsGauge, _ = perfMeter.Int64Gauge("heap_live_objects")
var goroutineGauge, _ = perfMeter.Int64Gauge("goroutine_count")

// InstrumentPerfStats samples process-level runtime stats on a fixed
// interval until ctx is canceled. Long scrape cycles make memory
// creep visible here before it becomes an OOM.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				recordPerfStats(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func recordPerfStats(ctx context.Context) {
	usage, err := cpu.Percent(time.Minute, false)
	if err == nil && len(usage) > 0 {
		cpuPercentGauge.Record(ctx, usage[0])
	} else if err != nil {
		slog.Warn("failed to read cpu usage", "err", err)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	heapAllocGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
}
