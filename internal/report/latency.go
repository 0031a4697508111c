package report

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/readme-health/internal/domain"
)

// Latency summarizes how long link probes took.
type Latency struct {
	Samples int
	Mean    time.Duration
	Median  time.Duration
	P95     time.Duration
	Max     time.Duration
}

// LinkLatency computes latency statistics over records that carry a duration.
func LinkLatency(records []domain.LinkRecord) Latency {
	data := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		if r.Elapsed > 0 {
			data = append(data, r.Elapsed.Seconds())
		}
	}
	if len(data) == 0 {
		return Latency{}
	}

	// Errors only occur on empty input, ruled out above.
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	p95, _ := stats.Percentile(data, 95)
	maxSec, _ := stats.Max(data)

	return Latency{
		Samples: len(data),
		Mean:    seconds(mean),
		Median:  seconds(median),
		P95:     seconds(p95),
		Max:     seconds(maxSec),
	}
}

func (l Latency) String() string {
	if l.Samples == 0 {
		return "no samples"
	}
	return fmt.Sprintf("mean %s, median %s, p95 %s, max %s (%d samples)",
		round(l.Mean), round(l.Median), round(l.P95), round(l.Max), l.Samples)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
