package bench

import "time"

// Result summarizes a run. Failed counts requests which got no complete response.
type Result struct {
	Succeeded     int
	Failed        int
	StatusCodes   map[int]int
	BytesReceived uint64
	Elapsed       time.Duration

	MinLatency  time.Duration
	MeanLatency time.Duration
	MaxLatency  time.Duration
}

func (r *Result) Completed() int {
	return r.Succeeded + r.Failed
}

func (r *Result) RequestsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Completed()) / r.Elapsed.Seconds()
}

// tally is owned by a single worker.
type tally struct {
	succeeded    int
	failed       int
	statusCodes  map[int]int
	bytes        uint64
	totalLatency time.Duration
	minLatency   time.Duration
	maxLatency   time.Duration
}

func (t *tally) record(statusCode int, n int64, latency time.Duration) {
	if t.statusCodes == nil {
		t.statusCodes = map[int]int{}
	}
	if t.succeeded == 0 || latency < t.minLatency {
		t.minLatency = latency
	}
	if latency > t.maxLatency {
		t.maxLatency = latency
	}
	t.succeeded++
	t.statusCodes[statusCode]++
	t.bytes += uint64(n)
	t.totalLatency += latency
}

func newResult(tallies []tally, elapsed time.Duration) *Result {
	r := &Result{
		StatusCodes: map[int]int{},
		Elapsed:     elapsed,
	}
	var totalLatency time.Duration
	for _, t := range tallies {
		if t.succeeded > 0 {
			if r.Succeeded == 0 || t.minLatency < r.MinLatency {
				r.MinLatency = t.minLatency
			}
			if t.maxLatency > r.MaxLatency {
				r.MaxLatency = t.maxLatency
			}
		}
		r.Succeeded += t.succeeded
		r.Failed += t.failed
		r.BytesReceived += t.bytes
		totalLatency += t.totalLatency
		for code, count := range t.statusCodes {
			r.StatusCodes[code] += count
		}
	}
	if r.Succeeded > 0 {
		r.MeanLatency = totalLatency / time.Duration(r.Succeeded)
	}
	return r
}
