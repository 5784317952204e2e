// Package metrics instruments a mmap.System with Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	mmap "github.com/shixiongfei/mmap-win32"
)

// System is a mmap.System which counts and times every call of the wrapped one.
type System struct {
	sys      mmap.System
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	views    prometheus.Gauge
}

// Instrument wraps sys and registers its collectors with reg.
func Instrument(sys mmap.System, reg prometheus.Registerer) (*System, error) {
	s := &System{
		sys: sys,
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmap_syscalls_total",
				Help: "Total number of memory mapping system calls",
			},
			[]string{"call", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mmap_syscall_duration_seconds",
				Help:    "Duration of memory mapping system calls in seconds",
				Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2, 0.1},
			},
			[]string{"call"},
		),
		views: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mmap_open_views",
			Help: "Number of views mapped and not yet unmapped",
		}),
	}
	for _, c := range []prometheus.Collector{s.calls, s.duration, s.views} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *System) observe(call string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.calls.WithLabelValues(call, result).Inc()
	s.duration.WithLabelValues(call).Observe(time.Since(start).Seconds())
}

func (s *System) File(fd int) (h mmap.Handle, err error) {
	defer func(start time.Time) { s.observe("File", start, err) }(time.Now())
	return s.sys.File(fd)
}

func (s *System) CreateMapping(file mmap.Handle, prot mmap.PageProtection, maxSize uint64) (h mmap.Handle, err error) {
	defer func(start time.Time) { s.observe("CreateMapping", start, err) }(time.Now())
	return s.sys.CreateMapping(file, prot, maxSize)
}

func (s *System) MapView(mapping mmap.Handle, access mmap.ViewAccess, offset uint64, length uintptr) (addr uintptr, err error) {
	defer func(start time.Time) { s.observe("MapView", start, err) }(time.Now())
	addr, err = s.sys.MapView(mapping, access, offset, length)
	if err == nil {
		s.views.Inc()
	}
	return addr, err
}

func (s *System) CloseHandle(h mmap.Handle) (err error) {
	defer func(start time.Time) { s.observe("CloseHandle", start, err) }(time.Now())
	return s.sys.CloseHandle(h)
}

func (s *System) UnmapView(addr, length uintptr) (err error) {
	defer func(start time.Time) { s.observe("UnmapView", start, err) }(time.Now())
	if err = s.sys.UnmapView(addr, length); err == nil {
		s.views.Dec()
	}
	return err
}

func (s *System) FlushView(addr, length uintptr) (err error) {
	defer func(start time.Time) { s.observe("FlushView", start, err) }(time.Now())
	return s.sys.FlushView(addr, length)
}

func (s *System) Protect(addr, length uintptr, prot mmap.PageProtection) (old mmap.PageProtection, err error) {
	defer func(start time.Time) { s.observe("Protect", start, err) }(time.Now())
	return s.sys.Protect(addr, length, prot)
}

func (s *System) Lock(addr, length uintptr) (err error) {
	defer func(start time.Time) { s.observe("Lock", start, err) }(time.Now())
	return s.sys.Lock(addr, length)
}

func (s *System) Unlock(addr, length uintptr) (err error) {
	defer func(start time.Time) { s.observe("Unlock", start, err) }(time.Now())
	return s.sys.Unlock(addr, length)
}
