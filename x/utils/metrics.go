package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts every processed instruction by
// program and result code, and observes how long the execution took.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ custody.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator. Collectors are registered with the
// given registerer, which must not already hold collectors of the same name.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "custody",
		Name:      "instructions_total",
		Help:      "Total instructions processed, by program, phase and result code.",
	}, []string{"program", "phase", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "custody",
		Name:      "instruction_duration_seconds",
		Help:      "Duration of instruction processing in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"program", "phase"})

	for _, c := range []prometheus.Collector{calls, duration} {
		if err := reg.Register(c); err != nil {
			return Metrics{}, errors.Wrap(errors.ErrDuplicate, err.Error())
		}
	}
	return Metrics{calls: calls, duration: duration}, nil
}

// Check records the result of the call
func (m Metrics) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the result of the call
func (m Metrics) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(phase string, tx custody.Tx, start time.Time, err error) {
	program := "unknown"
	if ins, ierr := tx.GetInstruction(); ierr == nil && ins != nil {
		program = ins.ProgramAddress().String()
	}
	code, _ := errors.ABCIInfo(err, false)
	m.calls.WithLabelValues(program, phase, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(program, phase).Observe(time.Since(start).Seconds())
}
