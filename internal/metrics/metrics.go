package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	shiftCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "petcafe_console",
			Name:      "shift_created_total",
			Help:      "Count of work shifts created.",
		},
	)

	dayConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "petcafe_console",
			Name:      "day_conflict_total",
			Help:      "Count of rejected shift edits due to day conflicts.",
		},
	)

	staffConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "petcafe_console",
			Name:      "staff_conflict_total",
			Help:      "Count of detected staff double-booking conflicts.",
		},
	)

	matrixCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petcafe_console",
			Name:      "matrix_commit_total",
			Help:      "Count of schedule matrix commits by result.",
		},
		[]string{"result"},
	)

	slotEvaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petcafe_console",
			Name:      "slot_evaluated_total",
			Help:      "Count of booking slot evaluations by state.",
		},
		[]string{"state"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(shiftCreated, dayConflicts, staffConflicts, matrixCommits, slotEvaluations)
	})
}

func IncShiftCreated() {
	shiftCreated.Inc()
}

func IncDayConflict() {
	dayConflicts.Inc()
}

func IncStaffConflict() {
	staffConflicts.Inc()
}

func IncMatrixCommit(result string) {
	matrixCommits.WithLabelValues(result).Inc()
}

func IncSlotEvaluated(state string) {
	slotEvaluations.WithLabelValues(state).Inc()
}
