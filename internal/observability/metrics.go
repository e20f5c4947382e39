package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	usersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "store",
		Name:      "users_created_total",
		Help:      "Number of users persisted since process start.",
	})
	exercisesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "store",
		Name:      "exercises_created_total",
		Help:      "Number of exercises persisted since process start.",
	})
	exercisePersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_tracker",
		Subsystem: "store",
		Name:      "last_exercise_date_timestamp_seconds",
		Help:      "Unix timestamp of the most recently persisted exercise date.",
	})
)

func init() {
	prometheus.MustRegister(usersCreatedTotal, exercisesCreatedTotal, exercisePersistGauge)
}

// RecordUserCreated increments the user creation counter.
func RecordUserCreated() {
	usersCreatedTotal.Inc()
}

// RecordExercisePersisted counts a persisted exercise and updates the date
// watermark gauge.
func RecordExercisePersisted(ts time.Time) {
	exercisesCreatedTotal.Inc()
	if ts.IsZero() {
		return
	}
	exercisePersistGauge.Set(float64(ts.Unix()))
}
