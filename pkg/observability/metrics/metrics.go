package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	predictionsStarted   atomic.Int64
	predictionsCompleted atomic.Int64
	predictionsFailed    atomic.Int64
	predictionsRejected  atomic.Int64
	persistenceFailures  atomic.Int64
)

func PredictionStarted()   { predictionsStarted.Add(1) }
func PredictionCompleted() { predictionsCompleted.Add(1) }
func PredictionFailed()    { predictionsFailed.Add(1) }
func PredictionRejected()  { predictionsRejected.Add(1) }
func PersistenceFailed()   { persistenceFailures.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP wellmate_predictions_started_total Number of prediction requests accepted into the pipeline.\n")
	fmt.Fprintf(w, "# TYPE wellmate_predictions_started_total counter\n")
	fmt.Fprintf(w, "wellmate_predictions_started_total %d\n", predictionsStarted.Load())

	fmt.Fprintf(w, "# HELP wellmate_predictions_completed_total Number of predictions that produced a score.\n")
	fmt.Fprintf(w, "# TYPE wellmate_predictions_completed_total counter\n")
	fmt.Fprintf(w, "wellmate_predictions_completed_total %d\n", predictionsCompleted.Load())

	fmt.Fprintf(w, "# HELP wellmate_predictions_failed_total Number of predictions that failed before producing a score.\n")
	fmt.Fprintf(w, "# TYPE wellmate_predictions_failed_total counter\n")
	fmt.Fprintf(w, "wellmate_predictions_failed_total %d\n", predictionsFailed.Load())

	fmt.Fprintf(w, "# HELP wellmate_predictions_rejected_total Number of predictions rejected because one was already in flight.\n")
	fmt.Fprintf(w, "# TYPE wellmate_predictions_rejected_total counter\n")
	fmt.Fprintf(w, "wellmate_predictions_rejected_total %d\n", predictionsRejected.Load())

	fmt.Fprintf(w, "# HELP wellmate_persistence_failures_total Number of result writes rejected by the store.\n")
	fmt.Fprintf(w, "# TYPE wellmate_persistence_failures_total counter\n")
	fmt.Fprintf(w, "wellmate_persistence_failures_total %d\n", persistenceFailures.Load())
}
