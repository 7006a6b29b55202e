// internal/handlers/http/metrics_handler.go
// Handler untuk metrics Prometheus (registry default, termasuk kolektor dca_*)

package http

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var MetricsHandler = promhttp.Handler()
