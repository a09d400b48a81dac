// Package metrics defines the custom Prometheus metrics of the staff API.
// They are registered with the default registry on import; HTTP request
// metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "staff_api"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register, login and logout calls.
// Labels:
//   - operation: "register", "login", "logout"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// TokenRejectionsTotal counts requests refused by the auth middleware.
// Label:
//   - reason: "missing", "malformed_header", "invalid", "revoked"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected because of a missing or bad token.",
	},
	[]string{"reason"},
)

// ── Employee metrics ──────────────────────────────────────────────────────────

// EmployeeOperationsTotal counts admin employee operations.
// Labels:
//   - operation: "list", "get", "create", "update", "delete"
//   - result: "success" or "failure"
var EmployeeOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employee_operations_total",
		Help:      "Total number of employee management operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
