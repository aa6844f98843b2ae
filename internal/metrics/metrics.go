package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CodesIssued counts stored codes by purpose and delivery result (sent|failed).
	CodesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btech_otp_codes_issued_total",
			Help: "Total number of verification codes issued",
		},
		[]string{"purpose", "delivery"},
	)

	// CodeVerifications counts verify attempts by purpose and result (success|invalid|error).
	CodeVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btech_otp_verifications_total",
			Help: "Total number of verification code checks",
		},
		[]string{"purpose", "result"},
	)

	// CodesPurged counts expired codes removed by housekeeping.
	CodesPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "btech_otp_codes_purged_total",
			Help: "Total number of expired verification codes removed",
		},
	)

	// SignupTransitions counts signup state machine outcomes (awaiting_code|completed|session_expired|finalize_failed).
	SignupTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btech_signup_transitions_total",
			Help: "Total number of signup state transitions",
		},
		[]string{"outcome"},
	)
)
