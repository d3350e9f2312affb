// Package metrics defines and registers all custom Prometheus metrics for the
// Startin' API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at import time via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "startin"

// ── Signup / OTP metrics ──────────────────────────────────────────────────────

// SignupsStartedTotal counts step-one signup submissions that led to an OTP
// being issued.
// Label:
//   - role: "student" or "company"
var SignupsStartedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_started_total",
		Help:      "Total number of signup submissions that triggered an OTP.",
	},
	[]string{"role"},
)

// OTPVerificationsTotal counts OTP verification attempts.
// Labels:
//   - role:   "student" or "company"
//   - result: "ok", "invalid", "expired"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of OTP verification attempts, by result.",
	},
	[]string{"role", "result"},
)

// OTPResendRejectedTotal counts resend attempts rejected by the server-side
// cooldown window.
var OTPResendRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_resend_rejected_total",
		Help:      "Total number of OTP resends rejected while on cooldown.",
	},
)

// PasswordResetsTotal counts completed reset-password submissions.
// Labels:
//   - role:   "student" or "company"
//   - result: "ok" or "failed"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset submissions, by result.",
	},
	[]string{"role", "result"},
)

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - role:   "student", "company", or "admin"
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsPostedTotal counts newly posted jobs.
var JobsPostedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_posted_total",
		Help:      "Total number of job postings created.",
	},
)

// ApplicationsTotal counts application submissions and status changes.
// Label:
//   - status: resulting status ("pending" on submission)
var ApplicationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_total",
		Help:      "Total number of application submissions and status updates.",
	},
	[]string{"status"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailQueueDepth tracks the number of messages waiting in each mail worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)

// MailSendFailuresTotal counts messages the relay refused.
var MailSendFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_send_failures_total",
		Help:      "Total number of outbound emails that failed to send.",
	},
)
