package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// commentOutcomes counts comment submissions by pipeline outcome.
	commentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyquote_comment_submissions_total",
			Help: "Comment submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// reportOutcomes counts report submissions by outcome.
	reportOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyquote_report_submissions_total",
			Help: "Report submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// moderationActions counts admin actions and whether they changed a row.
	moderationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyquote_moderation_actions_total",
			Help: "Moderation actions by action and effect.",
		},
		[]string{"action", "changed"},
	)

	// trackedEvents counts accepted usage events.
	trackedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyquote_track_events_total",
			Help: "Usage events accepted by the track endpoint.",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(commentOutcomes, reportOutcomes, moderationActions, trackedEvents)
}

// outcome maps a pipeline error to a bounded label value.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrHoneypot):
		return "honeypot"
	case errors.Is(err, ErrChallengeFailed):
		return "challenge_failed"
	case errors.Is(err, ErrTooManyLinks):
		return "too_many_links"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrDuplicateContent):
		return "duplicate"
	default:
		return "error"
	}
}
