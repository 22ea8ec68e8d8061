package metrics

import "github.com/prometheus/client_golang/prometheus"

// RewardMetrics tracks the star economy: stars earned, stars spent, sessions and purchases.
type RewardMetrics struct {
	starsAwarded      *prometheus.CounterVec
	starsSpent        prometheus.Counter
	sessionsCompleted *prometheus.CounterVec
	itemsPurchased    *prometheus.CounterVec
}

// Star award sources.
const (
	SourceDrill   = "drill"
	SourceSession = "session"
)

// NewRewardMetrics registers the reward counters on the provided registerer.
func NewRewardMetrics(reg prometheus.Registerer) *RewardMetrics {
	if reg == nil {
		return &RewardMetrics{}
	}
	awarded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stars_awarded_total",
		Help: "Stars awarded to children, by source.",
	}, []string{"source"})
	spent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stars_spent_total",
		Help: "Stars spent in the avatar shop.",
	})
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sessions_completed_total",
		Help: "Practice sessions completed, by final status.",
	}, []string{"status"})
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "avatar_items_purchased_total",
		Help: "Avatar items purchased, by item type.",
	}, []string{"type"})
	reg.MustRegister(awarded, spent, sessions, items)
	return &RewardMetrics{
		starsAwarded:      awarded,
		starsSpent:        spent,
		sessionsCompleted: sessions,
		itemsPurchased:    items,
	}
}

func (r *RewardMetrics) AddStarsAwarded(source string, stars int) {
	if r == nil || r.starsAwarded == nil || stars <= 0 {
		return
	}
	r.starsAwarded.WithLabelValues(normalizeLabel(source)).Add(float64(stars))
}

func (r *RewardMetrics) AddStarsSpent(stars int) {
	if r == nil || r.starsSpent == nil || stars <= 0 {
		return
	}
	r.starsSpent.Add(float64(stars))
}

func (r *RewardMetrics) IncSessionCompleted(status string) {
	if r == nil || r.sessionsCompleted == nil {
		return
	}
	r.sessionsCompleted.WithLabelValues(normalizeLabel(status)).Inc()
}

func (r *RewardMetrics) IncItemPurchased(itemType string) {
	if r == nil || r.itemsPurchased == nil {
		return
	}
	r.itemsPurchased.WithLabelValues(normalizeLabel(itemType)).Inc()
}
