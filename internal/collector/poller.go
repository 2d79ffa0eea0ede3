package collector

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liversettle_collector_polls_total",
		Help: "Poll cycles executed against the live platform",
	})
	pollErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liversettle_collector_poll_errors_total",
		Help: "Poll cycles that failed on at least one endpoint",
	})
	entriesCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liversettle_collector_entries_total",
		Help: "New entries buffered into the session log",
	}, []string{"kind"})
)

// Poller drives the fixed-interval collection loop for one room.
type Poller struct {
	client   *APIClient
	roomID   string
	interval time.Duration
	log      *SessionLog
}

func NewPoller(client *APIClient, roomID string, interval time.Duration, sessionLog *SessionLog) *Poller {
	return &Poller{
		client:   client,
		roomID:   roomID,
		interval: interval,
		log:      sessionLog,
	}
}

// Run polls until the context is cancelled. While the room is offline the
// loop keeps ticking and re-checking the live status; a finished stream does
// not clear the session log, so a snapshot after the stream still captures
// the full session.
func (p *Poller) Run(ctx context.Context) {
	log.Printf("[collector] polling room %s every %s", p.roomID, p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[collector] poller stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	pollsTotal.Inc()

	live, err := p.client.IsLive(ctx, p.roomID)
	if err != nil {
		pollErrorsTotal.Inc()
		log.Printf("[collector] WARNING: live status check failed: %v", err)
		return
	}
	if !live {
		return
	}

	failed := false

	if comments, err := p.client.CommentLog(ctx, p.roomID); err != nil {
		failed = true
		log.Printf("[collector] WARNING: comment log: %v", err)
	} else if added := p.log.AddComments(comments); added > 0 {
		entriesCollected.WithLabelValues("comment").Add(float64(added))
	}

	if gifts, err := p.client.GiftLog(ctx, p.roomID); err != nil {
		failed = true
		log.Printf("[collector] WARNING: gift log: %v", err)
	} else if added := p.log.AddGifts(gifts); added > 0 {
		entriesCollected.WithLabelValues("gift").Add(float64(added))
	}

	if fans, err := p.client.FanList(ctx, p.roomID); err != nil {
		failed = true
		log.Printf("[collector] WARNING: fan list: %v", err)
	} else {
		p.log.SetFans(fans)
	}

	if failed {
		pollErrorsTotal.Inc()
	}
}
