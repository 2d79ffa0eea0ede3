package collector

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

var (
	snapshotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liversettle_collector_snapshots_total",
		Help: "Snapshot cycles completed",
	})
	uploadErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liversettle_collector_upload_errors_total",
		Help: "Snapshot files that failed to upload",
	})
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Snapshotter periodically writes the session log to CSV files and uploads
// them. Each snapshot rewrites the whole file so the remote copy is always a
// complete view of the session so far.
type Snapshotter struct {
	log      *SessionLog
	roomID   string
	dir      string
	uploader Uploader // nil disables uploads
	cron     *cron.Cron
}

func NewSnapshotter(sessionLog *SessionLog, roomID, dir string, uploader Uploader) *Snapshotter {
	return &Snapshotter{
		log:      sessionLog,
		roomID:   roomID,
		dir:      dir,
		uploader: uploader,
	}
}

// Start schedules snapshots with the given cron spec (e.g. "@every 5m").
func (s *Snapshotter) Start(spec string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", s.dir, err)
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, s.SnapshotNow); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	s.cron.Start()
	log.Printf("[collector] snapshot schedule %q, dir %s", spec, s.dir)
	return nil
}

// Stop halts the schedule and takes one final snapshot so nothing buffered
// since the last tick is lost.
func (s *Snapshotter) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.SnapshotNow()
}

// SnapshotNow writes and uploads all three logs once.
func (s *Snapshotter) SnapshotNow() {
	files := []struct {
		name string
		rows [][]string
	}{
		{fmt.Sprintf("room_%s_comments.csv", s.roomID), s.log.CommentRows()},
		{fmt.Sprintf("room_%s_gifts.csv", s.roomID), s.log.GiftRows()},
		{fmt.Sprintf("room_%s_fans.csv", s.roomID), s.log.FanRows()},
	}

	for _, f := range files {
		data, err := encodeCSV(f.rows)
		if err != nil {
			log.Printf("[collector] WARNING: encode %s: %v", f.name, err)
			continue
		}
		path := filepath.Join(s.dir, f.name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Printf("[collector] WARNING: write %s: %v", path, err)
			continue
		}
		if s.uploader != nil {
			if err := s.uploader.Upload(f.name, data); err != nil {
				uploadErrorsTotal.Inc()
				log.Printf("[collector] WARNING: upload %s: %v", f.name, err)
			}
		}
	}

	snapshotsTotal.Inc()
	comments, gifts, fans := s.log.Counts()
	log.Printf("[collector] snapshot: %d comments, %d gifts, %d fans", comments, gifts, fans)
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
