package models

import (
	"context"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr/providers"
	"github.com/voxlink/asr-session-server/pkg/config"
	"github.com/voxlink/asr-session-server/pkg/dbmodels"
	dbservice "github.com/voxlink/asr-session-server/pkg/services/db"
	natsservice "github.com/voxlink/asr-session-server/pkg/services/nats"
	redisservice "github.com/voxlink/asr-session-server/pkg/services/redis"
)

// SessionManager is the composition root of the recognition core. It owns
// the admission gate, the session table, the reaper and the shared batch
// worker pool; request handlers only ever talk to this type.
type SessionManager struct {
	app         *config.AppConfig
	ds          *dbservice.DatabaseService
	rs          *redisservice.RedisService
	natsService *natsservice.NatsService
	backends    *providers.Backends
	logger      *logrus.Entry

	gate      *admissionGate
	table     *sessionTable
	batchPool *workerpool.WorkerPool

	// now is swappable so expiry can be tested without sleeping.
	now func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionManager(app *config.AppConfig, ds *dbservice.DatabaseService, rs *redisservice.RedisService, natsService *natsservice.NatsService, backends *providers.Backends, logger *logrus.Logger) *SessionManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionManager{
		app:         app,
		ds:          ds,
		rs:          rs,
		natsService: natsService,
		backends:    backends,
		logger:      logger.WithField("model", "session_manager"),
		gate:        newAdmissionGate(app.Recognizer.MaxConcurrentSessions),
		table:       newSessionTable(),
		batchPool:   workerpool.New(app.Recognizer.MaxBatchWorkers),
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Boot starts the background reaper. Call exactly once.
func (m *SessionManager) Boot() {
	m.wg.Add(1)
	go m.reaperLoop()
}

// Shutdown stops the reaper, aborts every remaining session and waits for
// pending batch recognitions to drain.
func (m *SessionManager) Shutdown() {
	m.cancel()
	m.wg.Wait()

	for _, id := range m.table.ids() {
		ms := m.table.remove(id)
		if ms == nil {
			continue
		}
		ms.sess.Abort()
		m.afterSessionEnded(ms, ms.sess.CurrentTranscript(), "shutdown")
		ms.releaseSlot(m.gate)
	}

	m.batchPool.StopWait()
}

// ConnectionStatus reports gate occupancy for the introspection endpoint.
type ConnectionStatus struct {
	Mode              string `json:"mode"`
	ActiveSessions    int64  `json:"active_sessions"`
	Capacity          int64  `json:"capacity"`
	Available         int64  `json:"available"`
	TotalUsageSeconds int64  `json:"total_usage_seconds"`
}

func (m *SessionManager) ConnectionStatus() *ConnectionStatus {
	active := m.gate.activeCount()
	cs := &ConnectionStatus{
		Mode:           m.app.Recognizer.Mode,
		ActiveSessions: active,
		Capacity:       m.gate.capacity,
		Available:      m.gate.capacity - active,
	}
	if m.rs != nil {
		usage, err := m.rs.SpeechGetTotalUsage()
		if err != nil {
			m.logger.WithError(err).Errorln("failed to read total speech usage")
		} else {
			cs.TotalUsageSeconds = usage
		}
	}
	return cs
}

// ListActiveSessions returns a point-in-time summary of every live session.
func (m *SessionManager) ListActiveSessions() []*SessionSnapshot {
	return m.table.snapshots(m.now())
}

// StoredTranscript looks up the persisted transcript of an ended session.
func (m *SessionManager) StoredTranscript(sessionId string) (*dbmodels.SessionTranscript, error) {
	if m.ds == nil {
		return nil, ErrStorageUnavailable
	}
	info, err := m.ds.GetSessionTranscript(sessionId)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrSessionNotFound
	}
	return info, nil
}

// StoredTranscripts pages through persisted transcripts, newest first.
func (m *SessionManager) StoredTranscripts(offset, limit uint64) ([]dbmodels.SessionTranscript, int64, error) {
	if m.ds == nil {
		return nil, 0, ErrStorageUnavailable
	}
	return m.ds.GetSessionTranscripts(offset, limit)
}

// afterSessionEnded runs the best-effort bookkeeping of a terminated
// session: usage accounting, transcript persistence and the ended event.
// Failures only log; the session outcome is already decided.
func (m *SessionManager) afterSessionEnded(ms *managedSession, transcript, reason string) {
	l := m.logger.WithField("sessionId", ms.id)

	if m.rs != nil {
		if _, err := m.rs.SpeechSessionEnded(ms.id); err != nil {
			l.WithError(err).Errorln("failed to record session usage")
		}
	}
	if m.ds != nil {
		_, err := m.ds.InsertSessionTranscript(&dbmodels.SessionTranscript{
			SessionID:  ms.id,
			Mode:       ms.mode,
			Language:   ms.profile.Language,
			Transcript: transcript,
			AudioBytes: ms.sess.BytesCollected(),
			StartedAt:  ms.createdAt.Unix(),
			EndedAt:    m.now().Unix(),
			EndReason:  reason,
		})
		if err != nil {
			l.WithError(err).Errorln("failed to persist session transcript")
		}
	}
	if m.natsService != nil {
		m.natsService.BroadcastSessionEnded(ms.id, ms.mode, reason, transcript)
	}
}
