// Package player runs playback sessions: the pre-roll ad with its skip
// countdown, the embedded video, and the post-roll screen.
//
// A session moves through three steps:
//
//	pre   → the pre-roll ad is showing; Skip is refused until the countdown ends
//	video → the YouTube embed is playing (or the invalid-link fallback)
//	post  → the "liked it?" screen with an optional post-roll ad
//
// The countdown is derived from the clock, so nothing ticks while nobody is
// watching. A background sweeper removes sessions that have not been touched
// for the TTL.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/catalog"
	"github.com/sakif/luzplay/internal/model"
	"github.com/sakif/luzplay/internal/youtube"
)

// Step is where a session is in the ad → video → post flow.
type Step string

const (
	StepPre   Step = "pre"
	StepVideo Step = "video"
	StepPost  Step = "post"
)

const (
	DefaultCountdown     = 5 * time.Second
	DefaultTTL           = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Catalog is the part of the catalog store the player needs.
type Catalog interface {
	Video(id string) (model.Video, bool)
	Ads() []model.Ad
	IncrementViews(ctx context.Context, id string) (int64, bool, error)
}

// Config tunes a Manager. Zero values take the defaults above.
type Config struct {
	Countdown     time.Duration
	TTL           time.Duration
	SweepInterval time.Duration
	Now           func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Countdown <= 0 {
		c.Countdown = DefaultCountdown
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Session is what a client sees of a playback session.
type Session struct {
	ID        string            `json:"id"`
	Video     model.Video       `json:"video"`
	Source    youtube.Reference `json:"source"`
	Step      Step              `json:"step"`
	PreRoll   *model.Ad         `json:"preRoll,omitempty"`
	PostRoll  *model.Ad         `json:"postRoll,omitempty"`
	Countdown int               `json:"countdown"` // whole seconds until Skip is allowed
	CanSkip   bool              `json:"canSkip"`
	ViewCount int64             `json:"viewCount"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

type session struct {
	id        string
	video     model.Video
	source    youtube.Reference
	step      Step
	preRoll   *model.Ad
	postRoll  *model.Ad
	skipAt    time.Time
	views     int64
	expiresAt time.Time
}

// Manager owns every open session.
type Manager struct {
	catalog Catalog
	config  Config
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

func NewManager(c Catalog, cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		catalog:  c,
		config:   cfg.withDefaults(),
		logger:   logger,
		sessions: make(map[string]*session),
		done:     make(chan struct{}),
	}
}

// Start launches the expiry sweeper. Calling it more than once is harmless.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		m.logger.Info("starting playback session sweeper",
			slog.Duration("ttl", m.config.TTL),
			slog.Duration("interval", m.config.SweepInterval),
		)
		m.wg.Add(1)
		go m.sweeper()
	})
}

// Close stops the sweeper and drops every session.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.wg.Wait()

		m.mu.Lock()
		n := len(m.sessions)
		clear(m.sessions)
		m.mu.Unlock()

		m.logger.Info("playback sessions closed", slog.Int("dropped", n))
	})
}

func (m *Manager) sweeper() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("expired playback sessions removed", slog.Int("count", n))
			}
		}
	}
}

// Sweep removes expired sessions and reports how many it removed.
func (m *Manager) Sweep() int {
	now := m.config.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if !now.Before(s.expiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Play opens a session for a video. It counts a view, resolves the YouTube
// reference and, if a pre-roll ad is active, starts the skip countdown.
func (m *Manager) Play(ctx context.Context, videoID string) (Session, error) {
	video, ok := m.catalog.Video(videoID)
	if !ok {
		return Session{}, apperror.NotFound("video", videoID)
	}

	views, found, err := m.catalog.IncrementViews(ctx, videoID)
	if err != nil {
		return Session{}, fmt.Errorf("player: counting view: %w", err)
	}
	if !found {
		// deleted between the lookup and the increment
		return Session{}, apperror.NotFound("video", videoID)
	}
	video.ViewCount = views

	now := m.config.Now()
	s := &session{
		id:        uuid.NewString(),
		video:     video,
		source:    youtube.Resolve(video.SourceURL),
		step:      StepVideo,
		views:     views,
		expiresAt: now.Add(m.config.TTL),
	}
	if ad, ok := catalog.ActiveAd(m.catalog.Ads(), model.PositionPreRoll); ok {
		s.preRoll = &ad
		s.step = StepPre
		s.skipAt = now.Add(m.config.Countdown)
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	view := m.view(s, now)
	m.mu.Unlock()

	m.logger.Info("playback started",
		slog.String("session", s.id),
		slog.String("video", videoID),
		slog.String("step", string(s.step)),
		slog.Bool("validSource", s.source.Valid),
	)
	return view, nil
}

// Get returns the current view of a session.
func (m *Manager) Get(id string) (Session, error) {
	return m.update(id, func(*session, time.Time) error { return nil })
}

// Skip leaves the pre-roll ad once its countdown has run out.
func (m *Manager) Skip(id string) (Session, error) {
	return m.update(id, func(s *session, now time.Time) error {
		if s.step != StepPre {
			return apperror.PreconditionFailed("there is no ad to skip")
		}
		if left := remaining(s.skipAt, now); left > 0 {
			return apperror.PreconditionFailed(fmt.Sprintf("the ad can be skipped in %ds", left))
		}
		s.step = StepVideo
		return nil
	})
}

// Finish moves a playing session to the post screen.
func (m *Manager) Finish(id string) (Session, error) {
	return m.update(id, func(s *session, _ time.Time) error {
		if s.step != StepVideo {
			return apperror.PreconditionFailed("the video is not playing")
		}
		s.step = StepPost
		if ad, ok := catalog.ActiveAd(m.catalog.Ads(), model.PositionPostRoll); ok {
			s.postRoll = &ad
		}
		return nil
	})
}

// Replay goes from the post screen back to the video. It does not count
// another view.
func (m *Manager) Replay(id string) (Session, error) {
	return m.update(id, func(s *session, _ time.Time) error {
		if s.step != StepPost {
			return apperror.PreconditionFailed("the video has not finished")
		}
		s.step = StepVideo
		s.postRoll = nil
		return nil
	})
}

// End closes a session. It reports false if there was nothing to close.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len reports the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// update runs fn on a live session and refreshes its expiry. A session past
// its expiry is treated as missing even if the sweeper has not run yet.
func (m *Manager) update(id string, fn func(s *session, now time.Time) error) (Session, error) {
	now := m.config.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || !now.Before(s.expiresAt) {
		delete(m.sessions, id)
		return Session{}, apperror.NotFound("playback session", id)
	}
	if err := fn(s, now); err != nil {
		return Session{}, err
	}
	s.expiresAt = now.Add(m.config.TTL)
	return m.view(s, now), nil
}

func (m *Manager) view(s *session, now time.Time) Session {
	v := Session{
		ID:        s.id,
		Video:     s.video,
		Source:    s.source,
		Step:      s.step,
		PreRoll:   s.preRoll,
		PostRoll:  s.postRoll,
		ViewCount: s.views,
		ExpiresAt: s.expiresAt,
	}
	if s.step == StepPre {
		v.Countdown = remaining(s.skipAt, now)
		v.CanSkip = v.Countdown == 0
	}
	return v
}

// remaining rounds the time left up to whole seconds, so the display reads
// 5, 4, 3, 2, 1 and then 0.
func remaining(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
