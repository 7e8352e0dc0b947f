package sound

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/moat/internal/logger"
)

// Sink plays raw PCM in the package's audio format. Play blocks until the
// sound has finished.
type Sink interface {
	Play(pcm []byte) error
}

// OtoSink plays PCM through the system audio device via oto.
type OtoSink struct {
	ctx *oto.Context
	log *logger.Logger
}

// NewOtoSink initializes the system audio context. Returns an error if the
// audio device is unavailable. oto allows one context per process.
func NewOtoSink(log *logger.Logger) (*OtoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("audio initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &OtoSink{ctx: ctx, log: log}, nil
}

// Play plays pcm synchronously.
func (s *OtoSink) Play(pcm []byte) error {
	player := s.ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	s.log.Debug("audio: playing %d bytes of PCM", len(pcm))

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}

// Chime serializes alarm playback on a single goroutine. Requests that
// arrive while the queue is full are dropped; a missed chirp is harmless.
type Chime struct {
	sink Sink
	log  *logger.Logger
	reqs chan []byte

	mu      sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewChime creates a chime that plays through sink.
func NewChime(sink Sink, log *logger.Logger) *Chime {
	return &Chime{
		sink: sink,
		log:  log,
		reqs: make(chan []byte, 4),
	}
}

// Start launches the playback goroutine. It exits when ctx is cancelled or
// Stop is called.
func (c *Chime) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true

	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.loop(ctx)
}

func (c *Chime) loop(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case pcm := <-c.reqs:
			if err := c.sink.Play(pcm); err != nil {
				c.log.Warn("chime: playback failed: %v", err)
			}
		}
	}
}

// Ring queues the alarm for the given chaos level. Non-blocking.
func (c *Chime) Ring(chaos float64) {
	select {
	case c.reqs <- Alarm(chaos):
		c.log.Debug("chime: queued alarm (chaos=%.0f)", chaos)
	default:
		c.log.Debug("chime: queue full, dropping alarm")
	}
}

// Stop ends playback and waits for the goroutine to exit.
func (c *Chime) Stop() {
	c.mu.Lock()
	c.stopped = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}
