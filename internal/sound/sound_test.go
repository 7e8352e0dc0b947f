package sound

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/hammamikhairi/moat/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu     sync.Mutex
	played [][]byte
	err    error
	done   chan struct{}
}

func (s *recordingSink) Play(pcm []byte) error {
	s.mu.Lock()
	s.played = append(s.played, pcm)
	s.mu.Unlock()
	if s.done != nil {
		s.done <- struct{}{}
	}
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.played)
}

func TestToneLengthAndRange(t *testing.T) {
	pcm := Tone(440, 100*time.Millisecond, 0.5)
	if want := SampleRate / 10 * 2; len(pcm) != want {
		t.Fatalf("expected %d bytes, got %d", want, len(pcm))
	}

	limit := int16(16384) // half scale, plus rounding
	var peak int16
	for i := 0; i < len(pcm); i += 2 {
		v := int16(binary.LittleEndian.Uint16(pcm[i:]))
		if v > limit || v < -limit {
			t.Fatalf("sample %d = %d exceeds volume", i/2, v)
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		t.Fatal("tone is silent")
	}

	// Fade in/out starts and ends at zero.
	if first := int16(binary.LittleEndian.Uint16(pcm[0:])); first != 0 {
		t.Errorf("first sample %d, want 0", first)
	}
	if last := int16(binary.LittleEndian.Uint16(pcm[len(pcm)-2:])); last != 0 {
		t.Errorf("last sample %d, want 0", last)
	}
}

func TestToneEdgeCases(t *testing.T) {
	if pcm := Tone(440, 0, 1); pcm != nil {
		t.Errorf("zero duration should produce no samples, got %d bytes", len(pcm))
	}
	if pcm := Silence(10 * time.Millisecond); len(pcm) != SampleRate/100*2 {
		t.Errorf("unexpected silence length %d", len(pcm))
	}
}

func TestAlarmGrowsWithChaos(t *testing.T) {
	calm := Alarm(0)
	wild := Alarm(100)
	if len(calm) == 0 {
		t.Fatal("alarm is empty")
	}
	if len(wild) <= len(calm) {
		t.Fatalf("expected more repetitions at high chaos: %d <= %d", len(wild), len(calm))
	}
	if len(Alarm(500)) != len(wild) {
		t.Fatal("chaos above 100 should be clamped")
	}
}

func TestChimePlaysQueuedAlarms(t *testing.T) {
	sink := &recordingSink{done: make(chan struct{}, 4)}
	chime := NewChime(sink, logger.New(logger.LevelOff, nil))
	chime.Start(context.Background())
	defer chime.Stop()

	chime.Ring(20)
	chime.Ring(80)

	for i := 0; i < 2; i++ {
		select {
		case <-sink.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for alarm %d", i+1)
		}
	}
	if sink.count() != 2 {
		t.Fatalf("expected 2 alarms, got %d", sink.count())
	}
}

func TestChimeSurvivesSinkErrors(t *testing.T) {
	sink := &recordingSink{done: make(chan struct{}, 4), err: errors.New("no device")}
	chime := NewChime(sink, logger.New(logger.LevelOff, nil))
	chime.Start(context.Background())

	chime.Ring(50)
	chime.Ring(50)
	for i := 0; i < 2; i++ {
		select {
		case <-sink.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out")
		}
	}
	chime.Stop()
}

func TestChimeStopWithoutStart(t *testing.T) {
	chime := NewChime(&recordingSink{}, logger.New(logger.LevelOff, nil))
	chime.Ring(10)
	chime.Stop()
	chime.Start(context.Background()) // no-op after Stop
	chime.Stop()
}

func TestChimeStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	chime := NewChime(&recordingSink{}, logger.New(logger.LevelOff, nil))
	chime.Start(ctx)
	cancel()
	chime.Stop()
}
