// Package sound plays the short alarm chirp that accompanies a fresh
// unlock. Audio is synthesized locally; nothing is fetched or cached.
package sound

import (
	"encoding/binary"
	"math"
	"time"
)

// Audio parameters shared by the synthesizer and the player.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Tone returns a sine wave at freq Hz as signed 16-bit little-endian mono
// PCM. volume is clamped to [0,1]. A short linear fade at both ends keeps
// the speaker from clicking.
func Tone(freq float64, d time.Duration, volume float64) []byte {
	volume = math.Max(0, math.Min(1, volume))
	n := int(float64(SampleRate) * d.Seconds())
	if n <= 0 {
		return nil
	}

	fade := SampleRate / 200 // 5ms
	if fade*2 > n {
		fade = n / 2
	}

	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		env := 1.0
		switch {
		case fade > 0 && i < fade:
			env = float64(i) / float64(fade)
		case fade > 0 && i >= n-fade:
			env = float64(n-1-i) / float64(fade)
		}
		v := math.Sin(2*math.Pi*freq*float64(i)/SampleRate) * volume * env
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return pcm
}

// Silence returns d worth of zeroed PCM.
func Silence(d time.Duration) []byte {
	n := int(float64(SampleRate) * d.Seconds())
	if n <= 0 {
		return nil
	}
	return make([]byte, n*2)
}

// Alarm builds the two-tone siren for a chaos level in [0,100]. Higher
// chaos raises the pitch and adds repetitions.
func Alarm(chaos float64) []byte {
	chaos = math.Max(0, math.Min(100, chaos))
	low := 440 + chaos*2.2
	high := low * 1.5
	reps := 1 + int(chaos/40)

	var pcm []byte
	for i := 0; i < reps; i++ {
		pcm = append(pcm, Tone(low, 90*time.Millisecond, 0.35)...)
		pcm = append(pcm, Tone(high, 90*time.Millisecond, 0.35)...)
		pcm = append(pcm, Silence(40*time.Millisecond)...)
	}
	return pcm
}
