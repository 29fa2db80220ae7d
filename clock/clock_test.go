package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Clock = (*Ticker)(nil)
	_ Clock = (*Stepper)(nil)
)

func TestStepper(t *testing.T) {
	t.Run("stopped stepper never ticks", func(t *testing.T) {
		s := NewStepper()
		assert.Equal(t, Stopped, s.State())
		assert.Equal(t, 0, s.Advance(time.Second))
	})

	t.Run("advances on threshold", func(t *testing.T) {
		s := NewStepper()
		s.Start(100 * time.Millisecond)

		assert.Equal(t, 0, s.Advance(60*time.Millisecond))
		assert.Equal(t, 1, s.Advance(60*time.Millisecond))
		// 20ms carried over from the previous frame.
		assert.Equal(t, 0, s.Advance(70*time.Millisecond))
		assert.Equal(t, 1, s.Advance(10*time.Millisecond))
	})

	t.Run("restart drops stale accounting", func(t *testing.T) {
		s := NewStepper()
		s.Start(100 * time.Millisecond)
		assert.Equal(t, 0, s.Advance(90*time.Millisecond))

		s.Stop()
		s.Start(100 * time.Millisecond)
		assert.Equal(t, 0, s.Advance(20*time.Millisecond), "90ms from before the restart must not count")
	})

	t.Run("interval change applies to next threshold", func(t *testing.T) {
		s := NewStepper()
		s.Start(200 * time.Millisecond)
		assert.Equal(t, 1, s.Advance(200*time.Millisecond))

		s.SetInterval(100 * time.Millisecond)
		assert.Equal(t, 100*time.Millisecond, s.Interval())
		assert.Equal(t, 1, s.Advance(100*time.Millisecond))
	})

	t.Run("catch up is bounded", func(t *testing.T) {
		s := NewStepper()
		s.MaxCatchUp = 3
		s.Start(10 * time.Millisecond)
		assert.Equal(t, 3, s.Advance(time.Second))
		assert.Equal(t, 0, s.Advance(5*time.Millisecond), "backlog beyond the cap is dropped")
	})

	t.Run("non-positive interval falls back to default", func(t *testing.T) {
		s := NewStepper()
		s.Start(0)
		assert.Equal(t, DefaultInterval, s.Interval())
	})
}

func TestTicker(t *testing.T) {
	t.Run("stopped ticker exposes no channel", func(t *testing.T) {
		tk := NewTicker()
		assert.Nil(t, tk.C())
	})

	t.Run("delivers and rearms", func(t *testing.T) {
		tk := NewTicker()
		tk.Start(5 * time.Millisecond)
		defer tk.Stop()

		for i := 0; i < 3; i++ {
			select {
			case <-tk.C():
				tk.Rearm()
			case <-time.After(time.Second):
				t.Fatalf("tick %d not delivered", i)
			}
		}
		assert.Equal(t, Running, tk.State())
	})

	t.Run("stop prevents a scheduled tick", func(t *testing.T) {
		tk := NewTicker()
		tk.Start(20 * time.Millisecond)
		ch := tk.C()
		require.NotNil(t, ch)
		tk.Stop()

		assert.Nil(t, tk.C())
		select {
		case <-ch:
			t.Fatalf("tick delivered after Stop")
		case <-time.After(60 * time.Millisecond):
		}
	})

	t.Run("restart after stop ticks again", func(t *testing.T) {
		tk := NewTicker()
		tk.Start(5 * time.Millisecond)
		tk.Stop()
		tk.Start(5 * time.Millisecond)
		defer tk.Stop()

		select {
		case <-tk.C():
		case <-time.After(time.Second):
			t.Fatalf("no tick after restart")
		}
	})

	t.Run("set interval keeps running state", func(t *testing.T) {
		tk := NewTicker()
		tk.Start(time.Hour)
		defer tk.Stop()
		tk.SetInterval(5 * time.Millisecond)
		assert.Equal(t, 5*time.Millisecond, tk.Interval())
		assert.Equal(t, Running, tk.State())
	})
}
