package clock

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

func (f *fakeTime) advance(d time.Duration) { f.now = f.now.Add(d) }

func TestUnbounded(t *testing.T) {
	var c Unbounded
	for range 100 {
		assert.True(t, c.Tick(true))
	}
}

func TestTimeBoxYieldsOnceThenResets(t *testing.T) {
	ft := &fakeTime{now: time.Unix(1000, 0)}
	c := NewTimeBox(10*time.Millisecond, WithNow(ft.Now))

	assert.True(t, c.Tick(true))
	ft.advance(5 * time.Millisecond)
	assert.True(t, c.Tick(true))
	ft.advance(5 * time.Millisecond)
	assert.False(t, c.Tick(true))

	// a fresh box starts here
	assert.True(t, c.Tick(true))
	ft.advance(9 * time.Millisecond)
	assert.True(t, c.Tick(true))
	ft.advance(time.Millisecond)
	assert.False(t, c.Tick(true))
}

func TestTimeBoxIgnoresPureInstructions(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	c := NewTimeBox(time.Millisecond, WithNow(ft.Now))

	assert.True(t, c.Tick(true))
	ft.advance(time.Hour)
	assert.True(t, c.Tick(false))
	assert.False(t, c.Tick(true))
}

func TestFPS(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	c := NewFPS(50, WithNow(ft.Now))
	assert.Equal(t, 20*time.Millisecond, c.duration)

	assert.True(t, c.Tick(true))
	ft.advance(20 * time.Millisecond)
	assert.False(t, c.Tick(true))

	assert.Equal(t, time.Second, NewFPS(0).duration)
}

func TestStep(t *testing.T) {
	c := NewStep()
	assert.False(t, c.Tick(true))
	assert.True(t, c.Tick(false))

	c.Resume()
	assert.True(t, c.Tick(true))
	assert.False(t, c.Tick(true))

	c.Resume()
	c.Resume()
	c.Pause()
	assert.False(t, c.Tick(true))
}

type counting struct {
	answer bool
	calls  int
}

func (c *counting) Tick(bool) bool {
	c.calls++
	return c.answer
}

func TestAndShortCircuits(t *testing.T) {
	no := &counting{answer: false}
	yes := &counting{answer: true}

	assert.False(t, And(no, yes).Tick(true))
	assert.Equal(t, 0, yes.calls)

	assert.True(t, And(yes, yes).Tick(true))
	assert.Equal(t, 2, yes.calls)

	step := NewStep()
	c := And(Unbounded{}, step)
	assert.False(t, c.Tick(true))
	step.Resume()
	assert.True(t, c.Tick(true))
}

func TestAndKeepsPermitWhenOtherDeclines(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	box := NewTimeBox(time.Millisecond, WithNow(ft.Now))
	step := NewStep()
	step.Resume()

	assert.True(t, box.Tick(true))
	ft.advance(time.Hour)

	// the box expired, so the step must still hold its permit
	assert.False(t, And(step, box).Tick(true))
	assert.True(t, step.ready(true))
	assert.True(t, And(step, Unbounded{}).Tick(true))
	assert.False(t, step.ready(true))

	no := &counting{answer: false}
	step.Resume()
	assert.False(t, And(And(Unbounded{}, step), no).Tick(true))
	assert.True(t, step.Tick(true))
}
