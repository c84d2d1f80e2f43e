package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequencerSerializesSameSession(t *testing.T) {
	seq := NewSessionSequencer()

	var running, maxRunning int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq.Do(1, func() {
				n := atomic.AddInt32(&running, 1)
				for {
					m := atomic.LoadInt32(&maxRunning)
					if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&running, -1)
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxRunning)
	assert.Zero(t, seq.Active(), "idle sessions are forgotten")
}

func TestSequencerRunsSessionsInParallel(t *testing.T) {
	seq := NewSessionSequencer()

	started := make(chan struct{})
	release := make(chan struct{})
	go seq.Do(1, func() {
		close(started)
		<-release
	})
	<-started

	done := make(chan struct{})
	go seq.Do(2, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session 2 was blocked by session 1")
	}
	close(release)
}
