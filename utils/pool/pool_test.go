package pool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsAllJobs(t *testing.T) {
	var sum int64
	p := NewPool(4, func(job interface{}) {
		atomic.AddInt64(&sum, int64(job.(int)))
	})

	c := make(chan interface{})
	go func() {
		for i := 1; i <= 100; i++ {
			c <- i
		}
		close(c)
	}()
	p.Work(c)
	p.Wait()

	assert.Equal(t, int64(5050), sum)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const routines = 3
	var (
		mu      sync.Mutex
		active  int
		highest int
	)
	p := NewPool(routines, func(interface{}) {
		mu.Lock()
		active++
		if active > highest {
			highest = active
		}
		active--
		mu.Unlock()
	})

	c := make(chan interface{})
	go func() {
		for i := 0; i < 50; i++ {
			c <- i
		}
		close(c)
	}()
	p.Work(c)
	p.Wait()

	assert.LessOrEqual(t, highest, routines)
}
