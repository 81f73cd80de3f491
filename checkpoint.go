package ktchn

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// checkpoint is one job for the checkpointer: save a snapshot under key, or
// remove key when encode is nil.
//
// A save with a non-empty clear also removes that key, once the save
// succeeded. When result is set, the outcome of the save is sent there
// instead of being recorded for flush.
type checkpoint struct {
	key    string
	encode func(io.Writer) error
	clear  string
	result chan error
}

// checkpointer writes snapshots to a Store in the background, in the order
// they were queued. Callers never wait for a write, except in flush.
//
// Snapshots are immutable, so encoding them in the worker goroutine is safe.
type checkpointer struct {
	store Store
	log   logrus.FieldLogger
	jobs  chan checkpoint
	done  chan struct{}

	pending sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	err      error // first failure since the last flush.
	failures int
}

const checkpointQueueSize = 64

var errClosed = errors.New("kitchen is closed")

func newCheckpointer(store Store, log logrus.FieldLogger) *checkpointer {
	c := &checkpointer{
		store: store,
		log:   log,
		jobs:  make(chan checkpoint, checkpointQueueSize),
		done:  make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *checkpointer) run() {
	defer close(c.done)
	for job := range c.jobs {
		err := c.write(job)
		if err == nil && job.clear != "" {
			c.record(job.clear, c.write(checkpoint{key: job.clear}))
		}
		if job.result != nil {
			job.result <- err
		} else {
			c.record(job.key, err)
		}
		c.pending.Done()
	}
}

func (c *checkpointer) write(job checkpoint) error {
	if job.encode == nil {
		if err := c.store.Remove(job.key); err != nil {
			return fmt.Errorf("cannot remove %q: %w", job.key, err)
		}
		c.log.WithField("key", job.key).Debug("remove-snapshot")
		return nil
	}
	var buf bytes.Buffer
	if err := job.encode(&buf); err != nil {
		return fmt.Errorf("cannot encode %q: %w", job.key, err)
	}
	if err := c.store.Save(job.key, buf.Bytes()); err != nil {
		return fmt.Errorf("cannot save %q: %w", job.key, err)
	}
	c.log.WithFields(logrus.Fields{"key": job.key, "bytes": buf.Len()}).Debug("save-snapshot")
	return nil
}

func (c *checkpointer) record(key string, err error) {
	if err == nil {
		return
	}
	c.log.WithField("key", key).WithError(err).Error("checkpoint-failed")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
	if c.err == nil {
		c.err = err
	}
}

// enqueue queues a job. It blocks only when the queue is full. It reports
// false if the checkpointer is closed and the job was dropped.
func (c *checkpointer) enqueue(job checkpoint) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.log.WithField("key", job.key).Warn("checkpoint-dropped")
		return false
	}
	c.pending.Add(1)
	c.mu.Unlock()
	c.jobs <- job
	return true
}

func (c *checkpointer) save(key string, encode func(io.Writer) error) {
	c.enqueue(checkpoint{key: key, encode: encode})
}

// move saves a snapshot under key, then removes old. It waits for the save
// and returns its error; old is left untouched when the save fails.
func (c *checkpointer) move(old, key string, encode func(io.Writer) error) error {
	result := make(chan error, 1)
	if !c.enqueue(checkpoint{key: key, encode: encode, clear: old, result: result}) {
		return errClosed
	}
	return <-result
}

// flush waits for all queued jobs and returns the first failure since the
// previous flush.
func (c *checkpointer) flush() error {
	c.pending.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.err
	c.err = nil
	return err
}

// close flushes and stops the worker. Later jobs are dropped.
func (c *checkpointer) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	err := c.flush()
	close(c.jobs)
	<-c.done
	return err
}
