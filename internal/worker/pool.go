package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leengari/pivotgrid/internal/collation"
	"github.com/leengari/pivotgrid/internal/domain/data"
)

var (
	// ErrWorkerTimeout is returned by Ticket.Wait when no response came in time
	ErrWorkerTimeout = errors.New("unique-value worker timed out")

	// ErrPoolClosed is returned for requests submitted after Close
	ErrPoolClosed = errors.New("unique-value worker pool is closed")

	// ErrStaleResponse marks a response superseded by a newer request
	ErrStaleResponse = errors.New("stale unique-value response")
)

type job struct {
	req   Request
	reply chan Response
}

// Pool runs Compute on a fixed set of goroutines. Each goroutine owns
// its collator, so no collation state is shared with the caller.
type Pool struct {
	jobs    chan job
	quit    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	token   atomic.Uint64
	timeout time.Duration
	coll    *collation.Collator
}

// NewPool starts size workers. A non-positive timeout disables the
// deadline in Unique.
func NewPool(size int, timeout time.Duration, coll *collation.Collator) *Pool {
	if size <= 0 {
		size = 1
	}
	if coll == nil {
		coll = collation.Root()
	}
	p := &Pool{
		jobs:    make(chan job),
		quit:    make(chan struct{}),
		timeout: timeout,
		coll:    coll,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.run(coll.Clone())
	}
	slog.Debug("unique-value worker pool started", "workers", size, "timeout", timeout)
	return p
}

func (p *Pool) run(coll *collation.Collator) {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.jobs:
			j.reply <- handle(j.req, coll)
		case <-p.quit:
			return
		}
	}
}

// handle never panics; failures become an error response
func handle(req Request, coll *collation.Collator) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("unique-value worker panic", "token", req.Token, "panic", r)
			resp = Response{Token: req.Token, Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()
	return Response{Token: req.Token, Unique: Compute(req.Values, req.Filter, coll)}
}

// Ticket is the pending result of one submitted request
type Ticket struct {
	Token uint64
	reply <-chan Response
}

// Wait blocks until the response arrives, ctx is done, or timeout
// elapses (timeout <= 0 means no deadline)
func (t *Ticket) Wait(ctx context.Context, timeout time.Duration) (Response, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	select {
	case resp := <-t.reply:
		if resp.Error != "" {
			return resp, fmt.Errorf("unique-value worker: %s", resp.Error)
		}
		return resp, nil
	case <-deadline:
		return Response{Token: t.Token}, ErrWorkerTimeout
	case <-ctx.Done():
		return Response{Token: t.Token}, ctx.Err()
	}
}

// Submit queues a request without blocking and returns its ticket. Each
// call takes a new, strictly increasing token.
func (p *Pool) Submit(values []data.Value, filter string) *Ticket {
	req := Request{
		Token:  p.token.Add(1),
		Values: slices.Clone(values),
		Filter: filter,
	}
	return p.submit(req)
}

func (p *Pool) submit(req Request) *Ticket {
	reply := make(chan Response, 1)
	go func() {
		select {
		case p.jobs <- job{req: req, reply: reply}:
		case <-p.quit:
			reply <- Response{Token: req.Token, Error: ErrPoolClosed.Error()}
		}
	}()
	return &Ticket{Token: req.Token, reply: reply}
}

// Latest returns the most recently issued token
func (p *Pool) Latest() uint64 { return p.token.Load() }

// IsLatest reports whether token is the most recently issued one
func (p *Pool) IsLatest(token uint64) bool { return token == p.token.Load() }

// Accept returns the response's values if it answers the latest request
func (p *Pool) Accept(resp Response) ([]string, error) {
	if !p.IsLatest(resp.Token) {
		return nil, fmt.Errorf("%w: token %d, latest %d", ErrStaleResponse, resp.Token, p.Latest())
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("unique-value worker: %s", resp.Error)
	}
	return resp.Unique, nil
}

// Unique submits a request and waits for it. When the worker does not
// answer within the pool timeout the values are computed synchronously
// with the pool's collator instead, so the caller always gets a result.
func (p *Pool) Unique(ctx context.Context, values []data.Value, filter string) ([]string, error) {
	ticket := p.Submit(values, filter)
	resp, err := ticket.Wait(ctx, p.timeout)
	switch {
	case errors.Is(err, ErrWorkerTimeout):
		slog.Warn("unique-value worker timed out, computing synchronously", "token", ticket.Token, "values", len(values))
		return Compute(values, filter, p.coll), nil
	case err != nil:
		return nil, err
	}
	return p.Accept(resp)
}

// HandleMessage answers one JSON-encoded Request with a JSON-encoded
// Response. Malformed requests get an error response instead of failing.
func (p *Pool) HandleMessage(ctx context.Context, raw []byte) []byte {
	var req struct {
		Values *[]data.Value `json:"values"`
		Filter string        `json:"filter"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return encode(Response{Error: fmt.Sprintf("malformed request: %v", err)})
	}
	if req.Values == nil {
		return encode(Response{Error: "malformed request: values is required"})
	}

	ticket := p.submit(Request{Token: p.token.Add(1), Values: *req.Values, Filter: req.Filter})
	resp, err := ticket.Wait(ctx, p.timeout)
	if err != nil {
		return encode(Response{Token: ticket.Token, Error: err.Error()})
	}
	return encode(resp)
}

func encode(resp Response) []byte {
	b, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"error":"failed to encode response"}`)
	}
	return b
}

// Close stops the workers. Requests still queued receive ErrPoolClosed.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.quit)
		p.wg.Wait()
	})
}
