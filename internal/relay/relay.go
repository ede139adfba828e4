// Package relay fetches vehicle data from the source service and forwards
// it to the sink service.
package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/sink"
	"github.com/go-sod/vrelay/internal/vehicle"
)

type Source interface {
	Fetch(context.Context) (vehicle.Payload, error)
}

type Sink interface {
	Send(context.Context, vehicle.Payload) (sink.Ack, error)
}

// Transformer rewrites the payload between fetch and send.
type Transformer interface {
	Transform(vehicle.Payload) (vehicle.Payload, error)
}

// Observer is notified once per run with its outcome.
type Observer interface {
	Observe(ctx context.Context, res Result, err error)
}

type Result struct {
	VehicleCount int
	SinkStatus   int
	SinkBody     string
	Duration     time.Duration
}

type Option func(*Procedure)

func WithTransformer(t Transformer) Option {
	return func(p *Procedure) {
		p.transformer = t
	}
}

func WithObservers(o ...Observer) Option {
	return func(p *Procedure) {
		p.observers = append(p.observers, o...)
	}
}

func New(src Source, dst Sink, opts ...Option) (*Procedure, error) {
	if src == nil {
		return nil, fmt.Errorf("source is not defined")
	}
	if dst == nil {
		return nil, fmt.Errorf("sink is not defined")
	}
	p := &Procedure{source: src, sink: dst}
	for _, f := range opts {
		f(p)
	}
	return p, nil
}

type Procedure struct {
	mtx         sync.Mutex
	source      Source
	sink        Sink
	transformer Transformer
	observers   []Observer
}

// Run performs one fetch-then-forward round trip. Overlapping calls are
// serialized. The first failure ends the run and is returned; the sink is
// never called after a failed fetch.
func (p *Procedure) Run(ctx context.Context) (Result, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	start := time.Now()
	res, err := p.run(ctx)
	res.Duration = time.Since(start)
	for _, o := range p.observers {
		o.Observe(ctx, res, err)
	}
	return res, err
}

func (p *Procedure) run(ctx context.Context) (Result, error) {
	var res Result
	logger := logging.FromContext(ctx)

	logger.Info("fetching vehicle data from source")
	payload, err := p.source.Fetch(ctx)
	if err != nil {
		return res, fmt.Errorf("source fetch: %w", err)
	}
	res.VehicleCount = payload.Count()
	logger.Infof("retrieved %d vehicles", res.VehicleCount)

	if p.transformer != nil && payload.Present() {
		payload, err = p.transformer.Transform(payload)
		if err != nil {
			return res, fmt.Errorf("transform payload: %w", err)
		}
		res.VehicleCount = payload.Count()
		logger.Infof("normalized %d vehicles", res.VehicleCount)
	}

	logger.Info("sending vehicle data to sink")
	ack, err := p.sink.Send(ctx, payload)
	if err != nil {
		return res, fmt.Errorf("sink send: %w", err)
	}
	res.SinkStatus = ack.Status
	res.SinkBody = ack.Body

	logger.Infof("sink response status: %d", ack.Status)
	logger.Infof("sink response: %s", ack.Body)
	return res, nil
}
