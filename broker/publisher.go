package broker

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lixenwraith/bunny-coffee/core"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/status"
)

// Channel is the subset of *amqp.Channel the publisher uses
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer opens a channel plus whatever must be closed with it
type Dialer func(url string) (Channel, io.Closer, error)

// DialAMQP connects with amqp091 and opens one channel
func DialAMQP(url string) (Channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return ch, conn, nil
}

// Options configures a Publisher
type Options struct {
	URL      string
	Exchange string
	Buffer   int
	// Timeout bounds one publish; zero uses two seconds
	Timeout time.Duration
}

type outgoing struct {
	key  string
	body []byte
}

// Publisher forwards routed events to the exchange from its own goroutine
// HandleEvent never blocks the dispatch loop; overflow is counted and dropped
type Publisher struct {
	opts Options
	dial Dialer
	now  func() time.Time

	ch   Channel
	conn io.Closer

	pending chan outgoing

	published *atomic.Int64
	dropped   *atomic.Int64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewPublisher creates a stopped publisher; dial nil uses DialAMQP
func NewPublisher(opts Options, dial Dialer, reg *status.Registry) *Publisher {
	if dial == nil {
		dial = DialAMQP
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	return &Publisher{
		opts:      opts,
		dial:      dial,
		now:       time.Now,
		pending:   make(chan outgoing, opts.Buffer),
		published: reg.Ints.Get(status.BrokerPublished),
		dropped:   reg.Ints.Get(status.BrokerDropped),
	}
}

// EventTypes implements event.Handler
func (p *Publisher) EventTypes() []event.EventType {
	return event.AllTypes()
}

// HandleEvent implements event.Handler
func (p *Publisher) HandleEvent(ev event.GameEvent) {
	body, err := Encode(ev, p.now())
	if err != nil {
		log.Printf("broker: %v", err)
		return
	}
	select {
	case p.pending <- outgoing{key: RoutingKey(ev.Type), body: body}:
	default:
		p.dropped.Add(1)
	}
}

// Name implements service.Service
func (p *Publisher) Name() string { return "broker" }

// Dependencies implements service.Service
func (p *Publisher) Dependencies() []string { return nil }

// Start dials the broker, declares the topic exchange and launches the send loop
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}

	ch, conn, err := p.dial(p.opts.URL)
	if err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(
		p.opts.Exchange, // name
		"topic",         // kind
		true,            // durable
		false,           // autoDelete
		false,           // internal
		false,           // noWait
		nil,             // args
	); err != nil {
		ch.Close()
		if conn != nil {
			conn.Close()
		}
		return err
	}
	p.ch, p.conn = ch, conn

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.wg.Add(1)
	core.Go(func() {
		defer p.wg.Done()
		p.run(runCtx)
	})
	log.Printf("broker: publishing to exchange %s", p.opts.Exchange)
	return nil
}

// Stop drains what is already buffered, then closes the channel
func (p *Publisher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.running = false
	p.cancel()
	p.wg.Wait()

	p.drain()
	errs := []error{p.ch.Close()}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

func (p *Publisher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.pending:
			p.publish(ctx, msg)
		}
	}
}

func (p *Publisher) drain() {
	for {
		select {
		case msg := <-p.pending:
			p.publish(context.Background(), msg)
		default:
			return
		}
	}
}

func (p *Publisher) publish(ctx context.Context, msg outgoing) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	err := p.ch.PublishWithContext(ctx,
		p.opts.Exchange, // exchange
		msg.key,         // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now().UTC(),
			Body:         msg.body,
		},
	)
	if err != nil {
		p.dropped.Add(1)
		log.Printf("broker: publish %s failed: %v", msg.key, err)
		return
	}
	p.published.Add(1)
}
