package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange booking events are published to.
const Exchange = "booking.events"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type dialFunc func(url string) (amqpChannel, io.Closer, error)

// Publisher keeps one AMQP connection and channel open and opens a new
// pair on the next publish once the broker has dropped them.  A channel is
// not safe for concurrent publishing, so PublishBooking serialises on mu.
type Publisher struct {
	url     string
	dial    dialFunc
	timeout time.Duration
	now     func() time.Time

	mu      sync.Mutex
	conn    io.Closer
	ch      amqpChannel
	backoff time.Duration
	retryAt time.Time
}

// NewPublisher dials the broker and declares the exchange and the
// durable log queue bound to it.
func NewPublisher(url string, timeout time.Duration) (*Publisher, error) {
	return newPublisher(url, timeout, dialAMQP)
}

func newPublisher(url string, timeout time.Duration, dial dialFunc) (*Publisher, error) {
	ch, conn, err := dial(url)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Publisher{
		url:     url,
		dial:    dial,
		timeout: timeout,
		now:     time.Now,
		conn:    conn,
		ch:      ch,
		backoff: minBackoff,
	}, nil
}

func dialAMQP(url string) (amqpChannel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareTopology(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(LogQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(LogQueue, "booking.*", Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	return nil
}

// PublishBooking sends ev as a persistent JSON message routed by its type.
func (p *Publisher) PublishBooking(ctx context.Context, ev BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for attempt := 0; ; attempt++ {
		if err := p.ensureChannel(); err != nil {
			return err
		}
		err := p.ch.PublishWithContext(ctx, Exchange, ev.Type, false, false, msg)
		if err == nil || !errors.Is(err, amqp.ErrClosed) || attempt > 0 {
			return err
		}
		// The channel died between the check and the publish.
		p.drop()
	}
}

// ensureChannel re-dials when the session is gone.  Failed dials are not
// repeated until the backoff has passed, so a down broker costs one dial
// per window instead of one per booking.  Callers hold mu.
func (p *Publisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.drop()
	now := p.now()
	if now.Before(p.retryAt) {
		return fmt.Errorf("broker unavailable until %s: %w", p.retryAt.Format(time.RFC3339), amqp.ErrClosed)
	}
	ch, conn, err := p.dial(p.url)
	if err != nil {
		p.retryAt = now.Add(p.backoff)
		p.backoff = nextBackoff(p.backoff)
		return err
	}
	p.ch, p.conn = ch, conn
	p.backoff = minBackoff
	p.retryAt = time.Time{}
	return nil
}

func (p *Publisher) drop() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	var err error
	if p.conn != nil {
		err = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
	return err
}

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// nextBackoff doubles d up to maxBackoff.
func nextBackoff(d time.Duration) time.Duration {
	if d < minBackoff {
		return minBackoff
	}
	if d *= 2; d > maxBackoff {
		return maxBackoff
	}
	return d
}
