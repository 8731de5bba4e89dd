package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
	"github.com/iliyamo/bus-ticket-booking/internal/queue"
)

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) BookingConfirmed(context.Context, model.Booking) {}
func (NopPublisher) BookingCancelled(context.Context, model.Booking) {}

const (
	eventBuffer    = 256
	dialTimeout    = 2 * time.Second
	publishTimeout = 3 * time.Second
	retryDelay     = time.Second
)

type dialFunc func(url string) (*amqp.Connection, error)

func dialBroker(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Dial:      amqp.DefaultDial(dialTimeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
}

// AMQPPublisher publishes booking events to RabbitMQ.  Publishing is best
// effort: BookingConfirmed and BookingCancelled only queue the event and
// return.  A single goroutine owns the broker connection and sends queued
// events in order.  When the queue is full, or the broker failed less than
// a second ago, events are logged and dropped.
type AMQPPublisher struct {
	url  string
	dial dialFunc

	mu     sync.RWMutex // guards closed against sends on events
	closed bool
	events chan queue.BookingEvent
	done   chan struct{}

	// owned by run
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// NewAMQPPublisher returns a publisher for the broker at url and starts its
// sender.  No connection is made until the first event.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return newAMQPPublisher(url, dialBroker, eventBuffer)
}

func newAMQPPublisher(url string, dial dialFunc, buffer int) *AMQPPublisher {
	p := &AMQPPublisher{
		url:    url,
		dial:   dial,
		events: make(chan queue.BookingEvent, buffer),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AMQPPublisher) BookingConfirmed(_ context.Context, b model.Booking) {
	p.enqueue(queue.NewBookingEvent(queue.BookingConfirmedQueue, b))
}

func (p *AMQPPublisher) BookingCancelled(_ context.Context, b model.Booking) {
	p.enqueue(queue.NewBookingEvent(queue.BookingCancelledQueue, b))
}

func (p *AMQPPublisher) enqueue(ev queue.BookingEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
		log.Printf("rabbitmq: event queue full, dropping %s for booking %d", ev.Type, ev.BookingID)
	}
}

func (p *AMQPPublisher) run() {
	defer close(p.done)
	defer p.reset()
	for ev := range p.events {
		if time.Now().Before(p.retryAt) {
			log.Printf("rabbitmq: broker unavailable, dropping %s for booking %d", ev.Type, ev.BookingID)
			continue
		}
		p.send(ev)
	}
}

func (p *AMQPPublisher) send(ev queue.BookingEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal %s event failed: %v", ev.Type, err)
		return
	}
	ch, err := p.channel()
	if err != nil {
		log.Printf("rabbitmq: %v", err)
		p.retryAt = time.Now().Add(retryDelay)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		ev.Type, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		log.Printf("rabbitmq: publish %s for booking %d failed: %v", ev.Type, ev.BookingID, err)
		p.reset()
	}
}

// channel returns an open channel with both booking queues declared.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	conn, err := p.dial(p.url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := queue.DeclareQueues(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close stops accepting events, waits for queued ones to be sent or
// dropped and releases the broker connection.  It is safe to call more
// than once.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()
	<-p.done
	return nil
}
