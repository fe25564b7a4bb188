// -----------------------------------------------------------------------------
// Purchase Publisher
// -----------------------------------------------------------------------------
// Forwards purchase events to RabbitMQ. Each event name is a durable queue on
// the default exchange ("purchase.completed" -> queue "purchase.completed"),
// messages are persistent JSON.
//
// The publisher is an events.Listener; a broker outage surfaces as a listener
// error and never affects the purchase that produced the event. A dialled
// publisher reopens its connection on the first event after an outage.
// -----------------------------------------------------------------------------

package listeners

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/biyonik/cinema-ticket-service/pkg/events"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// ErrPublisherClosed is returned once the channel is gone and cannot be
// reopened.
var ErrPublisherClosed = errors.New("rabbitmq publisher closed")

// Message is the JSON body of a published event.
type Message struct {
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// session is one open channel and the connection it belongs to. closed
// fires (or is closed) once the broker tears the channel down.
type session struct {
	channel Channel
	conn    io.Closer
	closed  <-chan *amqp.Error
}

type dialFunc func() (*session, error)

type PurchasePublisher struct {
	mu       sync.Mutex
	sess     *session
	dial     dialFunc
	declared map[string]bool
	timeout  time.Duration
	logger   *logger.Logger
}

// NewPurchasePublisher publishes through an already open channel. It does not
// reconnect; use DialPurchasePublisher for that.
func NewPurchasePublisher(channel Channel, timeout time.Duration, log *logger.Logger) *PurchasePublisher {
	return newPublisher(&session{channel: channel}, nil, timeout, log)
}

func newPublisher(sess *session, dial dialFunc, timeout time.Duration, log *logger.Logger) *PurchasePublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PurchasePublisher{
		sess:     sess,
		dial:     dial,
		declared: make(map[string]bool),
		timeout:  timeout,
		logger:   log,
	}
}

// DialPurchasePublisher connects to the broker at url and opens a channel.
// When the broker closes the channel or connection, the next event redials.
func DialPurchasePublisher(url string, timeout time.Duration, log *logger.Logger) (*PurchasePublisher, error) {
	dial := amqpDialer(url)
	sess, err := dial()
	if err != nil {
		return nil, err
	}
	log.Info("RabbitMQ publisher connected")
	return newPublisher(sess, dial, timeout, log), nil
}

func amqpDialer(url string) dialFunc {
	return func() (*session, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq dial: %w", err)
		}

		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("rabbitmq channel: %w", err)
		}

		// Channels are closed along with their connection, so one
		// notification covers both.
		closed := ch.NotifyClose(make(chan *amqp.Error, 1))
		return &session{channel: ch, conn: conn, closed: closed}, nil
	}
}

// Handle implements events.Listener.
func (p *PurchasePublisher) Handle(event events.Event) error {
	body, err := json.Marshal(Message{
		Event:      event.Name(),
		OccurredAt: event.OccurredAt().UTC(),
		Data:       event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Name(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.publish(ctx, event.Name(), body); err != nil {
		p.logger.Warn("Event not published", "event", event.Name(), "error", err)
		return err
	}

	p.logger.Debug("Event published", "event", event.Name(), "bytes", len(body))
	return nil
}

// amqp channels must not be used for concurrent publishing.
func (p *PurchasePublisher) publish(ctx context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if !p.declared[queue] {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			p.dropOnClosed(err)
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.dropOnClosed(err)
		return fmt.Errorf("publish to %s: %w", queue, err)
	}
	return nil
}

// channel returns the open channel, redialling when the broker closed the
// previous one. Callers hold p.mu.
func (p *PurchasePublisher) channel() (Channel, error) {
	if p.sess != nil {
		select {
		case amqpErr := <-p.sess.closed:
			p.logger.Warn("RabbitMQ channel closed", "error", amqpErr)
			p.drop()
		default:
			return p.sess.channel, nil
		}
	}

	if p.dial == nil {
		return nil, ErrPublisherClosed
	}

	sess, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.sess = sess
	p.logger.Info("RabbitMQ publisher reconnected")
	return sess.channel, nil
}

func (p *PurchasePublisher) dropOnClosed(err error) {
	if errors.Is(err, amqp.ErrClosed) {
		p.drop()
	}
}

// drop releases the current session. Queues are declared again on the next
// channel.
func (p *PurchasePublisher) drop() {
	if p.sess == nil {
		return
	}
	_ = p.sess.channel.Close()
	if p.sess.conn != nil {
		_ = p.sess.conn.Close()
	}
	p.sess = nil
	p.declared = make(map[string]bool)
}

// Close closes the channel and, when dialled by this package, the connection.
// The publisher does not redial afterwards.
func (p *PurchasePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dial = nil
	if p.sess == nil {
		return nil
	}

	err := p.sess.channel.Close()
	if p.sess.conn != nil {
		if cerr := p.sess.conn.Close(); err == nil {
			err = cerr
		}
	}
	p.sess = nil
	return err
}
