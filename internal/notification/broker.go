package notification

import (
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker publishes booking status changes to a topic exchange.
// Fire-and-forget: failures are logged, never surfaced to the booking
// or payment flow.
type Broker struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Default is the process-wide broker set up at startup; nil when no
// AMQP_URL is configured.
var Default *Broker

type bookingStatusMessage struct {
	BookingCode string    `json:"booking_code"`
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
}

func Connect(url, exchange string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Broker{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishBookingStatus is safe on a nil receiver so callers can wire an
// unconfigured broker without nil checks at every site.
func (b *Broker) PublishBookingStatus(bookingCode, status string) {
	if b == nil || b.ch == nil {
		return
	}
	body, err := json.Marshal(bookingStatusMessage{
		BookingCode: bookingCode,
		Status:      status,
		At:          time.Now(),
	})
	if err != nil {
		return
	}
	if err := b.ch.Publish(b.exchange, "booking.status", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}); err != nil {
		log.Printf("[NOTIFY] publish booking.status gagal: %v", err)
	}
}

func (b *Broker) Close() {
	if b == nil {
		return
	}
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}
