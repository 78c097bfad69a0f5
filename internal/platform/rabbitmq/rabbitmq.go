// Package rabbitmq dials the broker and opens the channel used by event publishers.
package rabbitmq

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Session is a connection plus the single channel publishers share.
type Session struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// Dial connects to url and opens a channel.
func Dial(url string) (*Session, error) {
	if url == "" {
		return nil, fmt.Errorf("rabbitmq url is empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	return &Session{Conn: conn, Channel: ch}, nil
}

// Close closes the channel, then the connection.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	return errors.Join(s.Channel.Close(), s.Conn.Close())
}
