package comm

import (
	"context"
	"fmt"
)

// Kind of logical channel, value is offset from driver base port.
type Kind uint8

const (
	KindConfig Kind = iota
	KindPing
	KindError
	KindData
)

var kindNames = [...]string{"config", "ping", "error", "data"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func (k Kind) Subscribe() bool { return k == KindError || k == KindData }

func Address(ip string, basePort int, k Kind) string {
	return fmt.Sprintf("tcp://%s:%d", ip, basePort+int(k))
}

// Pusher is outgoing half of the driver link, one owner goroutine.
// Cancelling ctx during Send closes the channel.
type Pusher interface {
	Send(ctx context.Context, b []byte) error
	Close() error
}

// Subscriber receives every message on its address, no topic filter.
// Cancelling ctx aborts blocked Recv in place and closes the channel.
type Subscriber interface {
	Recv(ctx context.Context) ([]byte, error)
	Close() error
}

// Transport is the messaging context. Comm owns exactly one
// and releases it in Destroy together with all channels opened from it.
type Transport interface {
	Push(ctx context.Context, addr string) (Pusher, error)
	Subscribe(ctx context.Context, addr string) (Subscriber, error)
	Close() error
}
