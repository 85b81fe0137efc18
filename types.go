package portgate

import (
	"time"
)

const (
	DefaultAddress = "127.0.0.1"
	DefaultPort    = 8080
	DefaultBacklog = 128

	DefaultMaxAcceptDelay    = 1 * time.Second
	DefaultAcceptRetryBudget = 10
)

// ListenerOptions 监听器的网络参数
type ListenerOptions struct {
	Address           string
	Port              int
	Backlog           int
	ReuseAddress      bool
	MaxAcceptDelay    time.Duration
	AcceptRetryBudget int
	MaxConnsPerSource int
	Verbose           bool
}

// Normalized returns a copy with unset fields replaced by defaults.
func (o ListenerOptions) Normalized() ListenerOptions {
	if o.Address == "" {
		o.Address = DefaultAddress
	}
	if o.Backlog <= 0 {
		o.Backlog = DefaultBacklog
	}
	if o.MaxAcceptDelay <= 0 {
		o.MaxAcceptDelay = DefaultMaxAcceptDelay
	}
	if o.AcceptRetryBudget <= 0 {
		o.AcceptRetryBudget = DefaultAcceptRetryBudget
	}
	return o
}

// State 监听器接收循环的状态
type State int32

const (
	StateStarting State = iota
	StateAccepting
	StateStopping
	StateStopped
)

var stateNames = map[State]string{
	StateStarting:  "Starting",
	StateAccepting: "Accepting",
	StateStopping:  "Stopping",
	StateStopped:   "Stopped",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "Unknown"
}
