package order

// Status walks a linear fulfilment sequence. Cancellation branches off the
// first two stages only; delivered and cancelled are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var stageOrder = map[Status]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsCancellable reports whether an order in this status may still be
// cancelled by the buyer.
func (s Status) IsCancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo enforces the transition table uniformly, including the
// privileged path: only the next linear stage is allowed, plus cancellation
// from pending or confirmed.
func (s Status) CanTransitionTo(next Status) bool {
	if next == StatusCancelled {
		return s.IsCancellable()
	}
	from, ok := stageOrder[s]
	if !ok {
		return false
	}
	to, ok := stageOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
