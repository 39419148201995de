package core

// Client is one live connection as seen by the core layer. Events written to
// its channel are drained by the connection's write loop.
type Client struct {
	ID     string
	UserID int64
	Events chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string, userID int64) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		Events: make(chan *Event, 16),
	}
}

// Send queues an event for delivery to this client. Returns false when the
// client's buffer is full and the event was dropped (slow consumer).
func (c *Client) Send(event *Event) bool {
	select {
	case c.Events <- event:
		return true
	default:
		return false
	}
}
