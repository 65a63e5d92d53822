package emailer

import "context"

type emailRecorder interface {
	RecordEmail(transport string, err error)
}

// Metered counts deliveries of the wrapped sender by outcome.
type Metered struct {
	next      Sender
	transport string
	rec       emailRecorder
}

func NewMetered(next Sender, transport string, rec emailRecorder) *Metered {
	return &Metered{next: next, transport: transport, rec: rec}
}

func (m *Metered) Send(ctx context.Context, msg Message) error {
	err := m.next.Send(ctx, msg)
	m.rec.RecordEmail(m.transport, err)
	return err
}
