package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/quadroapp/quadro/internal/invitation"
	"github.com/quadroapp/quadro/internal/storage"
)

const (
	defaultQueueSize = 64
	deliveryTimeout  = 10 * time.Second
)

// Mailer delivers one rendered message to one address.
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// Dispatcher delivers invitation notices in the background. Enqueueing
// never blocks the caller; when the queue is full the notice is dropped
// and logged. Delivery failure is logged and never surfaced.
type Dispatcher struct {
	users  storage.UserStore
	mailer Mailer
	logger *log.Logger

	queue chan invitation.Notice
	once  sync.Once
	wg    sync.WaitGroup
}

// NewDispatcher constructs an invitation notice dispatcher. Call Start to
// launch the delivery worker and Close to drain it on shutdown.
func NewDispatcher(users storage.UserStore, mailer Mailer, queueSize int, logger *log.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		users:  users,
		mailer: mailer,
		logger: logger,
		queue:  make(chan invitation.Notice, queueSize),
	}
}

// Start launches the background delivery worker.
func (d *Dispatcher) Start() {
	if d == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for notice := range d.queue {
			d.deliver(notice)
		}
	}()
}

// Close stops accepting notices and waits for queued deliveries to finish.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

// InvitationCreated schedules one notice for delivery. It never blocks and
// never fails the calling request.
func (d *Dispatcher) InvitationCreated(notice invitation.Notice) {
	if d == nil {
		return
	}
	select {
	case d.queue <- notice:
	default:
		d.logger.Printf("notify: queue full, dropping notice for invitation %s", notice.InvitationID)
	}
}

func (d *Dispatcher) deliver(notice invitation.Notice) {
	if d.users == nil || d.mailer == nil {
		d.logger.Printf("notify: dispatcher not fully configured, dropping notice for invitation %s", notice.InvitationID)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	invitee, err := d.users.GetUser(ctx, notice.InvitedUserID)
	if err != nil {
		d.logger.Printf("notify: load invited user %s: %v", notice.InvitedUserID, err)
		return
	}

	inviterName := ""
	if inviter, err := d.users.GetUser(ctx, notice.InviterID); err == nil {
		inviterName = inviter.Name
	}

	output := Render(PrinterFor(invitee.PreferredLanguage), Input{
		BoardTitle:  notice.BoardTitle,
		InviterName: inviterName,
	})
	if err := d.mailer.Send(ctx, invitee.Email, output.Subject, output.Body); err != nil {
		d.logger.Printf("notify: send invitation %s to %s: %v", notice.InvitationID, invitee.Email, err)
	}
}
