package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"support-relay/internal/domain"
	"support-relay/internal/ports/output"
	"support-relay/pkg/metrics"

	"github.com/sirupsen/logrus"
)

const defaultNotificationTimeout = 30 * time.Second

// NotificationDispatcher struct - Runs support notifications in the background.
// The chat reply never waits for, or depends on, delivery.
type NotificationDispatcher struct {
	notifiers []output.Notifier
	timeout   time.Duration
	metrics   *metrics.Collector
	wg        sync.WaitGroup
}

// NewNotificationDispatcher func - Creates new dispatcher. A non-positive timeout uses 30s.
func NewNotificationDispatcher(notifiers []output.Notifier, timeout time.Duration, collector *metrics.Collector) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = defaultNotificationTimeout
	}
	if len(notifiers) == 0 {
		logrus.Warn("No notification transport configured; support requests will only be logged")
	}
	return &NotificationDispatcher{
		notifiers: notifiers,
		timeout:   timeout,
		metrics:   collector,
	}
}

// Dispatch starts delivery of request to every transport and returns immediately
func (d *NotificationDispatcher) Dispatch(request domain.SupportRequest) {
	if request.RequestedAt.IsZero() {
		request.RequestedAt = time.Now()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.deliver(ctx, request); err != nil {
			logrus.Errorf("Support notification for session %s failed: %v", request.SessionID, err)
			return
		}
		logrus.Infof("Support notification for session %s delivered via %d transport(s)", request.SessionID, len(d.notifiers))
	}()
}

// deliver fans out to all transports concurrently and joins their errors
func (d *NotificationDispatcher) deliver(ctx context.Context, request domain.SupportRequest) error {
	if len(d.notifiers) == 0 {
		logrus.Infof("Support request (session=%s, channel=%s): %s", request.SessionID, request.Channel, request.Message)
		return nil
	}

	errs := make([]error, len(d.notifiers))
	var wg sync.WaitGroup
	for i, n := range d.notifiers {
		wg.Add(1)
		go func(i int, n output.Notifier) {
			defer wg.Done()
			err := n.Notify(ctx, request)
			d.metrics.ObserveNotification(n.Name(), err)
			if err != nil {
				logrus.Warnf("Notification transport %s failed: %v", n.Name(), err)
				errs[i] = err
				return
			}
			logrus.Debugf("Notification transport %s succeeded", n.Name())
		}(i, n)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Wait blocks until every dispatched notification has finished
func (d *NotificationDispatcher) Wait() {
	d.wg.Wait()
}
