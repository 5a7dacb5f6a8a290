package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/julianstephens/sagestudy/internal/logger"
)

// LogDeliverer prints reminders instead of showing them. Used for dry runs.
type LogDeliverer struct {
	out io.Writer
}

func NewLogDeliverer(out io.Writer) *LogDeliverer {
	return &LogDeliverer{out: out}
}

func (d *LogDeliverer) Ready(ctx context.Context) error {
	return nil
}

func (d *LogDeliverer) Deliver(ctx context.Context, payload Payload) error {
	logger.Info("Reminder fired", "task_id", payload.TaskID, "title", payload.Title)
	if d.out == nil {
		return nil
	}
	_, err := fmt.Fprintf(d.out, "Reminder: %s\n", FormatText(payload))
	return err
}
