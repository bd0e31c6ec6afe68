package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/MrJamesThe3rd/supersaver/internal/fsutil"
)

// Outbox writes each message as an .eml file into a directory instead of
// sending it, for stores without a mail relay.
type Outbox struct {
	dir string
	env Envelope
	now func() time.Time
}

func NewOutbox(dir string, env Envelope) *Outbox {
	return &Outbox{dir: dir, env: env, now: time.Now}
}

func (o *Outbox) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := o.now()

	data, err := Compose(o.env, msg, now)
	if err != nil {
		return fmt.Errorf("compose report e-mail: %w", err)
	}

	path := filepath.Join(o.dir, now.Format("20060102-150405.000000000")+".eml")
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write outbox message: %w", err)
	}

	slog.Info("report written to outbox", "path", path)

	return nil
}
