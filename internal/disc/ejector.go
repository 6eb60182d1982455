package disc

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Ejector releases the finished disc so the operator can feed the next one.
// Timing policy (the settle delay before the tray opens, whether to eject on
// failure) lives with the capture pipeline, not here.
type Ejector interface {
	Eject(ctx context.Context, device string) error
}

// NewEjector returns an Ejector backed by the eject(1) utility. An empty
// device lets the utility pick its default drive.
func NewEjector() Ejector {
	return commandEjector{}
}

type commandEjector struct{}

func (commandEjector) Eject(ctx context.Context, device string) error {
	args := []string{}
	if device = strings.TrimSpace(device); device != "" {
		args = append(args, device)
	}
	output, err := exec.CommandContext(ctx, "eject", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("eject %s: %w: %s", device, err, strings.TrimSpace(string(output)))
	}
	return nil
}
