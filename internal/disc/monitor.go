package disc

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"discmapper/internal/logging"
)

// InsertionMonitor listens for udev netlink disc-insertion events and wakes
// the wait-for-disc poll loop early. Polling the drive remains the source of
// truth; the monitor only shortens the wait, so a failed netlink connect is
// logged and ignored.
type InsertionMonitor struct {
	logger *slog.Logger
	device string
	wake   func()

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewInsertionMonitor builds a monitor for one device. wake is called on
// every matched insertion event. Returns nil when no device is configured.
func NewInsertionMonitor(logger *slog.Logger, device string, wake func()) *InsertionMonitor {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil
	}
	return &InsertionMonitor{
		logger: logging.NewComponentLogger(logger, "disc-monitor"),
		device: device,
		wake:   wake,
	}
}

// Start begins listening for udev netlink events.
func (m *InsertionMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; disc detection falls back to polling alone",
			logging.Error(err),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, conn, quit)

	m.logger.Info("insertion monitor started", logging.String("device", m.device))
	return nil
}

// Stop shuts down the monitor.
func (m *InsertionMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("insertion monitor stopped")
}

// Running reports whether the monitor is active.
func (m *InsertionMonitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *InsertionMonitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	monitorQuit := conn.Monitor(queue, errs, discInsertionMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("insertion monitor error", logging.Error(err))
		}
	}
}

// discInsertionMatcher matches SUBSYSTEM=block, ID_CDROM=1,
// ID_CDROM_MEDIA=1, ACTION=change|add.
func discInsertionMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

func (m *InsertionMonitor) handleEvent(uevent netlink.UEvent) {
	devname := extractDeviceName(uevent)
	if devname == "" || devname != m.device {
		return
	}

	m.logger.Info("disc media detected via netlink",
		logging.String("device", devname),
		logging.String("action", string(uevent.Action)),
	)
	if m.wake != nil {
		m.wake()
	}
}

func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
