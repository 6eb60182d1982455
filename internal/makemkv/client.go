// Package makemkv wraps the MakeMKV CLI for whole-disc capture. The engine
// rips every title above a duration floor and classifies afterwards, so the
// only invocation shape needed is "mkv disc:N all --minlength=S".
package makemkv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps MakeMKV CLI interactions.
type Client struct {
	binary     string
	ripTimeout time.Duration
	exec       Executor
}

// New constructs a MakeMKV client.
func New(binary string, ripTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("makemkv binary required")
	}
	client := &Client{
		binary:     binary,
		ripTimeout: time.Duration(ripTimeoutSeconds) * time.Second,
		exec:       commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// RipAll rips every title at least minLengthSeconds long into destDir,
// teeing tool output into a timestamped log file inside destDir. The log
// path is returned even on failure; a non-zero MakeMKV exit comes back as
// an error that the caller may tolerate when usable outputs exist anyway.
func (c *Client) RipAll(ctx context.Context, driveIndex int, destDir string, minLengthSeconds int) (string, error) {
	if destDir == "" {
		return "", errors.New("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination: %w", err)
	}

	ripCtx := ctx
	if c.ripTimeout > 0 {
		var cancel context.CancelFunc
		ripCtx, cancel = context.WithTimeout(ctx, c.ripTimeout)
		defer cancel()
	}

	args := []string{
		"-r",
		fmt.Sprintf("--minlength=%d", minLengthSeconds),
		"mkv",
		fmt.Sprintf("disc:%d", driveIndex),
		"all",
		destDir,
	}

	logPath := filepath.Join(destDir, fmt.Sprintf("makemkv_rip_%s.log", time.Now().Format("20060102_150405")))
	logFile, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("create rip log: %w", err)
	}
	defer logFile.Close()
	fmt.Fprintf(logFile, "CMD: %s %s\n\n", c.binary, strings.Join(args, " "))

	var mu sync.Mutex
	runErr := c.exec.Run(ripCtx, c.binary, args, func(line string) {
		mu.Lock()
		fmt.Fprintln(logFile, line)
		mu.Unlock()
	})
	if runErr != nil {
		return logPath, fmt.Errorf("makemkv rip: %w", runErr)
	}
	return logPath, nil
}

var titleIndexPattern = regexp.MustCompile(`(?i)(?:title|t)(\d{1,3})`)

// TitleIndex extracts the MakeMKV title number from an output file name
// such as "title_t03.mkv". Reports false for names without one.
func TitleIndex(name string) (int, bool) {
	m := titleIndexPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			mu.Lock()
			onLine(scanner.Text())
			mu.Unlock()
		}
	}
	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("makemkvcon: %w", err)
	}
	return nil
}
