package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Mover relocates files and directories, absorbing transient lock contention
// (indexers, antivirus, slow unmounts) with bounded retries before falling
// back to copy-then-delete. A move only fails once the destination still does
// not exist after the fallback.
type Mover struct {
	Retries int
	Delay   time.Duration

	// rename and sleep are replaceable for fault-injection tests.
	rename func(src, dst string) error
	sleep  func(time.Duration)
}

// NewMover returns a mover with the retry budget used across the pipeline.
func NewMover(retries int, delay time.Duration) *Mover {
	if retries < 1 {
		retries = 1
	}
	if delay < 0 {
		delay = 0
	}
	return &Mover{Retries: retries, Delay: delay, rename: os.Rename, sleep: time.Sleep}
}

// Move relocates src to dst, creating dst's parent directory. The delay grows
// linearly with the attempt number.
func (m *Mover) Move(src, dst string) error {
	renameFn := m.rename
	if renameFn == nil {
		renameFn = os.Rename
	}
	sleepFn := m.sleep
	if sleepFn == nil {
		sleepFn = time.Sleep
	}

	var last error
	for attempt := 0; attempt < m.Retries; attempt++ {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("ensure destination parent: %w", err)
		}
		if err := renameFn(src, dst); err != nil {
			last = err
			sleepFn(m.Delay * time.Duration(attempt+1))
			continue
		}
		return nil
	}

	// Rename never succeeded (still locked, or src and dst live on
	// different filesystems). Copy then delete, best effort on the delete.
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("move %s -> %s: stat source: %w (last rename error: %v)", src, dst, err, last)
	}
	if info.IsDir() {
		if err := CopyTree(src, dst); err != nil {
			return fmt.Errorf("move %s -> %s: copy fallback: %w (last rename error: %v)", src, dst, err, last)
		}
		m.removeWithRetry(src, sleepFn)
	} else {
		if err := CopyFile(src, dst); err != nil {
			return fmt.Errorf("move %s -> %s: copy fallback: %w (last rename error: %v)", src, dst, err, last)
		}
		m.removeWithRetry(src, sleepFn)
	}

	if _, err := os.Stat(dst); err != nil {
		return fmt.Errorf("move %s -> %s: destination missing after copy fallback (last rename error: %v)", src, dst, last)
	}
	return nil
}

// MoveIntoDir relocates src under targetRoot keeping its base name. When the
// destination already exists the name gains a suffix instead of clobbering.
func (m *Mover) MoveIntoDir(src, targetRoot, suffix string) (string, error) {
	if err := os.MkdirAll(targetRoot, 0o755); err != nil {
		return "", fmt.Errorf("ensure target root: %w", err)
	}
	dst := filepath.Join(targetRoot, filepath.Base(src))
	if _, err := os.Stat(dst); err == nil {
		dst = dst + "__" + suffix
	}
	if err := m.Move(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (m *Mover) removeWithRetry(path string, sleepFn func(time.Duration)) {
	for attempt := 0; attempt < m.Retries; attempt++ {
		if err := os.RemoveAll(path); err == nil {
			return
		}
		sleepFn(m.Delay * time.Duration(attempt+1))
	}
}
