package disc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMountUnavailable reports that the configured mount point does not
// exist, so the structure of the inserted disc cannot be inspected.
var ErrMountUnavailable = errors.New("disc mount point unavailable")

// HasVideoStructure reports whether a mounted disc carries a DVD (VIDEO_TS)
// or Blu-ray (BDMV) layout. A data disc or badly authored disc has neither
// and would make the ripper spin uselessly.
func HasVideoStructure(mountPoint string) (bool, error) {
	if _, err := os.Stat(mountPoint); err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrMountUnavailable, mountPoint)
		}
		return false, fmt.Errorf("stat mount point %s: %w", mountPoint, err)
	}

	for _, marker := range []string{"VIDEO_TS", "BDMV"} {
		info, err := os.Stat(filepath.Join(mountPoint, marker))
		if err == nil && info.IsDir() {
			return true, nil
		}
	}
	return false, nil
}
