// Package disc talks to the optical drive: media presence via the
// CDROM_DRIVE_STATUS ioctl, tray ejection via the eject utility, mounted
// disc structure checks, and optional udev insertion events that wake the
// wait-for-disc poll loop early.
package disc
