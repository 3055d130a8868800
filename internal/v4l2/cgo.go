package v4l2

/*
#cgo linux CFLAGS: -I/usr/include
#include <linux/videodev2.h>
*/
import "C"

// This file centralizes the cgo compiler directives for the v4l2 package,
// the same way the upstream go4vl v4l2/cgo.go does: the default
// configuration uses system-provided kernel UAPI headers from
// /usr/include (linux-libc-dev on Debian/Ubuntu, kernel-headers on
// Fedora/RHEL, linux-headers on Arch). Override with CGO_CFLAGS for
// cross-compiled or custom-kernel builds.
