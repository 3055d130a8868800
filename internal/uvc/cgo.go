package uvc

/*
#cgo linux CFLAGS: -I/usr/include
#include <linux/usb/ch9.h>
#include <linux/usb/video.h>
*/
import "C"

// cgo.go centralizes the compiler directives for the uvc package, the
// same posture v4l2/cgo.go takes for the capture side: real kernel UAPI
// headers, no vendored copies. These two headers are the ones the
// original uvc-gadget.c source itself includes for the USB control
// plane: linux/usb/ch9.h for struct usb_ctrlrequest, linux/usb/video.h
// for the UVC gadget event/request-data structures and UVCIOC_SEND_RESPONSE.
