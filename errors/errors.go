package errors

import (
	"errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrMissingEventType = fmt.Errorf("event type is missing")
	ErrMalformedEvent   = fmt.Errorf("malformed event")
	ErrInvalidContent   = fmt.Errorf("invalid comment content")

	ErrParentNotFound  = fmt.Errorf("parent post not found")
	ErrCommentNotFound = fmt.Errorf("comment not found")
	ErrParkingFull     = fmt.Errorf("parking buffer is full")
	ErrParkingExpired  = fmt.Errorf("parked event expired")

	ErrNotFound              = fmt.Errorf("not found")
	ErrDeliveryFailed        = fmt.Errorf("delivery failed")
	ErrDispatcherStopped     = fmt.Errorf("dispatcher is stopped")
	ErrPublishFailed         = fmt.Errorf("event could not be published")
	ErrInvalidRequest        = fmt.Errorf("invalid request")
	ErrMailboxFull           = fmt.Errorf("mailbox is full")
	ErrUnknownDriver         = fmt.Errorf("unknown store driver")
	ErrInvalidSubscriberList = fmt.Errorf("invalid subscriber list")
)

// IsRetryable reports whether an event failed to apply only because a
// dependency it references has not been observed yet.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrParentNotFound) || errors.Is(err, ErrCommentNotFound)
}

// IsMalformed reports whether err comes from an event rejected at decode time.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMissingEventType) || errors.Is(err, ErrMalformedEvent)
}
