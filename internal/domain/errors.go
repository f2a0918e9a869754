package domain

import (
	"errors"
	"fmt"
)

// DomainError keeps backward compatibility for generic codes.
type DomainError struct {
	Code string
	Err  error
}

func (e DomainError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// InsufficientSeatsError berarti kursi tidak cukup saat reservasi; tidak ada perubahan state.
type InsufficientSeatsError struct {
	ScheduleID int64
	Requested  int
}

func (e InsufficientSeatsError) Error() string {
	return fmt.Sprintf("schedule %d: kursi tidak cukup untuk %d penumpang", e.ScheduleID, e.Requested)
}

// UnsupportedMethodError berarti metode pembayaran tidak dikenali; tidak ada Payment dibuat.
type UnsupportedMethodError struct {
	Method string
}

func (e UnsupportedMethodError) Error() string {
	return fmt.Sprintf("metode pembayaran %q tidak didukung", e.Method)
}

// GatewayError membungkus kegagalan jaringan/provider dari payment gateway.
// Booking/Payment tetap pada state terakhir yang konsisten; aman di-retry.
type GatewayError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e GatewayError) Unwrap() error { return e.Err }

// DuplicatePaymentError muncul saat unique constraint external_id kena
// (defensif; seharusnya dicegah oleh idempotency check).
type DuplicatePaymentError struct {
	ExternalID string
}

func (e DuplicatePaymentError) Error() string {
	return fmt.Sprintf("payment dengan external_id %q sudah ada", e.ExternalID)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsInsufficientSeats(err error) bool {
	var target InsufficientSeatsError
	return errors.As(err, &target)
}

func IsUnsupportedMethod(err error) bool {
	var target UnsupportedMethodError
	return errors.As(err, &target)
}

func IsGatewayError(err error) bool {
	var target GatewayError
	return errors.As(err, &target)
}

func IsDuplicatePayment(err error) bool {
	var target DuplicatePaymentError
	return errors.As(err, &target)
}
