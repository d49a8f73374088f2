package payment

import "errors"

var (
	ErrNotFound           = errors.New("payment not found")
	ErrAppointmentMissing = errors.New("appointment not found")
	ErrForbidden          = errors.New("appointment belongs to another user")
	ErrNotPayable         = errors.New("appointment is not payable")
	ErrAlreadySettling    = errors.New("appointment already has a payment in progress")
	ErrGateway            = errors.New("payment gateway request failed")
)
