package notification

import (
	"context"
	"testing"
	"time"

	"glowstudio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmail struct {
	to      []string
	subject []string
	body    []string
	err     error
}

func (f *fakeEmail) Send(to, subject, body string) error {
	f.to = append(f.to, to)
	f.subject = append(f.subject, subject)
	f.body = append(f.body, body)
	return f.err
}

func sampleAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:        5,
		UserID:    10,
		StartTime: time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC),
		Status:    domain.AppointmentConfirmed,
		User:      &domain.User{ID: 10, Email: "ana@example.com", FullName: "Ana"},
		Service:   &domain.Service{ID: 7, Name: "Lash Lifting"},
	}
}

func TestAppointmentConfirmed_RendersStudioLocalTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	email := &fakeEmail{}
	n := New(email, nil, loc, "Glow Studio")
	n.AppointmentConfirmed(context.Background(), sampleAppointment())

	require.Len(t, email.to, 1)
	assert.Equal(t, "ana@example.com", email.to[0])
	assert.Contains(t, email.subject[0], "confirmed")
	assert.Contains(t, email.body[0], "Ana")
	assert.Contains(t, email.body[0], "Lash Lifting")
	// 17:00 UTC is 14:00 in Buenos Aires.
	assert.Contains(t, email.body[0], "14:00")
}

func TestAppointmentCancelled_IncludesReason(t *testing.T) {
	email := &fakeEmail{}
	n := New(email, nil, time.UTC, "Glow Studio")
	n.AppointmentCancelled(context.Background(), sampleAppointment(), "schedule conflict")

	require.Len(t, email.body, 1)
	assert.Contains(t, email.body[0], "schedule conflict")
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	email := &fakeEmail{err: assert.AnError}
	n := New(email, nil, time.UTC, "Glow Studio")

	// Must not panic or propagate.
	n.AppointmentBooked(context.Background(), sampleAppointment())
	n.AppointmentReminder(context.Background(), sampleAppointment())
}

func TestMissingRecipientSkipsSend(t *testing.T) {
	email := &fakeEmail{}
	n := New(email, nil, time.UTC, "Glow Studio")

	a := sampleAppointment()
	a.User = nil
	n.AppointmentConfirmed(context.Background(), a)
	assert.Empty(t, email.to)
}

func TestPaymentReceived_IncludesAmount(t *testing.T) {
	email := &fakeEmail{}
	n := New(email, nil, time.UTC, "Glow Studio")

	n.PaymentReceived(context.Background(), &domain.Payment{ID: 31, Amount: 5400}, sampleAppointment())
	require.Len(t, email.body, 1)
	assert.Contains(t, email.body[0], "5400.00")
}
