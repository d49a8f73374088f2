package repository

import (
	"context"
	"time"

	"glowstudio/internal/domain"

	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type appointmentModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	UserID             int64      `gorm:"column:user_id;index"`
	ServiceID          int64      `gorm:"column:service_id;index"`
	StartTime          time.Time  `gorm:"column:start_time;index"`
	EndTime            time.Time  `gorm:"column:end_time"`
	Status             string     `gorm:"column:status;index"`
	Notes              *string    `gorm:"column:notes"`
	ReminderSent       bool       `gorm:"column:reminder_sent"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`

	User    *userModel    `gorm:"foreignKey:UserID"`
	Service *serviceModel `gorm:"foreignKey:ServiceID"`
}

func (appointmentModel) TableName() string { return "appointments" }

func toDomainAppointment(m appointmentModel) *domain.Appointment {
	var notes, reason string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	a := &domain.Appointment{
		ID:                 m.ID,
		UserID:             m.UserID,
		ServiceID:          m.ServiceID,
		StartTime:          m.StartTime.UTC(),
		EndTime:            m.EndTime.UTC(),
		Status:             domain.AppointmentStatus(m.Status),
		Notes:              notes,
		ReminderSent:       m.ReminderSent,
		CancelledAt:        m.CancelledAt,
		CancellationReason: reason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.User != nil {
		a.User = toDomainUser(*m.User)
	}
	if m.Service != nil {
		a.Service = toDomainService(*m.Service)
	}
	return a
}

func toAppointmentModel(a *domain.Appointment) appointmentModel {
	var notes, reason *string
	if a.Notes != "" {
		v := a.Notes
		notes = &v
	}
	if a.CancellationReason != "" {
		v := a.CancellationReason
		reason = &v
	}
	return appointmentModel{
		ID:                 a.ID,
		UserID:             a.UserID,
		ServiceID:          a.ServiceID,
		StartTime:          a.StartTime.UTC(),
		EndTime:            a.EndTime.UTC(),
		Status:             string(a.Status),
		Notes:              notes,
		ReminderSent:       a.ReminderSent,
		CancelledAt:        a.CancelledAt,
		CancellationReason: reason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	m := toAppointmentModel(a)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainAppointment(m)
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var m appointmentModel
	tx := r.db.WithContext(ctx).Preload("User").Preload("Service").First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAppointment(m), nil
}

// CountActiveOverlapping is the conflict pre-check: active appointments whose
// half-open window [start_time, end_time) intersects [start, end). excludeID
// lets an update ignore the appointment being moved. The same predicate is
// enforced authoritatively by the idx_no_overlapping_appointments exclusion
// constraint on Postgres.
func (r *AppointmentRepository) CountActiveOverlapping(ctx context.Context, start, end time.Time, excludeID int64) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("status IN ?", []string{string(domain.AppointmentPending), string(domain.AppointmentConfirmed)}).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC())
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

// ListActiveBetween returns active appointments intersecting [start, end),
// ordered by start time. Used to annotate slot listings in one query.
func (r *AppointmentRepository) ListActiveBetween(ctx context.Context, start, end time.Time) ([]domain.Appointment, error) {
	var rows []appointmentModel
	tx := r.db.WithContext(ctx).
		Where("status IN ?", []string{string(domain.AppointmentPending), string(domain.AppointmentConfirmed)}).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC()).
		Order("start_time").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

func (r *AppointmentRepository) ListByUser(ctx context.Context, userID int64, upcoming bool, now time.Time, limit int) ([]domain.Appointment, error) {
	q := r.db.WithContext(ctx).
		Preload("Service").
		Where("user_id = ?", userID)

	if upcoming {
		q = q.Where("start_time >= ?", now.UTC()).
			Where("status IN ?", []string{string(domain.AppointmentPending), string(domain.AppointmentConfirmed)}).
			Order("start_time ASC")
	} else {
		q = q.Where("start_time < ? OR status IN ?", now.UTC(),
			[]string{string(domain.AppointmentCompleted), string(domain.AppointmentCancelled)}).
			Order("start_time DESC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []appointmentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

func (r *AppointmentRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Appointment, error) {
	var rows []appointmentModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where("start_time >= ? AND start_time < ?", start.UTC(), end.UTC()).
		Order("start_time").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

func (r *AppointmentRepository) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]domain.Appointment, error) {
	var rows []appointmentModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where("start_time >= ?", now.UTC()).
		Where("status IN ?", []string{string(domain.AppointmentPending), string(domain.AppointmentConfirmed)}).
		Order("start_time ASC").
		Limit(limit).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

func (r *AppointmentRepository) UpdateTime(ctx context.Context, id int64, start, end time.Time) error {
	return r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"start_time": start.UTC(),
			"end_time":   end.UTC(),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *AppointmentRepository) CancelWithReason(ctx context.Context, id int64, reason string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              string(domain.AppointmentCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        now.UTC(),
			"updated_at":          now.UTC(),
		}).Error
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&appointmentModel{}, id).Error
}

// SweepPendingExpired bulk-cancels pending appointments whose start is
// strictly before now. Returns the number of rows transitioned; a second run
// with the same now touches nothing.
func (r *AppointmentRepository) SweepPendingExpired(ctx context.Context, now time.Time, reason string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("status = ?", string(domain.AppointmentPending)).
		Where("start_time < ?", now.UTC()).
		Updates(map[string]interface{}{
			"status":              string(domain.AppointmentCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        now.UTC(),
			"updated_at":          now.UTC(),
		})
	return tx.RowsAffected, tx.Error
}

// CancelAllUpcomingForUser releases the slots held by a departing user's
// active appointments.
func (r *AppointmentRepository) CancelAllUpcomingForUser(ctx context.Context, userID int64, reason string, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{string(domain.AppointmentPending), string(domain.AppointmentConfirmed)}).
		Where("start_time >= ?", now.UTC()).
		Updates(map[string]interface{}{
			"status":              string(domain.AppointmentCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        now.UTC(),
			"updated_at":          now.UTC(),
		})
	return tx.RowsAffected, tx.Error
}

// SweepConfirmedCompleted bulk-completes confirmed appointments whose start is
// strictly before now.
func (r *AppointmentRepository) SweepConfirmedCompleted(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("status = ?", string(domain.AppointmentConfirmed)).
		Where("start_time < ?", now.UTC()).
		Updates(map[string]interface{}{
			"status":     string(domain.AppointmentCompleted),
			"updated_at": now.UTC(),
		})
	return tx.RowsAffected, tx.Error
}

// DueReminders returns active appointments starting within [now, now+lead)
// that have not been reminded yet.
func (r *AppointmentRepository) DueReminders(ctx context.Context, now time.Time, lead time.Duration) ([]domain.Appointment, error) {
	var rows []appointmentModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where("status IN ?", []string{string(domain.AppointmentPending), string(domain.AppointmentConfirmed)}).
		Where("reminder_sent = ?", false).
		Where("start_time >= ? AND start_time < ?", now.UTC(), now.UTC().Add(lead)).
		Order("start_time").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

func (r *AppointmentRepository) MarkReminderSent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error
}

func (r *AppointmentRepository) CountByStatusBetween(ctx context.Context, start, end time.Time) (map[domain.AppointmentStatus]int64, error) {
	type row struct {
		Status string
		Cnt    int64
	}
	var rows []row
	tx := r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Select("status, COUNT(1) AS cnt").
		Where("start_time >= ? AND start_time < ?", start.UTC(), end.UTC()).
		Group("status").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make(map[domain.AppointmentStatus]int64, len(rows))
	for _, r := range rows {
		out[domain.AppointmentStatus(r.Status)] = r.Cnt
	}
	return out, nil
}
