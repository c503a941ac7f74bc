package attendance

import (
	"time"

	"github.com/google/uuid"
)

type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_employee_workdate,unique"`

	WorkDate time.Time  `gorm:"type:date;not null;index:idx_employee_workdate,unique"`
	ClockIn  time.Time  `gorm:"not null"`
	ClockOut *time.Time `gorm:"index"`

	// Overtime worked on this day, already netted against the work
	// system's scheduled hours when the row is written.
	OvertimeMinutes int64 `gorm:"type:bigint;not null;default:0"`

	Status    string `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
