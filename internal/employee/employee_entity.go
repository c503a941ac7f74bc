package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Department string    `gorm:"type:varchar(60);not null;index"`

	// Money is stored in minor units to avoid floating point drift.
	// BaseSalary is the standing monthly salary; raises overwrite it.
	BaseSalary   int64 `gorm:"type:bigint;not null;default:0"`
	OvertimeRate int64 `gorm:"type:bigint;not null;default:0"`

	Active bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// BatchTarget is one row of the default calculation target set.
type BatchTarget struct {
	EmployeeID uuid.UUID `gorm:"column:id"`
	Department string
	Name       string
}
