package model

import "time"

// Role identifies which of the three disjoint account tables an actor
// reference points into. The pair (ID, Role) is not a foreign key; the
// application resolves it at runtime.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleDirector   Role = "directivo"
	RoleStaff      Role = "personal"
)

// Valid reports whether r is one of the known actor roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleDirector, RoleStaff:
		return true
	}
	return false
}

// ActorRef is a tagged reference to a row in the table named by Role.
type ActorRef struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}

type SuperUser struct {
	ID             uint      `gorm:"primaryKey"`
	Username       string    `gorm:"not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"column:password;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

type Director struct {
	ID             uint      `gorm:"primaryKey"`
	FullName       string    `gorm:"not null"`
	Position       string    `gorm:"not null"`
	UnitID         uint      `gorm:"not null;index"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"column:password;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Unit OrgUnit `gorm:"foreignKey:UnitID"`
}

type StaffMember struct {
	ID             uint      `gorm:"primaryKey"`
	FullName       string    `gorm:"not null"`
	RoleTitle      string    `gorm:"not null"`
	UnitID         uint      `gorm:"not null;index"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"column:password;not null"`
	Photo          *string   `gorm:"column:photo"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Unit OrgUnit `gorm:"foreignKey:UnitID"`
}
