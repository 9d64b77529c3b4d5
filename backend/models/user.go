package models

import "gorm.io/gorm"

// Role is the single role a user holds. Roles form a strict superset
// hierarchy: admin can do everything a teacher can, a teacher everything a
// student can.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

var roleRank = map[Role]int{
	RoleStudent: 0,
	RoleTeacher: 1,
	RoleAdmin:   2,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Can reports whether a holder of r satisfies the required role.
func (r Role) Can(required Role) bool {
	return roleRank[r] >= roleRank[required]
}

type User struct {
	gorm.Model
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"type:varchar(16);default:student"`

	Quizzes   []Quiz     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	MockTests []MockTest `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
