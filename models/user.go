package models

import "time"

// Role IDs. Stored as small integers on the users table; a role carries the
// capability set for its stage of the pipeline.
const (
	RoleSuperAdministrator = iota + 1
	RoleTallyManager
	RoleIntakeClerk
	RoleIntakeSupervisor
	RoleDataEntry1Clerk
	RoleDataEntry2Clerk
	RoleCorrectionsClerk
	RoleQualityControlClerk
	RoleQualityControlSupervisor
	RoleAuditClerk
	RoleAuditSupervisor
	RoleClearanceClerk
	RoleClearanceSupervisor
)

type User struct {
	UserID        int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username      string     `gorm:"column:username;unique" json:"username"`
	FullName      string     `gorm:"column:full_name" json:"full_name"`
	Email         *string    `gorm:"column:email" json:"email,omitempty"`
	Password      string     `gorm:"column:password" json:"-"`
	RoleID        int        `gorm:"column:role_id" json:"role_id"`
	TallyID       *int       `gorm:"column:tally_id" json:"tally_id,omitempty"`
	IsAdmin       bool       `gorm:"column:is_admin;default:false" json:"is_admin"`
	ResetPassword bool       `gorm:"column:reset_password;default:false" json:"reset_password"`
	Active        bool       `gorm:"column:active;default:true" json:"active"`
	CreatedDate   time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate  time.Time  `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Tally *Tally `gorm:"foreignKey:TallyID" json:"tally,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsTallyManager reports whether the user may approve workflow requests.
func (u *User) IsTallyManager() bool {
	return u.RoleID == RoleTallyManager || u.RoleID == RoleSuperAdministrator
}

// IsSuperAdministrator reports whether the user has unrestricted access.
func (u *User) IsSuperAdministrator() bool {
	return u.RoleID == RoleSuperAdministrator
}
