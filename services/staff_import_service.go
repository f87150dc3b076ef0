package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tally-pipeline-api/models"
)

var staffRoles = map[string]int{
	"super administrator":        models.RoleSuperAdministrator,
	"tally manager":              models.RoleTallyManager,
	"intake clerk":               models.RoleIntakeClerk,
	"intake supervisor":          models.RoleIntakeSupervisor,
	"data entry 1 clerk":         models.RoleDataEntry1Clerk,
	"data entry 2 clerk":         models.RoleDataEntry2Clerk,
	"corrections clerk":          models.RoleCorrectionsClerk,
	"quality control clerk":      models.RoleQualityControlClerk,
	"quality control supervisor": models.RoleQualityControlSupervisor,
	"audit clerk":                models.RoleAuditClerk,
	"audit supervisor":           models.RoleAuditSupervisor,
	"clearance clerk":            models.RoleClearanceClerk,
	"clearance supervisor":       models.RoleClearanceSupervisor,
}

// RoleByName resolves a staff-file role label to its role ID.
func RoleByName(name string) (int, error) {
	roleID, ok := staffRoles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unrecognized role %q", name)
	}
	return roleID, nil
}

// ImportStaff loads a staff file. Two layouts are recognized:
// name,username,role,admin,tally_id (staff template) and
// username,name,role (user template). The initial password is the username
// plus passwordSuffix, bcrypt-hashed, with reset_password set so the clerk
// must change it on first login.
func ImportStaff(db *gorm.DB, path, passwordSuffix string) (*ImportSummary, error) {
	reader, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summary := &ImportSummary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		line := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			line++
			if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") ||
				line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "username") {
				continue
			}
			if len(record) < 3 {
				summary.Skipped++
				continue
			}

			var fullName, username, roleName string
			var isAdmin bool
			var tallyID *int

			if len(record) >= 5 {
				// staff template: name,username,role,admin,tally_id
				fullName = strings.TrimSpace(record[0])
				username = strings.TrimSpace(record[1])
				roleName = record[2]
				isAdmin = strings.EqualFold(strings.TrimSpace(record[3]), "yes") ||
					strings.EqualFold(strings.TrimSpace(record[3]), "true")
				if id, err := atoiField(record[4]); err == nil {
					tallyID = &id
				}
			} else {
				// user template: username,name,role
				username = strings.TrimSpace(record[0])
				fullName = strings.TrimSpace(record[1])
				roleName = record[2]
			}

			if username == "" {
				summary.Skipped++
				continue
			}
			roleID, err := RoleByName(roleName)
			if err != nil {
				summary.Skipped++
				continue
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(username+passwordSuffix), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			user := models.User{
				Username:      username,
				FullName:      fullName,
				Password:      string(hash),
				RoleID:        roleID,
				TallyID:       tallyID,
				IsAdmin:       isAdmin,
				ResetPassword: true,
				Active:        true,
			}

			var existing models.User
			lookupErr := tx.Where("username = ?", username).First(&existing).Error
			if lookupErr == nil {
				user.UserID = existing.UserID
				user.Password = existing.Password
				user.ResetPassword = existing.ResetPassword
				if err := tx.Save(&user).Error; err != nil {
					return err
				}
				summary.Updated++
			} else if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				summary.Created++
			} else {
				return lookupErr
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
