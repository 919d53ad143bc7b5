package Models

import "gorm.io/gorm"

// User is the call-centre account the Verify middleware resolves. Account
// creation and login live in the dashboard backend, not here.
type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"unique"`
	Permission int    `json:"permission"`
}
