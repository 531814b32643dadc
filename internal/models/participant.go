// internal/models/participant.go
package models

import (
	"sort"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Participant is an account holding one or more supply-chain roles.
type Participant struct {
	Account      string         `json:"account" gorm:"primaryKey;size:128"`
	CompanyName  string         `json:"company_name" gorm:"size:255"`
	PasswordHash string         `json:"-" gorm:"size:255"`
	Roles        pq.StringArray `json:"roles" gorm:"type:text[]"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (p *Participant) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

// AddRole reports whether the role set changed.
func (p *Participant) AddRole(role Role) bool {
	if p.HasRole(role) {
		return false
	}
	p.Roles = append(p.Roles, string(role))
	sort.Strings(p.Roles)
	return true
}

// RemoveRole reports whether the role set changed.
func (p *Participant) RemoveRole(role Role) bool {
	kept := p.Roles[:0:0]
	for _, r := range p.Roles {
		if Role(r) != role {
			kept = append(kept, r)
		}
	}
	changed := len(kept) != len(p.Roles)
	p.Roles = kept
	return changed
}

// HasAnyRole reports whether the participant holds at least one of roles.
func (p *Participant) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

func (p *Participant) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashedPassword)
	return nil
}

func (p *Participant) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
}

// Clone copies the role slice so stored records stay isolated.
func (p Participant) Clone() Participant {
	p.Roles = append(pq.StringArray(nil), p.Roles...)
	return p
}
