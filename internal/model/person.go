package model

import (
	"golang.org/x/crypto/bcrypt"
)

type PersonType string

const (
	PersonTypeStudent    PersonType = "student"
	PersonTypeInstructor PersonType = "instructor"
	PersonTypeAssistant  PersonType = "assistant"
	PersonTypeAdmin      PersonType = "admin"
)

var PersonTypes = []PersonType{PersonTypeStudent, PersonTypeInstructor, PersonTypeAssistant, PersonTypeAdmin}

func (t PersonType) Valid() bool {
	for _, pt := range PersonTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// Person is an identity record. Student, Instructor and Assistant profiles hang off it.
type Person struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Photo        string     `json:"photo"`
	PasswordHash string     `json:"-"`
	Type         PersonType `json:"type"`
}

// SetPassword stores the bcrypt hash of pwd.
func (p *Person) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares pwd with the stored hash.
func (p *Person) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(pwd))
}

func (p Person) IsAdmin() bool { return p.Type == PersonTypeAdmin }

// NewPerson is the input for creating a Person. Password is plain text and hashed by the service.
type NewPerson struct {
	Name     string     `form:"name" json:"name" validate:"required,max=100"`
	Email    string     `form:"email" json:"email" validate:"required,email,max=120"`
	Password string     `form:"password" json:"-" validate:"required,min=6,max=72"`
	Photo    string     `form:"photo" json:"photo" validate:"max=120"`
	Type     PersonType `form:"type" json:"type" validate:"required,persontype"`
}

type PersonUpdate struct {
	Name  *string     `form:"name" validate:"omitempty,min=1,max=100"`
	Email *string     `form:"email" validate:"omitempty,email,max=120"`
	Photo *string     `form:"photo" validate:"omitempty,max=120"`
	Type  *PersonType `form:"type" validate:"omitempty,persontype"`
}
