package user

import "errors"

// User is a registered member of the carpool service. Alias is the global
// key and never changes; CarPlate is empty for passenger-only users.
type User struct {
	Alias    string `json:"alias"`
	Name     string `json:"name"`
	CarPlate string `json:"carPlate"`
}

// Errors
var (
	ErrAliasTaken = errors.New("user alias already exists")
	ErrNotFound   = errors.New("user not found")
)

// New creates a user. Alias and name are required; carPlate may be empty.
func New(alias, name, carPlate string) *User {
	return &User{
		Alias:    alias,
		Name:     name,
		CarPlate: carPlate,
	}
}

// HasCar reports whether the user registered a vehicle.
func (u *User) HasCar() bool {
	return u.CarPlate != ""
}
