package model

import "errors"

var (
	// Operator related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Classroom related errors
	ErrClassroomNotFound = errors.New("classroom not found")
	ErrClassroomExists   = errors.New("classroom already exists")
	ErrClassroomNotEmpty = errors.New("classroom still has students")

	// Student related errors
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("student already exists")

	// Roster related errors
	ErrAlreadyMember = errors.New("student already belongs to the classroom")
	ErrNotMember     = errors.New("student is not in the classroom")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
