package model

import (
	"fmt"
	"strings"
)

// ClassroomRow is one line of the classroom list screen.
type ClassroomRow struct {
	Key             string `json:"key"`
	ClassName       string `json:"classname"`
	AcademicYear    int    `json:"academicYear"`
	HomeroomTeacher string `json:"homeroomTeacher"`
}

// Classroom is the detail/edit form payload. ID repeats the path identifier
// on updates.
type Classroom struct {
	ID              string `json:"id,omitempty"`
	ClassroomID     string `json:"classroomId"`
	ClassName       string `json:"className"`
	AcademicYear    int    `json:"academicYear"`
	HomeroomTeacher string `json:"homeroomTeacher"`
}

func (c Classroom) Row() ClassroomRow {
	return ClassroomRow{
		Key:             c.ClassroomID,
		ClassName:       c.ClassName,
		AcademicYear:    c.AcademicYear,
		HomeroomTeacher: c.HomeroomTeacher,
	}
}

// Validate checks the fields the API requires. Academic years are accepted
// in both Gregorian and Buddhist era.
func (c Classroom) Validate() error {
	if strings.TrimSpace(c.ClassroomID) == "" {
		return fmt.Errorf("%w: classroomId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.ClassName) == "" {
		return fmt.Errorf("%w: className is required", ErrInvalidInput)
	}
	if c.AcademicYear < 1900 || c.AcademicYear > 2700 {
		return fmt.Errorf("%w: academicYear must be a four digit year", ErrInvalidInput)
	}
	return nil
}

// ClassroomFilter is the classroom list search form.
type ClassroomFilter struct {
	ClassroomID     string
	ClassName       string
	HomeroomTeacher string
}
