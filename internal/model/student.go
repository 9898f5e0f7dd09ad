package model

import (
	"fmt"
	"strings"
	"time"
)

// BirthDateLayout is the wire format of Student.BirthDate.
const BirthDateLayout = "2006-01-02"

// StudentRow is one line of the student list and roster screens.
type StudentRow struct {
	Key        string `json:"key"`
	Fullname   string `json:"fullname"`
	LevelName  string `json:"levelName"`
	BirthDate  string `json:"birthdate"`
	GenderName string `json:"genderName"`
}

type Student struct {
	ID           string `json:"id,omitempty"`
	StudentID    string `json:"studentId"`
	PrefixID     int    `json:"prefixId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	GradeLevelID int    `json:"gradeLevelId"`
	GenderID     int    `json:"genderId"`
	BirthDate    string `json:"birthDate"`
}

func (s Student) Fullname() string {
	prefix, _ := LabelOf(StudentPrefixes, s.PrefixID)
	return strings.TrimSpace(prefix + s.FirstName + " " + s.LastName)
}

func (s Student) Row() StudentRow {
	level, _ := LabelOf(GradeLevels, s.GradeLevelID)
	gender, _ := LabelOf(Genders, s.GenderID)
	return StudentRow{
		Key:        s.StudentID,
		Fullname:   s.Fullname(),
		LevelName:  level,
		BirthDate:  s.BirthDate,
		GenderName: gender,
	}
}

func (s Student) Validate() error {
	if strings.TrimSpace(s.StudentID) == "" {
		return fmt.Errorf("%w: studentId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(s.FirstName) == "" || strings.TrimSpace(s.LastName) == "" {
		return fmt.Errorf("%w: firstName and lastName are required", ErrInvalidInput)
	}
	if _, ok := LabelOf(StudentPrefixes, s.PrefixID); !ok {
		return fmt.Errorf("%w: unknown prefixId %d", ErrInvalidInput, s.PrefixID)
	}
	if _, ok := LabelOf(GradeLevels, s.GradeLevelID); !ok {
		return fmt.Errorf("%w: unknown gradeLevelId %d", ErrInvalidInput, s.GradeLevelID)
	}
	if _, ok := LabelOf(Genders, s.GenderID); !ok {
		return fmt.Errorf("%w: unknown genderId %d", ErrInvalidInput, s.GenderID)
	}
	if _, err := time.Parse(BirthDateLayout, s.BirthDate); err != nil {
		return fmt.Errorf("%w: birthDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}

// StudentFilter is the student list search form. GradeLevel 0 means any.
type StudentFilter struct {
	StudentID  string
	Fullname   string
	GradeLevel int
}

// RosterChange is the body of the add-student endpoint.
type RosterChange struct {
	StudentID   string `json:"studentId"`
	ClassroomID string `json:"classroomId"`
}
