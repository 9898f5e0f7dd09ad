package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"school-admin/internal/model"
	"school-admin/internal/view"
)

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func renderFooter[T any](w io.Writer, state view.PageState[T]) {
	if state.Phase == view.PhaseEmpty {
		fmt.Fprintln(w, "no records")
		return
	}
	pages := 1
	if state.PageSize > 0 && state.Total > state.PageSize {
		pages = (state.Total + state.PageSize - 1) / state.PageSize
	}
	fmt.Fprintf(w, "page %d/%d, %d total\n", state.Page, pages, state.Total)
}

func renderClassrooms(w io.Writer, state view.PageState[model.ClassroomRow]) {
	rows := make([][]string, 0, len(state.Items))
	for _, c := range state.Items {
		rows = append(rows, []string{c.Key, c.ClassName, strconv.Itoa(c.AcademicYear), c.HomeroomTeacher})
	}
	renderTable(w, []string{"ID", "CLASS", "YEAR", "HOMEROOM TEACHER"}, rows)
	renderFooter(w, state)
}

func studentRows(students []model.StudentRow) [][]string {
	rows := make([][]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, []string{st.Key, st.Fullname, st.LevelName, st.BirthDate, st.GenderName})
	}
	return rows
}

var studentHeader = []string{"ID", "NAME", "LEVEL", "BIRTH DATE", "GENDER"}

func renderStudents(w io.Writer, state view.PageState[model.StudentRow]) {
	renderTable(w, studentHeader, studentRows(state.Items))
	renderFooter(w, state)
}

func renderClassroom(w io.Writer, c model.Classroom) {
	renderTable(w, []string{"FIELD", "VALUE"}, [][]string{
		{"classroomId", c.ClassroomID},
		{"className", c.ClassName},
		{"academicYear", strconv.Itoa(c.AcademicYear)},
		{"homeroomTeacher", c.HomeroomTeacher},
	})
}

func renderStudent(w io.Writer, st model.Student) {
	prefix, _ := model.LabelOf(model.StudentPrefixes, st.PrefixID)
	level, _ := model.LabelOf(model.GradeLevels, st.GradeLevelID)
	gender, _ := model.LabelOf(model.Genders, st.GenderID)
	renderTable(w, []string{"FIELD", "VALUE"}, [][]string{
		{"studentId", st.StudentID},
		{"prefix", prefix},
		{"firstName", st.FirstName},
		{"lastName", st.LastName},
		{"gradeLevel", level},
		{"gender", gender},
		{"birthDate", st.BirthDate},
	})
}

func renderOptions(w io.Writer, title string, options []model.Option) {
	fmt.Fprintln(w, title)
	rows := make([][]string, 0, len(options))
	for _, o := range options {
		rows = append(rows, []string{strconv.Itoa(o.Value), o.Label})
	}
	renderTable(w, []string{"ID", "LABEL"}, rows)
}
