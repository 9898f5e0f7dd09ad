package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"school-admin/internal/model"
	"school-admin/internal/view"
)

func newStudentsCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"student"},
		Short:   "List and edit students",
	}
	cmd.AddCommand(
		newStudentListCommand(s),
		newStudentGetCommand(s),
		newStudentWriteCommand(s, false),
		newStudentWriteCommand(s, true),
		newStudentDeleteCommand(s),
		newStudentOptionsCommand(s),
	)
	return cmd
}

func (s *session) studentList() *view.List[model.StudentRow, model.StudentFilter] {
	return view.NewList(s.api.Students.List, s.notifier, view.ListOptions{PageSize: s.cfg.PageSize})
}

func (s *session) studentForm() *view.Form[model.Student] {
	return view.NewForm(view.FormAPI[model.Student]{
		Get:    s.api.Students.Get,
		Create: s.api.Students.Create,
		Update: s.api.Students.Update,
	}, s.notifier)
}

func newStudentListCommand(s *session) *cobra.Command {
	var (
		paging pageFlags
		filter model.StudentFilter
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := s.studentList().Query(cmd.Context(), paging.page, paging.size(s), filter)
			if err != nil {
				return s.fail(err)
			}
			if err := settled(state); err != nil {
				return err
			}
			renderStudents(s.out, state)
			return nil
		},
	}

	paging.bind(cmd)
	cmd.Flags().StringVar(&filter.StudentID, "student-id", "", "filter by student id")
	cmd.Flags().StringVar(&filter.Fullname, "name", "", "filter by first or last name")
	cmd.Flags().IntVar(&filter.GradeLevel, "grade-level", 0, "filter by grade level id, see 'students options'")
	return cmd
}

func newStudentGetCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <student-id>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := s.studentForm()
			if err := form.Load(cmd.Context(), args[0]); err != nil {
				return reported(err)
			}
			renderStudent(s.out, form.Fields())
			return nil
		},
	}
}

// newStudentWriteCommand builds "create" or, when editing, "update". An
// update starts from the stored record and changes only the given flags.
func newStudentWriteCommand(s *session, editing bool) *cobra.Command {
	var in model.Student

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := s.studentForm()
			fields := in
			if editing {
				if err := form.Load(cmd.Context(), args[0]); err != nil {
					return reported(err)
				}
				fields = form.Fields()
				flags := cmd.Flags()
				if flags.Changed("prefix") {
					fields.PrefixID = in.PrefixID
				}
				if flags.Changed("first-name") {
					fields.FirstName = in.FirstName
				}
				if flags.Changed("last-name") {
					fields.LastName = in.LastName
				}
				if flags.Changed("grade-level") {
					fields.GradeLevelID = in.GradeLevelID
				}
				if flags.Changed("gender") {
					fields.GenderID = in.GenderID
				}
				if flags.Changed("birth-date") {
					fields.BirthDate = in.BirthDate
				}
			}
			form.SetFields(fields)

			env, err := form.Submit(cmd.Context())
			if err != nil {
				return reported(err)
			}
			renderStudent(s.out, env.Data)
			return nil
		},
	}
	if editing {
		cmd.Use = "update <student-id>"
		cmd.Short = "Change a student"
		cmd.Args = cobra.ExactArgs(1)
	} else {
		cmd.Flags().StringVar(&in.StudentID, "student-id", "", "student id")
		_ = cmd.MarkFlagRequired("student-id")
	}

	cmd.Flags().IntVar(&in.PrefixID, "prefix", 0, "prefix id")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().IntVar(&in.GradeLevelID, "grade-level", 0, "grade level id")
	cmd.Flags().IntVar(&in.GenderID, "gender", 0, "gender id")
	cmd.Flags().StringVar(&in.BirthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	return cmd
}

func newStudentDeleteCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <student-id>",
		Short: "Delete a student and show the remaining ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := s.studentList()
			err := list.Delete(cmd.Context(), func(ctx context.Context) (*model.Envelope[json.RawMessage], error) {
				return s.api.Students.Delete(ctx, args[0])
			})
			if err != nil {
				return reported(err)
			}
			state := list.State()
			if err := settled(state); err != nil {
				return err
			}
			renderStudents(s.out, state)
			return nil
		},
	}
}

func newStudentOptionsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the prefix, grade level and gender ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderOptions(s.out, "Prefixes", model.StudentPrefixes)
			renderOptions(s.out, "Grade levels", model.GradeLevels)
			renderOptions(s.out, "Genders", model.Genders)
			return nil
		},
	}
}
