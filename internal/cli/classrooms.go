package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"school-admin/internal/model"
	"school-admin/internal/view"
)

type pageFlags struct {
	page  int
	limit int
}

func (p *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", model.DefaultPage, "page number")
	cmd.Flags().IntVar(&p.limit, "limit", 0, "rows per page (5, 10, 15, 20, 25 or 30)")
}

func (p pageFlags) size(s *session) int {
	if p.limit > 0 {
		return p.limit
	}
	if model.IsPageSizeOption(s.cfg.PageSize) {
		return s.cfg.PageSize
	}
	return model.DefaultPageSize
}

func newClassroomsCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "classrooms",
		Aliases: []string{"classroom", "class"},
		Short:   "List and edit classrooms and their rosters",
	}
	cmd.AddCommand(
		newClassroomListCommand(s),
		newClassroomGetCommand(s),
		newClassroomWriteCommand(s, false),
		newClassroomWriteCommand(s, true),
		newClassroomDeleteCommand(s),
		newRosterListCommand(s, true),
		newRosterListCommand(s, false),
		newRosterChangeCommand(s, true),
		newRosterChangeCommand(s, false),
		newMaleStudentsCommand(s),
	)
	return cmd
}

func (s *session) classroomList() *view.List[model.ClassroomRow, model.ClassroomFilter] {
	return view.NewList(s.api.Classrooms.List, s.notifier, view.ListOptions{PageSize: s.cfg.PageSize})
}

func (s *session) classroomForm() *view.Form[model.Classroom] {
	return view.NewForm(view.FormAPI[model.Classroom]{
		Get:    s.api.Classrooms.Get,
		Create: s.api.Classrooms.Create,
		Update: s.api.Classrooms.Update,
	}, s.notifier)
}

func newClassroomListCommand(s *session) *cobra.Command {
	var (
		paging pageFlags
		filter model.ClassroomFilter
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classrooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := s.classroomList().Query(cmd.Context(), paging.page, paging.size(s), filter)
			if err != nil {
				return s.fail(err)
			}
			if err := settled(state); err != nil {
				return err
			}
			renderClassrooms(s.out, state)
			return nil
		},
	}

	paging.bind(cmd)
	cmd.Flags().StringVar(&filter.ClassroomID, "classroom-id", "", "filter by classroom id")
	cmd.Flags().StringVar(&filter.ClassName, "class-name", "", "filter by class name")
	cmd.Flags().StringVar(&filter.HomeroomTeacher, "teacher", "", "filter by homeroom teacher")
	return cmd
}

func newClassroomGetCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <classroom-id>",
		Short: "Show one classroom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := s.classroomForm()
			if err := form.Load(cmd.Context(), args[0]); err != nil {
				return reported(err)
			}
			renderClassroom(s.out, form.Fields())
			return nil
		},
	}
}

// newClassroomWriteCommand builds "create" or, when editing, "update". An
// update starts from the stored record and changes only the given flags.
func newClassroomWriteCommand(s *session, editing bool) *cobra.Command {
	var in model.Classroom

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a classroom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := s.classroomForm()
			fields := in
			if editing {
				if err := form.Load(cmd.Context(), args[0]); err != nil {
					return reported(err)
				}
				fields = form.Fields()
				flags := cmd.Flags()
				if flags.Changed("class-name") {
					fields.ClassName = in.ClassName
				}
				if flags.Changed("year") {
					fields.AcademicYear = in.AcademicYear
				}
				if flags.Changed("teacher") {
					fields.HomeroomTeacher = in.HomeroomTeacher
				}
			}
			form.SetFields(fields)

			env, err := form.Submit(cmd.Context())
			if err != nil {
				return reported(err)
			}
			renderClassroom(s.out, env.Data)
			return nil
		},
	}
	if editing {
		cmd.Use = "update <classroom-id>"
		cmd.Short = "Change a classroom"
		cmd.Args = cobra.ExactArgs(1)
	} else {
		cmd.Flags().StringVar(&in.ClassroomID, "classroom-id", "", "classroom id")
		_ = cmd.MarkFlagRequired("classroom-id")
	}

	cmd.Flags().StringVar(&in.ClassName, "class-name", "", "class name")
	cmd.Flags().IntVar(&in.AcademicYear, "year", 0, "academic year, four digits")
	cmd.Flags().StringVar(&in.HomeroomTeacher, "teacher", "", "homeroom teacher")
	return cmd
}

func newClassroomDeleteCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <classroom-id>",
		Short: "Delete a classroom and show the remaining ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := s.classroomList()
			err := list.Delete(cmd.Context(), func(ctx context.Context) (*model.Envelope[json.RawMessage], error) {
				return s.api.Classrooms.Delete(ctx, args[0])
			})
			if err != nil {
				return reported(err)
			}
			state := list.State()
			if err := settled(state); err != nil {
				return err
			}
			renderClassrooms(s.out, state)
			return nil
		},
	}
}

// newRosterListCommand builds "members" or "non-members" of a classroom.
func newRosterListCommand(s *session, members bool) *cobra.Command {
	var paging pageFlags

	cmd := &cobra.Command{
		Use:   "members <classroom-id>",
		Short: "List the students in a classroom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := view.NewRoster(s.api.Classrooms, args[0], s.notifier, view.ListOptions{PageSize: paging.size(s)})
			if err != nil {
				return s.fail(err)
			}
			list := roster.NonMembers
			if members {
				list = roster.Members
			}

			state, err := list.Paginate(cmd.Context(), paging.page, paging.size(s))
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
	if !members {
		cmd.Use = "non-members <classroom-id>"
		cmd.Short = "List the students that can be added to a classroom"
	}

	paging.bind(cmd)
	return cmd
}

// newRosterChangeCommand builds "add-member" or "remove-member". Both print
// the refreshed member list.
func newRosterChangeCommand(s *session, add bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-member <classroom-id> <student-id>",
		Short: "Put a student in a classroom",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := view.NewRoster(s.api.Classrooms, args[0], s.notifier, view.ListOptions{PageSize: s.cfg.PageSize})
			if err != nil {
				return s.fail(err)
			}

			change := roster.Remove
			if add {
				change = roster.Add
			}
			if err := change(cmd.Context(), args[1]); err != nil {
				return reported(err)
			}

			state := roster.Members.State()
			if err := settled(state); err != nil {
				return err
			}
			renderStudents(s.out, state)
			return nil
		},
	}
	if !add {
		cmd.Use = "remove-member <classroom-id> <student-id>"
		cmd.Short = "Take a student out of a classroom"
	}
	return cmd
}

func newMaleStudentsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "male-students",
		Short: "Report every male student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := s.api.Classrooms.MaleStudents(cmd.Context())
			if err == nil {
				err = env.Err()
			}
			if err != nil {
				return s.fail(err)
			}
			renderTable(s.out, studentHeader, studentRows(env.Data))
			return nil
		},
	}
}
