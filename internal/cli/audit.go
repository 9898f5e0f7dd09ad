package cli

import (
	"github.com/spf13/cobra"

	"school-admin/internal/model"
	"school-admin/internal/view"
)

func newAuditCommand(s *session) *cobra.Command {
	var (
		paging pageFlags
		filter model.AuditFilter
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show who changed which school records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := view.NewList(s.api.Audit.List, s.notifier, view.ListOptions{PageSize: paging.size(s)})
			state, err := list.Query(cmd.Context(), paging.page, paging.size(s), filter)
			if err != nil {
				return s.fail(err)
			}
			if err := settled(state); err != nil {
				return err
			}

			rows := make([][]string, 0, len(state.Items))
			for _, e := range state.Items {
				rows = append(rows, []string{e.OccurredAt.Local().Format("2006-01-02 15:04:05"), e.Action, e.Resource, e.ActorName})
			}
			renderTable(s.out, []string{"WHEN", "ACTION", "RESOURCE", "BY"}, rows)
			renderFooter(s.out, state)
			return nil
		},
	}

	paging.bind(cmd)
	cmd.Flags().StringVar(&filter.Action, "action", "", "filter by action, e.g. classroom.created")
	cmd.Flags().StringVar(&filter.Actor, "actor", "", "filter by operator username")
	cmd.Flags().StringVar(&filter.Resource, "resource", "", "filter by resource, e.g. classroom/C101")
	return cmd
}
