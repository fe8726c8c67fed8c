package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcastellan/workpanel/internal/domain/model"
)

func newWorkOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workorders",
		Aliases: []string{"wo"},
		Short:   "List and manage work orders",
	}

	cmd.AddCommand(
		newWorkOrdersListCmd(),
		newWorkOrdersCreateCmd(),
		newWorkOrdersUpdateCmd(),
		newWorkOrdersDeleteCmd(),
	)
	return cmd
}

func newWorkOrdersListCmd() *cobra.Command {
	var (
		status string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireSession(); err != nil {
				return err
			}

			if status != "" && !model.WorkOrderStatus(status).IsValid() {
				return fmt.Errorf("invalid status %q (valid: OPEN, IN_PROGRESS, DONE)", status)
			}

			result, err := a.api.ListWorkOrders(cmd.Context(), model.WorkOrderStatus(status), page)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATION\tSTATUS\tCREATED")
			for _, wo := range result.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					wo.ID, wo.Title, wo.Station, wo.Status, wo.CreatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if result.Count != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d total\n", page, *result.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (OPEN, IN_PROGRESS, DONE)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newWorkOrdersCreateCmd() *cobra.Command {
	var (
		title   string
		station string
		status  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a work order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireSession(); err != nil {
				return err
			}

			if status != "" && !model.WorkOrderStatus(status).IsValid() {
				return fmt.Errorf("invalid status %q (valid: OPEN, IN_PROGRESS, DONE)", status)
			}

			created, err := a.api.CreateWorkOrder(cmd.Context(), model.WorkOrderFields{
				Title:   title,
				Station: station,
				Status:  model.WorkOrderStatus(status),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created work order %d\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "work order title")
	cmd.Flags().StringVar(&station, "station", "", "station identifier")
	cmd.Flags().StringVar(&status, "status", "", "initial status (defaults to OPEN)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newWorkOrdersUpdateCmd() *cobra.Command {
	var (
		title   string
		station string
		status  string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Partially update a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireSession(); err != nil {
				return err
			}

			var patch model.WorkOrderPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("station") {
				patch.Station = &station
			}
			if cmd.Flags().Changed("status") {
				s := model.WorkOrderStatus(status)
				if !s.IsValid() {
					return fmt.Errorf("invalid status %q (valid: OPEN, IN_PROGRESS, DONE)", status)
				}
				patch.Status = &s
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one of --title, --station, --status")
			}

			updated, err := a.api.UpdateWorkOrder(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated work order %d (%s, %s)\n",
				updated.ID, updated.Title, updated.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&station, "station", "", "new station")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	return cmd
}

func newWorkOrdersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireSession(); err != nil {
				return err
			}

			if !yes && !confirm(cmd, fmt.Sprintf("delete work order %d?", id)) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}

			if err := a.api.DeleteWorkOrder(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted work order %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
