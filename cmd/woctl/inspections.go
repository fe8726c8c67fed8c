package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcastellan/workpanel/internal/domain/model"
)

func newInspectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspections",
		Aliases: []string{"ins"},
		Short:   "List and record inspections",
	}

	cmd.AddCommand(
		newInspectionsListCmd(),
		newInspectionsAddCmd(),
		newInspectionsUpdateCmd(),
		newInspectionsDeleteCmd(),
	)
	return cmd
}

func newInspectionsListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list WORKORDER_ID",
		Short: "List inspections for a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workOrder, err := parseID(args[0])
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

			result, err := a.api.ListInspections(cmd.Context(), workOrder, page)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRESULT\tCREATED\tNOTES")
			for _, ins := range result.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					ins.ID, ins.Result, ins.CreatedAt.Format("2006-01-02 15:04"), ins.Notes)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newInspectionsAddCmd() *cobra.Command {
	var (
		result string
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "add WORKORDER_ID",
		Short: "Record an inspection against a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workOrder, err := parseID(args[0])
			if err != nil {
				return err
			}

			res := model.InspectionResult(result)
			if !res.IsValid() {
				return fmt.Errorf("invalid result %q (valid: OK, FAIL)", result)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireSession(); err != nil {
				return err
			}

			created, err := a.api.CreateInspection(cmd.Context(), model.InspectionFields{
				WorkOrder: workOrder,
				Result:    res,
				Notes:     notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded inspection %d (%s)\n", created.ID, created.Result)
			return nil
		},
	}

	cmd.Flags().StringVar(&result, "result", "", "inspection result (OK or FAIL)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes, markdown allowed")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}

func newInspectionsUpdateCmd() *cobra.Command {
	var (
		result string
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Partially update an inspection",
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

			var patch model.InspectionPatch
			if cmd.Flags().Changed("result") {
				res := model.InspectionResult(result)
				if !res.IsValid() {
					return fmt.Errorf("invalid result %q (valid: OK, FAIL)", result)
				}
				patch.Result = &res
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			if patch.Result == nil && patch.Notes == nil {
				return fmt.Errorf("nothing to update: pass --result or --notes")
			}

			updated, err := a.api.UpdateInspection(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated inspection %d (%s)\n", updated.ID, updated.Result)
			return nil
		},
	}

	cmd.Flags().StringVar(&result, "result", "", "new result (OK or FAIL)")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func newInspectionsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an inspection",
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

			if !yes && !confirm(cmd, fmt.Sprintf("delete inspection %d?", id)) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}

			if err := a.api.DeleteInspection(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted inspection %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
