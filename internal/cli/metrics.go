package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/tui"
)

func (a *app) metricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Sprint and project metrics",
	}

	burndown := &cobra.Command{
		Use:   "burndown <sprint-id>",
		Short: "Ideal versus actual remaining points of a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.client.Metrics.Burndown(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printFields(w, "Total points", strconv.Itoa(b.TotalPoints))
			rows := make([][]string, 0, len(b.Series))
			for _, p := range b.Series {
				rows = append(rows, []string{
					strconv.Itoa(p.Day), p.Date, strconv.FormatFloat(p.Ideal, 'f', 1, 64), intOr(p.Actual, "-"),
					bar(p.Actual, b.TotalPoints),
				})
			}
			printTable(w, []string{"DAY", "DATE", "IDEAL", "ACTUAL", ""}, rows)
			return nil
		},
	}

	velocity := &cobra.Command{
		Use:   "velocity <project-id>",
		Short: "Committed and completed points per sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := a.client.Metrics.Velocity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(points))
			for _, p := range points {
				rows = append(rows, []string{p.Name, strconv.Itoa(p.Committed), strconv.Itoa(p.Completed)})
			}
			printTable(cmd.OutOrStdout(), []string{"SPRINT", "COMMITTED", "COMPLETED"}, rows)
			return nil
		},
	}

	contribution := &cobra.Command{
		Use:   "contribution <project-id>",
		Short: "Finished tasks per member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.client.Metrics.Contribution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(cs))
			for _, c := range cs {
				rows = append(rows, []string{c.User.Name, c.User.Email, strconv.Itoa(c.Count)})
			}
			printTable(cmd.OutOrStdout(), []string{"MEMBER", "EMAIL", "DONE"}, rows)
			return nil
		},
	}

	var out string
	export := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Download the project report as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.client.Metrics.ExportCSV(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			success(cmd.ErrOrStderr(), "Wrote %s", out)
			return nil
		},
	}
	export.Flags().StringVarP(&out, "output", "o", "", "Write to file instead of stdout")

	cmd.AddCommand(burndown, velocity, contribution, export)
	return cmd
}

// bar draws remaining points as a block bar scaled to 20 cells.
func bar(actual *int, total int) string {
	if actual == nil || total <= 0 {
		return ""
	}
	n := *actual * 20 / total
	if n < 0 {
		n = 0
	}
	return tui.SuccessStyle.Render(strings.Repeat("█", n))
}
