package cli

import (
	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/tui"
	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) boardCmd() *cobra.Command {
	var sprint string
	var static bool
	cmd := &cobra.Command{
		Use:   "board <project-id>",
		Short: "Kanban board of a project's tasks",
		Long: `Open the interactive task board. Arrow keys move the cursor, [ and ]
move the selected task between columns, r reloads and q quits. When stdout is
not a terminal the board is printed once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board := views.NewTaskBoard(a.client, args[0], sprint)
			if !static && tui.IsTTY() {
				return tui.Run(tui.NewBoardModel(cmd.Context(), board))
			}
			if err := board.Load(cmd.Context()); err != nil {
				return viewError(board, err)
			}
			return tui.RenderStatic(cmd.OutOrStdout(), board)
		},
	}
	cmd.Flags().StringVar(&sprint, "sprint", "", "Only tasks of this sprint")
	cmd.Flags().BoolVar(&static, "static", false, "Print the board instead of opening it")
	return cmd
}
