package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

func (a *app) retroCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "retro",
		Aliases: []string{"retrospective"},
		Short:   "Sprint retrospective notes",
	}

	list := &cobra.Command{
		Use:   "list <sprint-id>",
		Short: "List a sprint's retrospective items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.client.Retrospectives.GetBySprint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				author := it.UserID
				if it.User != nil {
					author = it.User.Name
				}
				rows = append(rows, []string{it.ID, it.Type, it.Content, author})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "TYPE", "CONTENT", "AUTHOR"}, rows)
			return nil
		},
	}

	var kind string
	add := &cobra.Command{
		Use:   "add <sprint-id> <content>",
		Short: "Add a retrospective item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case models.RetroGood, models.RetroBad, models.RetroAction:
			default:
				return fmt.Errorf("--type must be GOOD, BAD or ACTION, got %q", kind)
			}
			it, err := a.client.Retrospectives.Create(cmd.Context(), api.CreateRetroItemRequest{
				SprintID: args[0],
				Type:     kind,
				Content:  args[1],
			})
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Added %s item %s", it.Type, it.ID)
			return nil
		},
	}
	add.Flags().StringVar(&kind, "type", models.RetroGood, "GOOD, BAD or ACTION")

	deleteCmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a retrospective item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Retrospectives.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted item %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, deleteCmd)
	return cmd
}

func (a *app) notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Your notifications",
	}

	var unread bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.client.Notifications.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(ns))
			for _, n := range ns {
				if unread && n.Read {
					continue
				}
				mark := " "
				if !n.Read {
					mark = "●"
				}
				rows = append(rows, []string{mark, n.ID, n.Title, n.Message})
			}
			printTable(cmd.OutOrStdout(), []string{"", "ID", "TITLE", "MESSAGE"}, rows)
			return nil
		},
	}
	list.Flags().BoolVar(&unread, "unread", false, "Only unread notifications")

	read := &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client.Notifications.MarkRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Marked %s as read", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, read)
	return cmd
}

func (a *app) docsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"documents"},
		Short:   "Project documents",
	}

	list := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.client.Documents.GetByProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(docs))
			for _, d := range docs {
				rows = append(rows, []string{d.ID, d.Name, d.Type, intOr(d.Size, "-"), "v" + strconv.Itoa(d.Version), day(d.UploadedAt)})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "TYPE", "SIZE", "VERSION", "UPLOADED"}, rows)
			return nil
		},
	}

	upload := &cobra.Command{
		Use:   "upload <project-id> <file>",
		Short: "Upload a file to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[1], err)
			}
			defer f.Close()

			d, err := a.client.Documents.Upload(cmd.Context(), args[0], filepath.Base(args[1]), f)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Uploaded %s (%s)", d.Name, d.ID)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Documents.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted document %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, upload, deleteCmd)
	return cmd
}

func (a *app) logCmd() *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the local activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.activity == nil {
				return fmt.Errorf("activity log is disabled in %s", filepath.Join(a.configDir, "config.yaml"))
			}
			events, err := a.activity.ReadAll()
			if err != nil {
				return err
			}
			if tail > 0 && len(events) > tail {
				events = events[len(events)-tail:]
			}
			rows := make([][]string, 0, len(events))
			for _, e := range events {
				status := ""
				if e.Status != 0 {
					status = strconv.Itoa(e.Status)
				}
				rows = append(rows, []string{
					e.Time.Local().Format(time.DateTime), e.Event, e.Method, e.Path, status, e.Email + e.Error,
				})
			}
			printTable(cmd.OutOrStdout(), []string{"TIME", "EVENT", "METHOD", "PATH", "STATUS", "DETAIL"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&tail, "tail", "n", 20, "Show only the last N events (0 for all)")
	return public(cmd)
}
