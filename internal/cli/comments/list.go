package comments

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"threadhub/internal/thread"
	"threadhub/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the discussion tree of a post",
	Long:  "Show top-level comments newest first. --expand also loads the first page of replies under each comment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := postID()
		if err != nil {
			return err
		}
		pages, _ := cmd.Flags().GetInt("pages")
		expand, _ := cmd.Flags().GetBool("expand")

		ctrl := newController(newClient(), post)
		defer ctrl.Close()

		ctx, cancel := utils.WithLongTimeout(cmd.Context())
		defer cancel()
		return runList(ctx, cmd.OutOrStdout(), ctrl, pages, expand, time.Now())
	},
}

func init() {
	listCmd.Flags().Int("pages", 1, "Number of top-level pages to load")
	listCmd.Flags().Bool("expand", false, "Load the first page of replies under each comment")
	CommentsCmd.AddCommand(listCmd)
}

func runList(ctx context.Context, out io.Writer, ctrl *thread.Controller, pages int, expand bool, now time.Time) error {
	if err := ctrl.LoadFirstPage(ctx); err != nil {
		return err
	}
	for i := 1; i < pages && ctrl.RootCursor().HasMore; i++ {
		if err := ctrl.LoadMoreTopLevel(ctx); err != nil {
			return err
		}
	}

	if expand {
		for _, c := range ctrl.Forest() {
			if !ctrl.CanLoadReplies(c.ID) {
				continue
			}
			if err := ctrl.LoadReplies(ctx, c.ID); err != nil {
				return err
			}
		}
	}

	renderRows(out, ctrl.VisibleRows(), "", now)

	cursor := ctrl.RootCursor()
	if cursor.HasMore {
		fmt.Fprintf(out, "\nMore comments available: --pages %d\n", cursor.Page+1)
	}
	return nil
}
