package comments

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"threadhub/internal/thread"
	"threadhub/pkg/commenttree"
	"threadhub/pkg/utils"
)

var repliesCmd = &cobra.Command{
	Use:   "replies <comment-id>",
	Short: "Show one page of replies to a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := postID()
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := utils.WithTimeout(cmd.Context())
		defer cancel()
		return runReplies(ctx, cmd.OutOrStdout(), newClient(), post, args[0], page, limit, time.Now())
	},
}

func init() {
	repliesCmd.Flags().Int("page", 1, "Page number")
	repliesCmd.Flags().Int("limit", thread.DefaultReplyPageSize, "Replies per page")
	CommentsCmd.AddCommand(repliesCmd)
}

func runReplies(ctx context.Context, out io.Writer, client thread.API, post, id string, page, limit int, now time.Time) error {
	result, err := client.ListReplies(ctx, post, id, page, limit)
	if err != nil {
		return fmt.Errorf("failed to get replies: %w", err)
	}

	rows := make([]commenttree.Row, 0, len(result.Replies))
	for _, c := range result.Replies {
		rows = append(rows, commenttree.Row{Comment: c})
	}
	renderRows(out, rows, "", now)
	if result.HasMore {
		fmt.Fprintf(out, "\nMore replies available: --page %d\n", page+1)
	}
	return nil
}
