package comments

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"threadhub/internal/thread"
	"threadhub/pkg/utils"
)

var gotoCmd = &cobra.Command{
	Use:   "goto <comment-id>",
	Short: "Show the thread opened down to one comment",
	Long: `Load pages and replies until the comment is in view, then print the tree with it marked.
Nested comments need their ancestors: pass them root first with --path a,b,c.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := postID()
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetStringSlice("path")

		ctrl := newController(newClient(), post)
		defer ctrl.Close()

		ctx, cancel := utils.WithLongTimeout(cmd.Context())
		defer cancel()
		return runGoto(ctx, cmd.OutOrStdout(), ctrl, args[0], path, time.Now())
	},
}

func init() {
	gotoCmd.Flags().StringSlice("path", nil, "Ancestor ids, root first")
	CommentsCmd.AddCommand(gotoCmd)
}

func runGoto(ctx context.Context, out io.Writer, ctrl *thread.Controller, id string, path []string, now time.Time) error {
	if err := ctrl.LoadFirstPage(ctx); err != nil {
		return err
	}
	if err := ctrl.NavigateTo(ctx, id, path...); err != nil {
		if len(path) == 0 {
			return fmt.Errorf("failed to find %s: %s (nested comments need --path)", id, utils.UserMessage(err))
		}
		return fmt.Errorf("failed to find %s via %s: %s", id, strings.Join(path, " > "), utils.UserMessage(err))
	}

	renderRows(out, ctrl.VisibleRows(), ctrl.Highlighted(), now)
	return nil
}
