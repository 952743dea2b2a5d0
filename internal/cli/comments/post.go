package comments

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"threadhub/internal/thread"
	"threadhub/pkg/utils"
)

var postCmd = &cobra.Command{
	Use:   "post <text...>",
	Short: "Post a top-level comment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, "", strings.Join(args, " "))
	},
}

var replyCmd = &cobra.Command{
	Use:   "reply <parent-id> <text...>",
	Short: "Reply to a comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	CommentsCmd.AddCommand(postCmd)
	CommentsCmd.AddCommand(replyCmd)
}

func submit(cmd *cobra.Command, parentID, content string) error {
	if err := requireToken(); err != nil {
		return err
	}
	post, err := postID()
	if err != nil {
		return err
	}

	ctrl := newController(newClient(), post)
	defer ctrl.Close()

	ctx, cancel := utils.WithTimeout(cmd.Context())
	defer cancel()
	return runSubmit(ctx, cmd.OutOrStdout(), ctrl, content, parentID)
}

func runSubmit(ctx context.Context, out io.Writer, ctrl *thread.Controller, content, parentID string) error {
	c, err := ctrl.SubmitComment(ctx, content, parentID)
	if err != nil {
		return fmt.Errorf("failed to post: %s", utils.UserMessage(err))
	}
	if parentID == "" {
		fmt.Fprintln(out, "✓ Comment posted")
	} else {
		fmt.Fprintln(out, "✓ Reply posted")
	}
	fmt.Fprintf(out, "  ID: %s\n", c.ID)
	return nil
}
