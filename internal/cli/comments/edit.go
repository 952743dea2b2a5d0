package comments

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"threadhub/internal/thread"
	"threadhub/pkg/models"
	"threadhub/pkg/utils"
)

var editCmd = &cobra.Command{
	Use:   "edit <comment-id> <text...>",
	Short: "Replace the text of your comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		post, err := postID()
		if err != nil {
			return err
		}
		ctx, cancel := utils.WithTimeout(cmd.Context())
		defer cancel()
		return runEdit(ctx, cmd.OutOrStdout(), newClient(), post, args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	CommentsCmd.AddCommand(editCmd)
}

func runEdit(ctx context.Context, out io.Writer, client thread.API, post, id, content string) error {
	content, err := models.ValidateContent(content)
	if err != nil {
		return err
	}
	if err := client.EditComment(ctx, post, id, content); err != nil {
		return fmt.Errorf("failed to edit: %s", utils.UserMessage(err))
	}
	fmt.Fprintln(out, "✓ Comment updated")
	return nil
}
