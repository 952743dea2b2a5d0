package comments

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"threadhub/internal/thread"
	"threadhub/pkg/models"
	"threadhub/pkg/utils"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <comment-id>",
	Aliases: []string{"rm"},
	Short:   "Delete your comment and all replies below it",
	Args:    cobra.ExactArgs(1),
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
		return runDelete(ctx, cmd.OutOrStdout(), newClient(), post, args[0])
	},
}

func init() {
	CommentsCmd.AddCommand(deleteCmd)
}

func runDelete(ctx context.Context, out io.Writer, client thread.API, post, id string) error {
	err := client.DeleteComment(ctx, post, id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to delete: %s", utils.UserMessage(err))
	}
	fmt.Fprintln(out, "✓ Comment deleted")
	return nil
}
