package comments

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"threadhub/internal/tui/api"
	"threadhub/pkg/utils"
)

var likeCmd = &cobra.Command{
	Use:   "like <comment-id>",
	Short: "Like a comment, or remove your like",
	Args:  cobra.ExactArgs(1),
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
		return runLike(ctx, cmd.OutOrStdout(), newClient(), post, args[0])
	},
}

func init() {
	CommentsCmd.AddCommand(likeCmd)
}

func runLike(ctx context.Context, out io.Writer, client *api.Client, post, id string) error {
	res, err := client.ToggleLike(ctx, post, id)
	if err != nil {
		return fmt.Errorf("failed to like: %s", utils.UserMessage(err))
	}
	if res.Liked {
		fmt.Fprintf(out, "♥ Liked (%d)\n", res.LikesCount)
	} else {
		fmt.Fprintf(out, "♡ Like removed (%d)\n", res.LikesCount)
	}
	return nil
}
