package comments

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"threadhub/internal/thread"
	"threadhub/internal/tui/api"
)

var CommentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"c"},
	Short:   "Read and write comments on a post",
	Long:    "Browse a post's discussion tree, post comments and replies, and edit, delete or like them",
}

func init() {
	CommentsCmd.PersistentFlags().String("post", "", "Post id (defaults to thread.post from config)")
	viper.BindPFlag("thread.post", CommentsCmd.PersistentFlags().Lookup("post"))
	// Subcommands added in their own files
}

func newClient() *api.Client {
	return api.NewClient(viper.GetString("server.base_url"), api.WithToken(viper.GetString("auth.token")))
}

func postID() (string, error) {
	id := viper.GetString("thread.post")
	if id == "" {
		return "", fmt.Errorf("no post selected. Use --post or: threadctl config set thread.post <id>")
	}
	return id, nil
}

func newController(client thread.API, post string) *thread.Controller {
	return thread.New(client, post, thread.Options{
		PageSize:      viper.GetInt("thread.page_size"),
		ReplyPageSize: viper.GetInt("thread.reply_page_size"),
	})
}

func requireToken() error {
	if viper.GetString("auth.token") == "" {
		return fmt.Errorf("not logged in. Please run: threadctl auth login")
	}
	return nil
}
