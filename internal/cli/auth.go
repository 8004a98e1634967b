package cli

import (
	"os"

	"github.com/spf13/cobra"

	"gitcore.dev/gitcore/internal/actions"
)

// Environment fallbacks for HTTP credentials, so passwords stay out of argv
const (
	usernameEnvVar = "GITCORE_GIT_USERNAME"
	passwordEnvVar = "GITCORE_GIT_PASSWORD"
)

// authFlags holds the HTTP credential flags of network commands
type authFlags struct {
	username string
	password string
}

func (a *authFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.username, "username", "", "HTTP username (defaults to $"+usernameEnvVar+")")
	cmd.Flags().StringVar(&a.password, "password", "", "HTTP password or token (defaults to $"+passwordEnvVar+")")
}

func (a *authFlags) options() actions.AuthOptions {
	opts := actions.AuthOptions{Username: a.username, Password: a.password}
	if opts.Username == "" {
		opts.Username = os.Getenv(usernameEnvVar)
	}
	if opts.Password == "" {
		opts.Password = os.Getenv(passwordEnvVar)
	}
	return opts
}
