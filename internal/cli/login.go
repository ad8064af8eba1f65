package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osamhq/portal/internal/portal"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in and print a bearer token",
	Long: `Sign in to the portal API. The password is read from the OSAM_PASSWORD
environment variable, or from stdin when unset.`,
	Args: cobra.ExactArgs(1),
	Run:  runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	password := os.Getenv("OSAM_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to read password")
			os.Exit(1)
		}
		password = strings.TrimSpace(line)
	}

	a := newApp()
	tok := run(a, "auth.login", func(ctx context.Context) (portal.TokenResponse, error) {
		return a.auth.Login(ctx, args[0], password)
	})

	a.tokens.Store(tok.AccessToken, tok.ExpiresIn)
	if tok.User != nil {
		fmt.Printf("Signed in as %s (%s)\n", tok.User.Username, tok.User.Role)
	}
	fmt.Printf("Token (expires in %ds):\n%s\n", tok.ExpiresIn, tok.AccessToken)
}
