package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = p
			}

			form := views.NewAuthForm(a.client, views.ModeLogin)
			u, err := form.SubmitLogin(cmd.Context(), email, password)
			if err != nil {
				return viewError(form, err)
			}
			success(cmd.OutOrStdout(), "Signed in as %s (%s)", u.Name, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return public(cmd)
}

func (a *app) registerCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account. Registration does not sign in; run 'wrk login' afterwards.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = p
			}

			form := views.NewAuthForm(a.client, views.ModeRegister)
			if err := form.SubmitRegister(cmd.Context(), name, email, password); err != nil {
				return viewError(form, err)
			}
			success(cmd.OutOrStdout(), "%s", form.Notice)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return public(cmd)
}

func (a *app) logoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Auth.Logout(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			success(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
	return public(cmd)
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and token expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := a.session.CurrentUser()
			if u == nil {
				return errNotAuthenticated
			}
			w := cmd.OutOrStdout()
			printFields(w,
				"User", u.Name,
				"Email", u.Email,
				"Role", u.Role,
				"ID", u.ID,
				"API", a.client.BaseURL(),
			)

			// The token is only decoded for display; the backend verifies it.
			claims := jwt.MapClaims{}
			if _, _, err := jwt.NewParser().ParseUnverified(a.session.CurrentToken(), claims); err != nil {
				printFields(w, "Token", "unreadable")
				return nil
			}
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				state := "valid"
				if exp.Before(time.Now()) {
					state = "expired"
				}
				printFields(w, "Expires", fmt.Sprintf("%s (%s)", exp.Format(time.RFC3339), state))
			}
			return nil
		},
	}
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
