package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/you/leadsvc/internal/client"
)

// codeTTL mirrors the server's default verification code lifetime
const codeTTL = 10 * time.Minute

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and request a verification code",
	RunE:  runSignup,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the e-mailed code and sign in",
	RunE:  runVerify,
}

var resendCmd = &cobra.Command{
	Use:   "resend",
	Short: "Request a fresh verification code",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSendCode(cmd, false)
	},
}

var sendCodeCmd = &cobra.Command{
	Use:   "send-code",
	Short: "Ask the server to issue a verification code for a registered account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSendCode(cmd, true)
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with e-mail and password",
	RunE:  runSignin,
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Revoke the current session",
	RunE:  runSignout,
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in user",
	RunE:  runMe,
}

var updateProfileCmd = &cobra.Command{
	Use:   "update-profile",
	Short: "Change the display name",
	RunE:  runUpdateProfile,
}

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change the account password",
	RunE:  runChangePassword,
}

func registerAuthCommands() {
	signupCmd.Flags().String("name", "", "Full name (required)")
	signupCmd.Flags().String("email", "", "E-mail address (required)")
	signupCmd.Flags().String("password", "", "Password, at least 6 characters (required)")

	verifyCmd.Flags().String("email", "", "E-mail address (default: pending signup)")
	verifyCmd.Flags().String("code", "", "6-digit verification code (required)")

	for _, c := range []*cobra.Command{resendCmd, sendCodeCmd} {
		c.Flags().String("email", "", "E-mail address (default: pending signup)")
	}

	signinCmd.Flags().String("email", "", "E-mail address (required)")
	signinCmd.Flags().String("password", "", "Password (required)")

	updateProfileCmd.Flags().String("name", "", "New display name")

	changePasswordCmd.Flags().String("current", "", "Current password (required)")
	changePasswordCmd.Flags().String("new", "", "New password (required)")

	rootCmd.AddCommand(signupCmd, verifyCmd, resendCmd, sendCodeCmd, signinCmd,
		signoutCmd, meCmd, updateProfileCmd, changePasswordCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	store, api, err := session()
	if err != nil {
		return err
	}
	if err := store.OpenModal(client.ModalSignup); err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	resp, err := api.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}

	if err := store.Signup(name, email, time.Now().Add(codeTTL)); err != nil {
		return err
	}
	printf(cmd, "%s\n", resp.Message)
	return nil
}

func pendingEmail(cmd *cobra.Command, store *client.Store) (string, error) {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = store.Snapshot().PendingEmail
	}
	if email == "" {
		return "", errors.New("no pending signup, pass --email")
	}
	return email, nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	code, _ := cmd.Flags().GetString("code")

	store, api, err := session()
	if err != nil {
		return err
	}
	email, err := pendingEmail(cmd, store)
	if err != nil {
		return err
	}
	if store.CodeExpired(time.Now()) && store.Snapshot().PendingEmail == email {
		printf(cmd, "Your code may have expired, run `leadctl resend` if verification fails.\n")
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	resp, err := api.Verify(ctx, email, code)
	if err != nil {
		return err
	}

	if err := store.SignIn(resp.User, resp.Token); err != nil {
		return err
	}
	if err := store.CloseModal(client.ModalSignup); err != nil {
		return err
	}
	printf(cmd, "%s\n", resp.Message)
	return nil
}

func runSendCode(cmd *cobra.Command, issue bool) error {
	store, api, err := session()
	if err != nil {
		return err
	}
	email, err := pendingEmail(cmd, store)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	send := api.ResendCode
	if issue {
		send = api.SendCode
	}
	msg, err := send(ctx, email)
	if err != nil {
		if client.IsStatus(err, http.StatusTooManyRequests) {
			printf(cmd, "Please wait before requesting another code.\n")
		}
		return err
	}

	if store.Snapshot().PendingEmail == email {
		if err := store.SetCodeExpiry(time.Now().Add(codeTTL)); err != nil {
			return err
		}
	}
	printf(cmd, "%s\n", msg)
	return nil
}

func runSignin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	store, api, err := session()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	resp, err := api.Signin(ctx, email, password)
	if err != nil {
		return err
	}

	if err := store.SignIn(resp.User, resp.Token); err != nil {
		return err
	}
	printf(cmd, "%s as %s\n", resp.Message, resp.User.Email)
	return nil
}

func runSignout(cmd *cobra.Command, args []string) error {
	store, api, err := session()
	if err != nil {
		return err
	}

	if api.Token() != "" {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		// an already revoked session still ends in a local logout
		if _, err := api.Signout(ctx); err != nil && !client.IsStatus(err, http.StatusUnauthorized) {
			return err
		}
	}

	if err := store.Logout(); err != nil {
		return err
	}
	printf(cmd, "Signed out successfully\n")
	return nil
}

func runMe(cmd *cobra.Command, args []string) error {
	_, api, err := session()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	user, err := api.Me(ctx)
	if err != nil {
		return err
	}

	printf(cmd, "id:       %s\nname:     %s\nemail:    %s\nverified: %t\n", user.ID, user.Name, user.Email, user.IsVerified)
	if user.CreatedAt != nil {
		printf(cmd, "created:  %s\n", user.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func runUpdateProfile(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")

	store, api, err := session()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	user, err := api.UpdateProfile(ctx, name)
	if err != nil {
		return err
	}

	if err := store.SignIn(*user, store.Token()); err != nil {
		return err
	}
	printf(cmd, "Profile updated successfully: %s\n", user.Name)
	return nil
}

func runChangePassword(cmd *cobra.Command, args []string) error {
	current, _ := cmd.Flags().GetString("current")
	next, _ := cmd.Flags().GetString("new")

	_, api, err := session()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	msg, err := api.ChangePassword(ctx, current, next)
	if err != nil {
		return err
	}
	printf(cmd, "%s\n", msg)
	return nil
}
