package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/spicestore/internal/client/api"
	"github.com/dmitrijs2005/spicestore/internal/client/navigation"
	"github.com/dmitrijs2005/spicestore/internal/client/stores"
	"github.com/dmitrijs2005/spicestore/internal/common"
)

var errAdminOnly = errors.New("this command requires an admin account")

func usage(s string) error {
	return fmt.Errorf("%w: usage: %s", common.ErrInvalidInput, s)
}

// argOrPrompt returns args[0] when present and asks for it otherwise.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.in, prompt, a.out)
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return common.ErrNoSession
	}
	return nil
}

func (a *App) requireAdmin() error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if !a.isAdmin() {
		return errAdminOnly
	}
	return nil
}

// Login prompts for credentials and signs in. A rejected login is reported
// inline and is not an error; after repeated failures the password reset is
// suggested.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Enter email")
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.auth.Login(ctx, stores.Credentials{Email: email, Password: string(password)})
	if !res.Success {
		a.println("Login failed:", res.Message)
		if a.auth.SuggestReset() {
			a.println("Forgot your password? Type 'forgot' to reset it.")
		}
		return nil
	}

	a.Navigate(res.Redirect)
	a.printf("Welcome, %s!\n", res.User.Name)
	a.loadCart(ctx)
	return nil
}

// Signup runs the two-step OTP registration.
func (a *App) Signup(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.in, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.in, "Enter phone (optional)", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.SendOtp(ctx, email); err != nil {
		return err
	}
	a.printf("A verification code was sent to %s\n", email)

	otp, err := getSimpleText(a.in, "Enter code", a.out)
	if err != nil {
		a.auth.Back()
		return err
	}
	password, err := getPassword("Choose password", a.out)
	if err != nil {
		a.auth.Back()
		return err
	}
	defer common.WipeByteArray(password)

	ok, err := a.auth.VerifyOtp(ctx, stores.SignupData{
		Name:     name,
		Email:    email,
		Password: string(password),
		Phone:    phone,
		Otp:      otp,
	})
	if err != nil {
		if a.auth.Step() == stores.StepEmail {
			a.println("The code is no longer valid, run 'signup' again.")
		}
		return err
	}
	if ok {
		a.println("Account created. You can now log in.")
	}
	return nil
}

// Forgot requests a reset code and sets a new password.
func (a *App) Forgot(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Enter email")
	if err != nil {
		return err
	}
	if err := a.auth.ForgotPassword(ctx, email); err != nil {
		return err
	}
	a.printf("A reset code was sent to %s\n", email)

	otp, err := getSimpleText(a.in, "Enter code", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.ResetPassword(ctx, stores.ResetData{Email: email, Otp: otp, NewPassword: string(password)}); err != nil {
		return err
	}
	a.println("Password updated. You can now log in.")
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	err := a.auth.Logout(ctx)
	a.Navigate(navigation.RouteHome)
	a.println("Logged out")
	return err
}

// Profile renames the signed-in user and optionally uploads a new avatar.
func (a *App) Profile(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usage("profile <name> [image-path]")
	}

	var file *api.FilePart
	if len(args) > 1 {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		file = &api.FilePart{Name: filepath.Base(args[1]), Content: f}
	}

	if err := a.auth.UpdateUser(ctx, a.userID(), map[string]string{"name": args[0]}, file); err != nil {
		return err
	}
	a.println("Profile updated")
	return nil
}
