package auth

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// LoginPage renders the full login page.
func LoginPage(csrfToken, email, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="auth-page"><h1>Sign in</h1>`); err != nil {
			return err
		}
		if err := LoginFormComponent(csrfToken, email, errMsg).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<p>No account yet? <a href="/auth/register">Register</a></p></section>`)
		return err
	})
}

// LoginFormComponent renders just the login form, for HTMX swaps on failure.
func LoginFormComponent(csrfToken, email, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<form id="login-form" method="post" action="/auth/login" hx-post="/auth/login" hx-target="#login-form" hx-swap="outerHTML">`); err != nil {
			return err
		}
		if err := writeFormError(w, errMsg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<input type="hidden" name="csrf_token" value="%s">`+
				`<label>Email<input type="email" name="email" value="%s" required autofocus></label>`+
				`<label>Password<input type="password" name="password" required></label>`+
				`<button type="submit">Sign in</button></form>`,
			html.EscapeString(csrfToken), html.EscapeString(email))
		return err
	})
}

// RegisterPage renders the full registration page. A non-nil req repopulates
// the form after a validation failure.
func RegisterPage(csrfToken string, req *RegisterRequest, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="auth-page"><h1>Create your account</h1>`); err != nil {
			return err
		}
		if err := RegisterFormComponent(csrfToken, req, errMsg).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<p>Already registered? <a href="/auth/login">Sign in</a></p></section>`)
		return err
	})
}

// RegisterFormComponent renders just the registration form, for HTMX swaps.
func RegisterFormComponent(csrfToken string, req *RegisterRequest, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var email, name string
		if req != nil {
			email, name = req.Email, req.DisplayName
		}
		if _, err := io.WriteString(w, `<form id="register-form" method="post" action="/auth/register" hx-post="/auth/register" hx-target="#register-form" hx-swap="outerHTML">`); err != nil {
			return err
		}
		if err := writeFormError(w, errMsg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<input type="hidden" name="csrf_token" value="%s">`+
				`<label>Email<input type="email" name="email" value="%s" required></label>`+
				`<label>Display name<input type="text" name="display_name" value="%s" required></label>`+
				`<label>Password<input type="password" name="password" required minlength="8"></label>`+
				`<label>Confirm password<input type="password" name="confirm" required></label>`+
				`<button type="submit">Register</button></form>`,
			html.EscapeString(csrfToken), html.EscapeString(email), html.EscapeString(name))
		return err
	})
}

func writeFormError(w io.Writer, errMsg string) error {
	if errMsg == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, `<p class="form-error" role="alert">%s</p>`, html.EscapeString(errMsg))
	return err
}
