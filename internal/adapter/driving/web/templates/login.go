package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/jcastellan/workpanel/internal/adapter/driving/web/viewmodel"
)

// LoginPage renders the credential form. A failed attempt re-renders with
// the error and the username preserved; the password is never echoed.
func LoginPage(m vm.LoginViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &hw{w: w}
		b.raw(`<section class="login"><h1>Sign in</h1>`)
		if m.Error != "" {
			b.raw(`<p class="error" role="alert">`)
			b.text(m.Error)
			b.raw(`</p>`)
		}
		b.raw(`<form method="post" action="/login">`)
		b.hidden("csrf_token", m.CSRFToken)
		if m.Next != "" {
			b.hidden("next", m.Next)
		}
		b.raw(`<label>Username<input type="text" name="username" value="`)
		b.raw(templ.EscapeString(m.Username))
		b.raw(`" autocomplete="username" required/></label>`)
		b.raw(`<label>Password<input type="password" name="password" autocomplete="current-password" required/></label>`)
		b.raw(`<button type="submit">Sign in</button></form></section>`)
		return b.err
	})
}
