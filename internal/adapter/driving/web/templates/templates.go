// Package templates holds the page components. Components are written as
// plain Go templ components so rendering stays type-checked against the view
// models without a generation step.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// hw is a write-through HTML builder that latches the first error so page
// components can emit markup without per-write error plumbing.
type hw struct {
	w   io.Writer
	err error
}

func (h *hw) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *hw) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *hw) f(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

// hidden emits a hidden form input with an escaped value.
func (h *hw) hidden(name, value string) {
	h.f(`<input type="hidden" name="%s" value="%s"/>`, name, templ.EscapeString(value))
}

// fieldErrors emits the per-field validation messages, if any.
func (h *hw) fieldErrors(errs map[string][]string, field string) {
	for _, msg := range errs[field] {
		h.raw(`<p class="field-error">`)
		h.text(msg)
		h.raw(`</p>`)
	}
}

// Layout wraps page contents in the full HTML document with navigation.
// username is empty when no session is held.
func Layout(title, username string, contents templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &hw{w: w}
		b.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/><title>`)
		b.text(title)
		b.raw(` | WorkPanel</title><link rel="stylesheet" href="/static/style.css"/></head><body><header class="topbar"><a class="brand" href="/workorders">WorkPanel</a><nav>`)
		if username != "" {
			b.raw(`<span class="username">`)
			b.text(username)
			b.raw(`</span><form method="post" action="/logout" class="inline"><button type="submit">Log out</button></form>`)
		}
		b.raw(`</nav></header><main>`)
		if b.err != nil {
			return b.err
		}
		if err := contents.Render(ctx, w); err != nil {
			return err
		}
		b.raw(`</main></body></html>`)
		return b.err
	})
}

// ErrorPage renders a standalone error message.
func ErrorPage(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &hw{w: w}
		b.raw(`<section class="error-page"><h1>Something went wrong</h1><p>`)
		b.text(message)
		b.raw(`</p><p><a href="/workorders">Back to work orders</a></p></section>`)
		return b.err
	})
}
