package templates

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	vm "github.com/jcastellan/workpanel/internal/adapter/driving/web/viewmodel"
)

// WorkOrdersPage renders the filtered, paginated work-order list with the
// create form and per-row delete controls.
func WorkOrdersPage(m vm.WorkOrderListViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &hw{w: w}
		b.raw(`<section class="workorders"><h1>Work orders`)
		if m.Count != "" {
			b.raw(` <span class="count">(`)
			b.text(m.Count)
			b.raw(`)</span>`)
		}
		b.raw(`</h1>`)

		if m.Notice != "" {
			b.raw(`<p class="notice" role="status">`)
			b.text(m.Notice)
			b.raw(`</p>`)
		}
		if m.Error != "" {
			b.raw(`<p class="error" role="alert">`)
			b.text(m.Error)
			b.raw(`</p>`)
		}

		writeFilterForm(b, m)
		writeCreateForm(b, m)
		writeTable(b, m)
		writePager(b, m)

		b.raw(`</section>`)
		return b.err
	})
}

func writeFilterForm(b *hw, m vm.WorkOrderListViewModel) {
	b.raw(`<form method="get" action="/workorders" class="filter"><label>Status <select name="status"><option value="">All</option>`)
	for _, s := range m.Statuses {
		b.raw(`<option value="`)
		b.raw(templ.EscapeString(s))
		b.raw(`"`)
		if s == m.Filter {
			b.raw(` selected`)
		}
		b.raw(`>`)
		b.text(s)
		b.raw(`</option>`)
	}
	b.raw(`</select></label><button type="submit">Apply</button></form>`)
}

func writeCreateForm(b *hw, m vm.WorkOrderListViewModel) {
	b.raw(`<form method="post" action="/workorders" class="create"><h2>New work order</h2>`)
	b.hidden("csrf_token", m.CSRFToken)
	b.raw(`<label>Title<input type="text" name="title" value="`)
	b.raw(templ.EscapeString(m.Form.Title))
	b.raw(`" required/></label>`)
	b.fieldErrors(m.FieldErrors, "title")
	b.raw(`<label>Station<input type="text" name="station" value="`)
	b.raw(templ.EscapeString(m.Form.Station))
	b.raw(`"/></label>`)
	b.fieldErrors(m.FieldErrors, "station")
	b.raw(`<label>Status <select name="status">`)
	for _, s := range m.Statuses {
		b.raw(`<option value="`)
		b.raw(templ.EscapeString(s))
		b.raw(`"`)
		if s == m.Form.Status {
			b.raw(` selected`)
		}
		b.raw(`>`)
		b.text(s)
		b.raw(`</option>`)
	}
	b.raw(`</select></label>`)
	b.fieldErrors(m.FieldErrors, "status")
	b.raw(`<button type="submit">Create</button></form>`)
}

func writeTable(b *hw, m vm.WorkOrderListViewModel) {
	if len(m.Items) == 0 {
		b.raw(`<p class="empty">No work orders.</p>`)
		return
	}

	b.raw(`<table><thead><tr><th>Title</th><th>Station</th><th>Status</th><th>Created</th><th></th></tr></thead><tbody>`)
	for _, item := range m.Items {
		b.raw(`<tr><td><a href="`)
		b.raw(templ.EscapeString(item.DetailPath))
		b.raw(`">`)
		b.text(item.Title)
		b.raw(`</a></td><td>`)
		b.text(item.Station)
		b.raw(`</td><td><span class="status status-`)
		b.raw(templ.EscapeString(item.Status))
		b.raw(`">`)
		b.text(item.Status)
		b.raw(`</span></td><td>`)
		b.text(item.CreatedAt)
		b.raw(`</td><td><form method="post" action="`)
		b.raw(templ.EscapeString(item.DetailPath + "/delete"))
		b.raw(`" class="inline">`)
		b.hidden("csrf_token", m.CSRFToken)
		b.raw(`<label class="confirm"><input type="checkbox" name="confirm" value="yes"/> confirm</label><button type="submit">Delete</button></form></td></tr>`)
	}
	b.raw(`</tbody></table>`)
}

func writePager(b *hw, m vm.WorkOrderListViewModel) {
	b.raw(`<nav class="pager">`)
	if m.HasPrev {
		b.raw(`<a href="`)
		b.raw(templ.EscapeString(listPath(m.Filter, m.PageNum-1)))
		b.raw(`">&larr; Previous</a>`)
	}
	b.f(`<span>Page %d</span>`, m.PageNum)
	if m.HasNext {
		b.raw(`<a href="`)
		b.raw(templ.EscapeString(listPath(m.Filter, m.PageNum+1)))
		b.raw(`">Next &rarr;</a>`)
	}
	b.raw(`</nav>`)
}

func listPath(filter string, page int) string {
	q := url.Values{}
	if filter != "" {
		q.Set("status", filter)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/workorders"
	}
	return "/workorders?" + q.Encode()
}
