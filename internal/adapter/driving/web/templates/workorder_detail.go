package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/jcastellan/workpanel/internal/adapter/driving/web/viewmodel"
)

// WorkOrderDetailPage renders one work order with its update form and the
// attached inspections.
func WorkOrderDetailPage(m vm.WorkOrderDetailViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &hw{w: w}
		b.raw(`<section class="workorder-detail"><p><a href="/workorders">&larr; Work orders</a></p><h1>`)
		b.text(m.Title)
		b.raw(`</h1><dl><dt>Station</dt><dd>`)
		b.text(m.Station)
		b.raw(`</dd><dt>Status</dt><dd><span class="status status-`)
		b.raw(templ.EscapeString(m.Status))
		b.raw(`">`)
		b.text(m.Status)
		b.raw(`</span></dd><dt>Created</dt><dd>`)
		b.text(m.CreatedAt)
		b.raw(`</dd></dl>`)

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

		writeUpdateForm(b, m)
		writeInspections(b, m)

		b.raw(`</section>`)
		return b.err
	})
}

func writeUpdateForm(b *hw, m vm.WorkOrderDetailViewModel) {
	b.f(`<form method="post" action="/workorders/%d" class="update"><h2>Edit</h2>`, m.ID)
	b.hidden("csrf_token", m.CSRFToken)
	b.raw(`<label>Title<input type="text" name="title" value="`)
	b.raw(templ.EscapeString(m.Title))
	b.raw(`"/></label>`)
	b.fieldErrors(m.FieldErrors, "title")
	b.raw(`<label>Station<input type="text" name="station" value="`)
	b.raw(templ.EscapeString(m.Station))
	b.raw(`"/></label>`)
	b.fieldErrors(m.FieldErrors, "station")
	b.raw(`<label>Status <select name="status">`)
	for _, s := range m.Statuses {
		b.raw(`<option value="`)
		b.raw(templ.EscapeString(s))
		b.raw(`"`)
		if s == m.Status {
			b.raw(` selected`)
		}
		b.raw(`>`)
		b.text(s)
		b.raw(`</option>`)
	}
	b.raw(`</select></label>`)
	b.fieldErrors(m.FieldErrors, "status")
	b.raw(`<button type="submit">Save</button></form>`)
}

func writeInspections(b *hw, m vm.WorkOrderDetailViewModel) {
	b.raw(`<h2>Inspections`)
	if m.InsCount != "" {
		b.raw(` <span class="count">(`)
		b.text(m.InsCount)
		b.raw(`)</span>`)
	}
	b.raw(`</h2>`)

	if m.InsDegraded {
		b.raw(`<p class="warning">Inspections could not be loaded.</p>`)
	}

	b.f(`<form method="post" action="/workorders/%d/inspections" class="inspection">`, m.ID)
	b.hidden("csrf_token", m.CSRFToken)
	b.raw(`<label>Result <select name="result"><option value="OK">OK</option><option value="FAIL">FAIL</option></select></label>`)
	b.fieldErrors(m.FieldErrors, "result")
	b.raw(`<label>Notes<textarea name="notes"></textarea></label>`)
	b.fieldErrors(m.FieldErrors, "notes")
	b.raw(`<button type="submit">Record inspection</button></form>`)

	if len(m.Inspections) == 0 {
		if !m.InsDegraded {
			b.raw(`<p class="empty">No inspections recorded.</p>`)
		}
		return
	}

	b.raw(`<ul class="inspections">`)
	for _, ins := range m.Inspections {
		b.raw(`<li class="inspection-`)
		b.raw(templ.EscapeString(ins.Result))
		b.raw(`"><span class="result">`)
		b.text(ins.Result)
		b.raw(`</span> <time>`)
		b.text(ins.CreatedAt)
		b.raw(`</time>`)
		if ins.NotesHTML != "" {
			// NotesHTML is sanitized at the view-model boundary.
			b.raw(`<div class="notes">`)
			b.raw(ins.NotesHTML)
			b.raw(`</div>`)
		}
		b.raw(`</li>`)
	}
	b.raw(`</ul>`)
}
