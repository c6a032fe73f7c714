package events

import "github.com/atomicstack/cellcombo/internal/logging"

type FilterTracer struct{}

type DropdownTracer struct{}

type EditTracer struct{}

type GridTracer struct{}

type CatalogTracer struct{}

type CommandTracer struct{}

var (
	Filter   = FilterTracer{}
	Dropdown = DropdownTracer{}
	Edit     = EditTracer{}
	Grid     = GridTracer{}
	Catalog  = CatalogTracer{}
	Command  = CommandTracer{}
)

func (FilterTracer) Requested(widget, pattern string) {
	logging.Trace("filter.request", map[string]interface{}{"widget": widget, "pattern": pattern})
}

func (FilterTracer) Applied(widget, pattern string, matches int) {
	logging.Trace("filter.apply", map[string]interface{}{"widget": widget, "pattern": pattern, "matches": matches})
}

func (FilterTracer) Dropped(widget, pattern string) {
	logging.Trace("filter.drop", map[string]interface{}{"widget": widget, "pattern": pattern})
}

func (FilterTracer) AutoCommit(widget, itemID string) {
	logging.Trace("filter.auto-commit", map[string]interface{}{"widget": widget, "item": itemID})
}

func (DropdownTracer) Open(widget string, x, y, width, height int, up bool) {
	logging.Trace("dropdown.open", map[string]interface{}{
		"widget": widget,
		"x":      x,
		"y":      y,
		"width":  width,
		"height": height,
		"up":     up,
	})
}

func (DropdownTracer) Close(widget, reason string, changed bool) {
	logging.Trace("dropdown.close", map[string]interface{}{"widget": widget, "reason": reason, "changed": changed})
}

func (DropdownTracer) Extend(widget string) {
	logging.Trace("dropdown.extend", map[string]interface{}{"widget": widget})
}

func (DropdownTracer) Fault(widget string, err error) {
	if err == nil {
		return
	}
	logging.Trace("dropdown.fault", map[string]interface{}{"widget": widget, "error": err.Error()})
}

func (EditTracer) Transition(widget, from, to string) {
	logging.Trace("edit.transition", map[string]interface{}{"widget": widget, "from": from, "to": to})
}

func (EditTracer) Dirty(widget string) {
	logging.Trace("edit.dirty", map[string]interface{}{"widget": widget})
}

func (EditTracer) Rejected(widget string, err error) {
	payload := map[string]interface{}{"widget": widget}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("edit.rejected", payload)
}

func (GridTracer) BeginEdit(row, col int, value string) {
	logging.Trace("grid.begin-edit", map[string]interface{}{"row": row, "col": col, "value": value})
}

func (GridTracer) EndEdit(row, col int, value string) {
	logging.Trace("grid.end-edit", map[string]interface{}{"row": row, "col": col, "value": value})
}

func (GridTracer) CancelEdit(row, col int) {
	logging.Trace("grid.cancel-edit", map[string]interface{}{"row": row, "col": col})
}

func (GridTracer) Cursor(row, col int) {
	logging.Trace("grid.cursor", map[string]interface{}{"row": row, "col": col})
}

func (GridTracer) Rejected(row, col int, r rune) {
	logging.Trace("grid.input-rejected", map[string]interface{}{"row": row, "col": col, "rune": string(r)})
}

func (CatalogTracer) Loaded(path string, items int) {
	logging.Trace("catalog.load", map[string]interface{}{"path": path, "items": items})
}

func (CatalogTracer) Reloaded(path string, items int) {
	logging.Trace("catalog.reload", map[string]interface{}{"path": path, "items": items})
}

func (CatalogTracer) Error(path string, err error) {
	if err == nil {
		return
	}
	logging.Trace("catalog.error", map[string]interface{}{"path": path, "error": err.Error()})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
