package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shading/internal/grid"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/ui/components"
	"github.com/leapstack-labs/shading/pkg/core"
)

// formPatch replaces the form signals. Validation errors are rendered in
// the sheet, not carried as signals.
type formPatch struct {
	Form FormSignals `json:"form"`
}

// NewUser opens the empty add sheet.
func (h *Handlers) NewUser(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(formPatch{Form: newForm()}); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(formSheet(0, nil)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// EditUser opens the sheet filled with the stored user.
func (h *Handlers) EditUser(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(formPatch{Form: formFor(u)}); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(formSheet(u.ID, nil)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ConfirmDelete opens the delete confirmation.
func (h *Handlers) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(deleteDialog(u)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// CloseOverlays closes the sheet and the dialog.
func (h *Handlers) CloseOverlays(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	h.closeOverlays(sse)
}

func (h *Handlers) closeOverlays(sse *datastar.ServerSentEventGenerator) {
	if err := sse.PatchElementTempl(components.Sheet(sheetID, "", nil)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(components.Dialog(dialogID, "", nil)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// CreateUser validates the form and inserts a user.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, 0)
}

// UpdateUser validates the form and replaces user {id}.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.save(w, r, id)
}

func (h *Handlers) save(w http.ResponseWriter, r *http.Request, id int64) {
	sig, err := h.readPage(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in := sig.Form.Input()

	if errs := validateInput(in); errs != nil {
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElementTempl(formSheet(id, errs)); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	if id == 0 {
		_, err = h.store.CreateUser(r.Context(), in)
	} else {
		_, err = h.store.UpdateUser(r.Context(), id, in)
	}
	if err != nil {
		h.logger.Error("failed to save user", "id", id, "error", err)
		msg := "Could not save the user."
		if errors.Is(err, state.ErrNotFound) {
			msg = "This user no longer exists."
		}
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElementTempl(formSheet(id, map[string]string{"": msg})); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	h.invalidate()
	h.refresh(w, r, sig)
}

// DeleteUser removes user {id}.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sig, err := h.readPage(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.DeleteUser(r.Context(), id); err != nil && !errors.Is(err, state.ErrNotFound) {
		h.logger.Error("failed to delete user", "id", id, "error", err)
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}

	h.invalidate()
	h.refresh(w, r, sig)
}

// refresh closes the overlays and re-renders the grid as the browser has it.
func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request, sig pageSignals) {
	s := grid.FromSignals(Filters, sig.Grid, h.options()...)
	t := h.table(r.Context(), s)

	sse := datastar.NewSSE(w, r)
	h.closeOverlays(sse)
	h.patchGrid(sse, s, t)
}

func (h *Handlers) loadUser(w http.ResponseWriter, r *http.Request) (core.User, bool) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return core.User{}, false
	}
	u, err := h.store.GetUser(r.Context(), id)
	if errors.Is(err, state.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return core.User{}, false
	}
	if err != nil {
		h.logger.Error("failed to load user", "id", id, "error", err)
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return core.User{}, false
	}
	return u, true
}
