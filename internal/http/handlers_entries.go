package http

import (
	"net/http"

	"contas/internal/core"
	"contas/internal/log"
)

// entryResponse is the wire shape of a gasto or despesa.
type entryResponse struct {
	ID          int64   `json:"id"`
	Date        string  `json:"data"`
	Category    string  `json:"categoria"`
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
	CreatedAt   string  `json:"created_at"`
}

func toEntryResponse(e core.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Date:        e.Date.String(),
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt.UTC().Format(core.TimestampLayout),
	}
}

// entryHandlers serves the CRUD routes of one domain.
type entryHandlers struct {
	server  *Server
	entries EntryService
}

func (h *entryHandlers) domain() core.Domain {
	return h.entries.Domain()
}

func (h *entryHandlers) list(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilterParams(r.URL.Query())
	if err != nil {
		h.server.writeError(w, r, h.domain(), log.OpList, err, "Invalid data provided")
		return
	}

	entries, err := h.entries.List(r.Context(), filter)
	if err != nil {
		h.server.writeError(w, r, h.domain(), log.OpList, err, "Failed to list "+h.domain().String())
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (h *entryHandlers) create(w http.ResponseWriter, r *http.Request) {
	raw, err := DecodeEntryPayload(w, r)
	if err == nil {
		var e core.Entry
		e, err = h.entries.Create(r.Context(), raw)
		if err == nil {
			log.FromContext(r.Context()).InfoContext(r.Context(), "Entry created",
				log.NewFields().WithOperation(log.OpCreate).WithEntry(h.domain().String(), e.ID).ToSlice()...)
			NewJSONResponse().Status(http.StatusCreated).Body(toEntryResponse(e)).Write(w)
			return
		}
	}
	h.server.writeError(w, r, h.domain(), log.OpCreate, err, "Failed to create "+h.domain().Singular())
}

func (h *entryHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		NotFoundError(h.domain().Title() + " not found").Write(w)
		return
	}

	e, err := h.entries.Get(r.Context(), id)
	if err != nil {
		h.server.writeError(w, r, h.domain(), log.OpRead, err, "Failed to read "+h.domain().Singular())
		return
	}
	NewJSONResponse().Body(toEntryResponse(e)).Write(w)
}

func (h *entryHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		NotFoundError(h.domain().Title() + " not found").Write(w)
		return
	}

	raw, err := DecodeEntryPayload(w, r)
	if err == nil {
		var e core.Entry
		e, err = h.entries.Update(r.Context(), id, raw)
		if err == nil {
			NewJSONResponse().Body(toEntryResponse(e)).Write(w)
			return
		}
	}
	h.server.writeError(w, r, h.domain(), log.OpUpdate, err, "Failed to update "+h.domain().Singular())
}

func (h *entryHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		NotFoundError(h.domain().Title() + " not found").Write(w)
		return
	}

	if err := h.entries.Delete(r.Context(), id); err != nil {
		h.server.writeError(w, r, h.domain(), log.OpDelete, err, "Failed to delete "+h.domain().Singular())
		return
	}
	MessageResponse(h.domain().Title() + " deleted successfully").Write(w)
}
