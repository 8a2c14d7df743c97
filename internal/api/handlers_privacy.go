package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/focuslog/corehub/internal/apperr"
	"github.com/focuslog/corehub/internal/model"
)

func (s *Server) handlePrivacyRulesList(w http.ResponseWriter, r *http.Request) {
	rules, err := s.Rules.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if rules == nil {
		rules = []model.PrivacyRule{}
	}
	writeOK(w, http.StatusOK, rules)
}

type privacyRuleRequest struct {
	Kind   string `json:"kind"`
	Value  string `json:"value"`
	Action string `json:"action"`
}

func (s *Server) handlePrivacyRulesCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "could not read body"))
		return
	}
	var req privacyRuleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "malformed rule body"))
		return
	}

	kind := model.PrivacyKind(req.Kind)
	if kind != model.PrivacyKindApp && kind != model.PrivacyKindDomain {
		writeErr(w, apperr.New(apperr.CodeInvalidKind, "kind must be app or domain"))
		return
	}
	action := model.PrivacyAction(req.Action)
	if action != model.ActionDrop && action != model.ActionMask {
		writeErr(w, apperr.New(apperr.CodeInvalidAction, "action must be drop or mask"))
		return
	}
	if req.Value == "" {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "value is required"))
		return
	}

	rule, err := s.Rules.Upsert(r.Context(), kind, req.Value, action)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, rule)
}

func (s *Server) handlePrivacyRuleDelete(w http.ResponseWriter, r *http.Request) {
	idRaw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		writeErr(w, apperr.New(apperr.CodeMalformedBody, "id must be an integer"))
		return
	}
	ok, err := s.Rules.Delete(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		writeErr(w, apperr.New(apperr.CodeNotFound, "rule not found"))
		return
	}
	writeOK(w, http.StatusOK, nil)
}
