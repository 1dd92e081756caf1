package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/careerflow-agent/internal/research"
	"github.com/jonathan/careerflow-agent/internal/types"
)

// uploadResumeResponse is returned by POST /resumes.
type uploadResumeResponse struct {
	ResumeID  uuid.UUID `json:"resume_id"`
	VersionID uuid.UUID `json:"version_id"`
	Preview   string    `json:"preview"`
}

// handleUploadResume creates a resume and its initial version from plain
// text.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	var req types.UploadResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resume, err := s.store.CreateResume(r.Context(), req.Name)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	version, err := s.store.CreateVersion(r.Context(), resume.ID, nil, req.Text)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, uploadResumeResponse{
		ResumeID:  resume.ID,
		VersionID: version.ID,
		Preview:   version.Preview,
	})
}

// handleListVersions returns a resume's versions, newest first.
func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume id")
		return
	}

	versions, err := s.store.ListVersions(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"versions": versions})
}

// handleGetVersion returns one version including its full text.
func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume id")
		return
	}
	versionID, err := uuid.Parse(r.PathValue("version_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid version id")
		return
	}

	version, err := s.store.GetVersion(r.Context(), resumeID, versionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, version)
}

// handleChat serves the structured orchestrator entry point.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Research material is collected at the transport edge so the core
	// stays pure; a failed collection degrades to name-only research.
	var snippets []string
	if req.CompanyURL != "" {
		collected, err := research.Collect(r.Context(), req.CompanyURL, s.researchOpts)
		if err != nil {
			log.Printf("company research collection failed for %s: %v", req.CompanyURL, err)
		} else {
			snippets = collected
		}
	}

	result, err := s.orch.HandleStructured(r.Context(), req, snippets)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleNaturalChat serves the natural-language entry point.
func (s *Server) handleNaturalChat(w http.ResponseWriter, r *http.Request) {
	var req types.NaturalChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.orch.HandleNatural(r.Context(), req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleApplyEdits applies accepted edits against a base version and returns
// the new version id.
func (s *Server) handleApplyEdits(w http.ResponseWriter, r *http.Request) {
	var req types.ApplyEditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.applicator.Apply(r.Context(), req.ResumeID, req.BaseVersionID, req.Edits)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, result)
}
