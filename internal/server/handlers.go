package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/roadmap-generator/internal/analysis"
	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/roadmap"
	"github.com/jonathan/roadmap-generator/internal/types"
)

// maxBodyBytes caps request bodies; a full resume is well below this
const maxBodyBytes = 1 << 20

// EstimateRequest represents the request body for /api/estimate
type EstimateRequest struct {
	SelectedTools []string `json:"selected_tools" validate:"required,min=1,max=10,dive,required"`
	HoursPerWeek  float64  `json:"hours_per_week" validate:"gt=0,lte=80"`
}

// EstimateResponse represents the response for /api/estimate
type EstimateResponse struct {
	Success       bool `json:"success"`
	TotalWeeks    int  `json:"total_weeks"`
	DetailedWeeks int  `json:"detailed_weeks"`
}

// AnalyzeRequest represents the request body for /api/analyze-resume
type AnalyzeRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
}

// RecommendRequest represents the request body for /api/recommend-domains
type RecommendRequest struct {
	Profile types.Profile `json:"profile"`
}

// GenerateResponse represents the response for /api/generate-roadmap
type GenerateResponse struct {
	Success bool `json:"success"`
	*types.GenerationResult
	Message string `json:"message"`
}

// decode reads a JSON body into dst and validates it
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Code: CodeInvalidRequest, Message: "invalid request body: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// handleTechnologies lists the technologies the catalog has resources for
func (s *Server) handleTechnologies(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":      true,
		"technologies": s.catalog.Technologies(),
	})
}

// handleResources looks up catalog resources by technology, falling back to topic
func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	technology := strings.TrimSpace(r.URL.Query().Get("technology"))
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if technology == "" && topic == "" {
		s.errorResponse(w, r, &ErrValidation{Code: CodeMissingFields, Field: "technology", Message: "technology or topic is required"})
		return
	}

	var resources []types.Resource
	if technology != "" {
		resources = s.catalog.ResourcesFor(technology)
	}
	if len(resources) == 0 && topic != "" {
		resources = s.catalog.ResourcesForTopics([]string{topic}, catalog.DefaultTopicLimit)
	}
	if resources == nil {
		resources = []types.Resource{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"resources": resources,
	})
}

// handleEstimate returns the plan length for a set of tools
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	total := roadmap.EstimateWeeks(len(req.SelectedTools), req.HoursPerWeek)
	s.jsonResponse(w, http.StatusOK, EstimateResponse{
		Success:       true,
		TotalWeeks:    total,
		DetailedWeeks: roadmap.DetailedWeeks(total),
	})
}

// handleAnalyzeResume extracts a profile from resume text
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		s.errorResponse(w, r, &ErrValidation{Code: CodeMissingFields, Field: "resume_text", Message: "is required"})
		return
	}
	if utf8.RuneCountInString(req.ResumeText) > analysis.MaxResumeChars {
		s.errorResponse(w, r, &ErrValidation{Code: CodeResumeTooLong, Field: "resume_text", Message: "exceeds the maximum length"})
		return
	}

	profile, err := s.analyzer.AnalyzeResume(r.Context(), req.ResumeText)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": profile,
		"message": "Resume analyzed successfully",
	})
}

// handleRecommendDomains suggests technology domains for a profile
func (s *Server) handleRecommendDomains(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	recs, err := s.analyzer.RecommendDomains(r.Context(), req.Profile)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":         true,
		"recommendations": recs,
		"message":         "Domain recommendations generated successfully",
	})
}

// handleChat answers one chat turn. The caller sends the history with each request.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	reply, err := s.analyzer.Chat(r.Context(), req.Message, req.Context)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"response": reply,
		"message":  "Chat response generated successfully",
	})
}

// handleGenerateRoadmap runs a generation and returns the roadmap
func (s *Server) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, err := s.generator.Generate(r.Context(), req, nil)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, GenerateResponse{
		Success:          true,
		GenerationResult: result,
		Message:          "Roadmap generated successfully",
	})
}

// handleGenerateRoadmapStream runs a generation and streams progress via SSE.
// Request errors are reported as plain JSON before the stream opens.
func (s *Server) handleGenerateRoadmapStream(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	log := s.log.With("request_id", RequestID(r.Context()))
	result, err := s.generator.Generate(r.Context(), req, func(p roadmap.Progress) {
		if err := sse.WriteProgress(p); err != nil {
			log.Warn("failed to write SSE event", "stage", p.Stage, "error", err)
		}
	})
	if err != nil {
		if r.Context().Err() == nil {
			log.Warn("streamed generation failed", "code", ErrorCode(err), "error", err)
		}
		sse.WriteError(err)
		return
	}

	sse.WriteComplete(result)
}
