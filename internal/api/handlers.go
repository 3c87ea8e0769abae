package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/agent"
	"github.com/sells-group/trendscout/internal/model"
	"github.com/sells-group/trendscout/internal/store"
)

type researchRequest struct {
	TargetURLs    []string `json:"target_urls"`
	Prompt        string   `json:"prompt"`
	TimeWindow    string   `json:"time_window"`
	Category      string   `json:"category"`
	NumResults    int      `json:"num_results"`
	IncludeDebug  bool     `json:"include_debug"`
	VideoDuration string   `json:"video_duration"`
}

type researchResponse struct {
	ReportMarkdown string              `json:"report_markdown"`
	Results        []model.ContentItem `json:"results"`
	StoredRecordID string              `json:"stored_record_id"`
	TotalScraped   *int                `json:"total_scraped,omitempty"`
	Errors         []string            `json:"errors,omitempty"`
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.NumResults == 0 {
		req.NumResults = 10
	}
	if req.NumResults < 1 || req.NumResults > 20 {
		writeError(w, http.StatusBadRequest, "num_results must be between 1 and 20")
		return
	}

	result, err := s.runner.Run(r.Context(), agent.ResearchParams{
		TargetURLs:    req.TargetURLs,
		Prompt:        req.Prompt,
		TimeWindow:    req.TimeWindow,
		Category:      req.Category,
		NumResults:    req.NumResults,
		VideoDuration: req.VideoDuration,
	})
	if err != nil {
		zap.L().Error("api: research run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "research run failed")
		return
	}

	resp := researchResponse{
		ReportMarkdown: result.ReportMarkdown,
		Results:        result.Results,
		StoredRecordID: result.StoredRecordID,
	}
	if req.IncludeDebug {
		resp.TotalScraped = &result.TotalScraped
		resp.Errors = result.Errors
	}
	writeJSON(w, http.StatusOK, resp)
}

type topicsRequest struct {
	Prompt     string   `json:"prompt"`
	Category   string   `json:"category"`
	TargetURLs []string `json:"target_urls"`
	NumTitles  int      `json:"num_titles"`
	TimeWindow string   `json:"time_window"`
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	var req topicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" && req.Category == "" {
		writeError(w, http.StatusBadRequest, "provide a prompt or select a category")
		return
	}
	if req.NumTitles == 0 {
		req.NumTitles = 3
	}
	if req.NumTitles < 1 || req.NumTitles > 5 {
		writeError(w, http.StatusBadRequest, "num_titles must be between 1 and 5")
		return
	}

	result, err := s.runner.RunTopics(r.Context(), agent.TopicsParams{
		TargetURLs: req.TargetURLs,
		Prompt:     req.Prompt,
		Category:   req.Category,
		NumTitles:  req.NumTitles,
		TimeWindow: req.TimeWindow,
	})
	if err != nil {
		zap.L().Error("api: topics run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "topic generation failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type scriptRequest struct {
	Topic               string `json:"topic"`
	Category            string `json:"category"`
	VideoDuration       string `json:"video_duration"`
	BRollEnabled        bool   `json:"broll_enabled"`
	OnScreenTextEnabled bool   `json:"onscreen_text_enabled"`
	ContextSnapshot     string `json:"context_snapshot"`
	OriginalPrompt      string `json:"original_prompt"`
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	result, err := s.runner.RunScript(r.Context(), agent.ScriptParams{
		Topic:               req.Topic,
		Category:            req.Category,
		VideoDuration:       req.VideoDuration,
		BRollEnabled:        req.BRollEnabled,
		OnScreenTextEnabled: req.OnScreenTextEnabled,
		ContextSnapshot:     req.ContextSnapshot,
		OriginalPrompt:      req.OriginalPrompt,
	})
	if err != nil {
		zap.L().Error("api: script run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "script generation failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type runSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Prompt       string    `json:"prompt"`
	Category     string    `json:"category"`
	NumResults   int       `json:"num_results"`
	TotalScraped int       `json:"total_scraped"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context(), store.RunFilter{})
	if err != nil {
		zap.L().Error("api: list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	summaries := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		prompt := run.Inputs.Prompt
		if prompt == "" {
			prompt = run.Inputs.Topic
		}
		summaries = append(summaries, runSummary{
			ID:           run.ID,
			CreatedAt:    run.CreatedAt,
			Prompt:       prompt,
			Category:     run.Inputs.Category,
			NumResults:   len(run.SelectedResults),
			TotalScraped: run.TotalScraped,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]runSummary{"history": summaries})
}

func (s *Server) handleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")

	rec, err := s.store.GetRun(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "research record not found")
			return
		}
		zap.L().Error("api: get run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load record")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
