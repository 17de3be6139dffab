package rest

import (
	"bytes"
	"net/http"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/eslsoft/speaktrack/internal/usecase"
	"github.com/eslsoft/speaktrack/internal/usecase/backup"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Handler serves the learner progress API.
type Handler struct {
	words    usecase.WeakWordUsecase
	phrases  usecase.PhraseUsecase
	stats    usecase.StatsUsecase
	insights usecase.InsightUsecase
	settings usecase.SettingsUsecase
	progress usecase.ProgressUsecase
	backup   *backup.Service
	validate *validator.Validate
	logger   logrus.FieldLogger
}

func NewHandler(
	words usecase.WeakWordUsecase,
	phrases usecase.PhraseUsecase,
	stats usecase.StatsUsecase,
	insights usecase.InsightUsecase,
	settings usecase.SettingsUsecase,
	progress usecase.ProgressUsecase,
	backupSvc *backup.Service,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		words:    words,
		phrases:  phrases,
		stats:    stats,
		insights: insights,
		settings: settings,
		progress: progress,
		backup:   backupSvc,
		validate: validator.New(),
		logger:   logger,
	}
}

// Routes registers every endpoint on r, relative to the API prefix.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/weak-words", h.listWeakWords)
		r.Post("/weak-words", h.saveWeakWord)
		r.Get("/weak-words/top", h.topWeakWords)
		r.Delete("/weak-words/{word}", h.removeWeakWord)
		r.Post("/weak-words/{word}/practice", h.practiceWord)
		r.Post("/weak-words/{word}/master", h.masterWord)
		r.Get("/mastered-words", h.listMastered)
		r.Delete("/mastered-words/{word}", h.removeMastered)
		r.Post("/evaluations", h.recordEvaluation)

		r.Get("/phrases", h.listPhrases)
		r.Post("/phrases", h.savePhrase)
		r.Get("/phrases/today", h.todayPhrases)
		r.Get("/phrases/topics", h.phrasesByTopic)
		r.Post("/phrases/{phraseID}/practice", h.practicePhrase)
		r.Delete("/phrases/{phraseID}", h.removePhrase)

		r.Get("/stats/week", h.weeklyStats)
		r.Get("/stats/today", h.todaySummary)
		r.Get("/insights", h.weeklyInsights)

		r.Get("/settings", h.getSettings)
		r.Patch("/settings", h.updateSettings)
		r.Get("/goal", h.getGoal)
		r.Put("/goal", h.setGoal)
		r.Get("/sessions", h.sessionCount)
		r.Post("/sessions", h.incrementSession)

		r.Get("/progress", h.progressSummary)
		r.Delete("/data", h.clearData)
		r.Get("/export", h.exportData)
		r.Post("/import", h.importData)
	})
}

func (h *Handler) listWeakWords(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	words, err := h.words.ListWeakWords(r.Context(), userID(r), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (h *Handler) topWeakWords(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", usecase.DefaultTopWeakWords)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	words, err := h.words.TopWeakWords(r.Context(), userID(r), n)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (h *Handler) saveWeakWord(w http.ResponseWriter, r *http.Request) {
	var req saveWeakWordRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	input, err := req.input()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	word, err := h.words.SaveWeakWord(r.Context(), userID(r), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, word)
}

func (h *Handler) removeWeakWord(w http.ResponseWriter, r *http.Request) {
	if err := h.words.RemoveWeakWord(r.Context(), userID(r), chi.URLParam(r, "word")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) practiceWord(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.words.PracticeWord(r.Context(), userID(r), chi.URLParam(r, "word"), *req.Score)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) masterWord(w http.ResponseWriter, r *http.Request) {
	mastered, err := h.words.MasterWord(r.Context(), userID(r), chi.URLParam(r, "word"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mastered)
}

func (h *Handler) listMastered(w http.ResponseWriter, r *http.Request) {
	words, err := h.words.ListMastered(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (h *Handler) removeMastered(w http.ResponseWriter, r *http.Request) {
	if err := h.words.RemoveMastered(r.Context(), userID(r), chi.URLParam(r, "word")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordEvaluation(w http.ResponseWriter, r *http.Request) {
	var req evaluationRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	saved, err := h.words.RecordEvaluation(r.Context(), userID(r), entity.Evaluation{
		OverallScore: *req.OverallScore,
		TrickyWords:  req.TrickyWords,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) listPhrases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := entity.ParsePhraseStatus(q.Get("status"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	query := &repository.ListSavedPhraseQuery{Topic: q.Get("topic"), Status: status}
	query.Filter = q.Get("filter")
	query.OrderBy = q.Get("order_by")

	phrases, err := h.phrases.ListPhrases(r.Context(), userID(r), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, phrases)
}

func (h *Handler) savePhrase(w http.ResponseWriter, r *http.Request) {
	var req savePhraseRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	input, err := req.input()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	phrase, err := h.phrases.SavePhrase(r.Context(), userID(r), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, phrase)
}

func (h *Handler) todayPhrases(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", usecase.DefaultTodayPhrases)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	phrases, err := h.phrases.TodayPhrases(r.Context(), userID(r), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, phrases)
}

func (h *Handler) phrasesByTopic(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.phrases.PhrasesByTopic(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (h *Handler) practicePhrase(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.phrases.PracticePhrase(r.Context(), userID(r), chi.URLParam(r, "phraseID"), *req.Score)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) removePhrase(w http.ResponseWriter, r *http.Request) {
	if err := h.phrases.RemovePhrase(r.Context(), userID(r), chi.URLParam(r, "phraseID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) weeklyStats(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	stats, err := h.stats.WeeklyStats(r.Context(), userID(r), offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) todaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.TodaySummary(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) weeklyInsights(w http.ResponseWriter, r *http.Request) {
	report, err := h.insights.WeeklyInsights(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetSettings(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch entity.SettingsPatch
	if err := h.decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	settings, err := h.settings.UpdateSettings(r.Context(), userID(r), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) getGoal(w http.ResponseWriter, r *http.Request) {
	minutes, err := h.settings.WeeklyGoal(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goalResponse{Minutes: minutes})
}

func (h *Handler) setGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.settings.SetWeeklyGoal(r.Context(), userID(r), req.Minutes); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goalResponse{Minutes: req.Minutes})
}

func (h *Handler) sessionCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.settings.SessionCount(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Count: count})
}

func (h *Handler) incrementSession(w http.ResponseWriter, r *http.Request) {
	count, err := h.settings.IncrementSession(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Count: count})
}

func (h *Handler) progressSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.progress.Summary(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) clearData(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.ClearUserData(r.Context(), userID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.backup.Export(r.Context(), userID(r), &buf, backup.WithSections(queryList(r, "sections"))); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="speaktrack-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) importData(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	result, err := h.backup.Import(r.Context(), userID(r), body, backup.WithSections(queryList(r, "sections")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
