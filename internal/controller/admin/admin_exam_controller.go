package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul-kim/examhall/internal/dto"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/hanbyul-kim/examhall/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminExamController struct {
	adminExamService service.AdminExamService
	scoringService   service.ScoringService
	statsService     service.StatsService
}

func NewAdminExamController(
	adminExamService service.AdminExamService,
	scoringService service.ScoringService,
	statsService service.StatsService,
) *AdminExamController {
	return &AdminExamController{
		adminExamService: adminExamService,
		scoringService:   scoringService,
		statsService:     statsService,
	}
}

// CreateExam godoc
// @Summary (Admin) Create a new exam
// @Description Admin creates an exam with its schedule window, duration, and ordered question list.
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Param exam_data body dto.ExamCreateDTO true "Exam definition including all questions"
// @Success 201 {object} dto.ExamResponseDTO "Exam created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/exams [post]
func (c *AdminExamController) CreateExam(ctx *gin.Context) {
	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateExam: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.adminExamService.CreateExam(req)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Admin CreateExam: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListExams godoc
// @Summary (Admin) List exams with live status
// @Tags Admin - Exams
// @Produce json
// @Param grade query int false "Filter by grade level"
// @Success 200 {array} dto.ExamSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid grade format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/exams [get]
func (c *AdminExamController) ListExams(ctx *gin.Context) {
	grade := 0
	if gradeStr := ctx.Query("grade"); gradeStr != "" {
		val, err := strconv.Atoi(gradeStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid grade format"})
			return
		}
		grade = val
	}

	exams, err := c.adminExamService.ListExams(grade)
	if err != nil {
		log.Error().Err(err).Msg("Admin ListExams: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list exams", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, exams)
}

// SetExamActive godoc
// @Summary (Admin) Toggle an exam's kill switch
// @Description Deactivated exams are never reported as available, regardless of their schedule window.
// @Tags Admin - Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param activation body dto.ExamActivationDTO true "Desired activation state"
// @Success 204 "Updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /admin/exams/{exam_id}/active [patch]
func (c *AdminExamController) SetExamActive(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Exam ID format"})
		return
	}
	var req dto.ExamActivationDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.adminExamService.SetExamActive(uint(examID), *req.IsActive); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint64("examID", examID).Msg("Admin SetExamActive: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update exam", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateAnswerKeyEntry godoc
// @Summary (Admin) Register an answer key entry
// @Description Registers the authoritative correct answer and weight for one legacy assessment question. Duplicate keys are rejected, never merged.
// @Tags Admin - Answer Keys
// @Accept json
// @Produce json
// @Param entry body dto.AnswerKeyEntryCreateDTO true "Answer key entry"
// @Success 201 {object} model.AnswerKeyEntry
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Duplicate key entry"
// @Router /admin/answer-keys [post]
func (c *AdminExamController) CreateAnswerKeyEntry(ctx *gin.Context) {
	var req dto.AnswerKeyEntryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	entry, err := c.adminExamService.CreateAnswerKeyEntry(req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateKeyEntry) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Msg("Admin CreateAnswerKeyEntry: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create answer key entry", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

// RunBatchGrading godoc
// @Summary (Admin) Run batch grading
// @Description Grades every pending legacy submission in scope. Safe to re-run: results are upserted, already-scored submissions re-derive identical rows.
// @Tags Admin - Grading
// @Accept json
// @Produce json
// @Param scope body dto.GradingScopeDTO false "Optional scope; omit to grade everything"
// @Success 200 {object} dto.GradingSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/grading/run [post]
func (c *AdminExamController) RunBatchGrading(ctx *gin.Context) {
	// An empty body means "grade everything".
	var req dto.GradingScopeDTO
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
			return
		}
	}

	var scope *repository.AnswerScope
	if req.ExamDate != "" {
		scope = &repository.AnswerScope{ExamDate: req.ExamDate, Grade: req.Grade, SubjectType: req.SubjectType}
	}

	summary, err := c.scoringService.RunBatchGrading(scope)
	if err != nil {
		log.Error().Err(err).Msg("Admin RunBatchGrading: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Batch grading failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetStats godoc
// @Summary (Admin) Aggregate assessment statistics
// @Description Recomputed on demand from scoring results and submission counts. The average score narrows to the query scope when one is given.
// @Tags Admin - Grading
// @Produce json
// @Param exam_date query string false "Scope the average to one exam date"
// @Param grade query int false "Scope grade"
// @Param subject_type query string false "Scope subject"
// @Success 200 {object} dto.ExamStatsDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/stats [get]
func (c *AdminExamController) GetStats(ctx *gin.Context) {
	var req dto.GradingScopeDTO
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid query", Details: []string{err.Error()}})
		return
	}
	var scope *repository.AnswerScope
	if req.ExamDate != "" {
		scope = &repository.AnswerScope{ExamDate: req.ExamDate, Grade: req.Grade, SubjectType: req.SubjectType}
	}

	stats, err := c.statsService.ComputeStats(scope)
	if err != nil {
		log.Error().Err(err).Msg("Admin GetStats: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute stats", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
