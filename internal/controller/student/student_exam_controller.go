package student

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hanbyul-kim/examhall/internal/dto"
	"github.com/hanbyul-kim/examhall/internal/service"
	"github.com/rs/zerolog/log"
)

type StudentExamController struct {
	studentExamService service.StudentExamService
	sessionService     service.SessionService
}

func NewStudentExamController(studentExamService service.StudentExamService, sessionService service.SessionService) *StudentExamController {
	return &StudentExamController{
		studentExamService: studentExamService,
		sessionService:     sessionService,
	}
}

// ListExams godoc
// @Summary (Student) List exams with live status
// @Description Statuses are derived from the current time at request time, so they are never stale between background sweeps.
// @Tags Student - Exams
// @Produce json
// @Param grade query int false "Filter by grade level"
// @Success 200 {array} dto.ExamSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid grade format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams [get]
func (c *StudentExamController) ListExams(ctx *gin.Context) {
	grade := 0
	if gradeStr := ctx.Query("grade"); gradeStr != "" {
		val, err := strconv.Atoi(gradeStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid grade format"})
			return
		}
		grade = val
	}

	exams, err := c.studentExamService.ListExams(grade)
	if err != nil {
		log.Error().Err(err).Msg("Student ListExams: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list exams", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, exams)
}

// GetExamDetails godoc
// @Summary (Student) Get exam details
// @Description Full exam view including questions (without correct answers), for a student about to start a session.
// @Tags Student - Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Exam ID format"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{exam_id} [get]
func (c *StudentExamController) GetExamDetails(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Exam ID format"})
		return
	}

	details, err := c.studentExamService.GetExamDetails(uint(examID))
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint64("examID", examID).Msg("Student GetExamDetails: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// StartSession godoc
// @Summary (Student) Start a timed exam session
// @Description Starts (or rejoins) the student's session. Fails when the exam's derived status is not active.
// @Tags Student - Sessions
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param session_data body dto.StartSessionDTO true "Student identity"
// @Success 201 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "Exam not available"
// @Router /exams/{exam_id}/sessions [post]
func (c *StudentExamController) StartSession(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Exam ID format"})
		return
	}
	var req dto.StartSessionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	session, err := c.sessionService.StartSession(uint(examID), req.StudentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrExamNotAvailable):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint64("examID", examID).Msg("Student StartSession: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start session", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusCreated, toSessionStateDTO(session.State()))
}

// GetSession godoc
// @Summary (Student) Get session state
// @Tags Student - Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id} [get]
func (c *StudentExamController) GetSession(ctx *gin.Context) {
	session, err := c.sessionService.GetSession(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, toSessionStateDTO(session.State()))
}

// RecordAnswer godoc
// @Summary (Student) Record an answer
// @Description Overwrites the answer for one question. Answer shape is not validated here; correctness is decided at grading time.
// @Tags Student - Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param answer body dto.RecordAnswerDTO true "Question index (0-based) and answer"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or index out of range"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id}/answers [put]
func (c *StudentExamController) RecordAnswer(ctx *gin.Context) {
	var req dto.RecordAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	session, err := c.sessionService.RecordAnswer(ctx.Param("session_id"), *req.QuestionIndex, req.Answer)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toSessionStateDTO(session.State()))
}

// GoTo godoc
// @Summary (Student) Move the question pointer
// @Description Navigation is free in both directions; there is no forward-only constraint.
// @Tags Student - Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param position body dto.GoToDTO true "Question index (0-based)"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or index out of range"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id}/position [put]
func (c *StudentExamController) GoTo(ctx *gin.Context) {
	var req dto.GoToDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	session, err := c.sessionService.GoTo(ctx.Param("session_id"), *req.QuestionIndex)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toSessionStateDTO(session.State()))
}

// RequestSubmit godoc
// @Summary (Student) Request submission
// @Description With unanswered questions remaining, the first call reports the count and requires a confirming call; a fully answered session finalizes immediately.
// @Tags Student - Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SubmitReceiptDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id}/submit-request [post]
func (c *StudentExamController) RequestSubmit(ctx *gin.Context) {
	receipt, err := c.sessionService.RequestSubmit(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, toSubmitReceiptDTO(receipt))
}

// Finalize godoc
// @Summary (Student) Finalize the session
// @Description Idempotent: the first call emits the answer set, later calls return the identical one.
// @Tags Student - Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.FinalizedAnswerSetDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id}/finalize [post]
func (c *StudentExamController) Finalize(ctx *gin.Context) {
	set, err := c.sessionService.Finalize(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, toFinalizedAnswerSetDTO(set))
}

// SubmitLegacyAnswer godoc
// @Summary (Student) Submit a legacy per-question answer
// @Description Records one answer keyed by (exam_date, grade, subject, selection_type, question_no) for batch grading.
// @Tags Student - Legacy Answers
// @Accept json
// @Produce json
// @Param answer body dto.StudentAnswerSubmitDTO true "Answer"
// @Success 201 {object} model.StudentAnswer
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /answers [post]
func (c *StudentExamController) SubmitLegacyAnswer(ctx *gin.Context) {
	var req dto.StudentAnswerSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	answer, err := c.studentExamService.SubmitLegacyAnswer(req)
	if err != nil {
		log.Error().Err(err).Str("studentID", req.StudentID).Msg("SubmitLegacyAnswer: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to record answer", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, answer)
}

// GetStudentResults godoc
// @Summary (Student) Get own scoring results
// @Tags Student - Results
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {array} dto.ScoringResultDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{student_id}/results [get]
func (c *StudentExamController) GetStudentResults(ctx *gin.Context) {
	results, err := c.studentExamService.GetStudentResults(ctx.Param("student_id"))
	if err != nil {
		log.Error().Err(err).Str("studentID", ctx.Param("student_id")).Msg("GetStudentResults: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load results", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, results)
}

func respondSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrQuestionIndexOutOfRange):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg("Session operation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Session operation failed", Details: []string{err.Error()}})
	}
}

func toSessionStateDTO(state service.SessionState) dto.SessionStateDTO {
	return dto.SessionStateDTO{
		SessionID:        state.SessionID,
		ExamID:           state.ExamID,
		StudentID:        state.StudentID,
		StartedAt:        state.StartedAt,
		RemainingSeconds: state.RemainingSeconds,
		CurrentQuestion:  state.CurrentQuestion,
		QuestionCount:    state.QuestionCount,
		AnsweredCount:    state.AnsweredCount,
		Finalized:        state.Finalized,
	}
}

func toFinalizedAnswerSetDTO(set *service.FinalizedAnswerSet) *dto.FinalizedAnswerSetDTO {
	return &dto.FinalizedAnswerSetDTO{
		SessionID:   set.SessionID,
		ExamID:      set.ExamID,
		StudentID:   set.StudentID,
		SubmittedAt: set.SubmittedAt,
		Answers:     set.Answers,
		AutoExpired: set.AutoExpired,
	}
}

func toSubmitReceiptDTO(receipt *service.SubmitReceipt) dto.SubmitReceiptDTO {
	out := dto.SubmitReceiptDTO{
		Finalized:            receipt.Finalized,
		UnansweredCount:      receipt.UnansweredCount,
		ConfirmationRequired: receipt.ConfirmationRequired,
	}
	if receipt.Answers != nil {
		out.Answers = toFinalizedAnswerSetDTO(receipt.Answers)
	}
	return out
}
