package check_conflict

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	findConflict "github.com/m04kA/SMC-AppointmentService/internal/usecase/find_conflict"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgInvalidLookahead  = "некорректное значение lookaheadDays"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	useCase FindConflictUseCase
	logger  Logger
}

func NewHandler(useCase FindConflictUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{customerId}/conflicts
// Query params: date (опционально, YYYY-MM-DD - дата планируемой записи),
// lookaheadDays (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	customerID, err := strconv.ParseInt(vars["customerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /customers/{id}/conflicts - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	// Клиент может проверять только собственные конфликты
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if userID != customerID {
		h.logger.Warn("GET /customers/{id}/conflicts - Access denied: user_id=%d, customer_id=%d", userID, customerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	useCaseReq := &findConflict.Request{CustomerID: customerID}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /customers/{id}/conflicts - Invalid date format: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		useCaseReq.ProposedDate = date
	}

	if lookaheadStr := r.URL.Query().Get("lookaheadDays"); lookaheadStr != "" {
		lookahead, err := strconv.Atoi(lookaheadStr)
		if err != nil || lookahead < 0 {
			h.logger.Warn("GET /customers/{id}/conflicts - Invalid lookahead: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLookahead)
			return
		}
		useCaseReq.LookaheadDays = lookahead
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, findConflict.ErrInvalidInput):
			h.logger.Warn("GET /customers/{id}/conflicts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCustomerID)

		default:
			h.logger.Error("GET /customers/{id}/conflicts - Failed to find conflict: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/{id}/conflicts - Conflict check done: customer_id=%d, has_conflict=%t, degraded=%t",
		customerID, result.HasConflict, result.Degraded)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
