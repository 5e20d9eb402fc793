package handler

import (
	"net/http"

	"pocket-ledger/internal/service"
)

type PayrollHandler struct {
	payrollService *service.PayrollService
}

func NewPayrollHandler(payrollService *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{
		payrollService: payrollService,
	}
}

func (h *PayrollHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.RunDue()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
