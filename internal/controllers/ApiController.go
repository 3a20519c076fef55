package controllers

import (
	"betcodes/internal/codes"
	"betcodes/internal/models"
	"betcodes/internal/providers"
	"context"
	json "github.com/goccy/go-json"
	"net/http"
)

type CodesViewModel interface {
	Codes(ctx context.Context, q codes.Query) models.Result[codes.CodesView]
	Predictions(ctx context.Context, q codes.Query) models.Result[codes.PredictionsView]
}

type ApiController struct {
	logger    providers.Logger
	viewModel CodesViewModel
}

func NewApiController(logger providers.Logger, viewModel CodesViewModel) *ApiController {
	return &ApiController{
		logger:    logger,
		viewModel: viewModel,
	}
}

func writeResult[T any](w http.ResponseWriter, status int, result models.Result[T]) {
	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func resultStatus[T any](result models.Result[T]) int {
	if result.IsSuccess() {
		return http.StatusOK
	}
	return http.StatusBadGateway
}

func (ac *ApiController) GetCodes(w http.ResponseWriter, r *http.Request) {
	q, err := codes.ParseQuery(r.URL.Query())
	if err != nil {
		writeResult(w, http.StatusBadRequest, models.Failure[codes.CodesView](err.Error()))
		return
	}
	result := ac.viewModel.Codes(r.Context(), q)
	if !result.IsSuccess() {
		ac.logger.Warnf(providers.TypeApi, "GET /codes: %s", result.Message)
	}
	writeResult(w, resultStatus(result), result)
}

func (ac *ApiController) GetPredictions(w http.ResponseWriter, r *http.Request) {
	q, err := codes.ParseQuery(r.URL.Query())
	if err != nil {
		writeResult(w, http.StatusBadRequest, models.Failure[codes.PredictionsView](err.Error()))
		return
	}
	result := ac.viewModel.Predictions(r.Context(), q)
	if !result.IsSuccess() {
		ac.logger.Warnf(providers.TypeApi, "GET /predictions: %s", result.Message)
	}
	writeResult(w, resultStatus(result), result)
}
