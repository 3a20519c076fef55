package codes

import (
	"betcodes/internal/models"
	"context"
)

type PremiumStateSource interface {
	State() models.PremiumState
}

type CodeView struct {
	models.BettingCode
	Blurred bool `json:"blurred"`
}

type PredictionView struct {
	models.Prediction
	Blurred bool `json:"blurred"`
}

type CodesView struct {
	Items   []CodeView          `json:"items"`
	Premium models.PremiumState `json:"premium"`
}

type PredictionsView struct {
	Items   []PredictionView    `json:"items"`
	Premium models.PremiumState `json:"premium"`
}

// ViewModel joins the fetched lists with the premium state. While premium
// content is blurred, premium items keep their metadata but lose the secret.
type ViewModel struct {
	service ServiceInterface
	premium PremiumStateSource
}

func NewViewModel(service ServiceInterface, premium PremiumStateSource) *ViewModel {
	return &ViewModel{service: service, premium: premium}
}

func (vm *ViewModel) Codes(ctx context.Context, q Query) models.Result[CodesView] {
	items, err := vm.service.Codes(ctx)
	if err != nil {
		return models.Failure[CodesView]("Unable to load betting codes, please retry")
	}
	items = FilterCodes(items, q)

	state := vm.premium.State()
	if state.IsBlurActive {
		for i := range items {
			if items[i].Premium {
				items[i].Code = ""
			}
		}
	}
	SortCodes(items, q.Sort)

	view := CodesView{Items: make([]CodeView, 0, len(items)), Premium: state}
	for _, c := range items {
		view.Items = append(view.Items, CodeView{BettingCode: c, Blurred: c.Premium && state.IsBlurActive})
	}
	return models.Success(view)
}

func (vm *ViewModel) Predictions(ctx context.Context, q Query) models.Result[PredictionsView] {
	items, err := vm.service.Predictions(ctx)
	if err != nil {
		return models.Failure[PredictionsView]("Unable to load predictions, please retry")
	}
	items = FilterPredictions(items, q)

	// blur before sorting so a confidence order cannot hint at hidden values
	state := vm.premium.State()
	if state.IsBlurActive {
		for i := range items {
			if items[i].Premium {
				items[i].Tip = ""
				items[i].Confidence = 0
			}
		}
	}
	SortPredictions(items, q.Sort)

	view := PredictionsView{Items: make([]PredictionView, 0, len(items)), Premium: state}
	for _, p := range items {
		view.Items = append(view.Items, PredictionView{Prediction: p, Blurred: p.Premium && state.IsBlurActive})
	}
	return models.Success(view)
}
