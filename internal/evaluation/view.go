package evaluation

import "github.com/lupa-app/lupa/pkg/model"

// View is what the wizard renders for the current step.
type View struct {
	Token      string          `json:"token"`
	State      string          `json:"state"`
	Step       int             `json:"current_step"`
	Total      int             `json:"total_steps"`
	Question   *model.Question `json:"question,omitempty"`
	Answer     string          `json:"answer"`
	Progress   float64         `json:"progress"`
	CanProceed bool            `json:"can_proceed"`
	IsLastStep bool            `json:"is_last_step"`
	Error      string          `json:"error,omitempty"`
}

func (e *Evaluation) View() View {
	v := View{
		Token:      e.token,
		State:      e.State().String(),
		Step:       e.Step(),
		Total:      e.Total(),
		Answer:     e.CurrentAnswer(),
		Progress:   e.Progress(),
		CanProceed: e.CanProceed(),
		IsLastStep: e.IsLastStep(),
	}
	if q, ok := e.CurrentQuestion(); ok {
		v.Question = &q
	}
	if err := e.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}
