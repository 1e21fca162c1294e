package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/five82/monarchctl/internal/monarch"
)

// actionReply is the body returned for POST /actions/{name}?wait=true.
type actionReply struct {
	Action   string `json:"action"`
	Outcome  string `json:"outcome"`
	Retries  int    `json:"retries"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error,omitempty"`
}

// actionHandler serves POST /actions/{name}. Without ?wait=true the action
// is dispatched in the background under ctx and 202 is returned at once,
// the same fire-and-forget contract a panel button has.
func actionHandler(ctx context.Context, inst *Instance, log logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action, err := monarch.ParseAction(r.PathValue("name"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log := log.WithFields(logrus.Fields{"action": string(action), "remote": r.RemoteAddr})

		wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
		if !wait {
			log.Info("dispatching action")
			inst.Dispatch(ctx, action)
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprintf(w, "%s: dispatched\n", action.Label())
			return
		}

		log.Info("sending action")
		res := inst.Do(r.Context(), action)
		reply := actionReply{
			Action:   string(res.Action),
			Outcome:  res.Outcome.String(),
			Retries:  res.Retries,
			Attempts: res.Attempts,
		}
		if res.Err != nil {
			reply.Error = res.Err.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusFor(res.Outcome))
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			log.WithError(err).Warn("write reply")
		}
	})
}

func statusFor(o Outcome) int {
	switch o {
	case OutcomeOK:
		return http.StatusOK
	case OutcomeBusy:
		return http.StatusServiceUnavailable
	case OutcomeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
