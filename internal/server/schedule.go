package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	trainyard "github.com/eugener/trainyard/internal"
)

// maxScheduleBody caps submission size; a full day of minute-level times fits well under it.
const maxScheduleBody = 64 << 10

func (s *server) handleListTrains(w http.ResponseWriter, r *http.Request) {
	trains, err := s.deps.Schedules.ListTrains(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"trains": trains})
}

func (s *server) handleSubmitSchedule(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScheduleBody))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: read body: %v", trainyard.ErrBadRequest, err))
		return
	}
	in, err := decodeSchedule(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sch, err := s.deps.Schedules.AddSchedule(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sch)
}

// decodeSchedule reads {"train_name": ..., "arrival_time": ...} where
// arrival_time is either a list of times or a single time string.
func decodeSchedule(body []byte) (trainyard.Schedule, error) {
	if !gjson.ValidBytes(body) {
		return trainyard.Schedule{}, fmt.Errorf("%w: invalid JSON body", trainyard.ErrBadRequest)
	}
	doc := gjson.ParseBytes(body)

	name := doc.Get("train_name")
	if name.Type != gjson.String {
		return trainyard.Schedule{}, fmt.Errorf("%w: train_name must be a string", trainyard.ErrBadRequest)
	}
	sch := trainyard.Schedule{Train: name.String()}

	times := doc.Get("arrival_time")
	switch {
	case times.IsArray():
		for _, t := range times.Array() {
			if t.Type != gjson.String {
				return trainyard.Schedule{}, fmt.Errorf("%w: arrival_time entries must be strings", trainyard.ErrBadRequest)
			}
			sch.Times = append(sch.Times, t.String())
		}
	case times.Type == gjson.String:
		sch.Times = []string{times.String()}
	case times.Exists():
		return trainyard.Schedule{}, fmt.Errorf("%w: arrival_time must be a string or list of strings", trainyard.ErrBadRequest)
	}
	return sch, nil
}

func (s *server) handleTrainTimes(w http.ResponseWriter, r *http.Request) {
	sch, err := s.deps.Schedules.TimesFor(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sch)
}

func (s *server) handleDeleteTrain(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Schedules.DeleteTrain(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleTrainsAt(w http.ResponseWriter, r *http.Request) {
	at := r.URL.Query().Get("time")
	if at == "" {
		writeError(w, r, fmt.Errorf("%w: missing time parameter", trainyard.ErrBadRequest))
		return
	}
	arrivals, err := s.deps.Schedules.TrainsAt(r.Context(), at)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slot := trainyard.TimeSlot{Time: arrivals[0].Time, Trains: make([]string, len(arrivals))}
	for i, a := range arrivals {
		slot.Trains[i] = a.Train
	}
	writeJSON(w, http.StatusOK, slot)
}

func (s *server) handleNextSimultaneous(w http.ResponseWriter, r *http.Request) {
	after := r.URL.Query().Get("after")
	if after == "" {
		writeError(w, r, fmt.Errorf("%w: missing after parameter", trainyard.ErrBadRequest))
		return
	}
	slot, err := s.deps.Schedules.NextSimultaneous(r.Context(), after)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (s *server) handleCachePurge(w http.ResponseWriter, _ *http.Request) {
	s.deps.Schedules.Purge()
	w.WriteHeader(http.StatusNoContent)
}
