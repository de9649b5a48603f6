package crazyserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyflie"
)

func paramInitRoute(r *mux.Router) {
	r.HandleFunc("/fleet/crazyflie{id:[0-9]+}/param", crazyflieHandleFunc(paramIndex)).Methods("GET")
	r.HandleFunc("/fleet/crazyflie{id:[0-9]+}/param/{group}/{name}", crazyflieHandleFunc(paramSet)).Methods("PUT")
}

type paramIndexEntry struct {
	Type     string  `json:"type"`
	ReadOnly bool    `json:"readonly"`
	Value    float64 `json:"value"`
}

type paramIndexResponse struct {
	Params map[string]paramIndexEntry `json:"params"`
}

func paramIndex(w http.ResponseWriter, r *http.Request, cf *crazyflie.Crazyflie) {
	resp := paramIndexResponse{Params: map[string]paramIndexEntry{}}

	for _, entry := range cf.ParamTocEntries() {
		value, err := cf.GetParam(entry.ID)
		if err != nil {
			continue
		}
		resp.Params[entry.Group+"."+entry.Name] = paramIndexEntry{
			Type:     entry.Type.String(),
			ReadOnly: entry.ReadOnly,
			Value:    value.Float64(),
		}
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(resp)
}

type paramSetRequest struct {
	Value *float64 `json:"value"`
}

func paramSet(w http.ResponseWriter, r *http.Request, cf *crazyflie.Crazyflie) {
	vars := mux.Vars(r)

	entry, ok := cf.LookupParamTocEntry(vars["group"], vars["name"])
	if !ok {
		respondError(w, r, http.StatusNotFound, fmt.Sprintf("Parameter %s.%s not found", vars["group"], vars["name"]))
		return
	}

	var req paramSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	if err := cf.SetParamFromFloat64(entry.ID, *req.Value); err != nil {
		respondError(w, r, http.StatusInternalServerError, fmt.Sprint(err))
		return
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "{}")
}
