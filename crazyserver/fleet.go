package crazyserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
)

func fleetInitRoute(r *mux.Router) {
	r.HandleFunc("/fleet", fleetIndexHandler).Methods("GET")
	r.HandleFunc("/fleet", fleetAddHandler).Methods("POST")
	r.HandleFunc("/fleet/crazyflie{id:[0-9]+}", fleetRemoveHandler).Methods("DELETE")
}

type fleetMember struct {
	ID      int    `json:"id"`
	Address string `json:"address"`
}

type fleetIndexResponse struct {
	Connected []fleetMember `json:"connected"`
}

func fleetIndexHandler(w http.ResponseWriter, r *http.Request) {
	crazyfliesLock.Lock()
	resp := fleetIndexResponse{Connected: []fleetMember{}}
	for cfid, cf := range crazyflies {
		resp.Connected = append(resp.Connected, fleetMember{
			ID:      cfid,
			Address: fmt.Sprintf("%X", cf.Address()),
		})
	}
	crazyfliesLock.Unlock()

	sort.Slice(resp.Connected, func(i, j int) bool {
		return resp.Connected[i].ID < resp.Connected[j].ID
	})

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(resp)
}

type fleetAddRequest struct {
	URI *string `json:"uri"`
}

type fleetAddResponse struct {
	Location string `json:"location"`
}

func fleetAddHandler(w http.ResponseWriter, r *http.Request) {
	var req fleetAddRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.URI == nil {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	crazyfliesLock.Lock()
	cfid, err := AddCrazyflie(*req.URI)
	crazyfliesLock.Unlock()

	if err != nil {
		respondError(w, r, http.StatusNotFound, fmt.Sprintf("Cannot connect to Crazyflie: %q", err))
		return
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.Header().Set("Location", fmt.Sprintf("/fleet/crazyflie%d", cfid))
	w.WriteHeader(http.StatusOK)

	resp := fleetAddResponse{Location: fmt.Sprintf("/fleet/crazyflie%d", cfid)}
	json.NewEncoder(w).Encode(resp)
}

func fleetRemoveHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cfid := -1
	fmt.Sscanf(vars["id"], "%d", &cfid)

	crazyfliesLock.Lock()
	err := RemoveCrazyflie(cfid)
	crazyfliesLock.Unlock()

	if err != nil {
		respondError(w, r, http.StatusNotFound, fmt.Sprint(err))
		return
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "{}")
}
