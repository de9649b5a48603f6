package crazyserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyflie"
)

func commanderInitRoute(r *mux.Router) {
	r.HandleFunc("/fleet/crazyflie{id:[0-9]+}/commander", crazyflieHandleFunc(commanderSet)).Methods("PUT")
	r.HandleFunc("/fleet/crazyflie{id:[0-9]+}/position", crazyflieHandleFunc(positionSet)).Methods("PUT")
}

type commanderRequest struct {
	Roll    float32 `json:"roll"`
	Pitch   float32 `json:"pitch"`
	Yawrate float32 `json:"yawrate"`
	Thrust  uint16  `json:"thrust"`
}

func commanderSet(w http.ResponseWriter, r *http.Request, cf *crazyflie.Crazyflie) {
	var req commanderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	if err := cf.SendSetpoint(req.Roll, req.Pitch, req.Yawrate, req.Thrust); err != nil {
		respondError(w, r, http.StatusInternalServerError, fmt.Sprint(err))
		return
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "{}")
}

type positionRequest struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func positionSet(w http.ResponseWriter, r *http.Request, cf *crazyflie.Crazyflie) {
	var req positionRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	if err := cf.SendExternalPosition(req.X, req.Y, req.Z); err != nil {
		respondError(w, r, http.StatusInternalServerError, fmt.Sprint(err))
		return
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "{}")
}
