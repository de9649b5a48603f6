package crazyserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyflie"
)

func trajectoryInitRoute(r *mux.Router) {
	r.HandleFunc("/fleet/crazyflie{id:[0-9]+}/trajectory", crazyflieHandleFunc(trajectoryUpload)).Methods("POST")
	r.HandleFunc("/fleet/trajectory/start", trajectoryStartHandler).Methods("POST")
	r.HandleFunc("/fleet/takeoff", takeoffHandler).Methods("POST")
	r.HandleFunc("/fleet/land", landHandler).Methods("POST")
}

var broadcasterLock sync.Mutex
var broadcaster *crazyflie.Broadcaster

// setBroadcastURI installs the channel-wide broadcaster used by the
// fleet-level trajectory and takeoff/land routes.
func setBroadcastURI(uri string) error {
	bc, err := crazyflie.NewBroadcaster(uri, hub)
	if err != nil {
		return err
	}

	broadcasterLock.Lock()
	broadcaster = bc
	broadcasterLock.Unlock()
	return nil
}

func getBroadcaster() (*crazyflie.Broadcaster, bool) {
	broadcasterLock.Lock()
	defer broadcasterLock.Unlock()
	return broadcaster, broadcaster != nil
}

type trajectorySegment struct {
	Duration float32    `json:"duration"`
	X        [8]float32 `json:"x"`
	Y        [8]float32 `json:"y"`
	Z        [8]float32 `json:"z"`
	Yaw      [8]float32 `json:"yaw"`
}

type trajectoryUploadRequest struct {
	Segments []trajectorySegment `json:"segments"`
}

type trajectoryUploadResponse struct {
	SegmentIDs []uint8 `json:"segment_ids"`
}

// trajectoryUpload replaces the vehicle's stored trajectory with the posted
// polynomial segments.
func trajectoryUpload(w http.ResponseWriter, r *http.Request, cf *crazyflie.Crazyflie) {
	var req trajectoryUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Segments) == 0 {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	if err := cf.TrajectoryReset(); err != nil {
		respondError(w, r, http.StatusInternalServerError, fmt.Sprint(err))
		return
	}

	resp := trajectoryUploadResponse{SegmentIDs: make([]uint8, 0, len(req.Segments))}
	for _, segment := range req.Segments {
		id, err := cf.TrajectoryAdd(segment.Duration, segment.X, segment.Y, segment.Z, segment.Yaw)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, fmt.Sprint(err))
			return
		}
		resp.SegmentIDs = append(resp.SegmentIDs, id)
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(resp)
}

func trajectoryStartHandler(w http.ResponseWriter, r *http.Request) {
	bc, ok := getBroadcaster()
	if !ok {
		respondError(w, r, http.StatusConflict, "No broadcast link configured")
		return
	}

	if err := bc.StartTrajectory(); err != nil {
		respondError(w, r, http.StatusInternalServerError, fmt.Sprint(err))
		return
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "{}")
}

type verticalRequest struct {
	Height     float32 `json:"height"`
	DurationMs uint16  `json:"duration_ms"`
}

func takeoffHandler(w http.ResponseWriter, r *http.Request) {
	verticalHandler(w, r, func(bc *crazyflie.Broadcaster, req verticalRequest) error {
		return bc.Takeoff(req.Height, req.DurationMs)
	})
}

func landHandler(w http.ResponseWriter, r *http.Request) {
	verticalHandler(w, r, func(bc *crazyflie.Broadcaster, req verticalRequest) error {
		return bc.Land(req.Height, req.DurationMs)
	})
}

func verticalHandler(w http.ResponseWriter, r *http.Request, send func(*crazyflie.Broadcaster, verticalRequest) error) {
	bc, ok := getBroadcaster()
	if !ok {
		respondError(w, r, http.StatusConflict, "No broadcast link configured")
		return
	}

	var req verticalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	if err := send(bc, req); err != nil {
		respondError(w, r, http.StatusInternalServerError, fmt.Sprint(err))
		return
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "{}")
}
