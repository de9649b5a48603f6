package crazyserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/urfave/cli"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyflie"
	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

var ServeCommand cli.Command = cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP/REST server",
	Action: serveCommandHandler,
	Flags: []cli.Flag{
		cli.UintFlag{
			Name:  "port, p",
			Value: 8000,
			Usage: "HTTP listening port",
		},
		cli.StringFlag{
			Name:  "static, s",
			Value: "",
			Usage: "Optional static folder. Served on /static with index.html accessible on /",
		},
		cli.StringFlag{
			Name:  "fleet, f",
			Value: "",
			Usage: "Optional fleet configuration file (YAML). Connected and logged on startup.",
		},
	},
}

var hub *crtpdevice.Hub

var crazyfliesLock sync.Mutex
var crazyflies = map[int]*crazyflie.Crazyflie{}
var crazyfliesMaxIndex int

func serveCommandHandler(ctx *cli.Context) error {
	port := ctx.Uint("port")
	staticPath := ctx.String("static")
	fleetPath := ctx.String("fleet")

	hub = crazyflie.NewHub()

	if len(fleetPath) > 0 {
		cfg, err := loadFleetConfig(fleetPath)
		if err != nil {
			return err
		}
		if err := applyFleetConfig(cfg); err != nil {
			return err
		}
	}

	r := mux.NewRouter()

	fleetInitRoute(r)
	paramInitRoute(r)
	commanderInitRoute(r)
	trajectoryInitRoute(r)
	socketsInitRoute(r)

	if len(staticPath) > 0 {
		r.PathPrefix("/static").Handler(http.StripPrefix("/static", http.FileServer(http.Dir(staticPath))))
		r.Handle("/", http.FileServer(http.Dir(staticPath)))
		r.Handle("/favicon.ico", http.FileServer(http.Dir(staticPath)))
	}

	log.Printf("Listening on 127.0.0.1:%d", port)
	return http.ListenAndServe(fmt.Sprintf("127.0.0.1:%d", port), r)
}

// AddCrazyflie connects to the vehicle at uri, walks both TOCs and adds it
// to the fleet. Returns the fleet index.
func AddCrazyflie(uri string) (int, error) {
	cf, err := crazyflie.Connect(uri, hub)
	if err != nil {
		log.Printf("Error adding crazyflie: %s", err)
		return -1, err
	}

	if err := cf.RequestParamTocCached(); err != nil {
		return -1, err
	}
	if err := cf.RequestLogTocCached(); err != nil {
		return -1, err
	}

	crazyflies[crazyfliesMaxIndex] = cf
	crazyfliesMaxIndex++
	return crazyfliesMaxIndex - 1, nil
}

// RemoveCrazyflie drops the vehicle at index cfid from the fleet. The
// shared transport stays open for other connections.
func RemoveCrazyflie(cfid int) error {
	if _, ok := crazyflies[cfid]; !ok {
		return fmt.Errorf("crazyflie %d not found", cfid)
	}
	delete(crazyflies, cfid)
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, r *http.Request, httpStatus int, msg string) {
	resp := errorResponse{
		Error: msg,
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(httpStatus)

	json.NewEncoder(w).Encode(resp)
}

// crazyflieHandleFunc resolves the {id} route variable into a fleet member
// before calling the handler.
func crazyflieHandleFunc(handler func(w http.ResponseWriter, r *http.Request, cf *crazyflie.Crazyflie)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		cfid := -1
		fmt.Sscanf(vars["id"], "%d", &cfid)

		crazyfliesLock.Lock()
		cf, ok := crazyflies[cfid]
		crazyfliesLock.Unlock()
		if !ok {
			respondError(w, r, http.StatusNotFound, "Crazyflie not found")
			return
		}

		handler(w, r, cf)
	}
}
