package crazyserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type outMessage struct {
	Source string                 `json:"source"`
	Data   map[string]interface{} `json:"data"`
}

// socket is one connected telemetry consumer. Outbound messages go through
// a queue so a slow consumer never blocks the log callbacks feeding it.
type socket struct {
	socketType string
	name       string
	out        *queue.Queue
}

type socketIndexResponse struct {
	Sockets []string `json:"sockets"`
}

var socketsLock sync.Mutex
var sockets = map[string]socket{}

func socketsInitRoute(r *mux.Router) {
	r.HandleFunc("/sockets", socketsIndexHandler).Methods("GET")
	r.HandleFunc("/sockets/websocket", websocketHandler).Methods("GET")
}

func socketsIndexHandler(w http.ResponseWriter, r *http.Request) {
	socketsLock.Lock()
	resp := socketIndexResponse{make([]string, 0, len(sockets))}
	for name, sk := range sockets {
		resp.Sockets = append(resp.Sockets, sk.socketType+"/"+name)
	}
	socketsLock.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(resp)
}

// socketSendData broadcasts one message to every connected socket. Sockets
// whose queue has been disposed are skipped; the writer goroutine removes
// them from the registry.
func socketSendData(source string, data interface{}) {
	gdata := make(map[string]interface{})
	jsondata, _ := json.Marshal(data)
	json.Unmarshal(jsondata, &gdata)

	socketsLock.Lock()
	defer socketsLock.Unlock()

	for _, sk := range sockets {
		sk.out.Put(outMessage{source, gdata})
	}
}

func socketRemove(name string) {
	socketsLock.Lock()
	if sk, ok := sockets[name]; ok {
		sk.out.Dispose()
		delete(sockets, name)
	}
	socketsLock.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var wsID uint

func websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	socketsLock.Lock()
	name := fmt.Sprintf("websocket%d", wsID)
	wsID++
	sk := socket{
		socketType: "websocket",
		name:       name,
		out:        queue.New(64),
	}
	sockets[name] = sk
	socketsLock.Unlock()

	// writer: drains the queue into the websocket
	go func() {
		for {
			items, err := sk.out.Get(1)
			if err != nil {
				// queue disposed, the socket is gone
				return
			}
			if err := conn.WriteJSON(items[0]); err != nil {
				log.Println(name, "write error, disconnecting")
				conn.Close()
				socketRemove(name)
				return
			}
		}
	}()

	// reader: only watches for the peer going away
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				socketRemove(name)
				return
			}
		}
	}()
}
