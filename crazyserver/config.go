package crazyserver

import (
	"log"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyflie"
)

// logSubscription configures one periodic log block. Pushed frames are
// broadcast to all sockets under the given topic.
type logSubscription struct {
	Topic     string   `yaml:"topic"`
	PeriodMs  int      `yaml:"period_ms"`
	Variables []string `yaml:"variables"`
}

type vehicleConfig struct {
	URI string            `yaml:"uri"`
	Log []logSubscription `yaml:"log"`
}

type fleetConfig struct {
	Broadcast  string          `yaml:"broadcast"`
	Crazyflies []vehicleConfig `yaml:"crazyflies"`
}

func loadFleetConfig(path string) (fleetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fleetConfig{}, err
	}

	var cfg fleetConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return fleetConfig{}, err
	}
	return cfg, nil
}

// applyFleetConfig connects every configured vehicle and starts its log
// subscriptions. A vehicle that fails to come up fails the whole startup,
// since a half-connected fleet is worse than no server.
func applyFleetConfig(cfg fleetConfig) error {
	if len(cfg.Broadcast) > 0 {
		if err := setBroadcastURI(cfg.Broadcast); err != nil {
			return err
		}
	}

	for _, vehicle := range cfg.Crazyflies {
		crazyfliesLock.Lock()
		cfid, err := AddCrazyflie(vehicle.URI)
		crazyfliesLock.Unlock()
		if err != nil {
			return err
		}
		cf := crazyflies[cfid]

		cf.SetLinkQualityCallback(func(quality float64) {
			if quality < 0.7 {
				log.Printf("%X: link quality %.2f", cf.Address(), quality)
			}
		})

		for _, sub := range vehicle.Log {
			if err := startLogSubscription(cf, sub); err != nil {
				return err
			}
		}

		log.Printf("%s: connected as crazyflie%d", vehicle.URI, cfid)
	}
	return nil
}

func startLogSubscription(cf *crazyflie.Crazyflie, sub logSubscription) error {
	variables := sub.Variables
	topic := sub.Topic

	block, err := cf.NewLogBlock(variables, func(timestamp uint32, values []float64) {
		data := make(map[string]float64, len(values)+1)
		data["timestamp"] = float64(timestamp)
		for i, name := range variables {
			data[name] = values[i]
		}
		socketSendData(topic, data)
	})
	if err != nil {
		return err
	}

	return block.Start(time.Duration(sub.PeriodMs) * time.Millisecond)
}
