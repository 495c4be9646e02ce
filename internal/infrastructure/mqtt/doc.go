// Package mqtt connects the config status service to the site MQTT broker.
//
// The service publishes:
//   - metadata change notifications on graylogic/core/metadata/{ns:item}/{action}
//   - retained config status snapshots on graylogic/core/config/{entity}/status
//   - retained online/offline status (with Last Will) on graylogic/system/status
//
// and listens for republish requests on graylogic/request/config-status/{entity}.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.CoreConfigStatus("knx:device:bridge1")
//	err = client.Publish(topic, payload, client.QoS(), true)
//
// TLS should be enabled outside local development (cfg.Broker.TLS=true).
package mqtt
