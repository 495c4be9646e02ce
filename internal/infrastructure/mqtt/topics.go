package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes.
const (
	// TopicPrefixCore is the base for topics published by the service.
	TopicPrefixCore = "graylogic/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "graylogic/system"

	// TopicPrefixRequest is the base for inbound requests.
	TopicPrefixRequest = "graylogic/request"
)

// Topics provides builders for the service's MQTT topics.
//
//	topic := mqtt.Topics{}.CoreMetadata("semantics:Kitchen_Light", "added")
//	// Returns: "graylogic/core/metadata/semantics:Kitchen_Light/added"
type Topics struct{}

// CoreMetadata returns the topic for a metadata change notification.
// action is one of added, updated, removed.
//
// Example: graylogic/core/metadata/semantics:Kitchen_Light/updated
func (Topics) CoreMetadata(key, action string) string {
	return fmt.Sprintf("%s/metadata/%s/%s", TopicPrefixCore, key, action)
}

// CoreConfigStatus returns the topic carrying an entity's config status.
//
// Example: graylogic/core/config/knx:device:bridge1/status
func (Topics) CoreConfigStatus(entityID string) string {
	return fmt.Sprintf("%s/config/%s/status", TopicPrefixCore, entityID)
}

// ConfigStatusRequest returns the topic on which a client asks for an
// entity's config status to be republished.
//
// Example: graylogic/request/config-status/knx:device:bridge1
func (Topics) ConfigStatusRequest(entityID string) string {
	return fmt.Sprintf("%s/config-status/%s", TopicPrefixRequest, entityID)
}

// SystemStatus returns the topic for the service's online/offline status.
//
// Example: graylogic/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// AllCoreMetadata returns a wildcard topic for every metadata notification.
func (Topics) AllCoreMetadata() string {
	return TopicPrefixCore + "/metadata/#"
}

// AllConfigStatus returns a wildcard topic for every entity's config status.
func (Topics) AllConfigStatus() string {
	return TopicPrefixCore + "/config/+/status"
}

// AllConfigStatusRequests returns a wildcard topic for every republish request.
func (Topics) AllConfigStatusRequests() string {
	return TopicPrefixRequest + "/config-status/+"
}

// ConfigStatusRequestEntity extracts the entity ID from a topic built by
// ConfigStatusRequest. ok is false for any other topic.
func (Topics) ConfigStatusRequestEntity(topic string) (entityID string, ok bool) {
	entityID, found := strings.CutPrefix(topic, TopicPrefixRequest+"/config-status/")
	if !found || entityID == "" || strings.Contains(entityID, "/") {
		return "", false
	}
	return entityID, true
}
