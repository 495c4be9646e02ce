// Package events defines the notifications the service posts when managed
// metadata changes or an entity's config status is republished, and the
// publishers that deliver them (MQTT, WebSocket hub, in-process
// subscribers).
package events
