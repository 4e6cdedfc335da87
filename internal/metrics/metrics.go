package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolutions counts playlist resolutions on the device config endpoint,
// labelled by how the playlist was chosen (schedule, legacy, none).
var Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "beacon",
	Name:      "playlist_resolutions_total",
	Help:      "Playlist resolutions served to devices, by resolution source.",
}, []string{"source"})

// Heartbeats counts device heartbeats by reported status.
var Heartbeats = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "beacon",
	Name:      "device_heartbeats_total",
	Help:      "Device heartbeats received, by reported status.",
}, []string{"status"})

// ConfigNotModified counts config polls answered from the ETag cache.
var ConfigNotModified = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "beacon",
	Name:      "player_config_not_modified_total",
	Help:      "Device config polls answered with 304 Not Modified.",
})
