// Package metrics holds the Prometheus collectors for the messaging core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessageOperations counts successful message mutations by operation.
	MessageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keepsakes_message_operations_total",
		Help: "Total number of direct message mutations by operation",
	}, []string{"operation"})

	// AttachmentCleanup counts remote object deletions by result
	// (deleted, failed, skipped).
	AttachmentCleanup = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keepsakes_attachment_cleanup_total",
		Help: "Remote attachment deletions attempted during message cleanup",
	}, []string{"result"})

	AttachmentUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keepsakes_attachment_uploads_total",
		Help: "Attachment uploads by result",
	}, []string{"result"})

	// BlockCacheLookups counts block-status cache lookups (hit, miss, error).
	BlockCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keepsakes_block_cache_lookups_total",
		Help: "Block status cache lookups by result",
	}, []string{"result"})

	ConversationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keepsakes_conversations_created_total",
		Help: "Conversations created by the resolver",
	})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "keepsakes_websocket_connections",
		Help: "Number of open realtime connections",
	})
)
