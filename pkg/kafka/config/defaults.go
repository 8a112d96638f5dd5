package kafka_config

import "time"

const (
	DefaultBrokers  = "localhost:9092"
	DefaultClientID = "cleanbook"

	// Booking events are few and small; a short batch window keeps them close to the request.
	DefaultMaxAttempts  = 3
	DefaultBatchTimeout = 10 * time.Millisecond
	DefaultWriteTimeout = 5 * time.Second
	DefaultRequiredAcks = AcksAll
	DefaultCompression  = "snappy"
	DefaultAsync        = false

	DefaultLogMessages = true
)

const (
	AcksAll    = "all"
	AcksLeader = "leader"
	AcksNone   = "none"
)

var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}
