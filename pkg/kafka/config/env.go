package kafka_config

const (
	EnvKafkaBrokers  = "KAFKA_BROKERS"
	EnvKafkaClientID = "KAFKA_CLIENT_ID"

	EnvKafkaMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaWriteTimeout = "KAFKA_PRODUCER_WRITE_TIMEOUT"
	EnvKafkaRequiredAcks = "KAFKA_PRODUCER_REQUIRED_ACKS"
	EnvKafkaCompression  = "KAFKA_PRODUCER_COMPRESSION"
	EnvKafkaAsync        = "KAFKA_PRODUCER_ASYNC"

	EnvKafkaLogMessages = "KAFKA_LOG_MESSAGES"
)
