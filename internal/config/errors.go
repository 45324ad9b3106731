package config

import "fmt"

type ConfigErrorCode string

const (
	ConfigErrorMissingNeo4jURI  ConfigErrorCode = "missing_neo4j_uri"
	ConfigErrorInvalidNeo4jURI  ConfigErrorCode = "invalid_neo4j_uri"
	ConfigErrorNoDocuments      ConfigErrorCode = "no_documents"
	ConfigErrorInvalidBatchSize ConfigErrorCode = "invalid_batch_size"
	ConfigErrorInvalidSampler   ConfigErrorCode = "invalid_otel_sample_ratio"
	ConfigErrorRead             ConfigErrorCode = "read_failed"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid worldgraph config"
	}
	switch e.Code {
	case ConfigErrorMissingNeo4jURI:
		return "neo4j.uri is required unless ingest.dry_run is set"
	case ConfigErrorInvalidNeo4jURI:
		return fmt.Sprintf("invalid neo4j.uri=%q; expected bolt://, neo4j:// or a +s/+ssc variant", e.Value)
	case ConfigErrorNoDocuments:
		return "no world documents configured; set at least one data.* path"
	case ConfigErrorInvalidBatchSize:
		return fmt.Sprintf("invalid neo4j.batch_size=%q; expected a non-negative integer", e.Value)
	case ConfigErrorInvalidSampler:
		return fmt.Sprintf("invalid otel.sample_ratio=%q; expected a value in [0,1]", e.Value)
	case ConfigErrorRead:
		if e.Cause != nil {
			return fmt.Sprintf("read config %q: %v", e.Value, e.Cause)
		}
		return fmt.Sprintf("read config %q", e.Value)
	default:
		return "invalid worldgraph config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
