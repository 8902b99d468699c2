package store

import "codeberg.org/vintr/updatemon/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("store_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("store_invalid_db_path")

	// Storage Errors
	ErrStorageAccess    = errors.ErrorCode("store_storage_access_failed")
	ErrStorageInit      = errors.ErrorCode("store_storage_init_failed")
	ErrStorageClose     = errors.ErrorCode("store_storage_close_failed")
	ErrSchemaInitFailed = errors.ErrorCode("store_schema_init_failed")

	// Operation Errors
	ErrOperationTimeout = errors.ErrorCode("store_operation_timeout")
	ErrServiceShutdown  = errors.ErrorCode("store_service_shutdown_failed")
)
