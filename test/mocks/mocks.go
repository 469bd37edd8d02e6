// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/medicine_repository.go -destination=medicine_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/sales_repository.go -destination=sales_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/medicine_service.go -destination=medicine_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/sales_service.go -destination=sales_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/reporting_service.go -destination=reporting_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/services/types.go -destination=tx_runner_mock.go -package=mocks TxRunner
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/database.go -destination=database_mock.go -package=mocks
