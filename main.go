// Package blocktrust is a supply-chain product ledger service. The server
// entry point is cmd/server.
//
// Project Structure Overview
/*
blocktrust/
├── cmd/
│   └── server/
│       └── main.go
├── internal/
│   ├── config/
│   │   ├── config.go
│   │   └── database.go
│   ├── models/
│   │   ├── common.go
│   │   ├── participant.go
│   │   ├── product.go
│   │   └── transaction.go
│   ├── repository/
│   │   ├── repository.go
│   │   ├── memory.go
│   │   └── gorm.go
│   ├── database/
│   │   └── connection.go
│   ├── services/
│   │   ├── ledger.go
│   │   ├── ledger_writer.go
│   │   ├── role_service.go
│   │   ├── product_ledger.go
│   │   ├── transaction_log.go
│   │   ├── lifecycle_service.go
│   │   ├── pause_service.go
│   │   ├── status_policy.go
│   │   ├── projection_service.go
│   │   ├── stats_service.go
│   │   ├── auth_service.go
│   │   ├── observers.go
│   │   └── errors.go
│   ├── handlers/
│   │   ├── auth.go
│   │   ├── product.go
│   │   ├── transaction.go
│   │   ├── participant.go
│   │   ├── admin.go
│   │   └── errors.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── cors.go
│   │   ├── rate_limit.go
│   │   ├── i18n.go
│   │   └── logging.go
│   ├── metrics/
│   │   └── metrics.go
│   ├── events/
│   │   └── redis.go
│   ├── i18n/
│   │   ├── i18n.go
│   │   ├── locales/
│   │   │   ├── en.json
│   │   │   └── zh_TW.json
│   │   └── keys.go
│   ├── utils/
│   │   ├── jwt.go
│   │   ├── validator.go
│   │   ├── pagination.go
│   │   └── response.go
│   ├── router/
│   │   └── router.go
│   └── tests/
├── go.mod
└── go.sum
*/
package blocktrust
