/*
Package ports defines the driven ports (interfaces) for shapeguard.

These interfaces decouple the validator service from external implementations,
allowing named schemas to live in memory, on disk, or in Redis.

# Key Interfaces

  - SchemaStore: Responsible for persisting and loading named schemas.

RunSchemaStoreContract is a reusable test suite every SchemaStore adapter runs.
*/
package ports
