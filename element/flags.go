// Package element provides the generic element-mapping machinery: batch
// capability flags, field descriptors binding struct accessors to XML
// locations, the field set used for batch serialization, and the link value
// type for cross-document references.
package element

import "fmt"

// BatchFlags declares which remote operations an entity type supports.
// The flags are read once at factory construction; an entity type that
// declares nothing gets BatchNone, so a forgotten declaration fails closed
// instead of attempting an unsupported batch call against the API.
type BatchFlags uint8

const (
	// BatchCreate allows creating many records in one request.
	BatchCreate BatchFlags = 1 << iota
	// BatchGet allows retrieving many records in one request.
	BatchGet
	// BatchUpdate allows updating many records in one request.
	BatchUpdate
	// Query allows ad-hoc querying of the collection endpoint.
	Query

	// BatchNone is the fail-closed default: no batch or query support.
	BatchNone BatchFlags = 0

	// BatchAll combines every capability.
	BatchAll = BatchCreate | BatchGet | BatchUpdate | Query
)

// Validate rejects flag values with unknown bits set. A malformed
// declaration is a programming error and is surfaced at factory
// construction, not deferred to first use.
func (f BatchFlags) Validate() error {
	if f&^BatchAll != 0 {
		return fmt.Errorf("unknown batch capability bits 0b%b", uint8(f&^BatchAll))
	}
	return nil
}

// CanBatchCreate reports whether batch create is declared.
func (f BatchFlags) CanBatchCreate() bool { return f&BatchCreate != 0 }

// CanBatchGet reports whether batch retrieve is declared.
func (f BatchFlags) CanBatchGet() bool { return f&BatchGet != 0 }

// CanBatchUpdate reports whether batch update is declared.
func (f BatchFlags) CanBatchUpdate() bool { return f&BatchUpdate != 0 }

// CanQuery reports whether ad-hoc querying is declared.
func (f BatchFlags) CanQuery() bool { return f&Query != 0 }
