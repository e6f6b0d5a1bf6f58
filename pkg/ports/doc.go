/*
Package ports defines the driven ports of the editor.

# Key Interfaces

  - SnapshotStore: persists named, serialized documents.

RunSnapshotStoreContract is a reusable test suite every adapter runs against
its own implementation.
*/
package ports
