/*
Package domain contains the core model of a hierarchical process diagram.

A Document holds the root Process graph. Every Process and Task node carries,
in its Composite body, a complete graph one level below; Outcome nodes are
leaves. The package is pure: no I/O, no persistence.

# Key Entities

  - Level: Process, Task or Outcome, with Next() for drill-in.
  - Node: common fields plus a level-tagged Body (Composite or Outcome).
  - Edge: a connection between two nodes of the same scope.
  - Scope: one entry of the navigation stack.
  - Patch: a partial update of node data.
  - Hooks: callbacks fired by the document store.
*/
package domain
